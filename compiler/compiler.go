package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/delaneyj/signalbind/dom"
	"github.com/delaneyj/signalbind/reactive"
)

var ErrNilRoot = errors.New("nil root")

// interpolation matches the first {{ key }} marker in a text node.
var interpolation = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Compiler binds interpolations and directives in a DOM subtree to an
// observable object.
type Compiler struct {
	data   *reactive.Object
	logger *slog.Logger
}

type Option func(*Compiler)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(data *reactive.Object, opts ...Option) *Compiler {
	c := &Compiler{
		data:   data,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile walks every descendant of root. Each binding becomes a watcher
// owned by its node, so detaching the node releases it. Compiling the same
// subtree twice binds it twice.
func (c *Compiler) Compile(root *dom.Node) error {
	if root == nil || c.data == nil {
		return ErrNilRoot
	}
	for _, n := range root.Children() {
		switch n.Type {
		case dom.TextNode:
			if err := c.compileText(n); err != nil {
				return fmt.Errorf("compile %s: %w", n.Path(), err)
			}
		case dom.ElementNode:
			if err := c.compileElement(n); err != nil {
				return fmt.Errorf("compile %s: %w", n.Path(), err)
			}
		}
		if n.HasChildren() {
			if err := c.Compile(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileText binds the first interpolation marker only; any later markers
// stay literal. The first update replaces the marker in place, later ones
// overwrite the whole text.
func (c *Compiler) compileText(n *dom.Node) error {
	text := n.TextContent()
	loc := interpolation.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	key := strings.TrimSpace(text[loc[2]:loc[3]])

	initial := true
	w, err := reactive.NewWatcher(c.data, key, func(v any) {
		if initial {
			initial = false
			n.SetTextContent(text[:loc[0]] + toText(v) + text[loc[1]:])
			return
		}
		n.SetTextContent(toText(v))
	})
	if err != nil {
		return err
	}
	n.Own(w)
	return nil
}

func (c *Compiler) compileElement(n *dom.Node) error {
	for _, attr := range n.Attrs {
		d, ok := ParseDirective(attr.Name)
		if !ok {
			continue
		}
		key := strings.TrimSpace(attr.Value)
		fn, ok := lookupUpdater(d)
		if !ok {
			c.logger.Warn("unknown directive",
				"directive", strings.TrimPrefix(attr.Name, DirectivePrefix),
				"attr", attr.Name,
				"node", n.Path(),
				"key", key,
			)
			continue
		}
		if err := fn(c, n, key); err != nil {
			return fmt.Errorf("%s=%q: %w", attr.Name, attr.Value, err)
		}
	}
	return nil
}
