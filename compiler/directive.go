package compiler

import (
	"fmt"
	"strings"

	"github.com/delaneyj/signalbind/dom"
	"github.com/delaneyj/signalbind/reactive"
)

// DirectivePrefix marks an attribute as a directive, e.g. v-text="msg".
const DirectivePrefix = "v-"

// Directive is the closed set of directive kinds.
type Directive uint8

const (
	DirectiveUnknown Directive = iota
	DirectiveText
	DirectiveModel
)

var directiveNames = map[string]Directive{
	"text":  DirectiveText,
	"model": DirectiveModel,
}

func (d Directive) String() string {
	switch d {
	case DirectiveText:
		return "text"
	case DirectiveModel:
		return "model"
	default:
		return "unknown"
	}
}

// ParseDirective reports whether attr is a directive and, if so, its kind.
// Prefixed attributes with an unrecognised kind are DirectiveUnknown.
func ParseDirective(attr string) (Directive, bool) {
	kind, ok := strings.CutPrefix(attr, DirectivePrefix)
	if !ok {
		return DirectiveUnknown, false
	}
	return directiveNames[kind], true
}

type updater func(c *Compiler, n *dom.Node, key string) error

// DirectiveUnknown has no entry and resolves to a nil updater.
var updaters = [...]updater{
	DirectiveText:  textUpdater,
	DirectiveModel: modelUpdater,
}

func lookupUpdater(d Directive) (updater, bool) {
	if int(d) >= len(updaters) {
		return nil, false
	}
	fn := updaters[d]
	return fn, fn != nil
}

func textUpdater(c *Compiler, n *dom.Node, key string) error {
	w, err := reactive.NewWatcher(c.data, key, func(v any) {
		n.SetTextContent(toText(v))
	})
	if err != nil {
		return err
	}
	n.Own(w)
	return nil
}

func modelUpdater(c *Compiler, n *dom.Node, key string) error {
	w, err := reactive.NewWatcher(c.data, key, func(v any) {
		n.SetValue(toText(v))
	})
	if err != nil {
		return err
	}
	n.Own(w)

	n.AddEventListener("input", func(e *dom.Event) {
		if err := c.data.Set(key, e.Target.Value()); err != nil {
			c.logger.Error("model write failed", "key", key, "node", n.Path(), "error", err)
		}
	})
	return nil
}

// toText formats a value for text content and form values.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
