// Package app mounts observable data onto an element of a document: it
// resolves the mount element, converts the data and compiles the element.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/delaneyj/signalbind/compiler"
	"github.com/delaneyj/signalbind/dom"
	"github.com/delaneyj/signalbind/reactive"
)

var ErrNoElement = errors.New("mount element not found")

type Options struct {
	// El selects the mount element ("#app", ".root" or a tag name). Empty
	// mounts the document itself.
	El      string
	Data    map[string]any
	Logger  *slog.Logger
	Runtime []reactive.Option
}

type App struct {
	el   *dom.Node
	data *reactive.Object
}

func New(doc *dom.Node, opts Options) (*App, error) {
	el := doc
	if opts.El != "" {
		el = doc.QuerySelector(opts.El)
		if el == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoElement, opts.El)
		}
	}

	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	rtOpts := opts.Runtime
	if opts.Logger != nil {
		rtOpts = append([]reactive.Option{reactive.WithLogger(opts.Logger)}, rtOpts...)
	}
	obj, err := reactive.Convert(reactive.NewRuntime(rtOpts...), data)
	if err != nil {
		return nil, fmt.Errorf("observe data: %w", err)
	}

	c := compiler.New(obj, compiler.WithLogger(opts.Logger))
	if err := c.Compile(el); err != nil {
		return nil, fmt.Errorf("mount %q: %w", opts.El, err)
	}

	return &App{el: el, data: obj}, nil
}

func (a *App) El() *dom.Node {
	return a.el
}

func (a *App) Data() *reactive.Object {
	return a.data
}

// Get reads a top-level data key.
func (a *App) Get(key string) any {
	return a.data.Get(key)
}

// Set writes a top-level data key.
func (a *App) Set(key string, value any) error {
	return a.data.Set(key, value)
}
