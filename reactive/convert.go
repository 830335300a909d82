package reactive

import (
	"fmt"
	"reflect"
	"slices"
)

// Convert turns data into an observable Object. Nested maps become Objects;
// slices are copied and their map elements converted, but the slices
// themselves are not intercepted.
//
// The traversal uses an explicit worklist. A map referenced from several
// places converts to a single shared Object.
func Convert(rt *Runtime, data map[string]any) (*Object, error) {
	if data == nil {
		return nil, fmt.Errorf("convert: %w", ErrNotObservable)
	}
	v, err := rt.convert(data)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return v.(*Object), nil
}

// observe converts v if it is structured and returns it unchanged otherwise.
func (rt *Runtime) observe(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return v, nil
		}
		return rt.convert(v)
	case []any:
		if x == nil {
			return v, nil
		}
		return rt.convert(v)
	}
	return v, nil
}

type frame struct {
	parent *frame
	id     uintptr
	depth  int

	obj   *Object
	data  map[string]any
	items []any
}

type converter struct {
	rt    *Runtime
	stack []*frame
	seen  map[uintptr]*Object
}

func (rt *Runtime) convert(v any) (any, error) {
	c := &converter{
		rt:   rt,
		seen: map[uintptr]*Object{},
	}
	root, err := c.value(v, nil)
	if err != nil {
		return nil, err
	}

	for len(c.stack) > 0 {
		f := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		if f.obj != nil {
			keys := make([]string, 0, len(f.data))
			for k := range f.data {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				cv, err := c.value(f.data[k], f)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", k, err)
				}
				f.obj.define(k, cv, f.data[k])
			}
			continue
		}

		for i, item := range f.items {
			cv, err := c.value(item, f)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			f.items[i] = cv
		}
	}
	return root, nil
}

func (c *converter) value(v any, parent *frame) (any, error) {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}

	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return v, nil
		}
		id := reflect.ValueOf(x).Pointer()
		if c.rt.detectCycles && parent.hasAncestor(id) {
			return nil, ErrCycle
		}
		if obj, ok := c.seen[id]; ok {
			return obj, nil
		}
		if depth > c.rt.maxDepth {
			return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, c.rt.maxDepth)
		}
		obj := newObject(c.rt, len(x))
		c.seen[id] = obj
		c.stack = append(c.stack, &frame{parent: parent, id: id, depth: depth, obj: obj, data: x})
		return obj, nil

	case []any:
		if x == nil {
			return v, nil
		}
		var id uintptr
		if len(x) > 0 {
			id = reflect.ValueOf(x).Pointer()
			if c.rt.detectCycles && parent.hasAncestor(id) {
				return nil, ErrCycle
			}
		}
		if depth > c.rt.maxDepth {
			return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, c.rt.maxDepth)
		}
		items := slices.Clone(x)
		c.stack = append(c.stack, &frame{parent: parent, id: id, depth: depth, items: items})
		return items, nil
	}
	return v, nil
}

func (f *frame) hasAncestor(id uintptr) bool {
	for ; f != nil; f = f.parent {
		if f.id != 0 && f.id == id {
			return true
		}
	}
	return false
}
