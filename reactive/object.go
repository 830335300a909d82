package reactive

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// property keeps the raw value it was converted from so writing the same
// map or slice again is recognised as unchanged.
type property struct {
	value any
	src   any
	dep   *Dep
}

// Object is a converted structured value. Every key it owns is backed by a
// property slot and one Dep; reads register the active subscriber and
// writes notify.
type Object struct {
	rt    *Runtime
	keys  []string
	props map[string]*property
}

func newObject(rt *Runtime, size int) *Object {
	return &Object{
		rt:    rt,
		keys:  make([]string, 0, size),
		props: make(map[string]*property, size),
	}
}

func (o *Object) define(key string, value, src any) {
	if p, ok := o.props[key]; ok {
		p.value, p.src = value, src
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = &property{value: value, src: src, dep: newDep(o.rt, key)}
}

func (o *Object) Runtime() *Runtime {
	return o.rt
}

// Keys returns the owned keys in sorted order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Get returns the value stored under key, registering the active subscriber
// (if any) with the key's Dep. Unknown keys read as nil and register nothing.
func (o *Object) Get(key string) any {
	p, ok := o.props[key]
	if !ok {
		return nil
	}
	if w := o.rt.activeSub; w != nil {
		p.dep.AddSubscriber(w)
	}
	return p.value
}

// Peek returns the value stored under key without registering a dependency.
func (o *Object) Peek(key string) any {
	if p, ok := o.props[key]; ok {
		return p.value
	}
	return nil
}

// Set stores value under key. A value equal to the stored one, or the very
// map or slice it was converted from, is ignored.
// Otherwise the value is stored, converted if structured, and every
// subscriber of the key is reapplied before Set returns.
func (o *Object) Set(key string, value any) error {
	p, ok := o.props[key]
	if !ok {
		return fmt.Errorf("set %q: %w", key, ErrUnknownKey)
	}
	if sameValue(p.value, value) || sameValue(p.src, value) {
		return nil
	}
	converted, err := o.rt.observe(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	p.value, p.src = converted, value
	p.dep.Notify()
	return nil
}

// Dep returns the registry backing key, or nil for an unknown key.
func (o *Object) Dep(key string) *Dep {
	if p, ok := o.props[key]; ok {
		return p.dep
	}
	return nil
}

func (o *Object) String() string {
	var sb strings.Builder
	o.format(&sb, map[*Object]bool{})
	return sb.String()
}

func (o *Object) format(sb *strings.Builder, visiting map[*Object]bool) {
	if visiting[o] {
		sb.WriteString("{...}")
		return
	}
	visiting[o] = true
	defer delete(visiting, o)

	sb.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key)
		sb.WriteString(": ")
		if child, ok := o.props[key].value.(*Object); ok {
			child.format(sb, visiting)
			continue
		}
		fmt.Fprint(sb, o.props[key].value)
	}
	sb.WriteByte('}')
}

// sameValue is strict equality: == for comparable values, identity for
// objects, maps, slices and funcs.
func sameValue(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !ta.Comparable() {
		return false
	}
	// structs and arrays can still hold uncomparable values in interface fields
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
