package reactive

import "fmt"

type UpdateFunc func(value any)

// Watcher binds one key of an Object to an update callback.
//
// Deps reference watchers weakly, so the caller has to keep the Watcher
// reachable for as long as it should receive updates.
type Watcher struct {
	obj      *Object
	key      string
	fn       UpdateFunc
	value    any
	disposed bool
}

// NewWatcher reads obj[key] with the watcher in the active-subscriber
// register, which subscribes it to the key, then calls fn once with the value
// read.
func NewWatcher(obj *Object, key string, fn UpdateFunc) (*Watcher, error) {
	w := &Watcher{
		obj: obj,
		key: key,
		fn:  fn,
	}
	if err := obj.rt.track(w, func() {
		w.value = obj.Get(key)
	}); err != nil {
		return nil, fmt.Errorf("watch %q: %w", key, err)
	}
	fn(w.value)
	return w, nil
}

func (w *Watcher) Key() string {
	return w.key
}

// Value returns the value passed to the last callback.
func (w *Watcher) Value() any {
	return w.value
}

// Reapply re-reads the key without tracking and calls the callback with the
// fresh value, whether or not it changed.
func (w *Watcher) Reapply() {
	if w.disposed {
		return
	}
	w.value = w.obj.Peek(w.key)
	w.fn(w.value)
}

// Dispose stops the watcher. Deps drop it on their next notification.
func (w *Watcher) Dispose() {
	w.disposed = true
	w.fn = nil
	w.value = nil
}

func (w *Watcher) Disposed() bool {
	return w.disposed
}
