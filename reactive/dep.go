package reactive

import (
	"weak"

	mapset "github.com/deckarep/golang-set/v2"
)

// Dep is the subscriber registry of a single observable property.
//
// Subscribers are held through weak pointers: whoever created a Watcher keeps
// it alive (a DOM node, usually), and the registry forgets it once it is
// collected or disposed.
type Dep struct {
	rt   *Runtime
	key  string
	subs []weak.Pointer[Watcher]
	// membership only, order lives in subs
	seen mapset.Set[weak.Pointer[Watcher]]
}

func newDep(rt *Runtime, key string) *Dep {
	return &Dep{
		rt:   rt,
		key:  key,
		seen: mapset.NewThreadUnsafeSet[weak.Pointer[Watcher]](),
	}
}

// AddSubscriber registers w. Adding an already registered subscriber is a no-op.
func (d *Dep) AddSubscriber(w *Watcher) {
	if w == nil {
		return
	}
	p := weak.Make(w)
	if d.seen.Contains(p) {
		return
	}
	d.seen.Add(p)
	d.subs = append(d.subs, p)
}

// Notify reapplies every live subscriber in registration order.
func (d *Dep) Notify() {
	// a reapply may write back into this property and notify again
	subs := make([]weak.Pointer[Watcher], len(d.subs))
	copy(subs, d.subs)

	stale := 0
	for _, p := range subs {
		w := p.Value()
		if w == nil || w.disposed {
			stale++
			continue
		}
		w.Reapply()
	}
	if stale > 0 {
		d.prune()
	}
}

// Len returns the number of live subscribers.
func (d *Dep) Len() int {
	n := 0
	for _, p := range d.subs {
		if w := p.Value(); w != nil && !w.disposed {
			n++
		}
	}
	return n
}

func (d *Dep) prune() {
	live := d.subs[:0]
	for _, p := range d.subs {
		if w := p.Value(); w != nil && !w.disposed {
			live = append(live, p)
			continue
		}
		d.seen.Remove(p)
	}
	clear(d.subs[len(live):])
	pruned := len(d.subs) - len(live)
	d.subs = live
	d.rt.logger.Debug("pruned subscribers", "key", d.key, "count", pruned)
}
