package reactive_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/delaneyj/signalbind/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustConvert(t testing.TB, data map[string]any, opts ...reactive.Option) *reactive.Object {
	t.Helper()
	obj, err := reactive.Convert(reactive.NewRuntime(opts...), data)
	require.NoError(t, err)
	return obj
}

// every property at every level is intercepted
func TestConvertNested(t *testing.T) {
	root := mustConvert(t, map[string]any{
		"count": 5,
		"empty": nil,
		"user": map[string]any{
			"name": "ada",
			"address": map[string]any{
				"city": "london",
			},
		},
		"tags": []any{"a", map[string]any{"b": 1}},
	})

	assert.Equal(t, []string{"count", "empty", "tags", "user"}, root.Keys())
	assert.Equal(t, 5, root.Get("count"))
	assert.Nil(t, root.Get("empty"))
	assert.NotNil(t, root.Dep("empty"))

	user, ok := root.Get("user").(*reactive.Object)
	require.True(t, ok)
	assert.Equal(t, "ada", user.Get("name"))

	address, ok := user.Get("address").(*reactive.Object)
	require.True(t, ok)
	assert.Equal(t, "london", address.Get("city"))
	assert.NotNil(t, address.Dep("city"))

	tags, ok := root.Get("tags").([]any)
	require.True(t, ok)
	assert.Equal(t, "a", tags[0])
	inner, ok := tags[1].(*reactive.Object)
	require.True(t, ok)
	assert.Equal(t, 1, inner.Get("b"))
}

// conversion copies slices instead of rewriting the caller's data
func TestConvertLeavesInputSlice(t *testing.T) {
	tags := []any{map[string]any{"b": 1}}
	mustConvert(t, map[string]any{"tags": tags})

	_, isMap := tags[0].(map[string]any)
	assert.True(t, isMap)
}

func TestConvertNil(t *testing.T) {
	_, err := reactive.Convert(reactive.NewRuntime(), nil)
	assert.ErrorIs(t, err, reactive.ErrNotObservable)
}

// a read with an empty register subscribes nothing
func TestUntrackedReadRegistersNothing(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	assert.Equal(t, 1, root.Get("count"))
	assert.Equal(t, 0, root.Dep("count").Len())

	require.NoError(t, root.Set("count", 2))
	assert.Equal(t, 2, root.Get("count"))
	assert.Equal(t, 0, root.Dep("count").Len())
}

// writing the stored value is a no-op
func TestEqualWriteDoesNotNotify(t *testing.T) {
	user := map[string]any{"name": "ada"}
	tags := []any{"a", "b"}
	root := mustConvert(t, map[string]any{"count": 1, "user": user, "tags": tags, "other": nil})

	calls := 0
	w, err := reactive.NewWatcher(root, "count", func(any) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	require.NoError(t, root.Set("count", 1))
	assert.Equal(t, 1, calls)

	userCalls := 0
	uw, err := reactive.NewWatcher(root, "user", func(any) { userCalls++ })
	require.NoError(t, err)
	require.NoError(t, root.Set("user", root.Peek("user")))
	assert.Equal(t, 1, userCalls)

	// the maps and slices handed to Convert
	stored := root.Peek("user")
	require.NoError(t, root.Set("user", user))
	assert.Equal(t, 1, userCalls)
	assert.Same(t, stored, root.Peek("user"))

	tagCalls := 0
	tw, err := reactive.NewWatcher(root, "tags", func(any) { tagCalls++ })
	require.NoError(t, err)
	require.NoError(t, root.Set("tags", tags))
	assert.Equal(t, 1, tagCalls)

	// a map or slice written through Set, then written again
	otherCalls := 0
	ow, err := reactive.NewWatcher(root, "other", func(any) { otherCalls++ })
	require.NoError(t, err)
	m := map[string]any{"name": "grace"}
	require.NoError(t, root.Set("other", m))
	assert.Equal(t, 2, otherCalls)
	written := root.Peek("other")
	require.NoError(t, root.Set("other", m))
	assert.Equal(t, 2, otherCalls)
	assert.Same(t, written, root.Peek("other"))

	s := []any{1, map[string]any{"x": 1}}
	require.NoError(t, root.Set("other", s))
	assert.Equal(t, 3, otherCalls)
	require.NoError(t, root.Set("other", s))
	assert.Equal(t, 3, otherCalls)

	// a different map with equal contents is a new value
	require.NoError(t, root.Set("user", map[string]any{"name": "ada"}))
	assert.Equal(t, 2, userCalls)

	runtime.KeepAlive(w)
	runtime.KeepAlive(uw)
	runtime.KeepAlive(tw)
	runtime.KeepAlive(ow)
}

// a differing write reapplies every subscriber once, in order, before returning
func TestWriteNotifiesSubscribersInOrder(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	var order []string
	var seen []any
	first, err := reactive.NewWatcher(root, "count", func(v any) {
		order = append(order, "first")
		seen = append(seen, v)
	})
	require.NoError(t, err)
	second, err := reactive.NewWatcher(root, "count", func(v any) {
		order = append(order, "second")
		seen = append(seen, v)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, root.Dep("count").Len())

	order, seen = nil, nil
	require.NoError(t, root.Set("count", 7))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, []any{7, 7}, seen)
	assert.Equal(t, 7, first.Value())
	assert.Equal(t, 7, second.Value())

	order = nil
	require.NoError(t, root.Set("count", 8))
	require.NoError(t, root.Set("count", 9))
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
	runtime.KeepAlive(first)
	runtime.KeepAlive(second)
}

// watchers only hear about the key they read
func TestWatcherIsolatedPerKey(t *testing.T) {
	root := mustConvert(t, map[string]any{"a": 1, "b": 1})

	calls := 0
	w, err := reactive.NewWatcher(root, "a", func(any) { calls++ })
	require.NoError(t, err)

	require.NoError(t, root.Set("b", 2))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, root.Dep("b").Len())
	runtime.KeepAlive(w)
}

// objects assigned later become observable
func TestAssignedObjectIsConverted(t *testing.T) {
	root := mustConvert(t, map[string]any{"user": nil})

	require.NoError(t, root.Set("user", map[string]any{"name": "ada"}))
	user, ok := root.Get("user").(*reactive.Object)
	require.True(t, ok)

	var names []any
	w, err := reactive.NewWatcher(user, "name", func(v any) { names = append(names, v) })
	require.NoError(t, err)
	require.NoError(t, user.Set("name", "grace"))
	assert.Equal(t, []any{"ada", "grace"}, names)
	runtime.KeepAlive(w)
}

// registering the same subscriber twice keeps a single entry
func TestDuplicateRegistrationIsDeduplicated(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	calls := 0
	w, err := reactive.NewWatcher(root, "count", func(any) { calls++ })
	require.NoError(t, err)

	dep := root.Dep("count")
	dep.AddSubscriber(w)
	dep.AddSubscriber(w)
	assert.Equal(t, 1, dep.Len())

	require.NoError(t, root.Set("count", 2))
	assert.Equal(t, 2, calls)
	runtime.KeepAlive(w)
}

// disposed watchers stop receiving updates and leave the registry
func TestDisposeDropsSubscriber(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	calls := 0
	w, err := reactive.NewWatcher(root, "count", func(any) { calls++ })
	require.NoError(t, err)
	keep, err := reactive.NewWatcher(root, "count", func(any) {})
	require.NoError(t, err)

	w.Dispose()
	assert.True(t, w.Disposed())
	assert.Equal(t, 1, root.Dep("count").Len())

	require.NoError(t, root.Set("count", 2))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, root.Dep("count").Len())
	runtime.KeepAlive(keep)
}

// a subscriber writing the value it just received terminates
func TestWriteBackFromSubscriberTerminates(t *testing.T) {
	root := mustConvert(t, map[string]any{"msg": "hi"})

	calls := 0
	var w *reactive.Watcher
	w, err := reactive.NewWatcher(root, "msg", func(v any) {
		calls++
		if w != nil {
			require.NoError(t, root.Set("msg", v))
		}
	})
	require.NoError(t, err)

	require.NoError(t, root.Set("msg", "bye"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "bye", root.Peek("msg"))
	runtime.KeepAlive(w)
}

func TestSetUnknownKey(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	err := root.Set("missing", 1)
	assert.ErrorIs(t, err, reactive.ErrUnknownKey)
	assert.False(t, root.Has("missing"))
	assert.Nil(t, root.Get("missing"))
	assert.Nil(t, root.Dep("missing"))
}

// watching a key the object does not own reads nil and subscribes nothing
func TestWatchUnknownKey(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 1})

	var got []any
	w, err := reactive.NewWatcher(root, "missing", func(v any) { got = append(got, v) })
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, got)
	assert.Equal(t, "missing", w.Key())
}

// a map referenced twice converts to one shared object
func TestSharedMapConvertsOnce(t *testing.T) {
	shared := map[string]any{"n": 1}
	root := mustConvert(t, map[string]any{"a": shared, "b": shared})

	a := root.Get("a").(*reactive.Object)
	b := root.Get("b").(*reactive.Object)
	assert.Same(t, a, b)
}

func TestCycleDetection(t *testing.T) {
	cyclic := map[string]any{"name": "loop"}
	cyclic["self"] = cyclic

	t.Run("rejected by default", func(t *testing.T) {
		_, err := reactive.Convert(reactive.NewRuntime(), cyclic)
		assert.ErrorIs(t, err, reactive.ErrCycle)
	})

	t.Run("linked when disabled", func(t *testing.T) {
		root := mustConvert(t, cyclic, reactive.WithCycleDetection(false))
		self := root.Get("self").(*reactive.Object)
		assert.Same(t, root, self)
		assert.Equal(t, "{name: loop, self: {...}}", root.String())
	})

	t.Run("self containing slice hits depth bound", func(t *testing.T) {
		items := []any{1}
		items[0] = items
		_, err := reactive.Convert(
			reactive.NewRuntime(reactive.WithCycleDetection(false), reactive.WithMaxDepth(8)),
			map[string]any{"items": items},
		)
		assert.ErrorIs(t, err, reactive.ErrMaxDepth)
	})

	t.Run("assigned cycle is rejected", func(t *testing.T) {
		root := mustConvert(t, map[string]any{"next": nil})
		err := root.Set("next", cyclic)
		assert.ErrorIs(t, err, reactive.ErrCycle)
		assert.Nil(t, root.Peek("next"))
	})
}

func TestMaxDepth(t *testing.T) {
	deep := map[string]any{}
	cur := deep
	for i := 0; i < 5; i++ {
		next := map[string]any{}
		cur["child"] = next
		cur = next
	}

	_, err := reactive.Convert(reactive.NewRuntime(reactive.WithMaxDepth(3)), deep)
	assert.ErrorIs(t, err, reactive.ErrMaxDepth)

	_, err = reactive.Convert(reactive.NewRuntime(reactive.WithMaxDepth(5)), deep)
	assert.NoError(t, err)
}

func TestObjectString(t *testing.T) {
	root := mustConvert(t, map[string]any{"count": 5, "user": map[string]any{"name": "ada"}})
	assert.Equal(t, "{count: 5, user: {name: ada}}", root.String())
}

func BenchmarkPropagate(b *testing.B) {
	for _, width := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("width=%d", width), func(b *testing.B) {
			root := mustConvert(b, map[string]any{"count": 0})
			watchers := make([]*reactive.Watcher, 0, width)
			for i := 0; i < width; i++ {
				w, err := reactive.NewWatcher(root, "count", func(any) {})
				require.NoError(b, err)
				watchers = append(watchers, w)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := root.Set("count", i+1); err != nil {
					b.Fatal(err)
				}
			}
			runtime.KeepAlive(watchers)
		})
	}
}
