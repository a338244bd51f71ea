package vango

import "sync/atomic"

// testListener counts MarkDirty calls.
type testListener struct {
	id    uint64
	dirty atomic.Int32
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() { l.dirty.Add(1) }
func (l *testListener) ID() uint64 { return l.id }

// renderIn runs fn as a render of owner, tracked by l.
func renderIn(owner *Owner, l Listener, fn func()) {
	WithOwner(owner, func() {
		WithListener(l, func() {
			owner.StartRender()
			defer owner.EndRender()
			fn()
		})
	})
}
