package vango

import (
	"sync/atomic"
)

// Effect is a side effect tied to a component's commit lifecycle.
//
// Effects are created by UseLayoutEffect during render and run after the
// render has been committed, when the owner's pending effects are flushed.
// The cleanup returned by the previous run always runs before the next run
// and when the owner is disposed.
type Effect struct {
	id uint64

	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// deps are the dependencies of the last scheduled run.
	deps []any

	owner *Owner

	// pending indicates the effect is scheduled to run.
	pending atomic.Bool

	disposed atomic.Bool
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// schedule queues the effect on its owner unless it is already queued.
func (e *Effect) schedule() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) && e.owner != nil {
		e.owner.scheduleEffect(e)
	}
}

// run executes the previous cleanup, then the effect body. The body runs
// untracked: signal reads inside it do not subscribe the component.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if cleanup := e.cleanup; cleanup != nil {
		e.cleanup = nil
		cleanup()
	}

	old := setCurrentListener(nil)
	defer setCurrentListener(old)

	e.cleanup = e.fn()
}

// dispose runs the last cleanup. A disposed effect never runs again.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if cleanup := e.cleanup; cleanup != nil {
		e.cleanup = nil
		cleanup()
	}
}

// UseLayoutEffect registers fn to run after the current render is committed.
//
// deps controls re-runs:
//   - nil: fn runs after every commit
//   - empty slice: fn runs once, after the first commit
//   - otherwise: fn runs after a commit whose deps differ from the previous
//     render's deps under StrictEqual
//
// The Cleanup returned by fn runs before fn runs again and when the
// component is disposed.
//
//	vango.UseLayoutEffect(func() vango.Cleanup {
//	    onChange()
//	    return store.Subscribe(onChange)
//	}, []any{store, selector})
func UseLayoutEffect(fn func() Cleanup, deps []any) {
	owner := currentHookOwner(HookLayoutEffect)

	if slot := owner.UseHookSlot(); slot != nil {
		e := slot.(*Effect)
		if depsEqual(e.deps, deps) {
			return
		}
		e.fn = fn
		e.deps = copyDeps(deps)
		e.schedule()
		return
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		deps:  copyDeps(deps),
		owner: owner,
	}
	owner.SetHookSlot(e)
	owner.registerEffect(e)
	e.schedule()
}

// copyDeps copies deps, keeping nil distinct from empty.
func copyDeps(deps []any) []any {
	if deps == nil {
		return nil
	}
	out := make([]any, len(deps))
	copy(out, deps)
	return out
}
