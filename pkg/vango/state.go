package vango

// stateSlot is the hook slot stored by UseState.
type stateSlot[T any] struct {
	signal *Signal[T]
	set    func(T)
}

// UseState returns the component's state value and a setter.
//
// init runs once, on the first render, to compute the initial value. Reading
// the state subscribes the rendering component, so a setter call with a value
// that differs under StrictEqual re-renders it. The setter is stable across
// renders and safe to call from any goroutine.
//
//	count, setCount := vango.UseState(func() int { return 0 })
func UseState[T any](init func() T) (T, func(T)) {
	owner := currentHookOwner(HookState)

	if slot := owner.UseHookSlot(); slot != nil {
		st := slot.(*stateSlot[T])
		return st.signal.Get(), st.set
	}

	sig := NewSignal(init())
	st := &stateSlot[T]{signal: sig, set: sig.Set}
	owner.SetHookSlot(st)

	return sig.Get(), st.set
}
