package vango

// memoSlot is the hook slot stored by UseMemo.
type memoSlot[T any] struct {
	value T
	deps  []any
}

// UseMemo returns the value computed by compute, recomputing it only when
// deps differ under StrictEqual from the previous render. nil deps recompute
// on every render.
//
//	selectScaled := vango.UseMemo(func() func(int) int {
//	    return func(n int) int { return n * multiplier }
//	}, []any{multiplier})
func UseMemo[T any](compute func() T, deps []any) T {
	owner := currentHookOwner(HookMemo)

	if slot := owner.UseHookSlot(); slot != nil {
		m, ok := slot.(*memoSlot[T])
		if !ok {
			panic("vango: hook slot type mismatch for UseMemo")
		}
		if !depsEqual(m.deps, deps) {
			m.value = compute()
			m.deps = copyDeps(deps)
		}
		return m.value
	}

	m := &memoSlot[T]{value: compute(), deps: copyDeps(deps)}
	owner.SetHookSlot(m)
	return m.value
}
