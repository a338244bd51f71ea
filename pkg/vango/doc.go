// Package vango provides the component runtime primitives used by prsh.
//
// Components render inside an Owner. The Owner gives hooks a stable slot per
// call site, collects effects and cleanups, and carries context values for
// its descendants. Disposing an Owner disposes everything it owns.
//
// # Hooks
//
// UseState holds a value across renders and re-renders the component when a
// new value is set:
//
//	count, setCount := vango.UseState(func() int { return 0 })
//
// UseLayoutEffect runs after the rendered output has been committed. It
// re-runs only when one of its dependencies changed, and its cleanup runs
// before the next run and when the component is disposed:
//
//	vango.UseLayoutEffect(func() vango.Cleanup {
//	    unsubscribe := store.Subscribe(onChange)
//	    return unsubscribe
//	}, []any{store})
//
// Context[T] passes a value to every descendant without threading it through
// each component:
//
//	var Theme = vango.CreateContext("light")
//
//	Theme.Provider("dark", Page())   // in a parent render
//	theme := Theme.Use()             // in any descendant render
//
// # Equality
//
// State changes are gated by StrictEqual: == for comparable values and
// identity for slices, maps and funcs. There is no deep comparison.
//
// # Thread Safety
//
// Signals can be set from any goroutine. The tracking context (current owner
// and listener) is per goroutine, so rendering happens on the goroutine that
// called WithOwner.
package vango
