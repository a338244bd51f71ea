// Package prsh binds components to a reducer store through selectors.
//
// A component reads a derived value from the store with UseSelector. It
// re-renders when the selected value changes under strict equality, and only
// then:
//
//	var Counter = prsh.NewStoreContext[counter.State]()
//
//	func selectCount(s counter.State) int { return s.Count }
//
//	func CountLabel() *vdom.VNode {
//	    count := prsh.UseSelector(Counter, selectCount)
//	    return vdom.Textf("Count: %d", count)
//	}
//
//	func App(s prsh.Store[counter.State]) vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        return Counter.Provider(s, vdom.Func(CountLabel))
//	    })
//	}
//
// The selector is computed once when the component mounts. After every
// commit in which the store or the selector changed, a layout effect
// recomputes it, so changes made between render and subscription are not
// missed, and then subscribes to the store. The subscription is released
// before the next re-subscription and when the component unmounts.
//
// Selectors are compared by identity. A function literal written inside the
// component is a new selector on every render and is recomputed after every
// commit; a top-level function or one kept with vango.UseMemo is not.
package prsh
