// Package vdom defines the virtual node tree rendered by prsh components.
//
// A component is anything with a Render() *VNode method; Func adapts a plain
// render function. Element builders accept attributes, child nodes, strings
// and components in any order:
//
//	vdom.Div(vdom.Class("counter"),
//	    vdom.H1("Counter"),
//	    vdom.Textf("Count: %d", count),
//	    vdom.Func(Details),
//	)
//
// Component children are mounted by the runtime as child components with
// their own scope. Keyed wraps a component with a reconciliation key so it
// keeps its state when siblings are added or removed before it.
package vdom
