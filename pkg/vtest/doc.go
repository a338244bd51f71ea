// Package vtest provides testing helpers for prsh components.
//
// # Quick Start
//
// Render mounts a component in a fresh server.Session and unmounts it when
// the test ends. Act runs a function, then flushes the renders and effects
// it caused, so assertions see the committed result:
//
//	func TestCounter(t *testing.T) {
//	    s := store.New(counter.Reduce, counter.State{})
//	    root := vtest.Render(t, counter.App(s))
//	    root.ExpectContains("Count: 0")
//
//	    root.Act(func() {
//	        s.Dispatch(counter.Increment{})
//	    })
//	    root.ExpectContains("Count: 1")
//	}
//
// # Render Assertions
//
// Assert on the HTML of a plain VNode:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectNotContains(t, node, "Error")
package vtest
