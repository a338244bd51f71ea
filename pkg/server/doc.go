// Package server provides the component runtime that mounts, commits and
// updates a component tree.
//
// A Session owns one tree. Mount renders it top-down, commits the HTML and
// runs the layout effects registered during render. Effects and external
// notifications (store listeners, signal writes from other goroutines) mark
// components dirty; Flush re-renders them parent-first, commits, and runs
// the resulting effects until the tree is stable.
//
//	sess := server.NewSession(&server.SessionConfig{
//	    OnCommit: func(html string) { fmt.Println(html) },
//	})
//	if err := sess.Mount(app); err != nil {
//	    return err
//	}
//	defer sess.Unmount()
//
//	for range sess.Updates() {
//	    if err := sess.Flush(); err != nil {
//	        return err
//	    }
//	}
//
// # Reconciliation
//
// When a component re-renders, child component nodes in its output are
// matched to the existing child instances by key (vdom.Keyed), then by
// position among the unkeyed component nodes. Matched children keep their
// state and re-render with the new component value. Unmatched instances are
// disposed, which runs their effect cleanups.
//
// # Error Boundary
//
// Panics raised while rendering or running effects are recovered by Mount and
// Flush and returned as an error matching ErrComponentPanic, wrapping the
// panic value.
package server
