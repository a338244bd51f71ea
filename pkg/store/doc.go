// Package store implements a reducer-based state container.
//
// A Store holds one state value of type S. The only way to change it is to
// dispatch an action of type A; the store's Reducer computes the next state
// from the current state and the action. Every dispatch notifies the
// subscribed listeners once.
//
//	type CounterAction int
//
//	s := store.New(func(n int, a CounterAction) int {
//	    return n + int(a)
//	}, 0)
//
//	unsubscribe := s.Subscribe(func() {
//	    fmt.Println("count:", s.GetState())
//	})
//	defer unsubscribe()
//
//	s.Dispatch(1)
//
// # Notification rounds
//
// Listeners run after the reducer, outside the store lock. Rounds never
// overlap: a dispatch made while listeners are running (from a listener or
// from another goroutine) queues one more round, which runs when the current
// one finishes. Each round works on a snapshot of the listener list, and a
// listener unsubscribed after the snapshot is skipped.
//
// # Middleware
//
// Middleware wraps Dispatch, in the order given to WithMiddleware (the first
// middleware sees the action first):
//
//	s := store.New(reducer, initial, store.WithMiddleware(
//	    middleware.Logger(logger),
//	    middleware.Prometheus[State, Action](),
//	))
package store
