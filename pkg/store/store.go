package store

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/prsh/internal/errors"
	"github.com/vango-dev/prsh/internal/goid"
)

// Reducer computes the next state from the current state and an action.
// It must be pure: no dispatching, no subscribing, no reading the store.
type Reducer[S, A any] func(state S, action A) S

// DispatchFunc is one link of the dispatch chain.
type DispatchFunc[A any] func(action A) error

// API is the view of the store handed to middleware.
type API[S, A any] interface {
	GetState() S

	// Dispatch sends an action through the whole middleware chain.
	Dispatch(action A) error
}

// Middleware wraps the dispatch chain.
//
//	func Trace[S, A any](api store.API[S, A]) func(store.DispatchFunc[A]) store.DispatchFunc[A] {
//	    return func(next store.DispatchFunc[A]) store.DispatchFunc[A] {
//	        return func(action A) error {
//	            log.Println("before", api.GetState())
//	            err := next(action)
//	            log.Println("after", api.GetState())
//	            return err
//	        }
//	    }
//	}
type Middleware[S, A any] func(api API[S, A]) func(next DispatchFunc[A]) DispatchFunc[A]

// subscription is one registered listener.
type subscription struct {
	fn     func()
	active atomic.Bool
}

// Store is a reducer-based state container. It is safe for concurrent use.
type Store[S, A any] struct {
	// mu guards state, reducer and listeners.
	mu        sync.RWMutex
	state     S
	reducer   Reducer[S, A]
	listeners []*subscription

	// reduceMu serializes reducer runs. reducingGID is the goroutine running
	// the reducer, 0 when none.
	reduceMu    sync.Mutex
	reducingGID atomic.Uint64

	// notifyMu guards the notification round bookkeeping.
	notifyMu      sync.Mutex
	pendingRounds int
	notifying     bool

	dispatch DispatchFunc[A]
	logger   *slog.Logger
}

// New creates a store with the given reducer and initial state.
// It panics with ErrNilReducer if reducer is nil.
func New[S, A any](reducer Reducer[S, A], preloaded S, opts ...Option[S, A]) *Store[S, A] {
	if reducer == nil {
		panic(errors.New("E100").WithSuggestion("Pass a reducer function to store.New"))
	}

	o := options[S, A]{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &Store[S, A]{
		state:   preloaded,
		reducer: reducer,
		logger:  o.logger,
	}

	dispatch := DispatchFunc[A](s.baseDispatch)
	for i := len(o.middleware) - 1; i >= 0; i-- {
		dispatch = o.middleware[i](s)(dispatch)
	}
	s.dispatch = dispatch

	s.logger.Debug("store created", "middleware", len(o.middleware))
	return s
}

// GetState returns the current state.
func (s *Store[S, A]) GetState() S {
	s.checkNotReducing("GetState")

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch sends action through the middleware chain to the reducer, then
// notifies listeners. It returns ErrReducerDispatch when called from a
// reducer, and any error returned by middleware.
func (s *Store[S, A]) Dispatch(action A) error {
	return s.dispatch(action)
}

// baseDispatch is the innermost link of the chain.
func (s *Store[S, A]) baseDispatch(action A) error {
	if s.isReducing() {
		return errors.New("E101").WithDetail(fmt.Sprintf(
			"action %s dispatched from inside a reducer", ActionType(action)))
	}

	s.reduce(action)
	s.notify()
	return nil
}

// reduce runs the reducer under reduceMu and stores the result.
func (s *Store[S, A]) reduce(action A) {
	s.reduceMu.Lock()
	defer s.reduceMu.Unlock()

	s.mu.RLock()
	state, reducer := s.state, s.reducer
	s.mu.RUnlock()

	s.reducingGID.Store(goid.Current())
	defer s.reducingGID.Store(0)

	next := reducer(state, action)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// notify runs one notification round, or queues it if a round is running.
func (s *Store[S, A]) notify() {
	s.notifyMu.Lock()
	s.pendingRounds++
	if s.notifying {
		s.notifyMu.Unlock()
		return
	}
	s.notifying = true

	defer func() {
		if r := recover(); r != nil {
			s.notifyMu.Lock()
			s.notifying = false
			s.pendingRounds = 0
			s.notifyMu.Unlock()
			panic(r)
		}
	}()

	for s.pendingRounds > 0 {
		s.pendingRounds--
		s.notifyMu.Unlock()

		s.runRound()

		s.notifyMu.Lock()
	}
	s.notifying = false
	s.notifyMu.Unlock()
}

// runRound calls every listener active at the start of the round.
func (s *Store[S, A]) runRound() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, sub := range listeners {
		if sub.active.Load() {
			sub.fn()
		}
	}
}

// Subscribe registers listener to be called after every dispatch and returns
// a function that removes it. The returned function is idempotent. A
// listener removed while a round is running is not called by that round.
func (s *Store[S, A]) Subscribe(listener func()) func() {
	if listener == nil {
		panic(errors.New("E103"))
	}
	s.checkNotReducing("Subscribe")

	sub := &subscription{fn: listener}
	sub.active.Store(true)

	s.mu.Lock()
	// Copy on write: running rounds keep iterating their snapshot.
	listeners := make([]*subscription, len(s.listeners), len(s.listeners)+1)
	copy(listeners, s.listeners)
	s.listeners = append(listeners, sub)
	s.mu.Unlock()

	return func() {
		s.checkNotReducing("unsubscribe")
		if !sub.active.Swap(false) {
			return
		}
		s.removeSubscription(sub)
	}
}

func (s *Store[S, A]) removeSubscription(sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listeners := make([]*subscription, 0, len(s.listeners))
	for _, existing := range s.listeners {
		if existing != sub {
			listeners = append(listeners, existing)
		}
	}
	s.listeners = listeners
}

// ReplaceReducer swaps the reducer used by subsequent dispatches.
// It panics with ErrNilReducer if next is nil.
func (s *Store[S, A]) ReplaceReducer(next Reducer[S, A]) {
	if next == nil {
		panic(errors.New("E100").WithSuggestion("Pass a reducer function to ReplaceReducer"))
	}
	s.checkNotReducing("ReplaceReducer")

	s.reduceMu.Lock()
	s.mu.Lock()
	s.reducer = next
	s.mu.Unlock()
	s.reduceMu.Unlock()

	s.logger.Debug("store reducer replaced")
}

// ListenerCount returns the number of subscribed listeners.
func (s *Store[S, A]) ListenerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

func (s *Store[S, A]) isReducing() bool {
	gid := s.reducingGID.Load()
	return gid != 0 && gid == goid.Current()
}

// checkNotReducing panics with ErrReducing when called from the reducer.
func (s *Store[S, A]) checkNotReducing(op string) {
	if s.isReducing() {
		panic(errors.New("E102").WithDetail(op + " called from inside a reducer"))
	}
}
