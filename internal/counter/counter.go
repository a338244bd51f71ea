package counter

import (
	"github.com/vango-dev/prsh/pkg/store"
)

// State is the counter store state.
type State struct {
	Count int
}

// Action is a counter action.
type Action interface {
	store.Typed
}

// Increment adds one to the count.
type Increment struct{}

// Decrement subtracts one from the count.
type Decrement struct{}

// Reset sets the count to To.
type Reset struct {
	To int
}

func (Increment) Type() string { return "INCREMENT" }
func (Decrement) Type() string { return "DECREMENT" }
func (Reset) Type() string     { return "RESET" }

// Reduce is the counter reducer. Unknown actions return state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Increment:
		return State{Count: state.Count + 1}
	case Decrement:
		return State{Count: state.Count - 1}
	case Reset:
		return State{Count: a.To}
	default:
		return state
	}
}

// Store is the counter store.
type Store = store.Store[State, Action]

// NewStore creates a counter store starting at initial.
func NewStore(initial int, opts ...store.Option[State, Action]) *Store {
	return store.New(Reduce, State{Count: initial}, opts...)
}

// ParseAction maps an action name, as used in routes and CLI arguments, to
// its action. Reset parses to Reset{To: 0}.
func ParseAction(name string) (Action, bool) {
	switch name {
	case "increment", "INCREMENT":
		return Increment{}, true
	case "decrement", "DECREMENT":
		return Decrement{}, true
	case "reset", "RESET":
		return Reset{}, true
	default:
		return nil, false
	}
}
