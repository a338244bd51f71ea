package store

import "fmt"

// Typed is implemented by actions that name themselves.
type Typed interface {
	Type() string
}

// ActionType returns the name of an action: Type() for Typed actions,
// otherwise the Go type name.
func ActionType(action any) string {
	if t, ok := action.(Typed); ok {
		return t.Type()
	}
	return fmt.Sprintf("%T", action)
}
