package vango

import "github.com/vango-dev/prsh/pkg/vdom"

// SetContext sets a context value for the current component scope.
// The value is visible to the scope and all its descendants via GetContext.
func SetContext(key, value any) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(key, value)
	}
}

// GetContext retrieves a context value from the nearest scope that set key.
// Returns nil if no value is found.
func GetContext(key any) any {
	if owner := getCurrentOwner(); owner != nil {
		return owner.GetValue(key)
	}
	return nil
}

// SetValue sets a value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue retrieves a value from this Owner or its parents.
func (o *Owner) GetValue(key any) any {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val
		}
	}
	return nil
}

// Context passes a value down the component tree.
// Create one with CreateContext, provide values with Provider and read them
// with Use.
//
//	var StoreContext = vango.CreateContext[Store](nil)
//
//	func App() *vdom.VNode {
//	    return StoreContext.Provider(store, Counter())
//	}
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map.
	key any

	// defaultValue is returned when no provider is found.
	defaultValue T
}

// contextKey wraps a Context pointer to form a unique map key.
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context. defaultValue is returned by Use when
// no Provider is found; pass the zero value for a context without default.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{defaultValue: defaultValue}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provider stores value on the rendering component's scope and returns the
// children as a fragment. Child components, mounted under this scope, see
// value through Use.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(c.key, value)
	}
	return vdom.Fragment(children...)
}

// Use returns the value of the nearest Provider ancestor, or the default.
// Like every hook it must be called unconditionally during render.
func (c *Context[T]) Use() T {
	owner := getCurrentOwner()
	if owner == nil {
		return c.defaultValue
	}
	owner.TrackHook(HookContext)

	if value := owner.GetValue(c.key); value != nil {
		if typed, ok := value.(T); ok {
			return typed
		}
	}
	return c.defaultValue
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
