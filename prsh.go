package prsh

import (
	"github.com/vango-dev/prsh/pkg/vango"
)

// Store is the part of a state container the bridge uses. *store.Store
// satisfies it.
type Store[S any] interface {
	GetState() S

	// Subscribe registers a change listener and returns its unsubscribe
	// function.
	Subscribe(listener func()) func()
}

// StoreContext carries a Store to the components below its Provider.
//
//	ctx.Provider(s, children...)
type StoreContext[S any] struct {
	*vango.Context[Store[S]]
}

// NewStoreContext creates a store context without a default store.
func NewStoreContext[S any]() *StoreContext[S] {
	return &StoreContext[S]{Context: vango.CreateContext[Store[S]](nil)}
}

// UseStore returns the store of the nearest Provider of ctx, or nil when the
// component is not below one.
func UseStore[S any](ctx *StoreContext[S]) Store[S] {
	return ctx.Use()
}

// UseSelector returns selector applied to the store's state and re-renders
// the component when that result changes.
//
// The result is computed lazily on mount. After each commit where the store
// or the selector differs from the previous commit, it is recomputed at once
// and a store listener is subscribed that recomputes it on every change. The
// previous listener is unsubscribed first, so a mounted component holds
// exactly one subscription.
//
// A panicking selector propagates to the render or effect that called it.
func UseSelector[S, R any](ctx *StoreContext[S], selector func(S) R) R {
	store := UseStore(ctx)

	getNextResult := func() R {
		return selector(store.GetState())
	}

	result, setResult := vango.UseState(getNextResult)

	vango.UseLayoutEffect(func() vango.Cleanup {
		onStateChange := func() {
			setResult(getNextResult())
		}

		onStateChange()

		return store.Subscribe(onStateChange)
	}, []any{store, selector})

	return result
}
