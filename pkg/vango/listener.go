package vango

// Listener is anything that can be notified when a signal it read changes.
// Component instances implement it to schedule a re-render.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier, used to deduplicate subscriptions.
	ID() uint64
}

// Cleanup is returned by effects. It runs before the effect runs again and
// when the effect's owner is disposed.
type Cleanup func()
