package vango

// Batch groups signal updates into a single notification phase. Listeners
// affected by updates inside fn are notified once, deduplicated by ID, when
// the outermost batch completes.
//
//	Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, listener := range updates {
		id := listener.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		listener.MarkDirty()
	}
}

// Untracked runs fn without subscribing the current listener to signal reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// Tx is an alias for Batch.
func Tx(fn func()) {
	Batch(fn)
}
