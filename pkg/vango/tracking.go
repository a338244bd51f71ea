package vango

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/prsh/internal/goid"
)

// globalIDCounter is the source of unique IDs for owners, signals and effects.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// TrackingContext holds the reactive state for a goroutine.
type TrackingContext struct {
	// currentOwner owns hooks created during the current render.
	currentOwner *Owner

	// currentListener is subscribed by signal reads. nil disables tracking.
	currentListener Listener

	// batchDepth counts nested Batch() calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when a batch completes.
	pendingUpdates []Listener

	// renderDepth is > 0 while a component render is running.
	renderDepth int
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the ID of the calling goroutine.
func getGoroutineID() uint64 {
	return goid.Current()
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use. Callers that may leave it empty must hand it to
// releaseTrackingContext.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// lookupTrackingContext returns the context of the current goroutine, or nil.
// Readers use it so goroutines that only set signals never get an entry.
func lookupTrackingContext() *TrackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*TrackingContext)
	}
	return nil
}

// releaseTrackingContext drops the context of the current goroutine once it
// holds no state, so short-lived goroutines (store listeners, HTTP handlers)
// do not accumulate entries.
func releaseTrackingContext(ctx *TrackingContext) {
	if ctx.currentOwner == nil && ctx.currentListener == nil &&
		ctx.batchDepth == 0 && ctx.renderDepth == 0 && len(ctx.pendingUpdates) == 0 {
		trackingContexts.Delete(getGoroutineID())
	}
}

func getCurrentListener() Listener {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

// setCurrentListener sets the listener for dependency tracking and returns
// the previous one so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	releaseTrackingContext(ctx)
	return old
}

func getCurrentOwner() *Owner {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

// setCurrentOwner sets the owner for hook creation and returns the previous
// one so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	releaseTrackingContext(ctx)
	return old
}

func getBatchDepth() int {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth returns true when the outermost batch completed.
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns the queued listeners and releases the context
// if nothing else is held.
func drainPendingUpdates() []Listener {
	ctx := lookupTrackingContext()
	if ctx == nil {
		return nil
	}
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	releaseTrackingContext(ctx)
	return updates
}

func beginRender() {
	getTrackingContext().renderDepth++
}

func endRender() {
	ctx := getTrackingContext()
	ctx.renderDepth--
	releaseTrackingContext(ctx)
}

// InRender reports whether a component render is running on this goroutine.
func InRender() bool {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.renderDepth > 0
	}
	return false
}

// WithOwner runs fn with owner as the current owner.
//
// Example:
//
//	WithOwner(instance.Owner, func() {
//	    tree = component.Render()
//	})
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l subscribed by every signal read.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}
