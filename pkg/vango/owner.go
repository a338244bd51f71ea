package vango

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/prsh/internal/errors"
)

// DebugMode enables hook order validation. Set it at startup.
var DebugMode bool

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookLayoutEffect
	HookContext
	HookMemo
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookLayoutEffect:
		return "LayoutEffect"
	case HookContext:
		return "Context"
	case HookMemo:
		return "Memo"
	default:
		return "Unknown"
	}
}

// Owner represents a component scope that owns hooks, effects and context
// values. Disposing an Owner disposes its children, runs effect cleanups and
// registered cleanups.
//
// Owners form a hierarchy mirroring the component tree.
type Owner struct {
	id uint64

	// parent is nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	effects   []*Effect
	effectsMu sync.Mutex

	// cleanups are registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// pendingEffects run after the render has been committed.
	pendingEffects   []*Effect
	pendingEffectsMu sync.Mutex

	// values stores context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool

	// Dev-mode hook order tracking (only used when DebugMode is true).
	hookOrder   []HookType
	hookIndex   int
	renderCount int

	// Hook slots give hooks stable identity across renders.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner registered as a child of parent.
// A nil parent creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when this Owner is disposed.
// On an already disposed Owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// scheduleEffect queues e until the next RunPendingEffects.
func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects runs the effects scheduled by the last render of this
// Owner, then those of its children. The runtime calls it once the rendered
// output has been committed.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	// A panicking effect unwinds through here. The effects after it are
	// still marked pending, so they go back on the queue for the next run.
	next := 0
	defer func() {
		if next < len(effects) {
			o.requeueEffects(effects[next:])
		}
	}()
	for next < len(effects) {
		e := effects[next]
		next++
		if e.pending.Load() {
			e.run()
		}
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		child.RunPendingEffects()
	}
}

// requeueEffects puts effects back at the front of the pending queue.
func (o *Owner) requeueEffects(effects []*Effect) {
	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(append([]*Effect(nil), effects...), o.pendingEffects...)
}

// HasPendingEffects returns true if this owner or any child has pending effects.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingEffectsMu.Lock()
	hasPending := len(o.pendingEffects) > 0
	o.pendingEffectsMu.Unlock()

	if hasPending {
		return true
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPendingEffects() {
			return true
		}
	}

	return false
}

// Dispose disposes this Owner and everything it owns.
// Children are disposed in reverse order (last created first), then effect
// cleanups run, then cleanups registered with OnCleanup in reverse order.
// Dispose is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingEffectsMu.Lock()
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()
}

// =============================================================================
// Render lifecycle and hook order validation
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index and, in debug mode, the order index.
func (o *Owner) StartRender() {
	beginRender()

	o.hookSlotIdx = 0

	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode it checks that every hook of the first render was called.
func (o *Owner) EndRender() {
	endRender()

	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
	} else if o.hookIndex < len(o.hookOrder) {
		panic(errors.New("E002").WithDetail(fmt.Sprintf(
			"expected %d hooks, got %d", len(o.hookOrder), o.hookIndex)))
	}
}

// TrackHook records a hook call. In debug mode, a hook called in a different
// order than on the first render panics with E002.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(errors.New("E002").WithDetail(fmt.Sprintf(
				"extra %s hook at index %d", ht, o.hookIndex)))
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(errors.New("E002").WithDetail(fmt.Sprintf(
				"at index %d: expected %s, got %s", o.hookIndex, expected, ht)))
		}
	}
	o.hookIndex++
}

// =============================================================================
// Hook slot storage
// =============================================================================

// UseHookSlot returns the stored value for the current hook slot, or nil on
// the first render. The caller then creates the value and calls SetHookSlot.
//
//	slot := owner.UseHookSlot()
//	if slot != nil {
//	    return slot.(*T)
//	}
//	instance := &T{...}
//	owner.SetHookSlot(instance)
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the slot returned nil by UseHookSlot.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// currentHookOwner returns the rendering owner or panics with E001.
func currentHookOwner(ht HookType) *Owner {
	owner := getCurrentOwner()
	if owner == nil {
		panic(errors.New("E001").WithSuggestion(
			"Call " + ht.String() + " hooks from a component render function"))
	}
	owner.TrackHook(ht)
	return owner
}
