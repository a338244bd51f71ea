package server

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/prsh/pkg/vango"
	"github.com/vango-dev/prsh/pkg/vdom"
)

// ComponentInstance represents a mounted component with its state.
// It holds the component's owner (hooks, effects, context) and its last
// rendered tree.
type ComponentInstance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Component is the component being rendered. A parent re-render
	// replaces it with the latest value from the parent's output.
	Component vdom.Component

	// Key is the reconciliation key, empty for positional children.
	Key string

	// Owner manages hooks, effects and context for this component.
	Owner *vango.Owner

	// Parent is the parent component instance (nil for root).
	Parent *ComponentInstance

	// Children are child component instances, in render order.
	Children []*ComponentInstance

	id          uint64
	dirty       atomic.Bool
	disposed    atomic.Bool
	renderCount atomic.Int64

	// session is the owning session.
	session *Session

	// lastTree is the last rendered VNode tree. Child component nodes in it
	// point at the child instances, so rendering it yields committed output.
	lastTree *vdom.VNode
}

var _ vango.Listener = (*ComponentInstance)(nil)

// componentIDCounter is used to generate unique component IDs.
var componentIDCounter atomic.Uint64

func newComponentInstance(component vdom.Component, key string, parent *ComponentInstance, session *Session) *ComponentInstance {
	var parentOwner *vango.Owner
	if parent != nil {
		parentOwner = parent.Owner
	} else if session != nil {
		parentOwner = session.owner
	}

	id := componentIDCounter.Add(1)
	return &ComponentInstance{
		InstanceID: fmt.Sprintf("c%d", id),
		Component:  component,
		Key:        key,
		Owner:      vango.NewOwner(parentOwner),
		Parent:     parent,
		id:         id,
		session:    session,
	}
}

// ID implements vango.Listener.
func (c *ComponentInstance) ID() uint64 {
	return c.id
}

// Render renders the component with its owner and listener installed, so
// hooks bind to this instance and state reads subscribe it.
func (c *ComponentInstance) Render() *vdom.VNode {
	if c.Component == nil {
		return nil
	}

	c.ClearDirty()

	var tree *vdom.VNode
	vango.WithOwner(c.Owner, func() {
		c.Owner.StartRender()
		defer c.Owner.EndRender()

		vango.WithListener(c, func() {
			tree = c.Component.Render()
		})
	})

	c.renderCount.Add(1)
	return tree
}

// MarkDirty marks the component as needing re-render and notifies the
// session. It is a no-op on disposed instances.
func (c *ComponentInstance) MarkDirty() {
	if c.disposed.Load() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) && c.session != nil {
		c.session.scheduleRender(c)
	}
}

// IsDirty returns whether the component needs re-rendering.
func (c *ComponentInstance) IsDirty() bool {
	return c.dirty.Load()
}

// ClearDirty clears the dirty flag.
func (c *ComponentInstance) ClearDirty() {
	c.dirty.Store(false)
}

// IsDisposed returns whether the instance has been disposed.
func (c *ComponentInstance) IsDisposed() bool {
	return c.disposed.Load()
}

// RenderCount returns how many times this instance rendered.
func (c *ComponentInstance) RenderCount() int {
	return int(c.renderCount.Load())
}

// LastTree returns the last rendered VNode tree.
func (c *ComponentInstance) LastTree() *vdom.VNode {
	return c.lastTree
}

// AddChild adds a child component instance.
func (c *ComponentInstance) AddChild(child *ComponentInstance) {
	c.Children = append(c.Children, child)
}

// RemoveChild removes a child component instance.
func (c *ComponentInstance) RemoveChild(child *ComponentInstance) {
	for i, ch := range c.Children {
		if ch == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return
		}
	}
}

// Dispose disposes the instance and its children. Disposing the owner runs
// effect cleanups and registered cleanups.
func (c *ComponentInstance) Dispose() {
	if c.disposed.Swap(true) {
		return
	}

	for i := len(c.Children) - 1; i >= 0; i-- {
		c.Children[i].Dispose()
	}
	c.Children = nil

	if c.Owner != nil {
		c.Owner.Dispose()
	}

	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}

	c.lastTree = nil
}

// committed renders a child instance's last committed tree in place of the
// component node that produced it.
type committed struct {
	instance *ComponentInstance
}

func (c committed) Render() *vdom.VNode {
	return c.instance.lastTree
}
