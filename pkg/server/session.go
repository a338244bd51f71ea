package server

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/prsh/internal/errors"
	"github.com/vango-dev/prsh/pkg/render"
	"github.com/vango-dev/prsh/pkg/vango"
	"github.com/vango-dev/prsh/pkg/vdom"
)

// Session owns one mounted component tree.
//
// Render and effect work is serialized by the session lock. Components may
// be marked dirty from any goroutine; the session's owner then calls Flush,
// typically after receiving from Updates.
type Session struct {
	// ID uniquely identifies this session in logs.
	ID string

	mu       sync.Mutex
	config   SessionConfig
	logger   *slog.Logger
	renderer *render.Renderer

	// owner is the root of the session's owner hierarchy.
	owner *vango.Owner
	root  *ComponentInstance

	html    string
	commits int
	renders atomic.Int64

	// updates signals that components became dirty. Guarded by updatesMu
	// so Unmount can close it while listeners run on other goroutines.
	updates   chan struct{}
	updatesMu sync.Mutex
	closed    bool
}

var sessionIDCounter atomic.Uint64

// NewSession creates a session. A nil config uses DefaultSessionConfig.
func NewSession(cfg *SessionConfig) *Session {
	config := cfg.withDefaults()

	s := &Session{
		ID:       fmt.Sprintf("s%d", sessionIDCounter.Add(1)),
		config:   config,
		renderer: render.NewRenderer(render.RendererConfig{}),
		owner:    vango.NewOwner(nil),
		updates:  make(chan struct{}, 1),
	}
	s.logger = config.Logger.With("session", s.ID)
	return s
}

// Mount renders component as the root of the tree, commits it and flushes
// the effects and renders that follow.
func (s *Session) Mount(component vdom.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return errors.New("E012")
	}
	if s.root != nil {
		return errors.New("E013").WithDetail(fmt.Sprintf("session %s already has a root component", s.ID))
	}

	s.root = newComponentInstance(component, "", nil, s)
	s.root.InstanceID = "root"
	s.root.dirty.Store(true)

	if err := s.flushLocked(); err != nil {
		return err
	}

	s.logger.Info("mounted root component",
		"components", countInstances(s.root),
		"renders", s.renders.Load())
	return nil
}

// Flush re-renders dirty components parent-first, commits, and runs pending
// effects, repeating until nothing is dirty or pending.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return errors.New("E012")
	}
	if s.root == nil {
		return nil
	}
	return s.flushLocked()
}

// flushLocked is the render/commit/effect loop. It is the runtime's error
// boundary: panics from render and effects become E011 errors.
func (s *Session) flushLocked() (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("component panicked", "panic", r)
			err = errors.FromPanic(r, "E011").WithDetail(fmt.Sprintf("in session %s", s.ID))
		}
	}()

	for pass := 0; ; pass++ {
		dirty := collectDirty(s.root, nil)
		if len(dirty) == 0 && !s.owner.HasPendingEffects() {
			return nil
		}
		if pass >= s.config.MaxFlushPasses {
			s.logger.Warn("flush budget exceeded", "passes", pass, "dirty", len(dirty))
			return errors.New("E010").WithDetail(fmt.Sprintf(
				"still %d dirty components after %d passes", len(dirty), pass))
		}

		for _, c := range dirty {
			if c.IsDisposed() || !c.IsDirty() {
				continue
			}
			s.renderInstance(c)
		}
		if len(dirty) > 0 {
			if err := s.commit(); err != nil {
				return err
			}
		}

		s.owner.RunPendingEffects()
	}
}

// collectDirty appends the top-most dirty instances under c, parent-first.
// Descendants of a dirty instance re-render with it.
func collectDirty(c *ComponentInstance, out []*ComponentInstance) []*ComponentInstance {
	if c.IsDirty() {
		return append(out, c)
	}
	for _, child := range c.Children {
		out = collectDirty(child, out)
	}
	return out
}

// renderInstance renders c and, recursively, the child components in its
// output.
func (s *Session) renderInstance(c *ComponentInstance) {
	tree := c.Render()
	s.renders.Add(1)

	s.reconcileChildren(c, tree)
	c.lastTree = tree
}

// reconcileChildren matches the component nodes of tree to parent's child
// instances, renders them, and disposes the instances no longer rendered.
// Matched nodes are rewritten to render the child's committed tree.
func (s *Session) reconcileChildren(parent *ComponentInstance, tree *vdom.VNode) {
	var nodes []*vdom.VNode
	vdom.Walk(tree, func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindComponent && n.Comp != nil {
			nodes = append(nodes, n)
		}
		return true
	})

	old := parent.Children
	keyed := make(map[string]*ComponentInstance)
	var positional []*ComponentInstance
	for _, child := range old {
		if child.Key != "" {
			keyed[child.Key] = child
		} else {
			positional = append(positional, child)
		}
	}

	next := make([]*ComponentInstance, 0, len(nodes))
	kept := make(map[*ComponentInstance]bool, len(nodes))
	pos := 0
	for _, n := range nodes {
		var child *ComponentInstance
		if n.Key != "" {
			child = keyed[n.Key]
			delete(keyed, n.Key)
		} else if pos < len(positional) {
			child = positional[pos]
			pos++
		}

		if child != nil && !sameComponentType(child.Component, n.Comp) {
			child = nil
		}
		if child == nil {
			child = newComponentInstance(n.Comp, n.Key, parent, s)
		} else {
			child.Component = n.Comp
		}

		next = append(next, child)
		kept[child] = true

		s.renderInstance(child)
		n.Comp = committed{instance: child}
	}
	parent.Children = next

	for _, child := range old {
		if !kept[child] {
			s.logger.Debug("disposing component", "component", child.InstanceID)
			child.Dispose()
		}
	}
}

func sameComponentType(a, b vdom.Component) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// commit renders the tree to HTML and reports it.
func (s *Session) commit() error {
	html, err := s.renderer.RenderToString(s.root.lastTree)
	if err != nil {
		return fmt.Errorf("server: commit: %w", err)
	}

	s.html = html
	s.commits++
	s.logger.Debug("committed", "commit", s.commits, "bytes", len(html))

	if s.config.OnCommit != nil {
		s.config.OnCommit(html)
	}
	return nil
}

// HTML returns the HTML of the last commit.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return "", errors.New("E012")
	}
	return s.html, nil
}

// Root returns the root component instance, or nil before Mount.
func (s *Session) Root() *ComponentInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Updates returns a channel that receives when components become dirty.
// It is closed by Unmount.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// scheduleRender is called when a component marks itself dirty.
func (s *Session) scheduleRender(c *ComponentInstance) {
	s.updatesMu.Lock()
	defer s.updatesMu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.updates <- struct{}{}:
	default:
		// Already scheduled
	}
}

// RenderCount returns the number of component renders in this session.
func (s *Session) RenderCount() int {
	return int(s.renders.Load())
}

// CommitCount returns the number of commits in this session.
func (s *Session) CommitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Unmount disposes the tree, running every effect cleanup, and closes
// Updates. It is idempotent.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updatesMu.Lock()
	if s.closed {
		s.updatesMu.Unlock()
		return
	}
	s.closed = true
	close(s.updates)
	s.updatesMu.Unlock()

	if s.root != nil {
		s.root.Dispose()
	}
	s.owner.Dispose()
	s.html = ""

	s.logger.Info("session unmounted", "renders", s.renders.Load(), "commits", s.commits)
}

func (s *Session) isClosed() bool {
	s.updatesMu.Lock()
	defer s.updatesMu.Unlock()
	return s.closed
}

func countInstances(c *ComponentInstance) int {
	n := 1
	for _, child := range c.Children {
		n += countInstances(child)
	}
	return n
}
