package vtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/prsh/pkg/render"
	"github.com/vango-dev/prsh/pkg/server"
	"github.com/vango-dev/prsh/pkg/vdom"
)

// Root is a component tree mounted for a test.
type Root struct {
	t       testing.TB
	session *server.Session
	commits []string
}

// Render mounts component in a new session and registers Unmount as a test
// cleanup. Mount errors fail the test.
func Render(t testing.TB, component vdom.Component) *Root {
	t.Helper()

	r := &Root{t: t}
	r.session = server.NewSession(&server.SessionConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnCommit: func(html string) { r.commits = append(r.commits, html) },
	})
	if err := r.session.Mount(component); err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	t.Cleanup(r.session.Unmount)
	return r
}

// Act runs fn, then flushes the renders and effects it caused.
func (r *Root) Act(fn func()) {
	r.t.Helper()
	fn()
	if err := r.session.Flush(); err != nil {
		r.t.Fatalf("vtest: flush: %v", err)
	}
}

// HTML returns the committed HTML of the tree.
func (r *Root) HTML() string {
	r.t.Helper()
	html, err := r.session.HTML()
	if err != nil {
		r.t.Fatalf("vtest: html: %v", err)
	}
	return html
}

// Commits returns the HTML of every commit so far, oldest first.
func (r *Root) Commits() []string {
	return append([]string(nil), r.commits...)
}

// RenderCount returns the number of component renders so far.
func (r *Root) RenderCount() int {
	return r.session.RenderCount()
}

// Session returns the underlying session.
func (r *Root) Session() *server.Session {
	return r.session
}

// Unmount disposes the tree, running all effect cleanups.
func (r *Root) Unmount() {
	r.session.Unmount()
}

// ExpectHTML asserts that the committed HTML equals want.
func (r *Root) ExpectHTML(want string) {
	r.t.Helper()
	if got := r.HTML(); got != want {
		r.t.Errorf("expected HTML %q, got %q", want, got)
	}
}

// ExpectContains asserts that the committed HTML contains expected.
func (r *Root) ExpectContains(expected string) {
	r.t.Helper()
	if html := r.HTML(); !strings.Contains(html, expected) {
		r.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// RenderToString renders a VNode to HTML. Component nodes render by calling
// the component directly, without hooks; use Render for components that use
// hooks.
//
// Example:
//
//	html := vtest.RenderToString(vdom.Div(vdom.Text("hi")))
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, node, "Welcome Admin")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectHTML asserts that node renders exactly to want.
func ExpectHTML(t testing.TB, node *vdom.VNode, want string) {
	t.Helper()
	if got := RenderToString(node); got != want {
		t.Errorf("expected HTML %q, got %q", want, got)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
