// Package render converts VNode trees into HTML.
//
// It escapes text and attribute values, writes void elements without closing
// tags, renders boolean attributes by name only and sorts attributes so the
// output is deterministic. Component nodes render whatever their Render
// method returns; inside a session that is the component's committed output.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderPage wraps a body in a full HTML5 document.
package render
