package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/vango-dev/prsh/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty puts every element on its own indented line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer handles rendering of VNode trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// RenderPage renders a complete HTML5 document with the given title, body
// content and trailing raw head markup (scripts, styles).
func (r *Renderer) RenderPage(w io.Writer, title string, body *vdom.VNode, headExtra ...string) error {
	head := []any{
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Title(title),
	}
	for _, extra := range headExtra {
		head = append(head, vdom.Raw(extra))
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return r.RenderToWriter(w, vdom.Html(
		vdom.Head(head...),
		vdom.Body(body),
	))
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		return r.renderChildren(w, node, depth)
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render(), depth)
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, node *vdom.VNode, depth int) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// hasBlockChild reports whether node has children other than text.
func hasBlockChild(node *vdom.VNode) bool {
	for _, child := range node.Children {
		if child.Kind != vdom.KindText && child.Kind != vdom.KindRaw {
			return true
		}
	}
	return false
}

// renderInline writes text-only children without indentation.
func (r *Renderer) renderInline(w io.Writer, node *vdom.VNode) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag
	if tag == "" {
		return fmt.Errorf("render: element without tag")
	}

	r.writeIndent(w, depth)

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		r.writeNewline(w)
		return nil
	}

	if r.config.Pretty && hasBlockChild(node) {
		r.writeNewline(w)
		for _, child := range node.Children {
			if child.Kind == vdom.KindText || child.Kind == vdom.KindRaw {
				r.writeIndent(w, depth+1)
				if err := r.renderNode(w, child, depth+1); err != nil {
					return err
				}
				r.writeNewline(w)
				continue
			}
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}
		r.writeIndent(w, depth)
	} else if err := r.renderInline(w, node); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.writeNewline(w)
	return nil
}

// renderAttributes writes attributes sorted by name.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if value == nil {
			continue
		}

		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(attrToString(value))); err != nil {
			return err
		}
	}
	return nil
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	if !r.config.Pretty {
		return
	}
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

func (r *Renderer) writeNewline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}
