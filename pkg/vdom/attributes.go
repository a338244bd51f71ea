package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attribute creates an arbitrary attribute.
func Attribute(key string, value any) Attr { return attr(key, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("count", "3") → data-count="3"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Disabled sets the boolean disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Action sets a form's action attribute.
func Action(url string) Attr { return attr("action", url) }

// Method sets a form's method attribute.
func Method(m string) Attr { return attr("method", m) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Charset sets the charset attribute.
func Charset(cs string) Attr { return attr("charset", cs) }
