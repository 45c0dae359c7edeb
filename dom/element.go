package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/tomyan/screenwrap/wrap"
)

// Element is a rendered element. It implements wrap.Element.
type Element struct {
	node   *html.Node
	screen *Screen
}

var _ wrap.Element = (*Element)(nil)

// Attribute returns the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	e.screen.mu.RLock()
	defer e.screen.mu.RUnlock()
	return attr(e.node, name)
}

// Text returns the element's text content.
func (e *Element) Text() string {
	e.screen.mu.RLock()
	defer e.screen.mu.RUnlock()
	return htmlquery.InnerText(e.node)
}

// Attributes returns a copy of the element's attributes.
func (e *Element) Attributes() map[string]string {
	e.screen.mu.RLock()
	defer e.screen.mu.RUnlock()
	attrs := make(map[string]string, len(e.node.Attr))
	for _, a := range e.node.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Value returns the element's current value.
func (e *Element) Value() string {
	e.screen.mu.RLock()
	defer e.screen.mu.RUnlock()
	return valueOf(e.node)
}

// HTML returns the element's outer HTML.
func (e *Element) HTML() string {
	e.screen.mu.RLock()
	defer e.screen.mu.RUnlock()
	return htmlquery.OutputHTML(e.node, true)
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// Screen returns the screen e was rendered on.
func (e *Element) Screen() *Screen { return e.screen }

func (e *Element) String() string {
	var b strings.Builder
	b.WriteString("<" + e.node.Data)
	if id, ok := attr(e.node, e.screen.engine.testIDAttr); ok {
		fmt.Fprintf(&b, " %s=%q", e.screen.engine.testIDAttr, id)
	}
	b.WriteString(">")
	return b.String()
}

func elementOf(el wrap.Element) (*Element, error) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignElement, el)
	}
	return e, nil
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func valueOf(n *html.Node) string {
	if n.Data == "textarea" {
		return htmlquery.InnerText(n)
	}
	v, _ := attr(n, "value")
	return v
}

func isDisabled(n *html.Node) bool {
	switch n.Data {
	case "button", "input", "select", "textarea", "option", "fieldset":
		_, ok := attr(n, "disabled")
		return ok
	}
	return false
}
