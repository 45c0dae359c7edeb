package dom

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Handler handles an event fired at an element or one of its descendants.
type Handler func(e *Event)

// Item configures an element built with El. Nodes are items too: they
// become children.
type Item interface {
	applyTo(spec *elementSpec)
}

// Node describes part of a UI tree. Nodes are immutable and can be rendered
// any number of times.
type Node interface {
	Item
	build(b *builder, parent *html.Node)
}

type elementSpec struct {
	tag      string
	attrs    []html.Attribute
	handlers map[string][]Handler
	children []Node
}

// El describes an element with the given tag.
func El(tag string, items ...Item) Node {
	spec := &elementSpec{
		tag:      strings.ToLower(tag),
		handlers: map[string][]Handler{},
	}
	for _, it := range items {
		if it != nil {
			it.applyTo(spec)
		}
	}
	return spec
}

func (s *elementSpec) applyTo(parent *elementSpec) {
	parent.children = append(parent.children, s)
}

func (s *elementSpec) build(b *builder, parent *html.Node) {
	if !validTag(s.tag) {
		b.fail(fmt.Errorf("%w: %q", ErrInvalidTag, s.tag))
		return
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     s.tag,
		DataAtom: atom.Lookup([]byte(s.tag)),
		Attr:     slices.Clone(s.attrs),
	}
	parent.AppendChild(n)
	for event, hs := range s.handlers {
		b.register(n, event, hs...)
	}
	for _, c := range s.children {
		c.build(b, n)
	}
}

// validTag reports whether tag can be serialised as an element name.
func validTag(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	return !strings.ContainsAny(tag, " \t\n\f\r/<>=\"'")
}

type attrItem html.Attribute

// Attr sets an attribute. A later Attr with the same name wins.
func Attr(name, value string) Item {
	return attrItem{Key: strings.ToLower(name), Val: value}
}

// BoolAttr sets a valueless attribute such as disabled or data-active.
func BoolAttr(name string) Item {
	return Attr(name, "")
}

// TestID sets the data-testid attribute.
func TestID(id string) Item {
	return Attr(DefaultTestIDAttribute, id)
}

func (a attrItem) applyTo(spec *elementSpec) {
	for i := range spec.attrs {
		if spec.attrs[i].Key == a.Key {
			spec.attrs[i].Val = a.Val
			return
		}
	}
	spec.attrs = append(spec.attrs, html.Attribute(a))
}

type handlerItem struct {
	event   string
	handler Handler
}

// On attaches h to the named event.
func On(event string, h Handler) Item {
	return handlerItem{event: event, handler: h}
}

// OnClick attaches a click handler.
func OnClick(h Handler) Item { return On(EventClick, h) }

// OnFocus attaches a focus handler.
func OnFocus(h Handler) Item { return On(EventFocus, h) }

// OnBlur attaches a blur handler.
func OnBlur(h Handler) Item { return On(EventBlur, h) }

// OnChange attaches a change handler. The event carries the new value.
func OnChange(h Handler) Item { return On(EventChange, h) }

func (h handlerItem) applyTo(spec *elementSpec) {
	spec.handlers[h.event] = append(spec.handlers[h.event], h.handler)
}

type textNode string

// Text describes a text node.
func Text(s string) Node { return textNode(s) }

func (t textNode) applyTo(spec *elementSpec) {
	spec.children = append(spec.children, t)
}

func (t textNode) build(_ *builder, parent *html.Node) {
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
}

type markupNode string

// Markup describes a tree by its HTML source. Markup trees carry no handlers.
func Markup(src string) Node { return markupNode(src) }

func (m markupNode) applyTo(spec *elementSpec) {
	spec.children = append(spec.children, m)
}

func (m markupNode) build(b *builder, parent *html.Node) {
	context := parent
	if context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(string(m)), context)
	if err != nil {
		b.fail(fmt.Errorf("parsing markup: %w", err))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

type fragment []Node

// Fragment groups nodes without a wrapping element.
func Fragment(nodes ...Node) Node { return fragment(nodes) }

func (f fragment) applyTo(spec *elementSpec) {
	spec.children = append(spec.children, f...)
}

func (f fragment) build(b *builder, parent *html.Node) {
	for _, n := range f {
		n.build(b, parent)
	}
}

// builder collects handlers while a tree is built.
type builder struct {
	handlers map[*html.Node]map[string][]Handler
	err      error
}

func newBuilder() *builder {
	return &builder{handlers: map[*html.Node]map[string][]Handler{}}
}

func (b *builder) register(n *html.Node, event string, hs ...Handler) {
	if len(hs) == 0 {
		return
	}
	if b.handlers[n] == nil {
		b.handlers[n] = map[string][]Handler{}
	}
	b.handlers[n][event] = append(b.handlers[n][event], hs...)
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// toNode accepts the tree shapes Render understands.
func toNode(tree any) (Node, error) {
	switch t := tree.(type) {
	case Node:
		return t, nil
	case string:
		return Markup(t), nil
	case []Node:
		return Fragment(t...), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedTree, tree)
}

// HTML renders tree to markup, dropping handlers.
func HTML(tree any) (string, error) {
	node, err := toNode(tree)
	if err != nil {
		return "", err
	}
	b := newBuilder()
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	node.build(b, root)
	if b.err != nil {
		return "", b.err
	}
	return renderChildren(root)
}

func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering markup: %w", err)
		}
	}
	return buf.String(), nil
}
