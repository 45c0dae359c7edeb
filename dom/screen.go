package dom

import (
	"fmt"
	"io"
	"maps"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tomyan/screenwrap/wrap"
)

// Screen is a rendered document. Its queries cover the document body.
type Screen struct {
	queries

	id     string
	engine *Engine

	mu        sync.RWMutex
	doc       *html.Node
	body      *html.Node
	container *html.Node
	handlers  map[*html.Node]map[string][]Handler
	active    *html.Node
	mounted   bool
}

var _ wrap.Screen = (*Screen)(nil)

// ID identifies the screen in log output.
func (s *Screen) ID() string { return s.id }

// Container returns the element the tree was rendered into.
func (s *Screen) Container() wrap.Element { return s.element(s.container) }

// BaseElement returns the document body.
func (s *Screen) BaseElement() wrap.Element { return s.element(s.body) }

// ActiveElement returns the focused element, or the body when nothing is
// focused.
func (s *Screen) ActiveElement() *Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return s.element(s.body)
	}
	return s.element(s.active)
}

// Rerender replaces the container's contents with tree.
func (s *Screen) Rerender(tree any) error {
	node, err := toNode(tree)
	if err != nil {
		return err
	}
	if err := s.build(node); err != nil {
		return err
	}

	s.engine.log.Debug("rerendered", zap.String("screen", s.id))
	return nil
}

// Unmount removes the rendered tree and its handlers. Unmounting twice is a
// no-op.
func (s *Screen) Unmount() error {
	s.mu.RLock()
	mounted := s.mounted
	s.mu.RUnlock()
	if !mounted {
		return nil
	}

	s.clear()
	s.mu.Lock()
	s.mounted = false
	s.mu.Unlock()

	s.engine.log.Debug("unmounted", zap.String("screen", s.id))
	return nil
}

// AsFragment returns the container's inner HTML.
func (s *Screen) AsFragment() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return renderChildren(s.container)
}

// Debug writes an indented dump of the document body.
func (s *Screen) Debug() error {
	s.mu.RLock()
	dump := prettyPrint(s.body)
	s.mu.RUnlock()

	s.engine.log.Debug("debug dump", zap.String("screen", s.id), zap.String("dom", dump))
	if _, err := io.WriteString(s.engine.debugOut, dump); err != nil {
		return fmt.Errorf("writing debug output: %w", err)
	}
	return nil
}

// build renders node into a detached element and, only if that succeeds,
// replaces the container's contents with the result.
func (s *Screen) build(node Node) error {
	b := newBuilder()
	staging := newElement(atom.Div)
	node.build(b, staging)
	if b.err != nil {
		return b.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	for c := staging.FirstChild; c != nil; {
		next := c.NextSibling
		staging.RemoveChild(c)
		s.container.AppendChild(c)
		c = next
	}
	maps.Copy(s.handlers, b.handlers)
	s.mounted = true
	return nil
}

// clear empties the container and drops handlers registered below it.
func (s *Screen) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Screen) clearLocked() {
	for c := s.container.FirstChild; c != nil; {
		next := c.NextSibling
		s.forget(c)
		s.container.RemoveChild(c)
		c = next
	}
}

func (s *Screen) forget(n *html.Node) {
	delete(s.handlers, n)
	if s.active == n {
		s.active = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.forget(c)
	}
}

func (s *Screen) element(n *html.Node) *Element {
	return &Element{node: n, screen: s}
}

func (s *Screen) setActive(n *html.Node) {
	s.mu.Lock()
	s.active = n
	s.mu.Unlock()
}

func (s *Screen) clearActive(n *html.Node) {
	s.mu.Lock()
	if s.active == n {
		s.active = nil
	}
	s.mu.Unlock()
}

// setValue stores value on n and reports whether it changed.
func (s *Screen) setValue(n *html.Node, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if valueOf(n) == value {
		return false
	}
	if n.Data == "textarea" {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		return true
	}
	setAttr(n, "value", value)
	return true
}
