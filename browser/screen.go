package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/wrap"
)

const (
	setInnerHTMLFunction = `function(html) { this.innerHTML = html; }`
	innerHTMLFunction    = `function() { return this.innerHTML; }`
)

// Screen is a tree rendered into a container in the tab.
type Screen struct {
	queries

	id        string
	engine    *Engine
	container int64

	mu      sync.Mutex
	mounted bool
}

var _ wrap.Screen = (*Screen)(nil)

// ID returns the container's element id.
func (s *Screen) ID() string { return s.id }

// Container implements wrap.Screen.
func (s *Screen) Container() wrap.Element { return s.engine.handle(s.container) }

// BaseElement implements wrap.Screen. It is the tab's body.
func (s *Screen) BaseElement() wrap.Element { return s.engine.handle(s.engine.body) }

// Rerender replaces the container's contents with tree.
func (s *Screen) Rerender(tree any) error {
	markup, err := dom.HTML(tree)
	if err != nil {
		return err
	}

	ctx, cancel := s.engine.callContext()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setInner(ctx, markup); err != nil {
		return err
	}
	s.mounted = true

	s.engine.log.Debug("rerendered", zap.String("screen", s.id))
	return nil
}

// Unmount empties the container. Unmounting twice is a no-op.
func (s *Screen) Unmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return nil
	}

	ctx, cancel := s.engine.callContext()
	defer cancel()
	if err := s.setInner(ctx, ""); err != nil {
		return err
	}
	s.mounted = false

	s.engine.log.Debug("unmounted", zap.String("screen", s.id))
	return nil
}

// AsFragment returns the container's inner HTML.
func (s *Screen) AsFragment() (string, error) {
	ctx, cancel := s.engine.callContext()
	defer cancel()

	res, err := s.engine.client.CallFunctionOnNode(ctx, s.engine.targetID, s.container, innerHTMLFunction)
	if err != nil {
		return "", fmt.Errorf("reading container: %w", err)
	}
	return res.String(), nil
}

// Debug writes an indented dump of the tab's body.
func (s *Screen) Debug() error {
	ctx, cancel := s.engine.callContext()
	defer cancel()

	markup, err := s.engine.client.OuterHTML(ctx, s.engine.targetID, s.engine.body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	dump, err := dom.PrettyDocument(markup)
	if err != nil {
		return err
	}

	s.engine.log.Debug("debug dump", zap.String("screen", s.id), zap.String("dom", dump))
	if _, err := io.WriteString(s.engine.debugOut, dump); err != nil {
		return fmt.Errorf("writing debug output: %w", err)
	}
	return nil
}

func (s *Screen) setInner(ctx context.Context, markup string) error {
	_, err := s.engine.client.CallFunctionOnNode(ctx, s.engine.targetID, s.container, setInnerHTMLFunction, markup)
	if err != nil {
		return fmt.Errorf("writing container: %w", err)
	}
	return nil
}
