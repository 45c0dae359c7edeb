package dom

import (
	"slices"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Event types fired by the engine.
const (
	EventClick  = "click"
	EventFocus  = "focus"
	EventBlur   = "blur"
	EventChange = "change"
)

// Event is passed to handlers.
type Event struct {
	Type string
	// Target is the element the event was fired at.
	Target *Element
	// CurrentTarget is the element whose handler is running.
	CurrentTarget *Element
	// Value is the new value for change events.
	Value string

	stopped bool
}

// StopPropagation stops the event reaching handlers on ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

type listener struct {
	node     *html.Node
	handlers []Handler
}

// dispatch runs handlers for event from target up to the document root.
// Handlers run without the screen lock held so they may query and act.
func (s *Screen) dispatch(target *html.Node, event, value string) {
	s.mu.RLock()
	var path []listener
	for n := target; n != nil; n = n.Parent {
		if hs := s.handlers[n][event]; len(hs) > 0 {
			path = append(path, listener{node: n, handlers: slices.Clone(hs)})
		}
	}
	s.mu.RUnlock()

	s.engine.log.Debug("dispatch",
		zap.String("screen", s.id),
		zap.String("event", event),
		zap.Int("listeners", len(path)),
	)

	ev := &Event{Type: event, Target: s.element(target), Value: value}
	for _, l := range path {
		ev.CurrentTarget = s.element(l.node)
		for _, h := range l.handlers {
			h(ev)
		}
		if ev.stopped {
			return
		}
	}
}
