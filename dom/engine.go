package dom

import (
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tomyan/screenwrap/wrap"
)

// DefaultTestIDAttribute is the attribute matched by test id queries.
const DefaultTestIDAttribute = "data-testid"

// Engine renders trees into in-memory documents. It implements wrap.Engine.
type Engine struct {
	log        *zap.Logger
	testIDAttr string
	debugOut   io.Writer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTestIDAttribute changes the attribute matched by test id queries.
func WithTestIDAttribute(name string) Option {
	return func(e *Engine) { e.testIDAttr = name }
}

// WithDebugOutput sets where Debug writes its dump.
func WithDebugOutput(w io.Writer) Option {
	return func(e *Engine) { e.debugOut = w }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:        zap.NewNop(),
		testIDAttr: DefaultTestIDAttribute,
		debugOut:   os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("dom")
	return e
}

// Mount renders tree into a fresh document.
func (e *Engine) Mount(tree any) (*Screen, error) {
	node, err := toNode(tree)
	if err != nil {
		return nil, err
	}

	doc := &html.Node{Type: html.DocumentNode}
	root := newElement(atom.Html)
	head := newElement(atom.Head)
	body := newElement(atom.Body)
	container := newElement(atom.Div)
	doc.AppendChild(root)
	root.AppendChild(head)
	root.AppendChild(body)
	body.AppendChild(container)

	s := &Screen{
		id:        uuid.NewString(),
		engine:    e,
		doc:       doc,
		body:      body,
		container: container,
		handlers:  map[*html.Node]map[string][]Handler{},
	}
	s.queries = queries{screen: s, scope: body}

	if err := s.build(node); err != nil {
		return nil, err
	}

	e.log.Debug("rendered", zap.String("screen", s.id))
	return s, nil
}

// Render implements wrap.Engine.
func (e *Engine) Render(tree any) (wrap.Screen, error) {
	s, err := e.Mount(tree)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Within returns queries bound to the subtree below el.
func (e *Engine) Within(el wrap.Element) wrap.Queries {
	elem, err := elementOf(el)
	if err != nil {
		return errQueries{err: err}
	}
	return queries{screen: elem.screen, scope: elem.node}
}

// Click fires a click at el.
func (e *Engine) Click(el wrap.Element) error {
	elem, err := elementOf(el)
	if err != nil {
		return err
	}
	if isDisabled(elem.node) {
		e.log.Debug("click on disabled element ignored", zap.Stringer("target", elem))
		return nil
	}
	elem.screen.dispatch(elem.node, EventClick, "")
	return nil
}

// Focus fires a focus event at el and makes it the active element.
func (e *Engine) Focus(el wrap.Element) error {
	elem, err := elementOf(el)
	if err != nil {
		return err
	}
	elem.screen.setActive(elem.node)
	elem.screen.dispatch(elem.node, EventFocus, "")
	return nil
}

// Blur fires a blur event at el.
func (e *Engine) Blur(el wrap.Element) error {
	elem, err := elementOf(el)
	if err != nil {
		return err
	}
	elem.screen.clearActive(elem.node)
	elem.screen.dispatch(elem.node, EventBlur, "")
	return nil
}

// Change sets el's value and fires a change event when the value differs
// from the current one.
func (e *Engine) Change(el wrap.Element, value string) error {
	elem, err := elementOf(el)
	if err != nil {
		return err
	}
	if !elem.screen.setValue(elem.node, value) {
		e.log.Debug("value unchanged", zap.Stringer("target", elem))
		return nil
	}
	elem.screen.dispatch(elem.node, EventChange, value)
	return nil
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}
