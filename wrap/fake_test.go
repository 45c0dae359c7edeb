package wrap_test

import (
	"github.com/tomyan/screenwrap/wrap"
)

// fakeElement is a named element with attributes.
type fakeElement struct {
	name  string
	attrs map[string]string
}

func (e *fakeElement) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Text() string { return e.name }

// fakeQueries finds child elements by test id.
type fakeQueries struct {
	children map[string][]wrap.Element
}

func (q fakeQueries) GetByText(string) (wrap.Element, error)        { return nil, nil }
func (q fakeQueries) QueryByText(string) (wrap.Element, error)      { return nil, nil }
func (q fakeQueries) GetAllByText(string) ([]wrap.Element, error)   { return nil, nil }
func (q fakeQueries) QueryAllByText(string) ([]wrap.Element, error) { return nil, nil }

func (q fakeQueries) GetByTestID(id string) (wrap.Element, error) {
	return q.children[id][0], nil
}

func (q fakeQueries) QueryByTestID(id string) (wrap.Element, error) {
	if len(q.children[id]) == 0 {
		return nil, nil
	}
	return q.children[id][0], nil
}

func (q fakeQueries) GetAllByTestID(id string) ([]wrap.Element, error) {
	return q.children[id], nil
}

func (q fakeQueries) QueryAllByTestID(id string) ([]wrap.Element, error) {
	return q.children[id], nil
}

// fakeScreen records root operations.
type fakeScreen struct {
	fakeQueries
	body      *fakeElement
	container *fakeElement
	calls     []string
}

func (s *fakeScreen) Container() wrap.Element   { return s.container }
func (s *fakeScreen) BaseElement() wrap.Element { return s.body }

func (s *fakeScreen) Rerender(tree any) error {
	s.calls = append(s.calls, "rerender")
	return nil
}

func (s *fakeScreen) Unmount() error {
	s.calls = append(s.calls, "unmount")
	return nil
}

func (s *fakeScreen) AsFragment() (string, error) {
	s.calls = append(s.calls, "asFragment")
	return "<p>fragment</p>", nil
}

func (s *fakeScreen) Debug() error {
	s.calls = append(s.calls, "debug")
	return nil
}

// fakeEngine renders a fixed screen and records events.
type fakeEngine struct {
	screen    *fakeScreen
	renderErr error
	events    []string
}

func newFakeEngine() *fakeEngine {
	items := []wrap.Element{
		&fakeElement{name: "item 1", attrs: map[string]string{"data-value": "1"}},
		&fakeElement{name: "item 2", attrs: map[string]string{"data-value": "2"}},
	}
	return &fakeEngine{
		screen: &fakeScreen{
			fakeQueries: fakeQueries{children: map[string][]wrap.Element{"item": items}},
			body:        &fakeElement{name: "body"},
			container:   &fakeElement{name: "container"},
		},
	}
}

func (e *fakeEngine) Render(tree any) (wrap.Screen, error) {
	if e.renderErr != nil {
		return nil, e.renderErr
	}
	return e.screen, nil
}

func (e *fakeEngine) Within(el wrap.Element) wrap.Queries {
	return fakeQueries{}
}

func (e *fakeEngine) Click(el wrap.Element) error {
	e.events = append(e.events, "click "+el.Text())
	return nil
}

func (e *fakeEngine) Focus(el wrap.Element) error {
	e.events = append(e.events, "focus "+el.Text())
	return nil
}

func (e *fakeEngine) Blur(el wrap.Element) error {
	e.events = append(e.events, "blur "+el.Text())
	return nil
}

func (e *fakeEngine) Change(el wrap.Element, value string) error {
	e.events = append(e.events, "change "+el.Text()+" "+value)
	return nil
}
