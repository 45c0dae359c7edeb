package wrap

// Element is a read-only handle to a rendered node.
type Element interface {
	// Attribute returns the value of the named attribute and whether it is present.
	Attribute(name string) (string, bool)
	// Text returns the element's text content.
	Text() string
}

// Queries locates elements within a bound subtree.
//
// Get variants fail when nothing or more than one element matches. Query
// variants return a nil element when nothing matches. GetAll fails on zero
// matches, QueryAll returns an empty slice.
type Queries interface {
	GetByText(text string) (Element, error)
	QueryByText(text string) (Element, error)
	GetAllByText(text string) ([]Element, error)
	QueryAllByText(text string) ([]Element, error)

	GetByTestID(id string) (Element, error)
	QueryByTestID(id string) (Element, error)
	GetAllByTestID(id string) ([]Element, error)
	QueryAllByTestID(id string) ([]Element, error)
}

// EventSimulator fires user interaction events at a single element.
type EventSimulator interface {
	Click(el Element) error
	Focus(el Element) error
	Blur(el Element) error
	Change(el Element, value string) error
}

// Screen is the result of rendering a tree. Its queries cover the whole
// rendered document.
type Screen interface {
	Queries

	// Container is the element the tree was rendered into.
	Container() Element
	// BaseElement is the element root queries are bound to.
	BaseElement() Element

	Rerender(tree any) error
	Unmount() error
	AsFragment() (string, error)
	Debug() error
}

// Engine renders trees and binds queries and events to elements.
type Engine interface {
	EventSimulator

	// Render renders tree. The tree is opaque to this package.
	Render(tree any) (Screen, error)
	// Within returns queries bound to the subtree below el.
	Within(el Element) Queries
}
