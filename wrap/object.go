package wrap

import (
	"maps"
	"slices"
)

// Scope tags an object as bound to the whole render or to one element.
type Scope uint8

const (
	RootScope Scope = iota
	ElementScope
)

func (s Scope) String() string {
	switch s {
	case RootScope:
		return "root"
	case ElementScope:
		return "element"
	}
	return "unknown"
}

// Names of the operations only available on root objects.
const (
	OpUnmount    = "unmount"
	OpAsFragment = "asFragment"
	OpRerender   = "rerender"
	OpDebug      = "debug"
)

// rootOnly resolves root-only operations by scope: roots reach their screen,
// scoped objects fail.
var rootOnly = map[Scope]func(o *Object, op string) (Screen, error){
	RootScope: func(o *Object, _ string) (Screen, error) {
		return o.screen, nil
	},
	ElementScope: func(_ *Object, op string) (Screen, error) {
		return nil, &UnsupportedError{Op: op}
	},
}

// Object is a query object composed with custom props.
//
// Objects are never mutated after construction; Compose returns new ones.
type Object struct {
	Queries

	// Actions is bound to the scoped element. It is nil on root objects,
	// where every action returns ErrNoActions: scope to an element with
	// Within to act on it.
	*Actions

	scope  Scope
	engine Engine
	screen Screen
	base   Element
	props  Props
}

// Root wraps a rendered screen in a root object with no custom props.
func Root(engine Engine, screen Screen) *Object {
	return &Object{
		Queries: screen,
		scope:   RootScope,
		engine:  engine,
		screen:  screen,
		base:    screen.BaseElement(),
		props:   Props{},
	}
}

// Within returns an object scoped to el: queries over its subtree, actions
// bound to it and root-only operations disabled.
func Within(engine Engine, el Element) *Object {
	return &Object{
		Queries: engine.Within(el),
		Actions: NewActions(engine, el),
		scope:   ElementScope,
		engine:  engine,
		base:    el,
		props:   Props{},
	}
}

// Within scopes to el using the same engine as o.
func (o *Object) Within(el Element) *Object {
	return Within(o.engine, el)
}

// Scope reports whether o is a root or element object.
func (o *Object) Scope() Scope { return o.scope }

// Engine returns the engine o was built with.
func (o *Object) Engine() Engine { return o.engine }

// BaseElement returns the element o's queries are bound to.
func (o *Object) BaseElement() Element { return o.base }

// Container returns the render container. It is nil on scoped objects.
func (o *Object) Container() Element {
	if o.scope != RootScope {
		return nil
	}
	return o.screen.Container()
}

// Prop returns the custom prop stored under key.
func (o *Object) Prop(key string) (any, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Props returns a copy of the custom props.
func (o *Object) Props() Props {
	return maps.Clone(o.props)
}

// Keys returns the custom prop keys in sorted order.
func (o *Object) Keys() []string {
	return slices.Sorted(maps.Keys(o.props))
}

func (o *Object) rootScreen(op string) (Screen, error) {
	return rootOnly[o.scope](o, op)
}

// Unmount removes the rendered tree. Root only.
func (o *Object) Unmount() error {
	s, err := o.rootScreen(OpUnmount)
	if err != nil {
		return err
	}
	return s.Unmount()
}

// AsFragment returns a snapshot of the rendered markup. Root only.
func (o *Object) AsFragment() (string, error) {
	s, err := o.rootScreen(OpAsFragment)
	if err != nil {
		return "", err
	}
	return s.AsFragment()
}

// Rerender renders tree into the existing container. Root only.
func (o *Object) Rerender(tree any) error {
	s, err := o.rootScreen(OpRerender)
	if err != nil {
		return err
	}
	return s.Rerender(tree)
}

// Debug dumps the rendered document. Root only.
func (o *Object) Debug() error {
	s, err := o.rootScreen(OpDebug)
	if err != nil {
		return err
	}
	return s.Debug()
}
