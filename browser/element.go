package browser

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/tomyan/screenwrap/wrap"
)

const textContentFunction = `function() { return this.textContent; }`

// Element is a handle to a node in the tab. Attributes and text are
// captured when the element is returned from a query.
type Element struct {
	engine *Engine
	nodeID int64
	tag    string
	attrs  map[string]string
	text   string
}

var _ wrap.Element = (*Element)(nil)

// Attribute implements wrap.Element.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Text implements wrap.Element.
func (e *Element) Text() string { return e.text }

// Attributes returns a copy of the attributes captured with the element.
func (e *Element) Attributes() map[string]string {
	return maps.Clone(e.attrs)
}

// Tag returns the element's lower-case tag name.
func (e *Element) Tag() string { return e.tag }

// NodeID returns the protocol node id.
func (e *Element) NodeID() int64 { return e.nodeID }

func (e *Element) String() string {
	if id, ok := e.attrs[e.engine.testIDAttr]; ok {
		return fmt.Sprintf("<%s %s=%q>", e.tag, e.engine.testIDAttr, id)
	}
	return fmt.Sprintf("<%s>", e.tag)
}

func (e *Engine) element(ctx context.Context, nodeID int64) (*Element, error) {
	info, err := e.client.DescribeNode(ctx, e.targetID, nodeID)
	if err != nil {
		return nil, err
	}
	text, err := e.client.CallFunctionOnNode(ctx, e.targetID, nodeID, textContentFunction)
	if err != nil {
		return nil, err
	}
	return &Element{
		engine: e,
		nodeID: nodeID,
		tag:    info.LocalName,
		attrs:  info.Attributes,
		text:   text.String(),
	}, nil
}

// handle returns an element for nodeID, falling back to a bare handle when
// the node can't be described.
func (e *Engine) handle(nodeID int64) *Element {
	ctx, cancel := e.callContext()
	defer cancel()

	el, err := e.element(ctx, nodeID)
	if err != nil {
		e.log.Warn("describing element", zap.Int64("node", nodeID), zap.Error(err))
		return &Element{engine: e, nodeID: nodeID, attrs: map[string]string{}}
	}
	return el
}
