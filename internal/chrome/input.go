package chrome

import (
	"context"
	"fmt"
)

// setValueFunction assigns through the prototype's native value setter so
// frameworks tracking the property observe the change, then fires input
// and change.
const setValueFunction = `function(value) {
	const proto = this instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
		: this instanceof HTMLSelectElement ? HTMLSelectElement.prototype
		: HTMLInputElement.prototype;
	const desc = Object.getOwnPropertyDescriptor(proto, 'value');
	if (desc && desc.set && (this instanceof HTMLInputElement || this instanceof HTMLTextAreaElement || this instanceof HTMLSelectElement)) {
		desc.set.call(this, value);
	} else {
		this.value = value;
	}
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`

// ClickNode scrolls a node into view and clicks its centre.
func (c *Client) ClickNode(ctx context.Context, targetID string, nodeID int64) error {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return err
	}

	_, err = c.CallSession(ctx, sessionID, "DOM.scrollIntoViewIfNeeded", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return fmt.Errorf("scrolling into view: %w", err)
	}

	x, y, err := c.getNodeCenter(ctx, sessionID, nodeID)
	if err != nil {
		return err
	}

	return c.dispatchMouseClick(ctx, sessionID, x, y, "left", 1)
}

// FocusNode focuses a node.
func (c *Client) FocusNode(ctx context.Context, targetID string, nodeID int64) error {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return err
	}

	_, err = c.CallSession(ctx, sessionID, "DOM.focus", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return fmt.Errorf("focusing element: %w", err)
	}

	return nil
}

// BlurNode removes focus from a node.
func (c *Client) BlurNode(ctx context.Context, targetID string, nodeID int64) error {
	_, err := c.CallFunctionOnNode(ctx, targetID, nodeID, `function() { this.blur(); }`)
	if err != nil {
		return fmt.Errorf("blurring element: %w", err)
	}
	return nil
}

// SetNodeValue sets a form control's value and fires input and change events.
func (c *Client) SetNodeValue(ctx context.Context, targetID string, nodeID int64, value string) error {
	_, err := c.CallFunctionOnNode(ctx, targetID, nodeID, setValueFunction, value)
	if err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	return nil
}
