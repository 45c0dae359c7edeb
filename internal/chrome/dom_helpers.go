package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Document enables the DOM domain on the target and returns the document's
// root node ID. Node IDs from earlier calls are invalidated.
func (c *Client) Document(ctx context.Context, targetID string) (int64, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return 0, err
	}

	_, err = c.CallSession(ctx, sessionID, "DOM.enable", nil)
	if err != nil {
		return 0, fmt.Errorf("enabling DOM domain: %w", err)
	}

	docResult, err := c.CallSession(ctx, sessionID, "DOM.getDocument", nil)
	if err != nil {
		return 0, fmt.Errorf("getting document: %w", err)
	}

	var docResp struct {
		Root struct {
			NodeID int64 `json:"nodeId"`
		} `json:"root"`
	}
	if err := json.Unmarshal(docResult, &docResp); err != nil {
		return 0, fmt.Errorf("parsing document response: %w", err)
	}

	return docResp.Root.NodeID, nil
}

// QuerySelector returns the first descendant of nodeID matching selector.
func (c *Client) QuerySelector(ctx context.Context, targetID string, nodeID int64, selector string) (int64, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return 0, err
	}

	queryResult, err := c.CallSession(ctx, sessionID, "DOM.querySelector", map[string]interface{}{
		"nodeId":   nodeID,
		"selector": selector,
	})
	if err != nil {
		return 0, fmt.Errorf("querying selector: %w", err)
	}

	var queryResp struct {
		NodeID int64 `json:"nodeId"`
	}
	if err := json.Unmarshal(queryResult, &queryResp); err != nil {
		return 0, fmt.Errorf("parsing query response: %w", err)
	}

	if queryResp.NodeID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, selector)
	}

	return queryResp.NodeID, nil
}

// QuerySelectorAll returns every descendant of nodeID matching selector, in
// document order.
func (c *Client) QuerySelectorAll(ctx context.Context, targetID string, nodeID int64, selector string) ([]int64, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	queryResult, err := c.CallSession(ctx, sessionID, "DOM.querySelectorAll", map[string]interface{}{
		"nodeId":   nodeID,
		"selector": selector,
	})
	if err != nil {
		return nil, fmt.Errorf("querying selector: %w", err)
	}

	var queryResp struct {
		NodeIDs []int64 `json:"nodeIds"`
	}
	if err := json.Unmarshal(queryResult, &queryResp); err != nil {
		return nil, fmt.Errorf("parsing query response: %w", err)
	}

	return queryResp.NodeIDs, nil
}

// DescribeNode returns the name and attributes of a node.
func (c *Client) DescribeNode(ctx context.Context, targetID string, nodeID int64) (*NodeInfo, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result, err := c.CallSession(ctx, sessionID, "DOM.describeNode", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return nil, fmt.Errorf("describing node: %w", err)
	}

	var resp struct {
		Node struct {
			NodeName   string   `json:"nodeName"`
			LocalName  string   `json:"localName"`
			Attributes []string `json:"attributes"`
		} `json:"node"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return nil, fmt.Errorf("parsing describe response: %w", err)
	}

	return &NodeInfo{
		NodeID:     nodeID,
		NodeName:   resp.Node.NodeName,
		LocalName:  resp.Node.LocalName,
		Attributes: attributeMap(resp.Node.Attributes),
	}, nil
}

// ResolveNode returns a remote object ID for a node.
func (c *Client) ResolveNode(ctx context.Context, targetID string, nodeID int64) (string, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return "", err
	}

	result, err := c.CallSession(ctx, sessionID, "DOM.resolveNode", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return "", fmt.Errorf("resolving node: %w", err)
	}

	var resp struct {
		Object struct {
			ObjectID string `json:"objectId"`
		} `json:"object"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return "", fmt.Errorf("parsing resolve response: %w", err)
	}
	if resp.Object.ObjectID == "" {
		return "", fmt.Errorf("%w: node %d", ErrNodeNotFound, nodeID)
	}

	return resp.Object.ObjectID, nil
}

// RequestNode returns the node ID for a remote object referencing a node.
func (c *Client) RequestNode(ctx context.Context, targetID string, objectID string) (int64, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return 0, err
	}

	result, err := c.CallSession(ctx, sessionID, "DOM.requestNode", map[string]interface{}{
		"objectId": objectID,
	})
	if err != nil {
		return 0, fmt.Errorf("requesting node: %w", err)
	}

	var resp struct {
		NodeID int64 `json:"nodeId"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return 0, fmt.Errorf("parsing request node response: %w", err)
	}
	if resp.NodeID == 0 {
		return 0, fmt.Errorf("%w: object %s", ErrNodeNotFound, objectID)
	}

	return resp.NodeID, nil
}

// CallFunctionOn calls a JavaScript function with objectID as this and
// returns the result by value.
func (c *Client) CallFunctionOn(ctx context.Context, targetID string, objectID string, fn string, args ...interface{}) (*EvalResult, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result, err := c.CallSession(ctx, sessionID, "Runtime.callFunctionOn", map[string]interface{}{
		"objectId":            objectID,
		"functionDeclaration": fn,
		"arguments":           callArguments(args),
		"returnByValue":       true,
	})
	if err != nil {
		return nil, fmt.Errorf("calling function: %w", err)
	}

	return parseEvalResult(result)
}

// CallFunctionOnNode resolves nodeID and calls fn on it.
func (c *Client) CallFunctionOnNode(ctx context.Context, targetID string, nodeID int64, fn string, args ...interface{}) (*EvalResult, error) {
	objectID, err := c.ResolveNode(ctx, targetID, nodeID)
	if err != nil {
		return nil, err
	}
	defer c.releaseObject(targetID, objectID)

	return c.CallFunctionOn(ctx, targetID, objectID, fn, args...)
}

// ObjectElements calls fn on objectID, expecting it to return an array of
// nodes, and converts the array into node IDs in index order.
func (c *Client) ObjectElements(ctx context.Context, targetID string, objectID string, fn string, args ...interface{}) ([]int64, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result, err := c.CallSession(ctx, sessionID, "Runtime.callFunctionOn", map[string]interface{}{
		"objectId":            objectID,
		"functionDeclaration": fn,
		"arguments":           callArguments(args),
	})
	if err != nil {
		return nil, fmt.Errorf("calling function: %w", err)
	}

	var callResp struct {
		Result struct {
			ObjectID string `json:"objectId"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	}
	if err := json.Unmarshal(result, &callResp); err != nil {
		return nil, fmt.Errorf("parsing call response: %w", err)
	}
	if callResp.ExceptionDetails != nil {
		return nil, &ExceptionError{Text: callResp.ExceptionDetails.Text}
	}
	if callResp.Result.ObjectID == "" {
		return nil, nil
	}
	defer c.releaseObject(targetID, callResp.Result.ObjectID)

	propsResult, err := c.CallSession(ctx, sessionID, "Runtime.getProperties", map[string]interface{}{
		"objectId":      callResp.Result.ObjectID,
		"ownProperties": true,
	})
	if err != nil {
		return nil, fmt.Errorf("getting properties: %w", err)
	}

	var propsResp struct {
		Result []struct {
			Name  string `json:"name"`
			Value *struct {
				ObjectID string `json:"objectId"`
			} `json:"value"`
		} `json:"result"`
	}
	if err := json.Unmarshal(propsResult, &propsResp); err != nil {
		return nil, fmt.Errorf("parsing properties response: %w", err)
	}

	type indexed struct {
		index    int
		objectID string
	}
	var items []indexed
	for _, p := range propsResp.Result {
		i, err := strconv.Atoi(p.Name)
		if err != nil || p.Value == nil || p.Value.ObjectID == "" {
			continue
		}
		items = append(items, indexed{index: i, objectID: p.Value.ObjectID})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].index < items[b].index })

	nodeIDs := make([]int64, 0, len(items))
	for _, item := range items {
		nodeID, err := c.RequestNode(ctx, targetID, item.objectID)
		if err != nil {
			return nil, err
		}
		nodeIDs = append(nodeIDs, nodeID)
	}
	return nodeIDs, nil
}

// NodeElements resolves nodeID and runs ObjectElements on it.
func (c *Client) NodeElements(ctx context.Context, targetID string, nodeID int64, fn string, args ...interface{}) ([]int64, error) {
	objectID, err := c.ResolveNode(ctx, targetID, nodeID)
	if err != nil {
		return nil, err
	}
	defer c.releaseObject(targetID, objectID)

	return c.ObjectElements(ctx, targetID, objectID, fn, args...)
}

// OuterHTML returns the serialized markup of a node.
func (c *Client) OuterHTML(ctx context.Context, targetID string, nodeID int64) (string, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return "", err
	}

	result, err := c.CallSession(ctx, sessionID, "DOM.getOuterHTML", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return "", fmt.Errorf("getting outer HTML: %w", err)
	}

	var resp struct {
		OuterHTML string `json:"outerHTML"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return "", fmt.Errorf("parsing outer HTML response: %w", err)
	}
	return resp.OuterHTML, nil
}

// releaseObject frees a remote object (best effort).
func (c *Client) releaseObject(targetID, objectID string) {
	c.sessionsMu.Lock()
	sessionID, ok := c.sessions[targetID]
	c.sessionsMu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.CallSession(ctx, sessionID, "Runtime.releaseObject", map[string]interface{}{
		"objectId": objectID,
	})
}

func callArguments(args []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(args))
	for _, a := range args {
		out = append(out, map[string]interface{}{"value": a})
	}
	return out
}

// getNodeCenter returns the center coordinates of a DOM node by its node ID.
func (c *Client) getNodeCenter(ctx context.Context, sessionID string, nodeID int64) (x, y float64, err error) {
	boxResult, err := c.CallSession(ctx, sessionID, "DOM.getBoxModel", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("getting box model: %w", err)
	}

	var boxResp struct {
		Model struct {
			Content []float64 `json:"content"`
		} `json:"model"`
	}
	if err := json.Unmarshal(boxResult, &boxResp); err != nil {
		return 0, 0, fmt.Errorf("parsing box model response: %w", err)
	}

	content := boxResp.Model.Content
	if len(content) < 8 {
		return 0, 0, fmt.Errorf("invalid box model")
	}

	x = (content[0] + content[2] + content[4] + content[6]) / 4
	y = (content[1] + content[3] + content[5] + content[7]) / 4
	return x, y, nil
}

// dispatchMouseClick dispatches mouseMoved, mousePressed, and mouseReleased events.
func (c *Client) dispatchMouseClick(ctx context.Context, sessionID string, x, y float64, button string, clickCount int) error {
	_, err := c.CallSession(ctx, sessionID, "Input.dispatchMouseEvent", map[string]interface{}{
		"type": "mouseMoved",
		"x":    x,
		"y":    y,
	})
	if err != nil {
		return fmt.Errorf("dispatching mouseMoved: %w", err)
	}

	for _, typ := range []string{"mousePressed", "mouseReleased"} {
		_, err = c.CallSession(ctx, sessionID, "Input.dispatchMouseEvent", map[string]interface{}{
			"type":       typ,
			"x":          x,
			"y":          y,
			"button":     button,
			"clickCount": clickCount,
		})
		if err != nil {
			return fmt.Errorf("dispatching %s: %w", typ, err)
		}
	}

	return nil
}
