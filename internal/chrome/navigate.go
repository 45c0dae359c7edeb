package chrome

import (
	"context"
	"encoding/json"
	"fmt"
)

// Version returns the browser version information.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	result, err := c.Call(ctx, "Browser.getVersion", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Product         string `json:"product"`
		ProtocolVersion string `json:"protocolVersion"`
		UserAgent       string `json:"userAgent"`
		JsVersion       string `json:"jsVersion"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling version: %w", err)
	}

	return &VersionInfo{
		Browser:         resp.Product,
		ProtocolVersion: resp.ProtocolVersion,
		UserAgent:       resp.UserAgent,
		V8Version:       resp.JsVersion,
	}, nil
}

// NewTab creates a new browser tab and returns its target ID.
func (c *Client) NewTab(ctx context.Context, url string) (string, error) {
	if url == "" {
		url = "about:blank"
	}

	result, err := c.Call(ctx, "Target.createTarget", map[string]interface{}{
		"url": url,
	})
	if err != nil {
		return "", fmt.Errorf("creating target: %w", err)
	}

	var resp struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	return resp.TargetID, nil
}

// CloseTab closes a browser tab by its target ID.
func (c *Client) CloseTab(ctx context.Context, targetID string) error {
	// Remove session from cache before closing
	c.sessionsMu.Lock()
	delete(c.sessions, targetID)
	c.sessionsMu.Unlock()

	_, err := c.Call(ctx, "Target.closeTarget", map[string]interface{}{
		"targetId": targetID,
	})
	if err != nil {
		return fmt.Errorf("closing target: %w", err)
	}
	return nil
}

// Evaluate evaluates a JavaScript expression in the target's page and
// returns its value.
func (c *Client) Evaluate(ctx context.Context, targetID string, expression string) (*EvalResult, error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	_, err = c.CallSession(ctx, sessionID, "Runtime.enable", nil)
	if err != nil {
		return nil, fmt.Errorf("enabling Runtime domain: %w", err)
	}

	evalResult, err := c.CallSession(ctx, sessionID, "Runtime.evaluate", map[string]interface{}{
		"expression":    expression,
		"returnByValue": true,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluating expression: %w", err)
	}

	return parseEvalResult(evalResult)
}

func parseEvalResult(raw json.RawMessage) (*EvalResult, error) {
	var evalResp struct {
		Result struct {
			Type  string      `json:"type"`
			Value interface{} `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text      string `json:"text"`
			Exception *struct {
				Description string `json:"description"`
			} `json:"exception"`
		} `json:"exceptionDetails"`
	}
	if err := json.Unmarshal(raw, &evalResp); err != nil {
		return nil, fmt.Errorf("parsing eval response: %w", err)
	}

	if d := evalResp.ExceptionDetails; d != nil {
		text := d.Text
		if d.Exception != nil && d.Exception.Description != "" {
			text = d.Exception.Description
		}
		return nil, &ExceptionError{Text: text}
	}

	return &EvalResult{
		Value: evalResp.Result.Value,
		Type:  evalResp.Result.Type,
	}, nil
}
