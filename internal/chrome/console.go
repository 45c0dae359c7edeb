package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// CaptureConsole streams console messages from a target until stop is
// called or the connection closes.
func (c *Client) CaptureConsole(ctx context.Context, targetID string) (<-chan ConsoleMessage, func(), error) {
	sessionID, err := c.attachToTarget(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}

	// Enable Runtime domain to receive console events
	_, err = c.CallSession(ctx, sessionID, "Runtime.enable", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("enabling Runtime domain: %w", err)
	}

	eventCh := c.subscribeEvent(sessionID, "Runtime.consoleAPICalled")
	output := make(chan ConsoleMessage, 100)

	done := make(chan struct{})
	var stopOnce sync.Once

	// Runtime stays enabled; other helpers on the session rely on it.
	stop := func() {
		stopOnce.Do(func() {
			close(done)
			c.unsubscribeEvent(sessionID, "Runtime.consoleAPICalled", eventCh)
		})
	}

	go func() {
		defer close(output)
		for {
			select {
			case params, ok := <-eventCh:
				if !ok {
					return
				}
				msg, ok := parseConsoleEvent(params)
				if !ok {
					continue
				}
				select {
				case output <- msg:
				default:
					// Drop if channel is full
				}
			case <-done:
				return
			case <-c.closeCh:
				return
			}
		}
	}()

	return output, stop, nil
}

func parseConsoleEvent(params json.RawMessage) (ConsoleMessage, bool) {
	var event struct {
		Type string `json:"type"`
		Args []struct {
			Type  string      `json:"type"`
			Value interface{} `json:"value"`
		} `json:"args"`
	}
	if err := json.Unmarshal(params, &event); err != nil {
		return ConsoleMessage{}, false
	}

	parts := make([]string, 0, len(event.Args))
	for _, arg := range event.Args {
		if arg.Value != nil {
			parts = append(parts, fmt.Sprintf("%v", arg.Value))
		} else {
			parts = append(parts, "")
		}
	}
	return ConsoleMessage{Type: event.Type, Text: strings.Join(parts, " ")}, true
}
