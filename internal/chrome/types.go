package chrome

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrProtocolError    = errors.New("protocol error")
	ErrNodeNotFound     = errors.New("node not found")
)

// ProtocolError represents an error returned by the Chrome DevTools Protocol.
type ProtocolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error %d: %s", e.Code, e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return ErrProtocolError
}

// ExceptionError is returned when evaluated JavaScript throws.
type ExceptionError struct {
	Text string
}

func (e *ExceptionError) Error() string {
	return "JS exception: " + e.Text
}

// VersionInfo contains browser version information.
type VersionInfo struct {
	Browser         string `json:"browser"`
	ProtocolVersion string `json:"protocol"`
	UserAgent       string `json:"userAgent,omitempty"`
	V8Version       string `json:"v8,omitempty"`
}

// EvalResult contains the result of evaluating a JavaScript expression.
type EvalResult struct {
	Value interface{} `json:"value"`
	Type  string      `json:"type,omitempty"`
}

// String returns the value as a string, or "" when it is null or undefined.
func (r *EvalResult) String() string {
	if r == nil || r.Value == nil {
		return ""
	}
	if s, ok := r.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.Value)
}

// NodeInfo describes a DOM node.
type NodeInfo struct {
	NodeID     int64             `json:"nodeId"`
	NodeName   string            `json:"nodeName"`
	LocalName  string            `json:"localName"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ConsoleMessage represents a console message from the browser.
type ConsoleMessage struct {
	Type string `json:"type"` // "log", "warn", "error", "info", "debug"
	Text string `json:"text"`
}

// attributeMap converts the protocol's flat name/value list into a map.
func attributeMap(flat []string) map[string]string {
	attrs := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		attrs[flat[i]] = flat[i+1]
	}
	return attrs
}
