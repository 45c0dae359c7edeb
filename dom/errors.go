package dom

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrNoMatch         = errors.New("no matching element")
	ErrMultipleMatches = errors.New("multiple matching elements")
	ErrUnsupportedTree = errors.New("unsupported tree")
	ErrForeignElement  = errors.New("element not rendered by this engine")
	ErrInvalidTag      = errors.New("invalid tag name")
)

// QueryError describes a query that matched the wrong number of elements.
type QueryError struct {
	By    string
	Value string
	Count int
}

func (e *QueryError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("unable to find an element by %s: %q", e.By, e.Value)
	}
	return fmt.Sprintf("found %d elements by %s: %q", e.Count, e.By, e.Value)
}

func (e *QueryError) Unwrap() error {
	if e.Count == 0 {
		return ErrNoMatch
	}
	return ErrMultipleMatches
}
