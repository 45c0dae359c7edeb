package wrap

import "errors"

// ErrOperationNotSupported is returned when a root-only operation is called
// on an object scoped to an element.
var ErrOperationNotSupported = errors.New("This operation is only supported at root element!")

// ErrNoActions is returned when an action is called on an object that is not
// bound to an element. Scope to the element with Within first.
var ErrNoActions = errors.New("no element bound for actions")

// UnsupportedError records which root-only operation was rejected.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return ErrOperationNotSupported.Error()
}

func (e *UnsupportedError) Unwrap() error {
	return ErrOperationNotSupported
}
