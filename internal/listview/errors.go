package listview

import (
	"errors"
	"fmt"
)

// Kind classifies a remote failure. The controller treats every kind the
// same way for rollback purposes; the kind exists so callers can phrase the
// error for the operator.
type Kind int

const (
	// KindValidation: the server rejected the payload (4xx) before any
	// state change happened server-side.
	KindValidation Kind = iota + 1
	// KindNetwork: the call never completed (timeout, connectivity).
	KindNetwork
	// KindServer: the server failed (5xx).
	KindServer
)

// String implements the stringer interface.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the normalized form every remote failure takes before it reaches
// the controller. Transport layers map their raw errors into this type at
// the boundary.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for network failures
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// StatusError normalizes a non-2xx HTTP response into an Error.
func StatusError(status int, message string) *Error {
	kind := KindValidation
	if status >= 500 {
		kind = KindServer
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// NetworkError wraps a transport failure into an Error.
func NetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

// KindOf extracts the Kind from err, or KindNetwork when err is not a
// normalized Error (a transport error that escaped the boundary mapping).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}
