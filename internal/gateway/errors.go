package gateway

import (
	"errors"
	"fmt"
)

// TransportError means the request never completed: the server was
// unreachable, the connection dropped, or the context expired.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError means the server answered with a non-2xx status. The response
// body is captured (truncated) for diagnostics; its content is otherwise
// ignored.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Code, e.Body)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStatus reports whether err is a StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
