package shop

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport failure or timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// LogicalError is a well-formed response with success set to false.
// Message is the server text and may be empty.
type LogicalError struct {
	Op      string
	Message string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected", e.Op)
	}
	return fmt.Sprintf("%s: rejected: %s", e.Op, e.Message)
}

// MalformedResponseError is a body that failed to decode.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.Op, e.Status)
}

// ServerMessage returns the server-provided message of a logical failure.
func ServerMessage(err error) (string, bool) {
	var logical *LogicalError
	if errors.As(err, &logical) && logical.Message != "" {
		return logical.Message, true
	}
	return "", false
}

// IsLogical reports whether err is a success=false response.
func IsLogical(err error) bool {
	var logical *LogicalError
	return errors.As(err, &logical)
}
