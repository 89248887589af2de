package backoffice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized means the back office refused the forwarded token. Callers
// should send the operator back to sign in rather than alert.
var ErrUnauthorized = errors.New("back office rejected credentials")

// TransportError wraps failures that never produced an HTTP response: dial
// errors, timeouts, cancelled contexts and an open circuit breaker.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("back office %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a 422 from the back office with per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "back office validation failed: " + e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("back office validation failed on %s", strings.Join(names, ", "))
}

// StatusError is any other non-2xx answer.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("back office %s: unexpected status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("back office %s: status %d: %s", e.Op, e.Code, e.Message)
}

// DecodeError means a 2xx body did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("back office %s: malformed response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RejectedError is an order-create answer with flag=false. Message is shown
// to the operator as-is.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "back office rejected the order"
	}
	return "back office rejected the order: " + e.Message
}
