package client

import (
	"errors"
	"fmt"
)

// TransportError means the service could never be reached: DNS, dial or
// timeout failure. For runs it triggers the demo fallback; for previews it is
// surfaced but never fatal.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("simulation service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the service was reached but rejected the request. The
// message is the service-provided reason when present, otherwise the HTTP
// status text, and is surfaced to the operator verbatim.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsTransport reports whether err originated at the transport layer.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ServiceMessage extracts the verbatim service failure reason, or "" when the
// error is not a ServiceError.
func ServiceMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
