package api

import "fmt"

// TransportError reports a network-level failure while contacting the
// archive host.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response from the archive host.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("archive returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// DecodeError reports a response body that was not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse archive JSON from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports a JSON response that decoded but was missing a
// field the client requires.
type SchemaError struct {
	URL   string
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("archive JSON from %s is missing %q", e.URL, e.Field)
}
