package session

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError is a local rejection: empty source text, a submission
// already in flight, or a parameter write that cannot be stored.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError signals that the call to the generation service did not
// complete: connectivity, timeout or a non-success HTTP status.
type TransportError struct {
	// StatusCode is the HTTP status when the service answered, 0 otherwise.
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation service returned %d: %s", e.StatusCode, e.Message)
	}
	return "generation service unreachable: " + e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseShapeError signals a response body that is not
// {generated_text: string, status: string}.
type ResponseShapeError struct {
	Message string
	Err     error
}

func (e *ResponseShapeError) Error() string { return "malformed generation response: " + e.Message }

func (e *ResponseShapeError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsResponseShape reports whether err is a malformed response.
func IsResponseShape(err error) bool {
	var se *ResponseShapeError
	return errors.As(err, &se)
}

var (
	errEmptyText = &ValidationError{Field: FieldSourceText, Reason: "text is required"}
	errInFlight  = &ValidationError{Reason: "a submission is already in flight"}
)

// describe maps a Generator error onto the lastError descriptor. Errors that
// are neither shape nor transport errors are reported as transport failures.
func describe(err error) *ErrorInfo {
	var se *ResponseShapeError
	if errors.As(err, &se) {
		return &ErrorInfo{Kind: KindResponseShape, Message: se.Error()}
	}
	var te *TransportError
	if errors.As(err, &te) {
		return &ErrorInfo{Kind: KindTransport, Message: te.Error(), StatusCode: te.StatusCode}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ErrorInfo{Kind: KindTransport, Message: "generation service timed out"}
	}
	if errors.Is(err, context.Canceled) {
		return &ErrorInfo{Kind: KindTransport, Message: "submission canceled"}
	}
	return &ErrorInfo{Kind: KindTransport, Message: err.Error()}
}
