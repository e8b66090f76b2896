// Package apperr defines the error taxonomy shared by the model-call layer
// and the HTTP boundary. Every failure that can reach a caller is an *Error
// carrying a kind, a machine-readable code and an HTTP status hint, so the
// boundary can render a uniform envelope without leaking internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure independently of the message attached to it.
type Kind int

const (
	// KindTransport means the model host was unreachable, timed out or
	// answered with a non-success status.
	KindTransport Kind = iota
	// KindMalformedOutput means the host answered but the payload could not
	// be decoded into the expected shape.
	KindMalformedOutput
	// KindInvalidInput means a caller-supplied value failed a precondition
	// before any network call was issued.
	KindInvalidInput
	// KindUnsupportedContent means the supplied document is of a type this
	// service does not process.
	KindUnsupportedContent
	// KindContentCorrupt means the supplied document could not be parsed.
	KindContentCorrupt
	// KindInternal is the fallback for everything else.
	KindInternal
)

// Error is the single error value used across the service.
type Error struct {
	Kind    Kind
	Code    string
	Status  int
	Message string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Transport reports a failure to reach the model host.
func Transport(message string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Code:    "MODEL_UNREACHABLE",
		Status:  http.StatusBadGateway,
		Message: message,
		cause:   cause,
	}
}

// MalformedOutput reports a response that decoded at the transport level but
// carried no usable payload.
func MalformedOutput(message string, cause error) *Error {
	return &Error{
		Kind:    KindMalformedOutput,
		Code:    "MALFORMED_MODEL_OUTPUT",
		Status:  http.StatusBadGateway,
		Message: message,
		cause:   cause,
	}
}

// EmptyString reports a blank value where non-empty text was required.
func EmptyString(message string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    "EMPTY_STRING",
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// InvalidRequest reports a request that failed validation before processing.
func InvalidRequest(message string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    "INVALID_REQUEST",
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// UnsupportedContent reports a document type this service does not accept.
func UnsupportedContent(message string) *Error {
	return &Error{
		Kind:    KindUnsupportedContent,
		Code:    "UNSUPPORTED_FILE_TYPE",
		Status:  http.StatusUnsupportedMediaType,
		Message: message,
	}
}

// ContentCorrupt reports a document that could not be fetched or parsed.
func ContentCorrupt(message string, cause error) *Error {
	return &Error{
		Kind:    KindContentCorrupt,
		Code:    "UNPROCESSABLE_CONTENT",
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		cause:   cause,
	}
}

// Internal wraps an unexpected failure. The message shown to callers is
// generic; the cause stays available for logging.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL_SERVER_ERROR",
		Status:  http.StatusInternalServerError,
		Message: "unexpected error occurred",
		cause:   cause,
	}
}

// From extracts the *Error from err, falling back to Internal when err is not
// part of the taxonomy.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err belongs to the taxonomy with the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
