package routeerrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy surfaced to API callers.
type Kind string

const (
	KindBadRequest       Kind = "BadRequest"
	KindTemplateNotFound Kind = "TemplateNotFound"
	KindTemplateInvalid  Kind = "TemplateInvalid"
	KindTemplateTooSparse Kind = "TemplateTooSparse"
	KindGraphUnavailable Kind = "GraphUnavailable"
	KindNoPath           Kind = "NoPath"
	KindConnectorTooLong Kind = "ConnectorTooLong"
	KindFitFailed        Kind = "FitFailed"
	KindOutputUnavailable Kind = "OutputUnavailable"
	KindCancelled        Kind = "Cancelled"
	KindInternal         Kind = "Internal"
)

// Error is the error type carried through the pipeline and surfaced at the
// HTTP boundary as {kind, message}.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// KindOf extracts the Kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}
