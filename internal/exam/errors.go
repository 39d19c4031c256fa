package exam

import (
	"errors"
	"fmt"
)

// Kind classifies expected failures so callers can map them to responses
// without string matching.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
	KindAlreadyAnswered Kind = "already_answered"
	KindStaleQuestion   Kind = "stale_or_future_question"
	KindValidation      Kind = "validation_error"
	KindUpstream        Kind = "upstream_unavailable"
)

// Error carries a Kind alongside the message. State-mutating operations
// return these instead of crashing; no partial state is ever observable.
type Error struct {
	Kind    Kind
	Message string
	cause   error
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

// KindOf extracts the Kind from an error chain, or empty if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func errNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func errAlreadyAnswered(participantID string) *Error {
	return &Error{Kind: KindAlreadyAnswered, Message: fmt.Sprintf("participant %s already answered the current question", participantID)}
}

func errStaleQuestion(got, want int) *Error {
	return &Error{Kind: KindStaleQuestion, Message: fmt.Sprintf("question index %d is not the current question %d", got, want)}
}

func errValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func errUpstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, cause: cause}
}
