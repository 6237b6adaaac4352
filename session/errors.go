package session

import (
	"errors"
	"fmt"

	"github.com/andrewpaige1/studybuddy/client"
)

var (
	ErrValidation = errors.New("validation error")
	ErrGeneration = errors.New("generation error")
	ErrSave       = errors.New("save error")
	ErrDelete     = errors.New("delete error")
	ErrLoad       = errors.New("load error")
	ErrTransport  = errors.New("transport error")
)

// Error is returned by every failing Manager operation. Kind is one of the
// sentinels above and is matched by errors.Is.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify turns a client error into a session error. Application errors
// take appKind and keep the backend's message when it sent one.
func classify(op string, appKind error, fallback string, err error) *Error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return &Error{Kind: appKind, Op: op, Message: msg, Err: err}
	}
	return &Error{Kind: ErrTransport, Op: op, Message: fallback + " Please try again.", Err: err}
}
