package todos

import (
	"errors"
	"net/http"
)

// Error kinds. Classify with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("duplicate id")
	ErrNotFound   = errors.New("not found")
	ErrUnexpected = errors.New("unexpected error")
)

// Client-facing messages.
const (
	MsgCreated = "Todo created successfully!"
	MsgFound   = "Here is the todo!"
	MsgUpdated = "Todo updated successfully!"
	MsgDeleted = "Todo deleted successfully!"

	MsgEnterIDAndTodo   = "Enter Id and Todo"
	MsgTodoRequired     = "Todo content is required!"
	MsgDuplicate        = "Todo with this id already exists!"
	MsgNotFound         = "Todo not found!"
	MsgInvalidBody      = "Invalid JSON body"
	MsgCreateUnexpected = "Unexpected error in creating Todo!"
	MsgUnexpected       = "Unexpected error occurred!"
)

// Error carries a kind, the message shown to clients and, for unexpected
// failures, the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func unexpected(msg string, err error) *Error {
	return &Error{Kind: ErrUnexpected, Message: msg, Err: err}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgUnexpected
}

// Cause returns the description of the underlying failure for unexpected
// errors, and "" for the expected kinds.
func Cause(err error) string {
	if err == nil || Status(err) != http.StatusInternalServerError {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
