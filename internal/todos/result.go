package todos

import "github.com/Makepad-fr/tada/internal/model"

// Result is the response document shared by the HTTP and MCP surfaces.
type Result struct {
	Message string      `json:"message"`
	Todo    *model.Todo `json:"todo,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK builds a success document. todo may be nil.
func OK(msg string, todo *model.Todo) Result {
	return Result{Message: msg, Todo: todo}
}

// Failure builds the document for err: the client message, plus the
// underlying cause for unexpected failures.
func Failure(err error) Result {
	return Result{Message: Message(err), Error: Cause(err)}
}
