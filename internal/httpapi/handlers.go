package httpapi

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/todos"
)

// Handlers serves the /todos resource from a todos.Service.
type Handlers struct {
	svc    *todos.Service
	logger *log.Logger
}

// NewHandlers wires handlers to svc.
func NewHandlers(svc *todos.Service, logger *log.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// Register mounts the five routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /todos", h.CreateTodo)
	mux.HandleFunc("GET /todos", h.ListTodos)
	mux.HandleFunc("GET /todos/{id}", h.GetTodo)
	mux.HandleFunc("PUT /todos/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", h.DeleteTodo)
}

// CreateTodo adds a todo from {id, todo}.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err, todos.MsgCreateUnexpected)
		return
	}
	req, err := todos.DecodeCreate(body)
	if err != nil {
		h.fail(w, r, err, todos.MsgCreateUnexpected)
		return
	}
	todo, err := h.svc.Create(req)
	if err != nil {
		h.fail(w, r, err, todos.MsgCreateUnexpected)
		return
	}
	writeJSON(w, http.StatusOK, todos.OK(todos.MsgCreated, &todo))
}

// ListTodos returns the stored array as is.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List()
	if err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetTodo returns the first todo matching the path id.
func (h *Handlers) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.svc.Get(todos.ParseKey(r.PathValue("id")))
	if err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	writeJSON(w, http.StatusOK, todos.OK(todos.MsgFound, &todo))
}

// UpdateTodo replaces the text of the first todo matching the path id.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	req, err := todos.DecodeUpdate(body)
	if err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	todo, err := h.svc.Update(todos.ParseKey(r.PathValue("id")), req)
	if err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	writeJSON(w, http.StatusOK, todos.OK(todos.MsgUpdated, &todo))
}

// DeleteTodo removes the first todo matching the path id.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(todos.ParseKey(r.PathValue("id"))); err != nil {
		h.fail(w, r, err, todos.MsgUnexpected)
		return
	}
	writeJSON(w, http.StatusOK, todos.OK(todos.MsgDeleted, nil))
}

// fail writes the error document. Errors that didn't come from the service
// (a broken request body, say) are reported as unexpected with fallbackMsg.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	if errors.Is(err, errTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, todos.Result{Message: msgTooLarge})
		return
	}
	var te *todos.Error
	if !errors.As(err, &te) {
		err = &todos.Error{Kind: todos.ErrUnexpected, Message: fallbackMsg, Err: err}
	}
	status := todos.Status(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, todos.Failure(err))
}
