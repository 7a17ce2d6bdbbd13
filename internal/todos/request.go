package todos

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	createSchema = mustCompileSchema("create.json")
	updateSchema = mustCompileSchema("update.json")
)

func mustCompileSchema(name string) *jsonschema.Schema {
	b, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("todos: read schema %s: %v", name, err))
	}
	return jsonschema.MustCompileString(name, string(b))
}

// CreateRequest is a validated create payload.
type CreateRequest struct {
	ID   int64  `json:"id"`
	Todo string `json:"todo"`
}

// UpdateRequest is a validated update payload.
type UpdateRequest struct {
	Todo string `json:"todo"`
}

// Validate applies the presence checks: a zero id counts as missing, as
// does an empty todo.
func (r CreateRequest) Validate() error {
	if r.ID == 0 || r.Todo == "" {
		return newError(ErrValidation, MsgEnterIDAndTodo)
	}
	return nil
}

func (r UpdateRequest) Validate() error {
	if r.Todo == "" {
		return newError(ErrValidation, MsgTodoRequired)
	}
	return nil
}

// NewCreateRequest builds a create payload from command-line text. The id
// must be a whole base-10 number.
func NewCreateRequest(id, text string) (CreateRequest, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return CreateRequest{}, &Error{Kind: ErrValidation, Message: MsgEnterIDAndTodo, Err: err}
	}
	req := CreateRequest{ID: n, Todo: text}
	if err := req.Validate(); err != nil {
		return CreateRequest{}, err
	}
	return req, nil
}

// DecodeCreate checks body against the create schema and decodes it. An
// empty body counts as an empty object.
func DecodeCreate(body []byte) (CreateRequest, error) {
	doc, err := decode(body, createSchema, MsgEnterIDAndTodo)
	if err != nil {
		return CreateRequest{}, err
	}
	num, _ := doc["id"].(json.Number)
	id, ok := model.ParseIntegerID(json.RawMessage(num.String()))
	if !ok {
		return CreateRequest{}, &Error{Kind: ErrValidation, Message: MsgEnterIDAndTodo,
			Err: fmt.Errorf("id %s out of range", num)}
	}
	text, _ := doc["todo"].(string)
	return CreateRequest{ID: id, Todo: text}, nil
}

// DecodeUpdate checks body against the update schema and decodes it.
func DecodeUpdate(body []byte) (UpdateRequest, error) {
	doc, err := decode(body, updateSchema, MsgTodoRequired)
	if err != nil {
		return UpdateRequest{}, err
	}
	text, _ := doc["todo"].(string)
	return UpdateRequest{Todo: text}, nil
}

// DecodeCreateArgs validates already-decoded arguments, as handed over by
// the MCP transport.
func DecodeCreateArgs(args map[string]any) (CreateRequest, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return CreateRequest{}, &Error{Kind: ErrValidation, Message: MsgEnterIDAndTodo, Err: err}
	}
	return DecodeCreate(body)
}

// DecodeUpdateArgs is DecodeCreateArgs for updates.
func DecodeUpdateArgs(args map[string]any) (UpdateRequest, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return UpdateRequest{}, &Error{Kind: ErrValidation, Message: MsgTodoRequired, Err: err}
	}
	return DecodeUpdate(body)
}

// decode parses body keeping numbers exact and validates it against schema.
// Schema failures carry msg; unparseable JSON carries MsgInvalidBody.
func decode(body []byte, schema *jsonschema.Schema, msg string) (map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte(`{}`)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &Error{Kind: ErrValidation, Message: MsgInvalidBody, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &Error{Kind: ErrValidation, Message: MsgInvalidBody, Err: errors.New("unexpected data after JSON value")}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &Error{Kind: ErrValidation, Message: msg, Err: err}
	}
	obj, _ := doc.(map[string]any)
	return obj, nil
}
