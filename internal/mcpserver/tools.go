package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Makepad-fr/tada/internal/todos"
)

// Tools binds the todo operations to MCP tool handlers.
type Tools struct {
	svc *todos.Service
}

// NewTools returns tool handlers backed by svc.
func NewTools(svc *todos.Service) *Tools {
	return &Tools{svc: svc}
}

// CreateDefinition returns the todo_create tool definition.
func (t *Tools) CreateDefinition() mcp.Tool {
	return mcp.NewTool("todo_create",
		mcp.WithDescription("Create a todo. The id is chosen by the caller and must not already exist."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Integer id, unique across the list. 0 is not accepted."),
		),
		mcp.WithString("todo",
			mcp.Required(),
			mcp.Description("Todo text."),
		),
	)
}

// ListDefinition returns the todo_list tool definition.
func (t *Tools) ListDefinition() mcp.Tool {
	return mcp.NewTool("todo_list",
		mcp.WithDescription("List every todo in insertion order."),
	)
}

// GetDefinition returns the todo_get tool definition.
func (t *Tools) GetDefinition() mcp.Tool {
	return mcp.NewTool("todo_get",
		mcp.WithDescription("Get the todo with the given id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo id.")),
	)
}

// UpdateDefinition returns the todo_update tool definition.
func (t *Tools) UpdateDefinition() mcp.Tool {
	return mcp.NewTool("todo_update",
		mcp.WithDescription("Replace the text of the todo with the given id. The id itself never changes."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo id.")),
		mcp.WithString("todo", mcp.Required(), mcp.Description("New todo text.")),
	)
}

// DeleteDefinition returns the todo_delete tool definition.
func (t *Tools) DeleteDefinition() mcp.Tool {
	return mcp.NewTool("todo_delete",
		mcp.WithDescription("Delete the todo with the given id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo id.")),
	)
}

func (t *Tools) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := todos.DecodeCreateArgs(req.GetArguments())
	if err != nil {
		return failure(err), nil
	}
	todo, err := t.svc.Create(in)
	if err != nil {
		return failure(err), nil
	}
	return success(todos.OK(todos.MsgCreated, &todo))
}

func (t *Tools) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.svc.List()
	if err != nil {
		return failure(err), nil
	}
	return success(items)
}

func (t *Tools) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	todo, err := t.svc.Get(keyArg(req))
	if err != nil {
		return failure(err), nil
	}
	return success(todos.OK(todos.MsgFound, &todo))
}

func (t *Tools) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := todos.DecodeUpdateArgs(req.GetArguments())
	if err != nil {
		return failure(err), nil
	}
	todo, err := t.svc.Update(keyArg(req), in)
	if err != nil {
		return failure(err), nil
	}
	return success(todos.OK(todos.MsgUpdated, &todo))
}

func (t *Tools) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.svc.Delete(keyArg(req)); err != nil {
		return failure(err), nil
	}
	return success(todos.OK(todos.MsgDeleted, nil))
}

// keyArg reads the id argument. Numbers must be integral; strings go
// through the same parsing as an HTTP path segment.
func keyArg(req mcp.CallToolRequest) todos.Key {
	switch v := req.GetArguments()["id"].(type) {
	case float64:
		if v != float64(int64(v)) {
			return todos.Key{}
		}
		return todos.KeyOf(int64(v))
	case string:
		return todos.ParseKey(v)
	default:
		return todos.Key{}
	}
}

func success(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func failure(err error) *mcp.CallToolResult {
	res := todos.Failure(err)
	if res.Error != "" {
		return mcp.NewToolResultError(res.Message + ": " + res.Error)
	}
	return mcp.NewToolResultError(res.Message)
}
