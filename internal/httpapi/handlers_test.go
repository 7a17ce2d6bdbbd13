package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/todos"
)

func setupTestRouter(st todos.Store) http.Handler {
	return NewHandler(todos.NewService(st), logging.Discard())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestScenario_CreateListUpdateDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	router := setupTestRouter(jsonstore.New(path))

	w := do(t, router, http.MethodPost, "/todos", map[string]any{"id": 1, "todo": "buy milk"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Todo created successfully!","todo":{"id":1,"todo":"buy milk"}}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"todo":"buy milk"}]`, w.Body.String())

	w = do(t, router, http.MethodPut, "/todos/1", map[string]any{"todo": "buy milk and eggs"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Todo updated successfully!","todo":{"id":1,"todo":"buy milk and eggs"}}`, w.Body.String())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"todo\": \"buy milk and eggs\"\n  }\n]", string(b))

	w = do(t, router, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Todo deleted successfully!"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStoredEntriesKeepTheirShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"todo":"a","done":true},{"id":2,"todo":null},{"id":4,"todo":7}]`), 0o644))
	router := setupTestRouter(jsonstore.New(path))

	w := do(t, router, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"todo":"a","done":true},{"id":2,"todo":null},{"id":4,"todo":7}]`, w.Body.String())

	w = do(t, router, http.MethodGet, "/todos/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Here is the todo!","todo":{"id":4,"todo":7}}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/todos", map[string]any{"id": 4, "todo": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/todos", map[string]any{"id": 3, "todo": "c"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPut, "/todos/1", map[string]any{"todo": "aa"})
	require.Equal(t, http.StatusOK, w.Code)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"todo":"aa","done":true},{"id":2,"todo":null},{"id":4,"todo":7},{"id":3,"todo":"c"}]`, string(b))
}

func TestCreateTodo_RetrievableByID(t *testing.T) {
	router := setupTestRouter(memstore.New())

	w := do(t, router, http.MethodPost, "/todos", map[string]any{"id": 42, "todo": "answer"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/todos/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Here is the todo!","todo":{"id":42,"todo":"answer"}}`, w.Body.String())
}

func TestCreateTodo_DuplicateID(t *testing.T) {
	st := memstore.New()
	router := setupTestRouter(st)

	w := do(t, router, http.MethodPost, "/todos", map[string]any{"id": 1, "todo": "first"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/todos", map[string]any{"id": 1, "todo": "second"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Todo with this id already exists!", decodeMap(t, w)["message"])

	items, _ := st.Load()
	assert.Equal(t, []model.Todo{model.New(1, "first")}, items)
}

func TestCreateTodo_MissingFields(t *testing.T) {
	st := memstore.New()
	router := setupTestRouter(st)

	for _, body := range []any{
		map[string]any{"todo": "no id"},
		map[string]any{"id": 3},
		map[string]any{"id": 0, "todo": "zero"},
		map[string]any{"id": 3, "todo": ""},
		map[string]any{},
	} {
		w := do(t, router, http.MethodPost, "/todos", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]any{"message": "Enter Id and Todo"}, decodeMap(t, w))
	}
	assert.Equal(t, 0, st.Saves())
}

func TestCreateTodo_NonJSONContentTypeReadsAsEmpty(t *testing.T) {
	st := memstore.New()
	router := setupTestRouter(st)

	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"id":1,"todo":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Enter Id and Todo", decodeMap(t, w)["message"])
	assert.Equal(t, 0, st.Saves())
}

func TestCreateTodo_MalformedJSON(t *testing.T) {
	router := setupTestRouter(memstore.New())

	w := do(t, router, http.MethodPost, "/todos", `{"id": 1,`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, todos.MsgInvalidBody, decodeMap(t, w)["message"])
}

func TestCreateTodo_BodyTooLarge(t *testing.T) {
	router := setupTestRouter(memstore.New())

	big := `{"id":1,"todo":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	w := do(t, router, http.MethodPost, "/todos", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetTodo_NotFound(t *testing.T) {
	router := setupTestRouter(memstore.New(model.New(1, "a")))

	for _, path := range []string{"/todos/2", "/todos/abc"} {
		w := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, map[string]any{"message": "Todo not found!"}, decodeMap(t, w))
	}
}

func TestGetTodo_IntegerPrefixMatches(t *testing.T) {
	router := setupTestRouter(memstore.New(model.New(12, "twelve")))

	w := do(t, router, http.MethodGet, "/todos/12abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "twelve", decodeMap(t, w)["todo"].(map[string]any)["todo"])
}

func TestUpdateTodo(t *testing.T) {
	st := memstore.New(model.New(1, "a"), model.New(2, "b"))
	router := setupTestRouter(st)

	w := do(t, router, http.MethodPut, "/todos/2", map[string]any{"todo": "bee", "id": 99})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Todo updated successfully!","todo":{"id":2,"todo":"bee"}}`, w.Body.String())

	items, _ := st.Load()
	assert.Equal(t, []model.Todo{model.New(1, "a"), model.New(2, "bee")}, items)
}

func TestUpdateTodo_MissingTodo(t *testing.T) {
	st := memstore.New(model.New(1, "a"))
	router := setupTestRouter(st)

	w := do(t, router, http.MethodPut, "/todos/1", map[string]any{"todo": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Todo content is required!", decodeMap(t, w)["message"])

	// Validation comes before the lookup, so an unknown id still gets 400.
	w = do(t, router, http.MethodPut, "/todos/404", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, st.Saves())
}

func TestUpdateTodo_NotFoundCreatesNothing(t *testing.T) {
	st := memstore.New(model.New(1, "a"))
	router := setupTestRouter(st)

	w := do(t, router, http.MethodPut, "/todos/2", map[string]any{"todo": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	items, _ := st.Load()
	assert.Equal(t, []model.Todo{model.New(1, "a")}, items)
}

func TestDeleteTodo_KeepsOthersInOrder(t *testing.T) {
	st := memstore.New(model.New(1, "a"), model.New(2, "b"), model.New(3, "c"))
	router := setupTestRouter(st)

	w := do(t, router, http.MethodDelete, "/todos/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	items, _ := st.Load()
	assert.Equal(t, []model.Todo{model.New(1, "a"), model.New(3, "c")}, items)
}

func TestDeleteTodo_RepeatedOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	router := setupTestRouter(jsonstore.New(path))

	for i := 0; i < 2; i++ {
		w := do(t, router, http.MethodDelete, "/todos/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "a failed delete must not create the file")
}

func TestDeleteTodo_NotFoundLeavesCollection(t *testing.T) {
	st := memstore.New(model.New(1, "a"))
	router := setupTestRouter(st)

	w := do(t, router, http.MethodDelete, "/todos/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, st.Saves())
}

func TestListTodos_RoundTripInsertionOrder(t *testing.T) {
	router := setupTestRouter(memstore.New())

	ids := []int{5, 3, 9, 1}
	for _, id := range ids {
		w := do(t, router, http.MethodPost, "/todos", map[string]any{"id": id, "todo": "t"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, router, http.MethodGet, "/todos", nil)
	var got []model.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(ids))
	for i, id := range ids {
		assert.Equal(t, int64(id), got[i].ID)
	}
}

func TestListTodos_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))
	router := setupTestRouter(jsonstore.New(path))

	w := do(t, router, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListTodos_MalformedEntriesVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	stored := `[{"id":"1","todo":"string id"},{"id":2,"todo":"ok"}]`
	require.NoError(t, os.WriteFile(path, []byte(stored), 0o644))
	router := setupTestRouter(jsonstore.New(path))

	w := do(t, router, http.MethodGet, "/todos", nil)
	assert.JSONEq(t, stored, w.Body.String())

	w = do(t, router, http.MethodGet, "/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageFailure_Returns500WithCause(t *testing.T) {
	st := memstore.New(model.New(1, "a"))
	router := setupTestRouter(st)
	st.FailSave(errors.New("disk full"))

	w := do(t, router, http.MethodPost, "/todos", map[string]any{"id": 2, "todo": "b"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": "Unexpected error in creating Todo!", "error": "disk full"}, decodeMap(t, w))

	w = do(t, router, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": "Unexpected error occurred!", "error": "disk full"}, decodeMap(t, w))

	st.FailLoad(errors.New("read failed"))
	w = do(t, router, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "read failed", decodeMap(t, w)["error"])
}
