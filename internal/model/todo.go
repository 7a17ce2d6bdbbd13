package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Todo is the domain model for a todo entry.
//
// Entries read from storage keep their stored bytes whenever re-encoding
// them from {id, todo} would change them: extra fields, a missing or
// non-string todo, or an entry with no integer id at all. An entry matches
// lookups by id as long as its id is an integer, whatever else it holds.
type Todo struct {
	ID   int64  `json:"id"`
	Todo string `json:"todo"`

	keyed bool
	raw   json.RawMessage
}

// New returns a well-formed todo.
func New(id int64, text string) Todo {
	return Todo{ID: id, Todo: text, keyed: true}
}

// Malformed reports whether the entry has no integer id, so no lookup can
// ever reach it.
func (t Todo) Malformed() bool { return !t.keyed }

// Matches reports whether t carries the given id.
func (t Todo) Matches(id int64) bool {
	return t.keyed && t.ID == id
}

// Raw returns the stored bytes when they differ from the plain {id, todo}
// encoding, nil otherwise.
func (t Todo) Raw() json.RawMessage { return t.raw }

type todoJSON struct {
	ID   int64  `json:"id"`
	Todo string `json:"todo"`
}

func (t Todo) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	return json.Marshal(todoJSON{ID: t.ID, Todo: t.Todo})
}

func (t *Todo) UnmarshalJSON(b []byte) error {
	*t = Todo{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		t.keepRaw(b)
		return nil
	}
	id, ok := ParseIntegerID(fields["id"])
	if !ok {
		t.keepRaw(b)
		return nil
	}
	t.ID, t.keyed = id, true
	if rawTodo, present := fields["todo"]; present {
		if err := json.Unmarshal(rawTodo, &t.Todo); err != nil {
			t.Todo = ""
		}
	}
	if !t.plainEncoding(b) {
		t.keepRaw(b)
	}
	return nil
}

// SetText replaces the todo text. Any other stored field is left as it was.
func (t *Todo) SetText(text string) error {
	t.Todo = text
	if t.raw == nil {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(t.raw, &fields); err != nil {
		return fmt.Errorf("decode stored entry: %w", err)
	}
	enc, err := json.Marshal(text)
	if err != nil {
		return err
	}
	fields["todo"] = enc
	b, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	t.raw = nil
	if !t.plainEncoding(b) {
		t.keepRaw(b)
	}
	return nil
}

// plainEncoding reports whether b is exactly what MarshalJSON produces
// for t without stored bytes.
func (t Todo) plainEncoding(b []byte) bool {
	want, err := json.Marshal(todoJSON{ID: t.ID, Todo: t.Todo})
	if err != nil {
		return false
	}
	var got bytes.Buffer
	if err := json.Compact(&got, b); err != nil {
		return false
	}
	return bytes.Equal(got.Bytes(), want)
}

func (t *Todo) keepRaw(b []byte) {
	t.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
}

// ParseIntegerID accepts a JSON number literal with an integral value that
// fits in int64. Strings, booleans and null are rejected.
func ParseIntegerID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// IndexByID returns the position of the first entry matching id, or -1.
func IndexByID(items []Todo, id int64) int {
	for i, it := range items {
		if it.Matches(id) {
			return i
		}
	}
	return -1
}

// Remove drops the entry at idx, keeping the order of the others.
func Remove(items []Todo, idx int) []Todo {
	return append(items[:idx], items[idx+1:]...)
}
