package todos

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/memstore"
)

func todoTextGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 ,.!?]{1,40}`)
}

// Writing N todos with distinct ids then listing returns exactly those N
// in insertion order.
func testCreateList_RoundTrip_Properties(t *rapid.T) {
	svc := NewService(memstore.New())

	ids := rapid.SliceOfNDistinct(rapid.Int64Range(1, 1_000_000), 0, 30, rapid.ID[int64]).Draw(t, "ids")
	want := make([]model.Todo, 0, len(ids))
	for _, id := range ids {
		text := todoTextGenerator().Draw(t, "text")
		got, err := svc.Create(CreateRequest{ID: id, Todo: text})
		if err != nil {
			t.Fatalf("Create(%d) failed: %v", id, err)
		}
		want = append(want, got)
	}

	items, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d todos, got %d", len(want), len(items))
	}
	for i := range want {
		if !reflect.DeepEqual(items[i], want[i]) {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], items[i])
		}
	}
}

func TestCreateList_RoundTrip_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCreateList_RoundTrip_Properties)
}

// Ids stay unique no matter how many creates collide.
func testCreate_UniqueIDs_Properties(t *rapid.T) {
	svc := NewService(memstore.New())

	ops := rapid.SliceOfN(rapid.Int64Range(1, 8), 1, 40).Draw(t, "ids")
	seen := map[int64]bool{}
	for _, id := range ops {
		_, err := svc.Create(CreateRequest{ID: id, Todo: "x"})
		if seen[id] {
			if Status(err) != 400 || Message(err) != MsgDuplicate {
				t.Fatalf("second create of %d: expected duplicate, got %v", id, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("first create of %d failed: %v", id, err)
		}
		seen[id] = true
	}

	items, _ := svc.List()
	if len(items) != len(seen) {
		t.Fatalf("expected %d entries, got %d", len(seen), len(items))
	}
	count := map[int64]int{}
	for _, it := range items {
		count[it.ID]++
		if count[it.ID] > 1 {
			t.Fatalf("id %d stored twice", it.ID)
		}
	}
}

func TestCreate_UniqueIDs_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCreate_UniqueIDs_Properties)
}

// Deleting one id leaves every other entry in its original order.
func testDelete_PreservesOthers_Properties(t *rapid.T) {
	n := rapid.IntRange(1, 20).Draw(t, "n")
	seed := make([]model.Todo, n)
	for i := range seed {
		seed[i] = model.New(int64(i+1), todoTextGenerator().Draw(t, "text"))
	}
	svc := NewService(memstore.New(seed...))

	victim := rapid.IntRange(0, n-1).Draw(t, "victim")
	if err := svc.Delete(KeyOf(seed[victim].ID)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	items, _ := svc.List()
	want := append(append([]model.Todo{}, seed[:victim]...), seed[victim+1:]...)
	if len(items) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(items))
	}
	for i := range want {
		if !reflect.DeepEqual(items[i], want[i]) {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], items[i])
		}
	}
}

func TestDelete_PreservesOthers_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testDelete_PreservesOthers_Properties)
}
