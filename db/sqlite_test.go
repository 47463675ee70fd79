package db

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	created, err := store.Create(ctx, PostCreate{Title: "First", Author: "홍길동", Content: "body"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 1 || created.Views != 0 {
		t.Fatalf("unexpected created post: %+v", created)
	}

	got, err := store.Get(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected 1 view, got %d", got.Views)
	}

	title := "Renamed"
	updated, err := store.Update(ctx, created.ID, PostUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.Author != "홍길동" {
		t.Fatalf("partial update broken: %+v", updated)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

// Search terms containing LIKE metacharacters must match literally, the
// same way the in-memory store's substring match treats them.
func TestSQLiteStoreSearchLiteralMetacharacters(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	mem := NewMemoryStore()

	posts := []PostCreate{
		{Title: "Plain post", Author: "홍길동", Content: "nothing special"},
		{Title: "Sale: 100% off", Author: "홍길동", Content: "discount"},
		{Title: "snake_case", Author: "홍길동", Content: "identifiers"},
		{Title: `C:\temp`, Author: "홍길동", Content: "windows path"},
	}
	for _, p := range posts {
		if _, err := store.Create(ctx, p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := mem.Create(ctx, p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	cases := []struct {
		q    string
		want int
	}{
		{"%", 1},        // only the literal percent sign
		{"100%", 1},     // literal substring, not "100<anything>"
		{"_", 1},        // not a single-character wildcard
		{"e_c", 1},      // matches snake_case only
		{`\`, 1},        // literal backslash
		{`C:\temp`, 1},  //
		{"%_", 0},       //
		{"missing", 0},  //
		{"post", 1},     // normal search still works
	}

	for _, c := range cases {
		_, total, err := store.List(ctx, ListQuery{Query: c.q, SortBy: SortByID, Page: 1, Size: 10})
		if err != nil {
			t.Fatalf("sqlite list q=%q failed: %v", c.q, err)
		}
		if total != c.want {
			t.Errorf("sqlite q=%q matched %d posts, want %d", c.q, total, c.want)
		}

		_, memTotal, err := mem.List(ctx, ListQuery{Query: c.q, SortBy: SortByID, Page: 1, Size: 10})
		if err != nil {
			t.Fatalf("memory list q=%q failed: %v", c.q, err)
		}
		if total != memTotal {
			t.Errorf("backends disagree for q=%q: sqlite=%d memory=%d", c.q, total, memTotal)
		}
	}
}

func TestSQLiteStoreSeedAndPaging(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := Seed(ctx, store); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 35 {
		t.Fatalf("expected 35 seeded posts, got %d", n)
	}

	posts, total, err := store.List(ctx, ListQuery{SortBy: SortByID, SortDesc: true, Page: 2, Size: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 35 || len(posts) != 10 || posts[0].ID != 25 {
		t.Fatalf("page 2 wrong: total=%d len=%d first=%d", total, len(posts), posts[0].ID)
	}

	// New posts continue after the seeded ids.
	created, err := store.Create(ctx, PostCreate{Title: "t", Author: "a", Content: "c"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 36 {
		t.Fatalf("expected id 36 after seeding, got %d", created.ID)
	}
}
