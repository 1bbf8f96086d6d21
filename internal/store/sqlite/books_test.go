package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

func TestCreateBookSeedsSatellites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	b := newTestBook(t, s, u.ID, "The Hobbit")

	appearance, err := s.GetAppearance(ctx, b.ID)
	if err != nil {
		t.Fatalf("appearance should be seeded: %v", err)
	}
	if appearance.FontMin != 14 || appearance.FontMax != 28 {
		t.Errorf("appearance defaults = %d..%d", appearance.FontMin, appearance.FontMax)
	}
	if appearance.Light.BgPage == "" || appearance.Dark.BgPage == "" {
		t.Error("theme blocks should be populated")
	}

	if _, err := s.GetSounds(ctx, b.ID); err != nil {
		t.Errorf("sounds should be seeded: %v", err)
	}

	defaults, err := s.GetDefaultSettings(ctx, b.ID)
	if err != nil {
		t.Fatalf("default settings should be seeded: %v", err)
	}
	if defaults.Font == "" || defaults.FontSize == 0 {
		t.Errorf("default settings empty: %+v", defaults)
	}

	ambients, err := s.ListAmbients(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ambients) != 5 {
		t.Fatalf("got %d seeded ambients, want 5", len(ambients))
	}
	for i, a := range ambients {
		if !a.Builtin {
			t.Errorf("ambient %s should be builtin", a.AmbientKey)
		}
		if a.Position != i {
			t.Errorf("ambient %s position = %d, want %d", a.AmbientKey, a.Position, i)
		}
	}
}

func TestBookPositionsAppend(t *testing.T) {
	s := newTestStore(t)

	u := newTestUser(t, s, "reader@example.com")
	first := newTestBook(t, s, u.ID, "One")
	second := newTestBook(t, s, u.ID, "Two")

	if first.Position != 0 || second.Position != 1 {
		t.Errorf("positions = %d, %d; want 0, 1", first.Position, second.Position)
	}
}

func TestListBooksOrderedByPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	a := newTestBook(t, s, u.ID, "A")
	b := newTestBook(t, s, u.ID, "B")
	c := newTestBook(t, s, u.ID, "C")

	if err := s.ReorderBooks(ctx, u.ID, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	books, err := s.ListBooks(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	got := []string{books[0].Title, books[1].Title, books[2].Title}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReorderBooksRejectsWrongSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	a := newTestBook(t, s, u.ID, "A")
	b := newTestBook(t, s, u.ID, "B")

	cases := [][]string{
		{a.ID},                        // missing one
		{a.ID, b.ID, "book-phantom"},  // extra
		{a.ID, a.ID},                  // duplicate
		{a.ID, "book-phantom"},        // substituted
	}
	for _, ids := range cases {
		if err := s.ReorderBooks(ctx, u.ID, ids); !errors.Is(err, store.ErrConflict) {
			t.Errorf("ReorderBooks(%v) = %v, want ErrConflict", ids, err)
		}
	}

	// Order unchanged after rejected attempts.
	books, err := s.ListBooks(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if books[0].ID != a.ID || books[1].ID != b.ID {
		t.Error("rejected reorder must not change positions")
	}
}

func TestSoftDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	b := newTestBook(t, s, u.ID, "Doomed")

	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBook(ctx, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted book should be invisible, got %v", err)
	}
	if err := s.DeleteBook(ctx, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete should be ErrNotFound, got %v", err)
	}

	n, err := s.CountBooks(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("count after delete = %d", n)
	}
}

func TestListPublishedBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	other := newTestUser(t, s, "other@example.com")

	draft := newTestBook(t, s, u.ID, "Draft")
	published := newTestBook(t, s, other.ID, "Published")
	published.Visibility = domain.VisibilityPublished
	published.Touch()
	if err := s.UpdateBook(ctx, published); err != nil {
		t.Fatal(err)
	}

	books, err := s.ListPublishedBooks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].ID != published.ID {
		t.Errorf("discover feed = %v", books)
	}
	_ = draft
}

func TestUpdateBookNotFound(t *testing.T) {
	s := newTestStore(t)

	b := &domain.Book{Title: "Ghost"}
	b.ID = id.MustGenerate("book")
	b.InitTimestamps()

	if err := s.UpdateBook(context.Background(), b); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
