package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

func newTestChapter(t *testing.T, s *Store, bookID, title string) *domain.Chapter {
	t.Helper()
	ctx := context.Background()
	pos, err := s.NextChapterPosition(ctx, bookID)
	if err != nil {
		t.Fatalf("next chapter position: %v", err)
	}
	c := &domain.Chapter{
		BookID:   bookID,
		Title:    title,
		Position: pos,
	}
	c.ID = id.MustGenerate("chap")
	c.InitTimestamps()
	if err := s.CreateChapter(ctx, c); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return c
}

func TestChapterCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	b := newTestBook(t, s, u.ID, "Book")
	c := newTestChapter(t, s, b.ID, "Chapter One")

	got, err := s.GetChapter(ctx, c.ID)
	if err != nil {
		t.Fatalf("get chapter: %v", err)
	}
	if got.Title != "Chapter One" || got.Position != 0 {
		t.Errorf("chapter = %+v", got)
	}

	got.Title = "Renamed"
	got.HTMLContent = "<article><p>Hello.</p></article>"
	got.Touch()
	if err := s.UpdateChapter(ctx, got); err != nil {
		t.Fatalf("update chapter: %v", err)
	}

	again, err := s.GetChapter(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Title != "Renamed" || again.HTMLContent == "" {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := s.DeleteChapter(ctx, c.ID); err != nil {
		t.Fatalf("delete chapter: %v", err)
	}
	if _, err := s.GetChapter(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted chapter should be invisible, got %v", err)
	}
}

func TestCreateChaptersBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	b := newTestBook(t, s, u.ID, "Book")

	var batch []*domain.Chapter
	for i, title := range []string{"One", "Two", "Three"} {
		c := &domain.Chapter{BookID: b.ID, Title: title, Position: i}
		c.ID = id.MustGenerate("chap")
		c.InitTimestamps()
		batch = append(batch, c)
	}
	if err := s.CreateChapters(ctx, batch); err != nil {
		t.Fatalf("batch create: %v", err)
	}

	chapters, err := s.ListChapters(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chapters))
	}
	for i, c := range chapters {
		if c.Position != i {
			t.Errorf("chapter %q position = %d, want %d", c.Title, c.Position, i)
		}
	}
}

func TestReorderChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	b := newTestBook(t, s, u.ID, "Book")
	one := newTestChapter(t, s, b.ID, "One")
	two := newTestChapter(t, s, b.ID, "Two")
	three := newTestChapter(t, s, b.ID, "Three")

	if err := s.ReorderChapters(ctx, b.ID, []string{three.ID, one.ID, two.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	chapters, err := s.ListChapters(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Three", "One", "Two"}
	for i := range want {
		if chapters[i].Title != want[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, chapters[i].Title, want[i])
		}
	}

	if err := s.ReorderChapters(ctx, b.ID, []string{one.ID, two.ID}); !errors.Is(err, store.ErrConflict) {
		t.Errorf("partial set should conflict, got %v", err)
	}
}
