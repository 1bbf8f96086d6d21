package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
)

func TestCreateBookAppends(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	first := e.createBook(t, u.ID, "First")
	second := e.createBook(t, u.ID, "Second")
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	books, err := e.books.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "First", books[0].Title)
}

func TestBookOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.registerUser(t, "owner@example.com")
	stranger := e.registerUser(t, "stranger@example.com")
	book := e.createBook(t, owner.ID, "Mine")

	_, err := e.books.Get(ctx, stranger.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = e.books.Get(ctx, owner.ID, "book-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = e.books.Delete(ctx, stranger.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUpdateBookOptimisticConcurrency(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")
	book := e.createBook(t, u.ID, "Original")

	// A stale timestamp loses.
	stale := book.UpdatedAt.Add(-time.Second)
	_, err := e.books.Update(ctx, u.ID, book.ID, UpdateBookRequest{Title: strPtr("Too late")}, &stale)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// The current timestamp wins.
	current := book.UpdatedAt
	updated, err := e.books.Update(ctx, u.ID, book.ID, UpdateBookRequest{
		Title:      strPtr("Renamed"),
		Visibility: strPtr("published"),
	}, &current)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.UpdatedAt.After(book.UpdatedAt))
}

func TestUpdateBookRejectsBadVisibility(t *testing.T) {
	e := newEnv(t)

	u := e.registerUser(t, "reader@example.com")
	book := e.createBook(t, u.ID, "Book")

	_, err := e.books.Update(context.Background(), u.ID, book.ID, UpdateBookRequest{
		Visibility: strPtr("secret"),
	}, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestReorderBooks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")
	a := e.createBook(t, u.ID, "A")
	b := e.createBook(t, u.ID, "B")
	c := e.createBook(t, u.ID, "C")

	books, err := e.books.Reorder(ctx, u.ID, []string{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "C", books[0].Title)
	assert.Equal(t, "A", books[1].Title)

	// A partial list is a conflict and leaves the order alone.
	_, err = e.books.Reorder(ctx, u.ID, []string{a.ID, b.ID})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	books, err = e.books.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", books[0].Title)
}

func TestDiscoverListsPublishedOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")
	draft := e.createBook(t, u.ID, "Draft")
	published := e.createBook(t, u.ID, "Published")
	_, err := e.books.Update(ctx, u.ID, published.ID, UpdateBookRequest{
		Visibility: strPtr("published"),
	}, nil)
	require.NoError(t, err)

	books, err := e.books.Discover(ctx, 0)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, published.ID, books[0].ID)
	assert.NotEqual(t, draft.ID, books[0].ID)

	books, err = e.books.Discover(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestDeleteBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")
	book := e.createBook(t, u.ID, "Doomed")

	require.NoError(t, e.books.Delete(ctx, u.ID, book.ID))

	_, err := e.books.Get(ctx, u.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
