package bookshelf_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf"
)

func TestGenreNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	mustGenre(t, store, "mystery")

	_, err := store.CreateGenre(ctx, bookshelf.Genre{Name: "mystery"})
	require.ErrorIs(t, err, bookshelf.ErrAlreadyExists)

	var liteErr sqlite3.Error
	require.True(t, errors.As(err, &liteErr))
	assert.Equal(t, sqlite3.ErrConstraintUnique, liteErr.ExtendedCode)

	genres, err := store.ListGenres(ctx, bookshelf.Opts{})
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}

func TestUsernamesAreUnique(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	mustUser(t, store, "ada")

	_, err := store.CreateUser(ctx, bookshelf.User{Username: "ada"})
	assert.ErrorIs(t, err, bookshelf.ErrAlreadyExists)

	_, err = store.CreateUser(ctx, bookshelf.User{Username: strings.Repeat("a", bookshelf.MaxUsernameLen+1)})
	assert.ErrorIs(t, err, bookshelf.ErrTooLong)

	_, err = store.CreateUser(ctx, bookshelf.User{})
	assert.ErrorIs(t, err, bookshelf.ErrRequired)
}

func TestLookupByName(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	horror := mustGenre(t, store, "horror")
	ada := mustUser(t, store, "ada")

	genre, err := store.GetGenreByName(ctx, "horror", bookshelf.Opts{})
	require.NoError(t, err)
	assert.Equal(t, horror, *genre)

	user, err := store.GetUserByUsername(ctx, "ada", bookshelf.Opts{})
	require.NoError(t, err)
	assert.Equal(t, ada, *user)

	_, err = store.GetGenreByName(ctx, "western", bookshelf.Opts{})
	assert.ErrorIs(t, err, bookshelf.ErrNotFound)
	_, err = store.GetUserByUsername(ctx, "grace", bookshelf.Opts{})
	assert.ErrorIs(t, err, bookshelf.ErrNotFound)
	_, err = store.GetUser(ctx, 404, bookshelf.Opts{})
	assert.ErrorIs(t, err, bookshelf.ErrNotFound)
}

func TestDeleteAuthorIsRestricted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	author := mustAuthor(t, store, "Busy")
	idle := mustAuthor(t, store, "Idle")
	book := mustBook(t, store, bookshelf.Book{Title: "Only book", AuthorID: author.ID})

	err := store.DeleteAuthor(ctx, author.ID)
	require.ErrorIs(t, err, bookshelf.ErrReferenced)

	_, err = store.GetAuthor(ctx, author.ID, bookshelf.Opts{})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAuthor(ctx, idle.ID))
	require.NoError(t, store.DeleteBook(ctx, book.ID))
	require.NoError(t, store.DeleteAuthor(ctx, author.ID))

	assert.ErrorIs(t, store.DeleteAuthor(ctx, author.ID), bookshelf.ErrNotFound)

	authors, err := store.ListAuthors(ctx, bookshelf.Opts{})
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestDeleteUserDropsFavorites(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	author := mustAuthor(t, store, "Loved")
	book := mustBook(t, store, bookshelf.Book{Title: "Popular", AuthorID: author.ID})
	ann := mustUser(t, store, "ann")
	require.NoError(t, store.AddFavoriteBooks(ctx, ann.ID, book.ID))

	require.NoError(t, store.DeleteUser(ctx, ann.ID))

	users, err := store.BookUsers(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.ErrorIs(t, store.DeleteUser(ctx, ann.ID), bookshelf.ErrNotFound)
}

func TestListAuthorsWithBooks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	le := mustAuthor(t, store, "Le Guin")
	mustAuthor(t, store, "Unpublished")
	mustBook(t, store, bookshelf.Book{Title: "Lathe of Heaven", AuthorID: le.ID})
	mustBook(t, store, bookshelf.Book{Title: "Always Coming Home", AuthorID: le.ID})

	authors, err := store.ListAuthors(ctx, bookshelf.Opts{Fields: []string{"name", "books.title"}})
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Le Guin", authors[0].Name)
	assert.Equal(t, []string{"Lathe of Heaven", "Always Coming Home"}, bookTitles(authors[0].Books))
	assert.Empty(t, authors[1].Books)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := bookshelf.Open(context.Background(), "postgres", "postgres://localhost/books")
	assert.Error(t, err)

	_, err = bookshelf.Open(context.Background(), "sqlite3", " ")
	assert.Error(t, err)
}
