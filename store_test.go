package bookshelf_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pollex.nl/bookshelf"
)

func newStore(t testing.TB) *bookshelf.Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := bookshelf.Open(
		context.Background(),
		"sqlite3",
		filepath.Join(t.TempDir(), "bookshelf.db"),
		bookshelf.WithLogger(logger),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func mustAuthor(t testing.TB, store *bookshelf.Store, name string) bookshelf.Author {
	t.Helper()
	author, err := store.CreateAuthor(context.Background(), bookshelf.Author{Name: name})
	require.NoError(t, err)
	return author
}

func mustGenre(t testing.TB, store *bookshelf.Store, name string) bookshelf.Genre {
	t.Helper()
	genre, err := store.CreateGenre(context.Background(), bookshelf.Genre{Name: name})
	require.NoError(t, err)
	return genre
}

func mustUser(t testing.TB, store *bookshelf.Store, username string) bookshelf.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), bookshelf.User{Username: username})
	require.NoError(t, err)
	return user
}

func mustBook(t testing.TB, store *bookshelf.Store, book bookshelf.Book) bookshelf.Book {
	t.Helper()
	book, err := store.CreateBook(context.Background(), book)
	require.NoError(t, err)
	return book
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func genreNames(genres []bookshelf.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func bookTitles(books []bookshelf.Book) []string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	return titles
}
