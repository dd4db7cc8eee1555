package main

import (
	"context"
	"errors"
	"time"

	"pollex.nl/bookshelf"
)

type seedBook struct {
	title    string
	author   string
	year     int
	audience bookshelf.Audience
	genres   []string
	fans     []string
}

var demoCatalog = []seedBook{
	{"A Wizard of Earthsea", "Ursula K. Le Guin", 1968, bookshelf.AudienceYoungAdult, []string{"fantasy"}, []string{"ann"}},
	{"The Dispossessed", "Ursula K. Le Guin", 1974, bookshelf.AudienceAdult, []string{"sci-fi", "politics"}, []string{"ann", "bo"}},
	{"Finn Family Moomintroll", "Tove Jansson", 1948, bookshelf.AudienceChildren, []string{"fantasy"}, nil},
	{"Kindred", "Octavia E. Butler", 1979, 0, []string{"sci-fi"}, []string{"bo"}},
}

// seedCatalog inserts the demo catalog. Genres and users that already exist
// are reused; books are inserted only into an empty catalog.
func seedCatalog(ctx context.Context, store *bookshelf.Store) error {
	existing, err := store.ListBooks(ctx, bookshelf.Opts{Fields: []string{"id"}})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	authors := map[string]int64{}
	for _, entry := range demoCatalog {
		if _, ok := authors[entry.author]; ok {
			continue
		}
		author, err := store.CreateAuthor(ctx, bookshelf.Author{Name: entry.author})
		if err != nil {
			return err
		}
		authors[entry.author] = author.ID
	}

	for _, entry := range demoCatalog {
		book := bookshelf.Book{
			Title:       entry.title,
			PublishDate: yearStart(entry.year),
			AuthorID:    authors[entry.author],
			Audience:    entry.audience,
		}
		for _, name := range entry.genres {
			genre, err := genreNamed(ctx, store, name)
			if err != nil {
				return err
			}
			book.Genres = append(book.Genres, genre)
		}
		for _, username := range entry.fans {
			user, err := userNamed(ctx, store, username)
			if err != nil {
				return err
			}
			book.Users = append(book.Users, user)
		}

		if _, err := store.CreateBook(ctx, book); err != nil {
			return err
		}
	}

	return nil
}

func genreNamed(ctx context.Context, store *bookshelf.Store, name string) (bookshelf.Genre, error) {
	genre, err := store.CreateGenre(ctx, bookshelf.Genre{Name: name})
	if errors.Is(err, bookshelf.ErrAlreadyExists) {
		found, err := store.GetGenreByName(ctx, name, bookshelf.Opts{})
		if err != nil {
			return bookshelf.Genre{}, err
		}
		return *found, nil
	}
	return genre, err
}

func userNamed(ctx context.Context, store *bookshelf.Store, username string) (bookshelf.User, error) {
	user, err := store.CreateUser(ctx, bookshelf.User{Username: username})
	if errors.Is(err, bookshelf.ErrAlreadyExists) {
		found, err := store.GetUserByUsername(ctx, username, bookshelf.Opts{})
		if err != nil {
			return bookshelf.User{}, err
		}
		return *found, nil
	}
	return user, err
}

func yearStart(year int) *time.Time {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}
