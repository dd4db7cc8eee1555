// Package bookshelf declares the book catalog schema: books, their authors
// and genres, and the users who favorite them, together with a Store that
// reads and writes them through the orm query layer.
package bookshelf

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Column bounds shared by validation and the table declarations.
const (
	MaxTitleLen      = 80
	MaxAuthorNameLen = 80
	MaxGenreNameLen  = 80
	MaxUsernameLen   = 20
)

type Book struct {
	ID          int64      `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	AuthorID    int64      `json:"author_id,omitempty"`
	Audience    Audience   `json:"audience,omitempty"`

	Author *Author `json:"author,omitempty"`
	Genres []Genre `json:"genres,omitempty"`
	Users  []User  `json:"users,omitempty"`
}

type Author struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`

	Books []Book `json:"books,omitempty"`
}

type Genre struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`

	Books []Book `json:"books,omitempty"`
}

type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`

	FavoriteBooks []Book `json:"favorite_books,omitempty"`
}

func (b Book) String() string   { return fmt.Sprintf("<Book: %s>", b.Title) }
func (a Author) String() string { return fmt.Sprintf("<Author: %s>", a.Name) }
func (g Genre) String() string  { return fmt.Sprintf("<Genre: %s>", g.Name) }
func (u User) String() string   { return fmt.Sprintf("<User: %s>", u.Username) }

// Validate checks the attributes written by CreateBook and UpdateBook.
// Relations are ignored.
func (b Book) Validate() error {
	if err := checkText("book", "title", b.Title, MaxTitleLen); err != nil {
		return err
	}
	if b.AuthorID <= 0 {
		return &ValidationError{Entity: "book", Field: "author_id", Err: ErrRequired}
	}
	if !b.Audience.orDefault().Valid() {
		return &ValidationError{
			Entity: "book",
			Field:  "audience",
			Err:    fmt.Errorf("%w: %d", ErrInvalidAudience, int(b.Audience)),
		}
	}
	return nil
}

func (a Author) Validate() error {
	return checkText("author", "name", a.Name, MaxAuthorNameLen)
}

func (g Genre) Validate() error {
	return checkText("genre", "name", g.Name, MaxGenreNameLen)
}

func (u User) Validate() error {
	return checkText("user", "username", u.Username, MaxUsernameLen)
}

func checkText(entity, field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Entity: entity, Field: field, Err: ErrRequired}
	}
	if n := utf8.RuneCountInString(value); n > limit {
		return &ValidationError{
			Entity: entity,
			Field:  field,
			Err:    fmt.Errorf("%w: %d > %d characters", ErrTooLong, n, limit),
		}
	}
	return nil
}

// dateOnly truncates t to its calendar date in UTC, the precision of the
// publish_date column.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
