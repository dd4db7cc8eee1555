package bookshelf

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"pollex.nl/bookshelf/internal/orm"
)

// CreateBook inserts book together with its associations: the IDs of
// book.Genres and book.Users are linked to the new book in the same
// transaction. The returned book carries the assigned ID and the stored
// audience; relation fields are returned as given.
func (s *Store) CreateBook(ctx context.Context, book Book) (Book, error) {
	if err := book.Validate(); err != nil {
		return Book{}, err
	}
	book.Audience = book.Audience.orDefault()
	book.PublishDate = normalizeDate(book.PublishDate)

	genreIDs := lo.Map(book.Genres, func(g Genre, _ int) int64 { return g.ID })
	userIDs := lo.Map(book.Users, func(u User, _ int) int64 { return u.ID })

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.insert(ctx, "create book",
			s.builder(tx).Insert("book").
				Columns("title", "publish_date", "author_id", "audience").
				Values(book.Title, dateValue(book.PublishDate), book.AuthorID, book.Audience))
		if err != nil {
			return err
		}
		book.ID = id

		if err := s.link(ctx, tx, BookGenreTable, id, genreIDs); err != nil {
			return err
		}
		return s.link(ctx, tx, BookUserTable, id, userIDs)
	})
	if err != nil {
		return Book{}, err
	}

	s.logger.DebugContext(ctx, "book created",
		"id", book.ID,
		"genres", len(genreIDs),
		"users", len(userIDs),
	)

	return book, nil
}

// UpdateBook rewrites the attributes of the book with book.ID. Associations
// are left untouched.
func (s *Store) UpdateBook(ctx context.Context, book Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	return s.execAffecting(ctx, "update book",
		s.builder(s.db).Update("book").
			Set("title", book.Title).
			Set("publish_date", dateValue(normalizeDate(book.PublishDate))).
			Set("author_id", book.AuthorID).
			Set("audience", book.Audience.orDefault()).
			Where(squirrel.Eq{"id": book.ID}),
		ErrInvalidReference)
}

func (s *Store) GetBook(ctx context.Context, id int64, opts Opts) (*Book, error) {
	return collectOne(ctx, s.db, BookSchema, orm.WhereEq("id", id), opts)
}

func (s *Store) ListBooks(ctx context.Context, opts Opts) ([]Book, error) {
	return collectAll(ctx, s.db, BookSchema, opts)
}

// ListBooksFor returns the books written for audience.
func (s *Store) ListBooksFor(ctx context.Context, audience Audience, opts Opts) ([]Book, error) {
	if !audience.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAudience, int(audience))
	}
	return collectAll(ctx, s.db, BookSchema, opts, orm.WhereEq("audience", audience))
}

// BookAuthor returns the author who wrote the book.
func (s *Store) BookAuthor(ctx context.Context, bookID int64) (*Author, error) {
	book, err := s.GetBook(ctx, bookID, Opts{Fields: []string{"id"}, Expands: []string{"author"}})
	if err != nil {
		return nil, err
	}
	if book.Author == nil {
		return nil, fmt.Errorf("author of book %d: %w", bookID, ErrNotFound)
	}
	return book.Author, nil
}

// BookGenres returns the genres the book is tagged with.
func (s *Store) BookGenres(ctx context.Context, bookID int64) ([]Genre, error) {
	book, err := s.GetBook(ctx, bookID, Opts{Fields: []string{"id"}, Expands: []string{"genres"}})
	if err != nil {
		return nil, err
	}
	return book.Genres, nil
}

// BookUsers returns the users who marked the book as favorite.
func (s *Store) BookUsers(ctx context.Context, bookID int64) ([]User, error) {
	book, err := s.GetBook(ctx, bookID, Opts{Fields: []string{"id"}, Expands: []string{"users"}})
	if err != nil {
		return nil, err
	}
	return book.Users, nil
}

// DeleteBook removes the book and its genre and favorite associations.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete book",
		s.builder(s.db).Delete("book").Where(squirrel.Eq{"id": id}),
		ErrReferenced)
}

func normalizeDate(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}
	d := dateOnly(*date)
	return &d
}

// dateValue renders a publish date in the column's date-only format.
func dateValue(date *time.Time) any {
	if date == nil {
		return nil
	}
	return date.Format(time.DateOnly)
}
