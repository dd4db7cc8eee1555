package bookshelf

import (
	"context"

	"github.com/Masterminds/squirrel"

	"pollex.nl/bookshelf/internal/orm"
)

// CreateAuthor inserts author and returns it with its assigned ID.
func (s *Store) CreateAuthor(ctx context.Context, author Author) (Author, error) {
	if err := author.Validate(); err != nil {
		return Author{}, err
	}

	id, err := s.insert(ctx, "create author",
		s.builder(s.db).Insert("author").
			Columns("name").
			Values(author.Name))
	if err != nil {
		return Author{}, err
	}

	s.logger.DebugContext(ctx, "author created", "id", id)

	return Author{ID: id, Name: author.Name}, nil
}

func (s *Store) GetAuthor(ctx context.Context, id int64, opts Opts) (*Author, error) {
	return collectOne(ctx, s.db, AuthorSchema, orm.WhereEq("id", id), opts)
}

func (s *Store) ListAuthors(ctx context.Context, opts Opts) ([]Author, error) {
	return collectAll(ctx, s.db, AuthorSchema, opts)
}

// AuthorBooks returns the books written by the author.
func (s *Store) AuthorBooks(ctx context.Context, authorID int64) ([]Book, error) {
	author, err := s.GetAuthor(ctx, authorID, Opts{Fields: []string{"id"}, Expands: []string{"books"}})
	if err != nil {
		return nil, err
	}
	return author.Books, nil
}

// DeleteAuthor removes an author without books. Authors still referenced by
// a book are kept and ErrReferenced is returned.
func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete author",
		s.builder(s.db).Delete("author").Where(squirrel.Eq{"id": id}),
		ErrReferenced)
}
