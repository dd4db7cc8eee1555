package bookshelf

import (
	"context"

	"github.com/Masterminds/squirrel"

	"pollex.nl/bookshelf/internal/orm"
)

// CreateGenre inserts genre. Names are unique; a duplicate yields
// ErrAlreadyExists.
func (s *Store) CreateGenre(ctx context.Context, genre Genre) (Genre, error) {
	if err := genre.Validate(); err != nil {
		return Genre{}, err
	}

	id, err := s.insert(ctx, "create genre",
		s.builder(s.db).Insert("genre").
			Columns("name").
			Values(genre.Name))
	if err != nil {
		return Genre{}, err
	}

	s.logger.DebugContext(ctx, "genre created", "id", id, "name", genre.Name)

	return Genre{ID: id, Name: genre.Name}, nil
}

func (s *Store) GetGenre(ctx context.Context, id int64, opts Opts) (*Genre, error) {
	return collectOne(ctx, s.db, GenreSchema, orm.WhereEq("id", id), opts)
}

func (s *Store) GetGenreByName(ctx context.Context, name string, opts Opts) (*Genre, error) {
	return collectOne(ctx, s.db, GenreSchema, orm.WhereEq("name", name), opts)
}

func (s *Store) ListGenres(ctx context.Context, opts Opts) ([]Genre, error) {
	return collectAll(ctx, s.db, GenreSchema, opts)
}

// GenreBooks returns the books tagged with the genre.
func (s *Store) GenreBooks(ctx context.Context, genreID int64) ([]Book, error) {
	genre, err := s.GetGenre(ctx, genreID, Opts{Fields: []string{"id"}, Expands: []string{"books"}})
	if err != nil {
		return nil, err
	}
	return genre.Books, nil
}

// DeleteGenre removes the genre and its book associations.
func (s *Store) DeleteGenre(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete genre",
		s.builder(s.db).Delete("genre").Where(squirrel.Eq{"id": id}),
		ErrReferenced)
}
