package bookshelf

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"pollex.nl/bookshelf/internal/orm"
)

// AddBookGenres tags the book with the genres. Existing tags are kept.
func (s *Store) AddBookGenres(ctx context.Context, bookID int64, genreIDs ...int64) error {
	return s.link(ctx, s.db, BookGenreTable, bookID, genreIDs)
}

// RemoveBookGenres removes the genre tags from the book.
func (s *Store) RemoveBookGenres(ctx context.Context, bookID int64, genreIDs ...int64) error {
	return s.unlink(ctx, s.db, BookGenreTable, bookID, genreIDs)
}

// SetBookGenres replaces the book's genre tags with genreIDs.
func (s *Store) SetBookGenres(ctx context.Context, bookID int64, genreIDs ...int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.relink(ctx, tx, BookGenreTable, bookID, genreIDs)
	})
}

// AddFavoriteBooks marks the books as favorites of the user.
func (s *Store) AddFavoriteBooks(ctx context.Context, userID int64, bookIDs ...int64) error {
	return s.link(ctx, s.db, userBookTable, userID, bookIDs)
}

// RemoveFavoriteBooks unmarks the books as favorites of the user.
func (s *Store) RemoveFavoriteBooks(ctx context.Context, userID int64, bookIDs ...int64) error {
	return s.unlink(ctx, s.db, userBookTable, userID, bookIDs)
}

// SetBookUsers replaces the users who favorited the book with userIDs.
func (s *Store) SetBookUsers(ctx context.Context, bookID int64, userIDs ...int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.relink(ctx, tx, BookUserTable, bookID, userIDs)
	})
}

// link inserts one association row per child. Rows that already exist are
// skipped; children that do not exist yield ErrInvalidReference.
func (s *Store) link(
	ctx context.Context,
	runner squirrel.BaseRunner,
	join orm.JoinTable,
	parentID int64,
	childIDs []int64,
) error {
	childIDs = lo.Uniq(childIDs)
	if len(childIDs) == 0 {
		return nil
	}

	q := s.builder(runner).Insert(join.Table).
		Columns(join.ParentCol, join.ChildCol).
		Suffix(s.onConflictIgnore(join.ParentCol))
	for _, childID := range childIDs {
		q = q.Values(parentID, childID)
	}

	if _, err := q.ExecContext(ctx); err != nil {
		return translate(fmt.Sprintf("link %s", join.Table), err, ErrInvalidReference)
	}
	return nil
}

func (s *Store) unlink(
	ctx context.Context,
	runner squirrel.BaseRunner,
	join orm.JoinTable,
	parentID int64,
	childIDs []int64,
) error {
	if len(childIDs) == 0 {
		return nil
	}

	_, err := s.builder(runner).Delete(join.Table).
		Where(squirrel.Eq{
			join.ParentCol: parentID,
			join.ChildCol:  lo.Uniq(childIDs),
		}).
		ExecContext(ctx)
	return translate(fmt.Sprintf("unlink %s", join.Table), err, ErrReferenced)
}

func (s *Store) relink(
	ctx context.Context,
	tx *sql.Tx,
	join orm.JoinTable,
	parentID int64,
	childIDs []int64,
) error {
	_, err := s.builder(tx).Delete(join.Table).
		Where(squirrel.Eq{join.ParentCol: parentID}).
		ExecContext(ctx)
	if err != nil {
		return translate(fmt.Sprintf("clear %s", join.Table), err, ErrReferenced)
	}
	return s.link(ctx, tx, join, parentID, childIDs)
}
