package bookshelf

import (
	"context"

	"github.com/Masterminds/squirrel"

	"pollex.nl/bookshelf/internal/orm"
)

// CreateUser inserts user. Usernames are unique; a duplicate yields
// ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	if err := user.Validate(); err != nil {
		return User{}, err
	}

	id, err := s.insert(ctx, "create user",
		s.builder(s.db).Insert("user").
			Columns("username").
			Values(user.Username))
	if err != nil {
		return User{}, err
	}

	s.logger.DebugContext(ctx, "user created", "id", id, "username", user.Username)

	return User{ID: id, Username: user.Username}, nil
}

func (s *Store) GetUser(ctx context.Context, id int64, opts Opts) (*User, error) {
	return collectOne(ctx, s.db, UserSchema, orm.WhereEq("id", id), opts)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string, opts Opts) (*User, error) {
	return collectOne(ctx, s.db, UserSchema, orm.WhereEq("username", username), opts)
}

func (s *Store) ListUsers(ctx context.Context, opts Opts) ([]User, error) {
	return collectAll(ctx, s.db, UserSchema, opts)
}

// UserFavoriteBooks returns the books the user marked as favorite.
func (s *Store) UserFavoriteBooks(ctx context.Context, userID int64) ([]Book, error) {
	user, err := s.GetUser(ctx, userID, Opts{Fields: []string{"id"}, Expands: []string{"favorite_books"}})
	if err != nil {
		return nil, err
	}
	return user.FavoriteBooks, nil
}

// DeleteUser removes the user and their favorites.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete user",
		s.builder(s.db).Delete("user").Where(squirrel.Eq{"id": id}),
		ErrReferenced)
}
