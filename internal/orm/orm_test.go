package orm_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Author struct {
	ID    uint64
	Name  string
	Tags  []string
	Books []Book
}

type Book struct {
	ID       uint64
	Name     string
	AuthorID uint64
	Comments []Comment
	Author   *Author
	Shelves  []Shelf
}

type Comment struct {
	ID     uint64
	Name   string
	BookID uint64
	Book   *Book
}

type Shelf struct {
	ID    uint64
	Name  string
	Books []Book
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "orm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

const migrate = `
	create table authors (
		id integer not null,
		name text not null,
		tags text not null
	);
	create table books (
		id integer not null,
		name text not null,
		author_id integer
	);
	create table book_comments (
		id integer not null,
		name text not null,
		book_id integer
	);
	create table shelves (
		id integer not null,
		name text not null
	);
	create table book_shelves (
		book_id integer not null,
		shelf_id integer not null
	);
	`

//nolint:errcheck
func seed(sq squirrel.StatementBuilderType) {
	sq.Insert("authors").
		Values(1, "Jeff", "cool,awesome").
		Values(2, "Madonna", "vocal").Exec()
	sq.Insert("books").
		Values(1, "Life of Jeff", 1).
		Values(2, "Cooking like Jeff", 1).
		Values(3, "Sing baby sing", 2).
		Values(4, "the singeth hath endeth", 2).Exec()
	sq.Insert("book_comments").
		Values(1, "Great book!", 1).
		Values(2, "Very insightful", 2).
		Values(3, "A masterpiece", 3).
		Values(4, "Could be better", 4).Exec()
	sq.Insert("shelves").
		Values(1, "kitchen").
		Values(2, "bedroom").
		Values(3, "empty").Exec()
	sq.Insert("book_shelves").
		Values(1, 2).
		Values(2, 1).
		Values(2, 2).
		Values(3, 2).Exec()
}
