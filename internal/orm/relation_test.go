package orm_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/internal/orm"
)

func shelfNames(shelves []Shelf) []string {
	return lo.Map(shelves, func(s Shelf, _ int) string { return s.Name })
}

func TestManyToManyRelation(t *testing.T) {
	db, sq := setupDB(t)
	seed(sq)

	t.Run("children are bound through the join table", func(t *testing.T) {
		books, err := book.Query("id", "name", "shelves").
			ModifyQuery(orm.OrderBy("id")).
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 4)
		assert.ElementsMatch(t, []string{"bedroom"}, shelfNames(books[0].Shelves))
		assert.ElementsMatch(t, []string{"kitchen", "bedroom"}, shelfNames(books[1].Shelves))
		assert.ElementsMatch(t, []string{"bedroom"}, shelfNames(books[2].Shelves))
		assert.Empty(t, books[3].Shelves)
	})

	t.Run("key fields are selected implicitly", func(t *testing.T) {
		books, err := book.Query("shelves.name").
			ModifyQuery(orm.WhereEq("id", 2)).
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 1)
		assert.Equal(t, uint64(2), books[0].ID)
		require.Len(t, books[0].Shelves, 2)
		for _, s := range books[0].Shelves {
			assert.NotEmpty(t, s.ID)
			assert.NotEmpty(t, s.Name)
		}
	})

	t.Run("reverse direction sees the same edges", func(t *testing.T) {
		shelves, err := shelf.Query("*", "books.name").
			ModifyQuery(orm.OrderBy("id")).
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, shelves, 3)
		assert.Len(t, shelves[0].Books, 1)
		assert.Len(t, shelves[1].Books, 3)
		assert.Empty(t, shelves[2].Books)
	})

	t.Run("nested selection is validated through the relation", func(t *testing.T) {
		_, err := book.Query("shelves.colour").Collect(context.Background(), db)
		assert.ErrorIs(t, err, orm.ErrNoSuchField)
	})

	t.Run("check walks dotted paths", func(t *testing.T) {
		assert.NoError(t, book.Check("shelves.books.comments.name"))
		assert.ErrorIs(t, book.Check("shelves.books.colour"), orm.ErrNoSuchField)
		assert.NoError(t, book.Check("*"))
	})
}

func TestCollectWithoutAction(t *testing.T) {
	_, sq := setupDB(t)
	seed(sq)

	type pair struct{ bookID, shelfID uint64 }

	pairs, err := orm.Collect[pair](context.Background(),
		orm.Col("book_id", "shelf_id")(sq.Select().From("book_shelves"), "book_shelves"),
		func(p *pair) (orm.Ptrs, orm.Action) {
			return orm.Ptrs{&p.bookID, &p.shelfID}, nil
		})
	require.NoError(t, err)
	assert.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.NotZero(t, p.bookID)
		assert.NotZero(t, p.shelfID)
	}
}
