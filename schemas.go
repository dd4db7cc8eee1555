package bookshelf

import (
	"database/sql"

	"pollex.nl/bookshelf/internal/orm"
)

// Association tables. They hold key pairs only and are written by the
// association edits on Store.
var (
	BookGenreTable = orm.JoinTable{Table: "book_genre", ParentCol: "book_id", ChildCol: "genre_id", TargetCol: "id"}
	BookUserTable  = orm.JoinTable{Table: "book_user", ParentCol: "book_id", ChildCol: "user_id", TargetCol: "id"}

	genreBookTable = orm.JoinTable{Table: "book_genre", ParentCol: "genre_id", ChildCol: "book_id", TargetCol: "id"}
	userBookTable  = orm.JoinTable{Table: "book_user", ParentCol: "user_id", ChildCol: "book_id", TargetCol: "id"}
)

// publishDate scans the nullable date column into Book.PublishDate.
var publishDate = orm.Converted(func(t *Book, date sql.NullTime) {
	if date.Valid {
		d := dateOnly(date.Time)
		t.PublishDate = &d
	}
})

var (
	BookSchema = orm.New[Book]("book").
			AddSimpleField("id", func(t *Book) any { return &t.ID }).
			AddSimpleField("title", func(t *Book) any { return &t.Title }).
			AddFieldType("publish_date", orm.Field(orm.Col("publish_date"), publishDate)).
			AddSimpleField("author_id", func(t *Book) any { return &t.AuthorID }).
			AddSimpleField("audience", func(t *Book) any { return &t.Audience }).
			ModifyQuery(orm.OrderBy("id"))

	AuthorSchema = orm.New[Author]("author").
			AddSimpleField("id", func(t *Author) any { return &t.ID }).
			AddSimpleField("name", func(t *Author) any { return &t.Name }).
			ModifyQuery(orm.OrderBy("id"))

	GenreSchema = orm.New[Genre]("genre").
			AddSimpleField("id", func(t *Genre) any { return &t.ID }).
			AddSimpleField("name", func(t *Genre) any { return &t.Name }).
			ModifyQuery(orm.OrderBy("id"))

	UserSchema = orm.New[User]("user").
			AddSimpleField("id", func(t *User) any { return &t.ID }).
			AddSimpleField("username", func(t *User) any { return &t.Username }).
			ModifyQuery(orm.OrderBy("id"))
)

// Relations reference schemas in both directions, so they are attached once
// every schema exists.
func init() {
	BookSchema.
		AddRelation("author",
			orm.HasOne(AuthorSchema,
				func(b Book, a Author) bool { return b.AuthorID == a.ID },
				func(b *Book, a Author) { b.Author = &a },
				orm.WhereIDs("id", func(b Book) int64 { return b.AuthorID }),
				orm.DependsOn("author_id", "author.id"),
			)).
		AddRelation("genres",
			orm.ManyToMany(GenreSchema, BookGenreTable,
				func(b Book) int64 { return b.ID },
				func(g Genre) int64 { return g.ID },
				func(b *Book, genres []Genre) { b.Genres = genres },
				orm.DependsOn("id", "genres.id"),
			)).
		AddRelation("users",
			orm.ManyToMany(UserSchema, BookUserTable,
				func(b Book) int64 { return b.ID },
				func(u User) int64 { return u.ID },
				func(b *Book, users []User) { b.Users = users },
				orm.DependsOn("id", "users.id"),
			))

	AuthorSchema.AddRelation("books",
		orm.HasMany(BookSchema,
			func(a Author, b Book) bool { return b.AuthorID == a.ID },
			func(a *Author, books []Book) { a.Books = books },
			orm.WhereIDs("author_id", func(a Author) int64 { return a.ID }),
			orm.DependsOn("id", "books.author_id"),
		))

	GenreSchema.AddRelation("books",
		orm.ManyToMany(BookSchema, genreBookTable,
			func(g Genre) int64 { return g.ID },
			func(b Book) int64 { return b.ID },
			func(g *Genre, books []Book) { g.Books = books },
			orm.DependsOn("id", "books.id"),
		))

	UserSchema.AddRelation("favorite_books",
		orm.ManyToMany(BookSchema, userBookTable,
			func(u User) int64 { return u.ID },
			func(b Book) int64 { return b.ID },
			func(u *User, books []Book) { u.FavoriteBooks = books },
			orm.DependsOn("id", "favorite_books.id"),
		))
}
