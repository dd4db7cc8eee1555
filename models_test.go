package bookshelf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pollex.nl/bookshelf"
)

func TestStringers(t *testing.T) {
	assert.Equal(t, "<Book: Dune>", bookshelf.Book{Title: "Dune"}.String())
	assert.Equal(t, "<Author: Frank Herbert>", bookshelf.Author{Name: "Frank Herbert"}.String())
	assert.Equal(t, "<Genre: sci-fi>", bookshelf.Genre{Name: "sci-fi"}.String())
	assert.Equal(t, "<User: ann>", bookshelf.User{Username: "ann"}.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		v    interface{ Validate() error }
		want error
	}{
		{"book ok", bookshelf.Book{Title: "Dune", AuthorID: 1}, nil},
		{"book explicit audience", bookshelf.Book{Title: "Dune", AuthorID: 1, Audience: bookshelf.AudienceAdult}, nil},
		{"book empty title", bookshelf.Book{AuthorID: 1}, bookshelf.ErrRequired},
		{"book no author", bookshelf.Book{Title: "Dune"}, bookshelf.ErrRequired},
		{"book bad audience", bookshelf.Book{Title: "Dune", AuthorID: 1, Audience: -1}, bookshelf.ErrInvalidAudience},
		{"author ok", bookshelf.Author{Name: "Herbert"}, nil},
		{"author long name", bookshelf.Author{Name: strings.Repeat("x", bookshelf.MaxAuthorNameLen+1)}, bookshelf.ErrTooLong},
		{"genre empty", bookshelf.Genre{Name: "\t"}, bookshelf.ErrRequired},
		{"genre at bound", bookshelf.Genre{Name: strings.Repeat("g", bookshelf.MaxGenreNameLen)}, nil},
		{"user long", bookshelf.User{Username: strings.Repeat("u", bookshelf.MaxUsernameLen+1)}, bookshelf.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
