package collection

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Query selects a subset of the collection. The zero value matches everything.
type Query struct {
	Status        *entities.ReadingStatus
	FavoritesOnly bool
	Search        string
}

// WithStatus returns a copy of q restricted to status.
func (q Query) WithStatus(status entities.ReadingStatus) Query {
	q.Status = &status
	return q
}

type matcher struct {
	query  Query
	folder cases.Caser
	needle string
}

func newMatcher(q Query) *matcher {
	m := &matcher{query: q, folder: cases.Fold()}
	if q.Search != "" {
		m.needle = m.folder.String(q.Search)
	}
	return m
}

func (m *matcher) matches(book entities.Book) bool {
	if m.query.Status != nil && book.Status != *m.query.Status {
		return false
	}
	if m.query.FavoritesOnly && !book.IsFavorite {
		return false
	}
	if m.query.Search == "" {
		return true
	}
	return strings.Contains(m.folder.String(book.Title), m.needle) ||
		strings.Contains(m.folder.String(book.Author), m.needle)
}

// Matches reports whether a single record satisfies q.
func (q Query) Matches(book entities.Book) bool {
	return newMatcher(q).matches(book)
}

// filterBooks returns copies of the matching records in their original order.
func filterBooks(books []entities.Book, q Query) []entities.Book {
	m := newMatcher(q)
	out := make([]entities.Book, 0, len(books))
	for _, book := range books {
		if m.matches(book) {
			out = append(out, book.Clone())
		}
	}
	return out
}
