package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func seedFilterFixture(t *testing.T) *Manager {
	t.Helper()
	m, _ := newTestManager(t)

	fixtures := []struct {
		title    string
		author   string
		status   entities.ReadingStatus
		favorite bool
	}{
		{"Pride and Prejudice", "Jane Austen", entities.StatusReading, true},
		{"1984", "George Orwell", entities.StatusNotStarted, false},
		{"Emma", "Jane Austen", entities.StatusCompleted, false},
		{"Crime and Punishment", "Fyodor Dostoevsky", entities.StatusReading, false},
		{"Jane Eyre", "Charlotte Brontë", entities.StatusReading, true},
	}
	for _, f := range fixtures {
		book := entities.NewBook(f.title, f.author)
		book.Status = f.status
		book.IsFavorite = f.favorite
		_, outcome, err := m.Add(book)
		require.NoError(t, err)
		require.Equal(t, Applied, outcome)
	}
	return m
}

func titles(books []entities.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	m := seedFilterFixture(t)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "zero query returns everything",
			query: Query{},
			want:  []string{"Pride and Prejudice", "1984", "Emma", "Crime and Punishment", "Jane Eyre"},
		},
		{
			name:  "status only",
			query: Query{}.WithStatus(entities.StatusReading),
			want:  []string{"Pride and Prejudice", "Crime and Punishment", "Jane Eyre"},
		},
		{
			name:  "favorites only",
			query: Query{FavoritesOnly: true},
			want:  []string{"Pride and Prejudice", "Jane Eyre"},
		},
		{
			name:  "search matches author case-insensitively",
			query: Query{Search: "AUSTEN"},
			want:  []string{"Pride and Prejudice", "Emma"},
		},
		{
			name:  "search matches title substring",
			query: Query{Search: "and"},
			want:  []string{"Pride and Prejudice", "Crime and Punishment"},
		},
		{
			name:  "all predicates combined",
			query: Query{FavoritesOnly: true, Search: "jane"}.WithStatus(entities.StatusReading),
			want:  []string{"Pride and Prejudice", "Jane Eyre"},
		},
		{
			name:  "non-ascii search",
			query: Query{Search: "BRONTË"},
			want:  []string{"Jane Eyre"},
		},
		{
			name:  "no matches",
			query: Query{Search: "tolkien"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(m.Filter(tt.query)))
		})
	}
}

func TestFilter_FavoritesWithSearch(t *testing.T) {
	m, _ := newTestManager(t)

	pride := entities.NewBook("Pride and Prejudice", "Jane Austen")
	pride.IsFavorite = true
	pride, _, err := m.Add(pride)
	require.NoError(t, err)
	_, _, err = m.Add(entities.NewBook("1984", "George Orwell"))
	require.NoError(t, err)

	got := m.Filter(Query{FavoritesOnly: true, Search: "pride"})
	require.Len(t, got, 1)
	assert.Equal(t, pride, got[0])
}

func TestFilter_DoesNotMutate(t *testing.T) {
	m := seedFilterFixture(t)
	before := m.Books()

	_ = m.Filter(Query{FavoritesOnly: true})

	assert.Equal(t, before, m.Books())
}

func TestQuery_Matches(t *testing.T) {
	book := entities.NewBook("The Hobbit", "J.R.R. Tolkien")

	assert.True(t, Query{Search: "hobbit"}.Matches(book))
	assert.False(t, Query{FavoritesOnly: true}.Matches(book))
	assert.False(t, Query{}.WithStatus(entities.StatusReading).Matches(book))
}
