package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/kvstore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store:    config.Store{Driver: config.StoreDriverSQLite, CollectionKey: "books"},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "bookshelf.db")},
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(Options{
		Version:    "test",
		Commit:     "none",
		LoadConfig: func() *config.Config { return cfg },
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := execute(t, cfg, args...)
	require.NoError(t, err, out)
	return out
}

func listBooks(t *testing.T, cfg *config.Config) []entities.Book {
	t.Helper()
	var books []entities.Book
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "list", "--json")), &books))
	return books
}

func TestAddAndList(t *testing.T) {
	cfg := testConfig(t)

	out := mustExecute(t, cfg, "add", "Emma", "Jane Austen", "--note", "gift", "--status", "reading")
	assert.Contains(t, out, `Added "Emma" by Jane Austen`)
	mustExecute(t, cfg, "add", "1984", "George Orwell", "--favorite")

	out = mustExecute(t, cfg, "add", "Emma", "Jane Austen")
	assert.Contains(t, out, "already in your books")

	books := listBooks(t, cfg)
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "gift", books[0].Note)
	assert.Equal(t, entities.StatusReading, books[0].Status)
	assert.True(t, books[1].IsFavorite)

	out = mustExecute(t, cfg, "list")
	assert.Contains(t, out, "Emma")
	assert.Contains(t, out, "1984")
	assert.Contains(t, out, "2 books")

	out = mustExecute(t, cfg, "list", "--favorites")
	assert.Contains(t, out, "1984")
	assert.NotContains(t, out, "Emma")

	out = mustExecute(t, cfg, "list", "-q", "nobody")
	assert.Contains(t, out, "No books found.")
}

func TestAdd_RejectsBlankTitle(t *testing.T) {
	cfg := testConfig(t)

	_, err := execute(t, cfg, "add", "  ", "Jane Austen")

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Empty(t, listBooks(t, cfg))
}

func TestShowEditFavouriteStatus(t *testing.T) {
	cfg := testConfig(t)
	mustExecute(t, cfg, "add", "The Odyssey", "Homer")
	id := listBooks(t, cfg)[0].ID
	prefix := id.String()[:8]

	out := mustExecute(t, cfg, "show", prefix)
	assert.Contains(t, out, "The Odyssey")
	assert.Contains(t, out, id.String())

	mustExecute(t, cfg, "edit", prefix, "--note", "Fagles translation")
	book := listBooks(t, cfg)[0]
	assert.Equal(t, "Fagles translation", book.Note)
	assert.Equal(t, "The Odyssey", book.Title)

	mustExecute(t, cfg, "favourite", id.String())
	assert.True(t, listBooks(t, cfg)[0].IsFavorite)
	mustExecute(t, cfg, "fav", prefix)
	assert.False(t, listBooks(t, cfg)[0].IsFavorite)

	mustExecute(t, cfg, "status", prefix)
	assert.Equal(t, entities.StatusReading, listBooks(t, cfg)[0].Status)
	mustExecute(t, cfg, "status", prefix, "--set", "not_started")
	assert.Equal(t, entities.StatusNotStarted, listBooks(t, cfg)[0].Status)

	_, err := execute(t, cfg, "status", prefix, "--set", "abandoned")
	assert.Error(t, err)

	_, err = execute(t, cfg, "show", uuid.NewString())
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDelete(t *testing.T) {
	cfg := testConfig(t)
	for _, title := range []string{"A", "B", "C"} {
		mustExecute(t, cfg, "add", title, "X")
	}

	out := mustExecute(t, cfg, "delete", "--position", "1", "--position", "3", "--position", "9")
	assert.Contains(t, out, "Deleted 2 book(s)")
	books := listBooks(t, cfg)
	require.Len(t, books, 1)
	assert.Equal(t, "B", books[0].Title)

	out = mustExecute(t, cfg, "delete", uuid.NewString(), books[0].ID.String()[:6])
	assert.Contains(t, out, "not in your books")
	assert.Contains(t, out, "Deleted 1 book(s)")
	assert.Empty(t, listBooks(t, cfg))

	_, err := execute(t, cfg, "delete", "ab")
	assert.ErrorContains(t, err, "too short")

	_, err = execute(t, cfg, "delete")
	assert.Error(t, err)
}

func TestCatalogCommands(t *testing.T) {
	cfg := testConfig(t)

	out := mustExecute(t, cfg, "catalog", "add", "1")
	assert.Contains(t, out, `Added "1984"`)
	out = mustExecute(t, cfg, "catalog", "add", "1")
	assert.Contains(t, out, "already in your books")

	books := listBooks(t, cfg)
	require.Len(t, books, 1)
	require.NotNil(t, books[0].Synopsis)

	out = mustExecute(t, cfg, "catalog", "list")
	assert.Contains(t, out, "1984")
	assert.Contains(t, out, iconSuccess)

	_, err := execute(t, cfg, "catalog", "add", "99")
	assert.ErrorIs(t, err, catalog.ErrIndexOutOfRange)
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	mustExecute(t, cfg, "add", "Emma", "Jane Austen", "--favorite")

	out := mustExecute(t, cfg, "export", "--format", "markdown")
	assert.Contains(t, out, "# Reading list")
	assert.Contains(t, out, "**Emma** by Jane Austen")

	path := filepath.Join(t.TempDir(), "books.json")
	mustExecute(t, cfg, "export", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	books, err := collection.Decode(data)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)

	dir := filepath.Join(t.TempDir(), "snapshots")
	mustExecute(t, cfg, "export", "--dir", dir)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = execute(t, cfg, "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestAuditCommand(t *testing.T) {
	cfg := testConfig(t)
	mustExecute(t, cfg, "add", "Emma", "Jane Austen")
	mustExecute(t, cfg, "add", "Emma", "Jane Austen")

	out := mustExecute(t, cfg, "audit")
	assert.Contains(t, out, `Added "Emma" by Jane Austen`)
	assert.Contains(t, out, "skipped")

	out = mustExecute(t, cfg, "audit", "--type", "delete")
	assert.Contains(t, out, "No audit events.")

	memCfg := testConfig(t)
	memCfg.Store.Driver = config.StoreDriverMemory
	_, err := execute(t, memCfg, "audit")
	assert.ErrorIs(t, err, ErrAuditUnavailable)
}

func TestResolveBook(t *testing.T) {
	books := collection.NewLocked(collection.NewManager(kvstore.NewMemoryStore()))
	book, _, err := books.Add(entities.NewBook("Emma", "Jane Austen"))
	require.NoError(t, err)

	got, err := resolveBook(books, book.ID.String()[:4])
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	got, err = resolveBook(books, " "+book.ID.String()+" ")
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	_, err = resolveBook(books, "ab")
	assert.ErrorContains(t, err, "too short")

	_, err = resolveBook(books, uuid.NewString())
	assert.ErrorIs(t, err, ErrBookNotFound)
}
