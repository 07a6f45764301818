// Command generate_demo creates a demo database with a collection seeded from the sample catalog.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// demoBook overrides the catalog defaults for one entry.
type demoBook struct {
	Index    int
	Status   entities.ReadingStatus
	Favorite bool
	Note     string
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Store.Driver = config.StoreDriverSQLite
	cfg.Database.Path = *dbPath

	app, err := entrypoint.Open(cfg, false)
	if err != nil {
		log.Fatalf("Failed to open demo store: %v", err)
	}
	defer app.Close()

	for _, demo := range demoBooks() {
		entry, err := app.Catalog.Get(demo.Index)
		if err != nil {
			log.Printf("Skipping catalog entry %d: %v", demo.Index, err)
			continue
		}

		book := entry.Book()
		book.Status = demo.Status
		book.IsFavorite = demo.Favorite
		book.Note = demo.Note

		saved, outcome, err := app.Books.Add(book)
		if err != nil {
			log.Fatalf("Failed to save %s: %v", book.Title, err)
		}
		if outcome == collection.Duplicate {
			continue
		}
		log.Printf("Saved: %s by %s (%s)", saved.Title, saved.Author, saved.Status)
	}

	stats := app.Books.Stats()
	log.Printf("Demo database generated successfully! %d books, %d favourites", stats.Total, stats.Favorites)
}

func demoBooks() []demoBook {
	return []demoBook{
		{Index: 0, Status: entities.StatusCompleted, Favorite: true, Note: "Reread every few years."},
		{Index: 1, Status: entities.StatusCompleted},
		{Index: 2, Status: entities.StatusReading, Note: "Chapter 7, the barrels."},
		{Index: 3, Status: entities.StatusCompleted, Favorite: true},
		{Index: 4, Status: entities.StatusNotStarted},
		{Index: 5, Status: entities.StatusReading},
		{Index: 8, Status: entities.StatusNotStarted, Note: "Borrowed from the library."},
		{Index: 11, Status: entities.StatusCompleted, Favorite: true},
		{Index: 14, Status: entities.StatusNotStarted},
	}
}
