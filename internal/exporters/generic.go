package exporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type BookExporter interface {
	Export(w io.Writer, books []entities.Book) (ExportResult, error)
	// Extension is the file suffix used for snapshots, without the dot.
	Extension() string
}

type ExportResult struct {
	BooksProcessed int `json:"books_processed"`
	Favorites      int `json:"favorites"`
	BytesWritten   int `json:"bytes_written"`
}

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ForFormat returns the exporter registered for format ("json" or "markdown").
func ForFormat(format string) (BookExporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return NewJSONExporter(), nil
	case FormatMarkdown, "md":
		return NewMarkdownExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func countResult(books []entities.Book, written int) ExportResult {
	result := ExportResult{BooksProcessed: len(books), BytesWritten: written}
	for _, book := range books {
		if book.IsFavorite {
			result.Favorites++
		}
	}
	return result
}
