package exporters

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// MarkdownExporter renders the collection as a reading list note with one
// section per reading status.
type MarkdownExporter struct {
	now func() time.Time
}

func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{now: time.Now}
}

func (exporter *MarkdownExporter) Extension() string {
	return "md"
}

func (exporter *MarkdownExporter) Export(w io.Writer, books []entities.Book) (ExportResult, error) {
	n, err := io.WriteString(w, GenerateMarkdown(books, exporter.now()))
	if err != nil {
		return ExportResult{}, err
	}
	return countResult(books, n), nil
}

func GenerateMarkdown(books []entities.Book, createdAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: reading_list\n")
	fmt.Fprintf(&builder, "created_at: %s\n", createdAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "books: %d\n", len(books))
	fmt.Fprintf(&builder, "tags: books, reading\n")
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# Reading list\n")

	for _, status := range entities.AllReadingStatuses() {
		var section []entities.Book
		for _, book := range books {
			if book.Status == status {
				section = append(section, book)
			}
		}
		if len(section) == 0 {
			continue
		}

		fmt.Fprintf(&builder, "\n## %s %s\n\n", status.Emoji(), status)
		for _, book := range section {
			star := ""
			if book.IsFavorite {
				star = " ★"
			}
			fmt.Fprintf(&builder, "- **%s** by %s%s\n", escapeMarkdown(book.Title), escapeMarkdown(book.Author), star)
			if book.Synopsis != nil && *book.Synopsis != "" {
				fmt.Fprintf(&builder, "  - _%s_\n", *book.Synopsis)
			}
			if book.Note != "" {
				fmt.Fprintf(&builder, "  > %s\n", strings.ReplaceAll(book.Note, "\n", "\n  > "))
			}
		}
	}

	return builder.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("*", "\\*", "_", "\\_").Replace(s)
}

var _ BookExporter = (*MarkdownExporter)(nil)
