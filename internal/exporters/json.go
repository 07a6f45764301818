package exporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// JSONExporter writes the collection in its persisted form, indented.
// A snapshot can be written back to the store as is.
type JSONExporter struct {
	Indent string
}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

func (exporter *JSONExporter) Extension() string {
	return "json"
}

func (exporter *JSONExporter) Export(w io.Writer, books []entities.Book) (ExportResult, error) {
	payload, err := collection.Encode(books)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to encode collection: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, payload, "", exporter.Indent); err != nil {
		return ExportResult{}, fmt.Errorf("failed to indent collection: %w", err)
	}
	out.WriteByte('\n')

	n, err := w.Write(out.Bytes())
	if err != nil {
		return ExportResult{}, err
	}
	return countResult(books, n), nil
}

var _ BookExporter = (*JSONExporter)(nil)
