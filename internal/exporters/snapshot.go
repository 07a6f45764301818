package exporters

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// WriteSnapshot exports books into a new timestamped file under dir and
// returns its path. The file appears only once fully written.
func WriteSnapshot(dir string, exporter BookExporter, books []entities.Book, at time.Time) (string, ExportResult, error) {
	if err := ensureDir(dir); err != nil {
		return "", ExportResult{}, fmt.Errorf("failed to ensure backup directory: %w", err)
	}

	var buf bytes.Buffer
	result, err := exporter.Export(&buf, books)
	if err != nil {
		return "", ExportResult{}, err
	}

	filename := fmt.Sprintf("books-%s.%s", at.UTC().Format("20060102-150405"), exporter.Extension())
	path := filepath.Join(dir, filename)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return "", ExportResult{}, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", ExportResult{}, fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return path, result, nil
}

// ensureDir creates the directory if it doesn't exist
func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}
