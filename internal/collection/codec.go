package collection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Encode serializes the whole collection as a JSON array, preserving order.
// An empty collection encodes as [] rather than null.
func Encode(books []entities.Book) ([]byte, error) {
	if books == nil {
		books = []entities.Book{}
	}
	return json.Marshal(books)
}

// Decode parses a payload written by Encode. Blank payloads and a JSON null
// decode to an empty collection. Records without a status default to
// NotStarted and records without an id get a fresh one.
func Decode(data []byte) ([]entities.Book, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []entities.Book{}, nil
	}

	var books []entities.Book
	if err := json.Unmarshal(trimmed, &books); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(books))
	for i := range books {
		if books[i].Status == "" {
			books[i].Status = entities.StatusNotStarted
		}
		if _, dup := seen[books[i].ID]; books[i].ID == uuid.Nil || dup {
			books[i].ID = uuid.New()
		}
		seen[books[i].ID] = struct{}{}
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}
