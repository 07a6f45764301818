package entities

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ReadingStatus string

const (
	StatusNotStarted ReadingStatus = "Not Started"
	StatusReading    ReadingStatus = "Reading"
	StatusCompleted  ReadingStatus = "Completed"
)

var readingStatuses = []ReadingStatus{StatusNotStarted, StatusReading, StatusCompleted}

// AllReadingStatuses returns every status in display order.
func AllReadingStatuses() []ReadingStatus {
	out := make([]ReadingStatus, len(readingStatuses))
	copy(out, readingStatuses)
	return out
}

func (s ReadingStatus) String() string {
	return string(s)
}

// Slug is the identifier used in URLs and CLI flags ("not_started", "reading", "completed").
func (s ReadingStatus) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "_")
}

func (s ReadingStatus) Emoji() string {
	switch s {
	case StatusReading:
		return "📘"
	case StatusCompleted:
		return "📗"
	default:
		return "📕"
	}
}

func (s ReadingStatus) IsValid() bool {
	for _, known := range readingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Next cycles NotStarted -> Reading -> Completed -> NotStarted.
// Unknown values restart the cycle.
func (s ReadingStatus) Next() ReadingStatus {
	for i, known := range readingStatuses {
		if s == known {
			return readingStatuses[(i+1)%len(readingStatuses)]
		}
	}
	return StatusNotStarted
}

// ParseReadingStatus accepts either the display value or the slug, case-insensitively.
func ParseReadingStatus(value string) (ReadingStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, known := range readingStatuses {
		if normalized == strings.ToLower(string(known)) || normalized == known.Slug() {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown reading status %q", value)
}

func (s *ReadingStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*s = StatusNotStarted
		return nil
	}
	parsed, err := ParseReadingStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Book is a single record in the reading collection.
// Synopsis and ImageName are only set for catalog-sourced entries.
type Book struct {
	ID         uuid.UUID     `json:"id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Note       string        `json:"note"`
	Status     ReadingStatus `json:"status"`
	IsFavorite bool          `json:"isFavorite"`
	Synopsis   *string       `json:"synopsis,omitempty"`
	ImageName  *string       `json:"imageName,omitempty"`
}

// NewBook builds a record with defaults applied and a fresh ID.
func NewBook(title, author string) Book {
	return Book{
		ID:     uuid.New(),
		Title:  title,
		Author: author,
		Status: StatusNotStarted,
	}
}

// SameWork reports whether both records describe the same title and author.
// Comparison is exact.
func (b Book) SameWork(other Book) bool {
	return b.Title == other.Title && b.Author == other.Author
}

// Clone returns a copy that shares no pointers with b.
func (b Book) Clone() Book {
	out := b
	if b.Synopsis != nil {
		s := *b.Synopsis
		out.Synopsis = &s
	}
	if b.ImageName != nil {
		s := *b.ImageName
		out.ImageName = &s
	}
	return out
}

// StringPtr is a convenience for optional fields.
func StringPtr(s string) *string {
	return &s
}
