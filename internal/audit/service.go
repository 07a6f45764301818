package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Service turns collection events and background jobs into audit rows.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// Observe records a collection mutation. Lookups of unknown ids are not
// recorded; duplicate adds are recorded as skipped.
// It matches collection.Observer and runs synchronously so rows keep the
// order of the mutations.
func (s *Service) Observe(e collection.Event) {
	if e.Outcome == collection.NotFound {
		return
	}

	event := &entities.AuditEvent{
		EventType:   eventTypeFor(e.Op),
		Action:      "book_" + string(e.Op),
		Description: describe(e),
		BookID:      e.Book.ID.String(),
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"title":    e.Book.Title,
		"author":   e.Book.Author,
		"status":   e.Book.Status,
		"favorite": e.Book.IsFavorite,
	}
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}

	if e.Outcome == collection.Duplicate {
		event.Status = entities.AuditStatusSkipped
	}
	if e.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(e.Err.Error(), 500)
	}

	if err := s.Log(event); err != nil {
		log.Printf("Failed to log audit event: %v", err)
	}
}

// LogBackup records a backup run.
func (s *Service) LogBackup(path string, booksCount int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventBackup,
		Action:      "collection_backup",
		Description: fmt.Sprintf("Backed up %d books to %s", booksCount, path),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Description = "Backup failed"
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if logErr := s.Log(event); logErr != nil {
		log.Printf("Failed to log audit event: %v", logErr)
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetBookHistory retrieves the most recent events of a single book.
func (s *Service) GetBookHistory(bookID string, limit int) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForBook(bookID, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func eventTypeFor(op collection.Op) entities.AuditEventType {
	switch op {
	case collection.OpAdd:
		return entities.AuditEventCreate
	case collection.OpDelete:
		return entities.AuditEventDelete
	case collection.OpFavorite:
		return entities.AuditEventFavorite
	case collection.OpStatus:
		return entities.AuditEventStatus
	default:
		return entities.AuditEventUpdate
	}
}

func describe(e collection.Event) string {
	work := fmt.Sprintf("%q by %s", e.Book.Title, e.Book.Author)
	switch e.Op {
	case collection.OpAdd:
		if e.Outcome == collection.Duplicate {
			return "Skipped duplicate " + work
		}
		return "Added " + work
	case collection.OpDelete:
		return "Deleted " + work
	case collection.OpFavorite:
		if e.Book.IsFavorite {
			return "Marked " + work + " as favourite"
		}
		return "Unmarked " + work + " as favourite"
	case collection.OpStatus:
		return fmt.Sprintf("Set %s to %s", work, e.Book.Status)
	default:
		return "Updated " + work
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
