package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/collection"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/kvstore"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "test_add",
		Description: "Test add event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "test_add", saved.Action)
}

func TestService_Observe(t *testing.T) {
	svc, db := setupTestService(t)
	book := entities.NewBook("The Great Gatsby", "F. Scott Fitzgerald")

	t.Run("applied add", func(t *testing.T) {
		svc.Observe(collection.Event{Op: collection.OpAdd, Book: book, Outcome: collection.Applied})

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_add").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditEventCreate, event.EventType)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, book.ID.String(), event.BookID)
		assert.Equal(t, `Added "The Great Gatsby" by F. Scott Fitzgerald`, event.Description)
		assert.Contains(t, event.Metadata, `"author":"F. Scott Fitzgerald"`)
	})

	t.Run("duplicate add is skipped", func(t *testing.T) {
		svc.Observe(collection.Event{Op: collection.OpAdd, Book: book, Outcome: collection.Duplicate})

		var event entities.AuditEvent
		err := db.Where("status = ?", entities.AuditStatusSkipped).First(&event).Error
		require.NoError(t, err)
		assert.Contains(t, event.Description, "Skipped duplicate")
	})

	t.Run("persistence failure", func(t *testing.T) {
		svc.Observe(collection.Event{
			Op:      collection.OpFavorite,
			Book:    book,
			Outcome: collection.Applied,
			Err:     errors.New("disk full"),
		})

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_favourite").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditEventFavorite, event.EventType)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "disk full", event.ErrorMsg)
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&entities.AuditEvent{}).Count(&before).Error)

		svc.Observe(collection.Event{Op: collection.OpDelete, Book: book, Outcome: collection.NotFound})

		var after int64
		require.NoError(t, db.Model(&entities.AuditEvent{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})
}

func TestService_ObservesManager(t *testing.T) {
	svc, _ := setupTestService(t)
	m := collection.NewManager(kvstore.NewMemoryStore(), collection.WithObserver(svc.Observe))
	require.NoError(t, m.Load())

	book, _, err := m.Add(entities.NewBook("Moby-Dick", "Herman Melville"))
	require.NoError(t, err)
	_, _, err = m.CycleStatus(book.ID)
	require.NoError(t, err)
	_, err = m.Delete(book.ID)
	require.NoError(t, err)

	history, err := svc.GetBookHistory(book.ID.String(), 10)
	require.NoError(t, err)
	require.Len(t, history, 3)

	types := map[entities.AuditEventType]bool{}
	for _, e := range history {
		types[e.EventType] = true
	}
	assert.True(t, types[entities.AuditEventCreate])
	assert.True(t, types[entities.AuditEventStatus])
	assert.True(t, types[entities.AuditEventDelete])
}

func TestService_LogBackup(t *testing.T) {
	svc, _ := setupTestService(t)

	t.Run("successful backup", func(t *testing.T) {
		svc.LogBackup("/backups/books.json", 4, nil)

		events, total, err := svc.GetEventsByType(entities.AuditEventBackup, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
		assert.Equal(t, "Backed up 4 books to /backups/books.json", events[0].Description)
	})

	t.Run("failed backup", func(t *testing.T) {
		svc.LogBackup("", 0, errors.New("permission denied"))

		events, total, err := svc.GetEventsByType(entities.AuditEventBackup, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		var failed int
		for _, e := range events {
			if e.Status == entities.AuditStatusFailed {
				failed++
				assert.Contains(t, e.ErrorMsg, "permission denied")
			}
		}
		assert.Equal(t, 1, failed)
	})
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		err := svc.Log(&entities.AuditEvent{
			EventType: entities.AuditEventUpdate,
			Action:    "test",
			Status:    entities.AuditStatusSuccess,
		})
		require.NoError(t, err)
	}

	events, total, err := svc.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, events, 5)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	// Delete events older than 24 hours
	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
