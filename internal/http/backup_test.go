package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/kvstore"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/settingsstore"
)

type backupRunResponse struct {
	Message string                 `json:"message"`
	Data    scheduler.BackupResult `json:"data"`
}

func TestBackupController(t *testing.T) {
	books := newTestBooks(t)
	addBook(t, books, "1984", "George Orwell")
	addBook(t, books, "Emma", "Jane Austen")

	dir := filepath.Join(t.TempDir(), "backups")
	backup := scheduler.NewBackupScheduler(books, settingsstore.New(kvstore.NewMemoryStore()), nil,
		config.Backup{Dir: dir, Format: config.BackupFormatMarkdown})
	router := NewRouter(RouterConfig{Books: books, Backup: backup})

	w := performRequest(router, "GET", "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeJSON[BackupStatusResponse](t, w)
	assert.Empty(t, status.Status)
	assert.False(t, status.Scheduled)
	assert.Nil(t, status.NextRunAt)

	w = performRequest(router, "POST", "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	run := decodeJSON[backupRunResponse](t, w)
	assert.Equal(t, "backup completed", run.Message)
	assert.Equal(t, 2, run.Data.Books)
	assert.Equal(t, ".md", filepath.Ext(run.Data.Path))
	_, err := os.Stat(run.Data.Path)
	assert.NoError(t, err)

	w = performRequest(router, "GET", "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	status = decodeJSON[BackupStatusResponse](t, w)
	assert.Equal(t, "success", status.Status)
	assert.NotNil(t, status.LastRunAt)
}

func TestBackupController_Failure(t *testing.T) {
	books := newTestBooks(t)
	backup := scheduler.NewBackupScheduler(books, settingsstore.New(kvstore.NewMemoryStore()), nil,
		config.Backup{Format: config.BackupFormatJSON})
	router := NewRouter(RouterConfig{Books: books, Backup: backup})

	w := performRequest(router, "POST", "/api/backup", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = performRequest(router, "GET", "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "failed", decodeJSON[BackupStatusResponse](t, w).Status)
}
