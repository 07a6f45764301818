package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	client, err := NewClient(filepath.Join(t.TempDir(), "test-tasks.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test-tasks.db")

	client, err := NewClient(dbPath, Config{})
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "tasks database should be created")
	assert.Equal(t, 1, client.config.Workers)

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
	calls     chan struct{}
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	if f.calls != nil {
		f.calls <- struct{}{}
	}
	return f.deleted, f.err
}

func TestEnqueueCleanupAuditEvents(t *testing.T) {
	client := newTestClient(t)
	cleaner := &fakeCleaner{deleted: 3, calls: make(chan struct{}, 1)}
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Enqueue(CleanupAuditEventsTask{RetentionDays: 7})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case <-cleaner.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)

	assert.Equal(t, 7*24*time.Hour, cleaner.retention)
}

func TestCleanupAuditEvents(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 2}

	deleted, err := CleanupAuditEvents(cleaner, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 30*24*time.Hour, cleaner.retention)

	cleaner.err = errors.New("locked")
	_, err = CleanupAuditEvents(cleaner, 10)
	assert.ErrorContains(t, err, "locked")

	_, err = CleanupAuditEvents(nil, 10)
	assert.Error(t, err)
}

type fakeCompactor struct {
	ratio float64
	err   error
}

func (f *fakeCompactor) RunGC(discardRatio float64) error {
	f.ratio = discardRatio
	return f.err
}

func TestCompactStore(t *testing.T) {
	compactor := &fakeCompactor{}

	require.NoError(t, CompactStore(compactor, 0.7))
	assert.Equal(t, 0.7, compactor.ratio)

	require.NoError(t, CompactStore(compactor, 3))
	assert.Equal(t, 0.5, compactor.ratio)

	compactor.err = errors.New("gc rejected")
	assert.Error(t, CompactStore(compactor, 0.5))

	assert.Error(t, CompactStore(nil, 0.5))
}

func TestTaskConfigs(t *testing.T) {
	var _ backlite.Task = CleanupAuditEventsTask{}
	var _ backlite.Task = CompactStoreTask{}

	cleanup := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, "cleanup_audit_events", cleanup.Name)
	assert.Equal(t, 3, cleanup.MaxAttempts)
	assert.NotNil(t, cleanup.Retention)

	compact := CompactStoreTask{}.Config()
	assert.Equal(t, "compact_store", compact.Name)
	assert.Equal(t, 1, compact.MaxAttempts)
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, "./bookshelf-tasks.db", DatabasePath("./bookshelf.db"))
	assert.Equal(t, "/data/shelf-tasks", DatabasePath("/data/shelf"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
