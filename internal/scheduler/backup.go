package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/exporters"
	"github.com/mrlokans/bookshelf/internal/settingsstore"
)

var ErrBackupInProgress = errors.New("backup already in progress")

// BookSource provides the snapshot to back up. collection.Locked satisfies it.
type BookSource interface {
	Books() []entities.Book
}

// BackupResult describes a finished backup run
type BackupResult struct {
	Path     string        `json:"path"`
	Books    int           `json:"books"`
	Duration time.Duration `json:"duration"`
}

// BackupScheduler writes periodic snapshots of the collection to disk
type BackupScheduler struct {
	books         BookSource
	settingsStore *settingsstore.SettingsStore
	auditService  *audit.Service
	cfg           config.Backup

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// runMu guards isBackingUp. Jobs must not take mu: Stop holds it while
	// waiting for running jobs.
	runMu       sync.Mutex
	isBackingUp bool
}

// NewBackupScheduler creates a new scheduler instance. auditService may be nil.
func NewBackupScheduler(books BookSource, settingsStore *settingsstore.SettingsStore, auditService *audit.Service, cfg config.Backup) *BackupScheduler {
	return &BackupScheduler{
		books:         books,
		settingsStore: settingsStore,
		auditService:  auditService,
		cfg:           cfg,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if backups are enabled
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Backup scheduler: disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		log.Printf("Backup scheduler: backup directory not configured, skipping")
		return nil
	}

	if _, err := exporters.ForFormat(string(s.cfg.Format)); err != nil {
		return err
	}

	// Validate schedule
	if err := settingsstore.ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunNow(); err != nil && !errors.Is(err, ErrBackupInProgress) {
			log.Printf("Backup: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(s.cfg.Schedule)
	log.Printf("Backup scheduler: started with schedule '%s' (%s). Next run: %v",
		s.cfg.Schedule,
		settingsstore.GetCronDescription(s.cfg.Schedule),
		nextRun)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the outcome of the last backup run
func (s *BackupScheduler) Status() settingsstore.BackupStatus {
	return s.settingsStore.GetBackupStatus()
}

// RunNow performs a backup immediately and waits for it to finish.
// It works whether or not the schedule is enabled.
func (s *BackupScheduler) RunNow() (BackupResult, error) {
	s.runMu.Lock()
	if s.isBackingUp {
		s.runMu.Unlock()
		return BackupResult{}, ErrBackupInProgress
	}
	s.isBackingUp = true
	s.runMu.Unlock()

	defer func() {
		s.runMu.Lock()
		s.isBackingUp = false
		s.runMu.Unlock()
	}()

	return s.runBackup()
}

func (s *BackupScheduler) runBackup() (BackupResult, error) {
	if s.cfg.Dir == "" {
		err := fmt.Errorf("backup directory not configured")
		s.recordFailure(err)
		return BackupResult{}, err
	}

	exporter, err := exporters.ForFormat(string(s.cfg.Format))
	if err != nil {
		s.recordFailure(err)
		return BackupResult{}, err
	}

	log.Printf("Backup: starting snapshot to %s", s.cfg.Dir)
	startTime := time.Now()

	books := s.books.Books()
	path, result, err := exporters.WriteSnapshot(s.cfg.Dir, exporter, books, startTime)
	if err != nil {
		s.recordFailure(err)
		return BackupResult{}, err
	}

	duration := time.Since(startTime)
	successMsg := fmt.Sprintf("Backed up %d books (%d favourites) to %s in %v",
		result.BooksProcessed, result.Favorites, path, duration.Round(time.Millisecond))
	log.Printf("Backup: %s", successMsg)
	_ = s.settingsStore.SetBackupStatus("success", successMsg)
	if s.auditService != nil {
		s.auditService.LogBackup(path, result.BooksProcessed, nil)
	}

	return BackupResult{Path: path, Books: result.BooksProcessed, Duration: duration}, nil
}

func (s *BackupScheduler) recordFailure(err error) {
	errMsg := fmt.Sprintf("Backup failed: %v", err)
	log.Printf("Backup: %s", errMsg)
	_ = s.settingsStore.SetBackupStatus("failed", errMsg)
	if s.auditService != nil {
		s.auditService.LogBackup("", 0, err)
	}
}
