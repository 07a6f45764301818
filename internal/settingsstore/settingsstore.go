// Package settingsstore keeps small operational values (such as the outcome
// of the last backup) next to the collection in the key-value store.
package settingsstore

import (
	"errors"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/kvstore"
)

type SettingsStore struct {
	store kvstore.Store
}

func New(store kvstore.Store) *SettingsStore {
	return &SettingsStore{store: store}
}

// BackupStatus represents the last backup run
type BackupStatus struct {
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Status    string     `json:"status,omitempty"`  // "success", "failed", ""
	Message   string     `json:"message,omitempty"` // Error message or stats summary
}

func (s *SettingsStore) getString(key string) string {
	value, err := s.store.Get(key)
	if err != nil {
		return ""
	}
	return string(value)
}

// GetBackupStatus returns the last backup status. Missing keys leave the
// corresponding fields empty.
func (s *SettingsStore) GetBackupStatus() BackupStatus {
	status := BackupStatus{
		Status:  s.getString(entities.SettingKeyBackupLastStatus),
		Message: s.getString(entities.SettingKeyBackupLastMessage),
	}

	if raw := s.getString(entities.SettingKeyBackupLastAt); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			status.LastRunAt = &ts
		}
	}

	return status
}

// SetBackupStatus updates the backup status
func (s *SettingsStore) SetBackupStatus(status, message string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.store.Set(entities.SettingKeyBackupLastAt, []byte(now)); err != nil {
		return err
	}
	if err := s.store.Set(entities.SettingKeyBackupLastStatus, []byte(status)); err != nil {
		return err
	}
	return s.store.Set(entities.SettingKeyBackupLastMessage, []byte(message))
}

// ClearBackupStatus forgets the last backup run.
func (s *SettingsStore) ClearBackupStatus() error {
	keys := []string{
		entities.SettingKeyBackupLastAt,
		entities.SettingKeyBackupLastStatus,
		entities.SettingKeyBackupLastMessage,
	}
	for _, key := range keys {
		if err := s.store.Delete(key); err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}
