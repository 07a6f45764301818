package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// StoreCompactor reclaims space in the key-value store.
// kvstore.BadgerStore satisfies it.
type StoreCompactor interface {
	RunGC(discardRatio float64) error
}

// CompactStoreTask runs value log garbage collection on the badger store.
type CompactStoreTask struct {
	DiscardRatio float64 `json:"discard_ratio"`
}

func (t CompactStoreTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "compact_store",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 6 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CompactStore runs the compaction directly. A ratio outside (0, 1) falls
// back to 0.5.
func CompactStore(compactor StoreCompactor, discardRatio float64) error {
	if compactor == nil {
		return fmt.Errorf("store compactor not configured")
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	if err := compactor.RunGC(discardRatio); err != nil {
		return fmt.Errorf("compact store: %w", err)
	}
	log.Printf("[TASK] Store compaction finished (discard ratio %.2f)", discardRatio)
	return nil
}

func NewCompactStoreQueue(compactor StoreCompactor) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task CompactStoreTask) error {
		return CompactStore(compactor, task.DiscardRatio)
	})
}
