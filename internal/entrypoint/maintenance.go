package entrypoint

import (
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

const (
	JobCleanupAuditEvents = "cleanup_audit_events"
	JobCompactStore       = "compact_store"

	compactDiscardRatio = 0.5
)

// NewMaintenance registers the housekeeping jobs the app's store supports.
// With a task client the jobs' queues are registered on it and jobs are
// enqueued; without one they run inline on the cron goroutine.
func NewMaintenance(app *App, taskClient *tasks.Client) (*scheduler.MaintenanceScheduler, error) {
	var enqueuer scheduler.TaskEnqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}
	maintenance := scheduler.NewMaintenanceScheduler(enqueuer)

	if app.Audit != nil {
		retention := app.Config.Audit.RetentionDays
		if taskClient != nil {
			taskClient.Register(tasks.NewCleanupAuditEventsQueue(app.Audit))
		}
		err := maintenance.AddJob(scheduler.MaintenanceJob{
			Name:     JobCleanupAuditEvents,
			Schedule: app.Config.Tasks.MaintenanceSchedule,
			Task:     tasks.CleanupAuditEventsTask{RetentionDays: retention},
			Run: func() error {
				_, err := tasks.CleanupAuditEvents(app.Audit, retention)
				return err
			},
		})
		if err != nil {
			return nil, err
		}
	}

	if app.Badger != nil {
		if taskClient != nil {
			taskClient.Register(tasks.NewCompactStoreQueue(app.Badger))
		}
		err := maintenance.AddJob(scheduler.MaintenanceJob{
			Name:     JobCompactStore,
			Schedule: app.Config.Badger.GCSchedule,
			Task:     tasks.CompactStoreTask{DiscardRatio: compactDiscardRatio},
			Run: func() error {
				return tasks.CompactStore(app.Badger, compactDiscardRatio)
			},
		})
		if err != nil {
			return nil, err
		}
	}

	return maintenance, nil
}
