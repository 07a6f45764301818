package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/settingsstore"
)

var ErrUnknownJob = errors.New("unknown maintenance job")

// TaskEnqueuer hands tasks to the background queue. tasks.Client satisfies it.
type TaskEnqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// MaintenanceJob is a periodic housekeeping step. When a queue is available
// Task is enqueued; otherwise Run is called in place.
type MaintenanceJob struct {
	Name     string
	Schedule string
	Task     backlite.Task
	Run      func() error
}

// MaintenanceScheduler triggers housekeeping jobs such as audit retention
// and store compaction on their own cron schedules.
type MaintenanceScheduler struct {
	enqueuer TaskEnqueuer

	cron      *cron.Cron
	mu        sync.Mutex
	jobs      []MaintenanceJob
	isRunning bool
}

// NewMaintenanceScheduler creates a scheduler. enqueuer may be nil.
func NewMaintenanceScheduler(enqueuer TaskEnqueuer) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// AddJob registers a job. Jobs with an empty schedule are ignored.
func (s *MaintenanceScheduler) AddJob(job MaintenanceJob) error {
	if job.Schedule == "" {
		log.Printf("Maintenance scheduler: %s disabled (no schedule)", job.Name)
		return nil
	}
	if job.Task == nil && job.Run == nil {
		return fmt.Errorf("maintenance job %s has nothing to run", job.Name)
	}
	if err := settingsstore.ValidateCronSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	if _, err := s.cron.AddFunc(job.Schedule, func() { s.Trigger(job) }); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	return nil
}

// Trigger runs a single job now and logs the result. Cron entries call it.
func (s *MaintenanceScheduler) Trigger(job MaintenanceJob) {
	taskID, err := s.run(job)
	switch {
	case err != nil:
		log.Printf("Maintenance: %s failed: %v", job.Name, err)
	case taskID != "":
		log.Printf("Maintenance: enqueued %s (%s)", job.Name, taskID)
	default:
		log.Printf("Maintenance: %s completed", job.Name)
	}
}

// RunJob runs the named job now. The task ID is empty when the job ran inline.
func (s *MaintenanceScheduler) RunJob(name string) (string, error) {
	for _, job := range s.Jobs() {
		if job.Name == name {
			return s.run(job)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (s *MaintenanceScheduler) run(job MaintenanceJob) (string, error) {
	if s.enqueuer != nil && job.Task != nil {
		ids, err := s.enqueuer.Enqueue(job.Task)
		if err != nil {
			return "", fmt.Errorf("failed to enqueue %s: %w", job.Name, err)
		}
		if len(ids) == 0 {
			return "", nil
		}
		return ids[0], nil
	}

	if job.Run == nil {
		return "", fmt.Errorf("%s requires the task queue", job.Name)
	}
	return "", job.Run()
}

// Jobs returns the registered jobs.
func (s *MaintenanceScheduler) Jobs() []MaintenanceJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MaintenanceJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Start begins the cron loop. It stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning || len(s.jobs) == 0 {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.cron.Start()
	log.Printf("Maintenance scheduler: started with %d jobs", len(s.Jobs()))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop waits for running jobs and stops the scheduler
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Printf("Maintenance scheduler: stopped")
}
