package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTask struct{}

func (noopTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{Name: "noop", MaxAttempts: 1, Timeout: time.Second}
}

type recordingEnqueuer struct {
	tasks []backlite.Task
	err   error
}

func (r *recordingEnqueuer) Enqueue(tasks ...backlite.Task) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, tasks...)
	return []string{"task-1"}, nil
}

func TestMaintenanceScheduler_AddJob(t *testing.T) {
	s := NewMaintenanceScheduler(nil)

	require.NoError(t, s.AddJob(MaintenanceJob{Name: "disabled"}))
	assert.Empty(t, s.Jobs())

	assert.Error(t, s.AddJob(MaintenanceJob{Name: "empty", Schedule: "0 4 * * *"}))
	assert.Error(t, s.AddJob(MaintenanceJob{Name: "bad", Schedule: "sometimes", Task: noopTask{}}))

	require.NoError(t, s.AddJob(MaintenanceJob{Name: "noop", Schedule: "0 4 * * *", Task: noopTask{}}))
	require.Len(t, s.Jobs(), 1)
	assert.Equal(t, "noop", s.Jobs()[0].Name)
}

func TestMaintenanceScheduler_TriggerEnqueues(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewMaintenanceScheduler(enqueuer)

	ran := false
	s.Trigger(MaintenanceJob{Name: "noop", Task: noopTask{}, Run: func() error { ran = true; return nil }})

	assert.Len(t, enqueuer.tasks, 1)
	assert.False(t, ran)
}

func TestMaintenanceScheduler_TriggerInline(t *testing.T) {
	s := NewMaintenanceScheduler(nil)

	calls := 0
	s.Trigger(MaintenanceJob{Name: "inline", Task: noopTask{}, Run: func() error { calls++; return nil }})
	s.Trigger(MaintenanceJob{Name: "failing", Run: func() error { calls++; return errors.New("boom") }})
	s.Trigger(MaintenanceJob{Name: "queue only", Task: noopTask{}})

	assert.Equal(t, 2, calls)
}

func TestMaintenanceScheduler_RunJob(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewMaintenanceScheduler(enqueuer)
	require.NoError(t, s.AddJob(MaintenanceJob{Name: "noop", Schedule: "0 4 * * *", Task: noopTask{}}))

	taskID, err := s.RunJob("noop")
	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)
	assert.Len(t, enqueuer.tasks, 1)

	_, err = s.RunJob("missing")
	assert.ErrorIs(t, err, ErrUnknownJob)

	enqueuer.err = errors.New("queue closed")
	_, err = s.RunJob("noop")
	assert.Error(t, err)
}

func TestMaintenanceScheduler_RunJobInline(t *testing.T) {
	s := NewMaintenanceScheduler(nil)
	boom := errors.New("boom")
	require.NoError(t, s.AddJob(MaintenanceJob{Name: "failing", Schedule: "0 4 * * *", Run: func() error { return boom }}))

	taskID, err := s.RunJob("failing")
	assert.Empty(t, taskID)
	assert.ErrorIs(t, err, boom)
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})
	require.NoError(t, s.AddJob(MaintenanceJob{Name: "noop", Schedule: "0 4 * * *", Task: noopTask{}}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !s.isRunning
	}, time.Second, 10*time.Millisecond)
}
