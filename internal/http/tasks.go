package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// TasksController exposes the housekeeping jobs and the task queue.
type TasksController struct {
	maintenance *scheduler.MaintenanceScheduler
	client      *tasks.Client
}

// NewTasksController creates a new TasksController. client may be nil when
// jobs run inline.
func NewTasksController(maintenance *scheduler.MaintenanceScheduler, client *tasks.Client) *TasksController {
	return &TasksController{maintenance: maintenance, client: client}
}

// JobInfo describes a registered maintenance job.
type JobInfo struct {
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	Queued   bool   `json:"queued"`
}

// ListJobs handles GET /api/maintenance
func (tc *TasksController) ListJobs(c *gin.Context) {
	jobs := tc.maintenance.Jobs()
	out := make([]JobInfo, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, JobInfo{
			Name:     job.Name,
			Schedule: job.Schedule,
			Queued:   tc.client != nil && job.Task != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

// RunJob handles POST /api/maintenance/:name/run
// Queued jobs answer 202 with the task id; inline jobs answer 200 once done.
func (tc *TasksController) RunJob(c *gin.Context) {
	name := c.Param("name")

	taskID, err := tc.maintenance.RunJob(name)
	if errors.Is(err, scheduler.ErrUnknownJob) {
		respondNotFound(c, "maintenance job")
		return
	}
	if err != nil {
		respondInternalError(c, err, "run "+name)
		return
	}

	if taskID != "" {
		respondAccepted(c, "task enqueued", gin.H{"task_id": taskID, "job": name})
		return
	}
	respondSuccess(c, "job completed", gin.H{"job": name})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.client == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue disabled")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
