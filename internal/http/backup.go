package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/settingsstore"
)

type BackupStatusResponse struct {
	settingsstore.BackupStatus
	Scheduled bool       `json:"scheduled"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

type BackupController struct {
	scheduler *scheduler.BackupScheduler
}

func NewBackupController(s *scheduler.BackupScheduler) *BackupController {
	return &BackupController{scheduler: s}
}

// GetStatus handles GET /api/backup
func (bc *BackupController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, BackupStatusResponse{
		BackupStatus: bc.scheduler.Status(),
		Scheduled:    bc.scheduler.IsRunning(),
		NextRunAt:    bc.scheduler.GetNextRunTime(),
	})
}

// RunBackup handles POST /api/backup
// The snapshot is written before the response is sent.
func (bc *BackupController) RunBackup(c *gin.Context) {
	result, err := bc.scheduler.RunNow()
	if errors.Is(err, scheduler.ErrBackupInProgress) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "backup_in_progress"})
		return
	}
	if err != nil {
		respondInternalError(c, err, "run backup")
		return
	}

	respondSuccess(c, "backup completed", result)
}
