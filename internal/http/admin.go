package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/importer"
	"github.com/ozcano/wordpost/internal/scheduler"
	"github.com/ozcano/wordpost/internal/tasks"
)

// AdminController serves operational endpoints: dictionary imports and
// manual digest pipeline triggers.
type AdminController struct {
	importer   *importer.Importer
	taskClient *tasks.Client
	scheduler  *scheduler.DigestScheduler
	queue      *emailqueue.Repository
}

func NewAdminController(
	imp *importer.Importer,
	taskClient *tasks.Client,
	digestScheduler *scheduler.DigestScheduler,
	queueRepo *emailqueue.Repository,
) *AdminController {
	return &AdminController{
		importer:   imp,
		taskClient: taskClient,
		scheduler:  digestScheduler,
		queue:      queueRepo,
	}
}

type importWordsRequest struct {
	Path string `json:"path" binding:"required"`
}

// ImportWords imports a dictionary seed file. When the task queue is
// available the import runs in the background; otherwise it runs inline.
func (a *AdminController) ImportWords(c *gin.Context) {
	var req importWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path is required")
		return
	}

	if a.taskClient != nil {
		ids, err := a.taskClient.Add(tasks.ImportWordsTask{Path: req.Path}).
			Ctx(c.Request.Context()).
			Save()
		if err != nil {
			respondInternalError(c, err, "enqueue import")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Import queued", "task_id": ids[0]})
		return
	}

	stats, err := a.importer.ImportFile(req.Path)
	if err != nil {
		respondInternalError(c, err, "import words")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Import completed", Data: stats})
}

// TriggerGeneration starts an immediate word-set generation sweep.
func (a *AdminController) TriggerGeneration(c *gin.Context) {
	if a.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "digest pipeline is disabled")
		return
	}
	a.scheduler.RunGenerationNow()
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Generation started"})
}

// TriggerDispatch starts an immediate queue dispatch cycle.
func (a *AdminController) TriggerDispatch(c *gin.Context) {
	if a.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "digest pipeline is disabled")
		return
	}
	a.scheduler.RunDispatchNow()
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Dispatch started"})
}

// TaskStatus reports the state of a background task by ID.
func (a *AdminController) TaskStatus(c *gin.Context) {
	if a.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := a.taskClient.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": taskStatusToString(status)})
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

// QueueCounts returns the email queue broken down by status.
func (a *AdminController) QueueCounts(c *gin.Context) {
	counts, err := a.queue.CountByStatus()
	if err != nil {
		respondInternalError(c, err, "queue counts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": counts})
}
