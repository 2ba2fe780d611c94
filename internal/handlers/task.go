package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskforce/internal/dto"
	apierrors "taskforce/internal/errors"
	"taskforce/internal/lifecycle"
	"taskforce/internal/middleware"
	"taskforce/internal/models"
	"taskforce/internal/services"
)

// TaskHandler serves the end-user task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListMyTasks returns the caller's tasks, newest first.
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListOwnTasks(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateMyTask updates status, completion report, and worked hours on a task
// owned by the caller. PATCH and PUT behave identically: only the three
// owner-writable fields are ever read from the body.
func (h *TaskHandler) UpdateMyTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Status           *models.TaskStatus `json:"status"`
		CompletionReport *string            `json:"completion_report"`
		WorkedHours      *float64           `json:"worked_hours"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateOwnTask(actor, taskID, services.UpdateOwnTaskInput{
		Status:           req.Status,
		CompletionReport: req.CompletionReport,
		WorkedHours:      req.WorkedHours,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetTaskReport returns the completion report of a task, for the
// super-administrator or the admin managing the task's owner.
func (h *TaskHandler) GetTaskReport(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTaskReport(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskReportDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrReportNotAvailable),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeNotAllowed),
		errors.Is(err, lifecycle.ErrCompletionFieldsRequired),
		errors.Is(err, lifecycle.ErrNegativeWorkedHours),
		errors.Is(err, lifecycle.ErrUnknownStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
