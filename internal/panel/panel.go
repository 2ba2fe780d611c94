// Package panel serves the server-rendered management interface used by
// administrators: session login, dashboard, user management, and task
// assignment.
package panel

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskforce/internal/models"
	"taskforce/internal/services"
)

// Panel bundles the handlers of the management interface.
type Panel struct {
	authService *services.AuthService
	userService *services.UserService
	taskService *services.TaskService
}

// New creates the panel handler set.
func New(authService *services.AuthService, userService *services.UserService, taskService *services.TaskService) *Panel {
	return &Panel{
		authService: authService,
		userService: userService,
		taskService: taskService,
	}
}

// Statuses is the status choice list offered by task forms.
var Statuses = []models.TaskStatus{
	models.TaskStatusPending,
	models.TaskStatusInProgress,
	models.TaskStatusCompleted,
}

// Roles is the role choice list offered by user forms.
var Roles = []models.Role{
	models.RoleSuperAdmin,
	models.RoleAdmin,
	models.RoleUser,
}

func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// formUint64 reads an optional numeric form field. Empty values yield nil.
func formUint64(c *gin.Context, field string) (*uint64, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// formDate reads an optional YYYY-MM-DD form field. Empty values yield nil.
func formDate(c *gin.Context, field string) (*time.Time, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// formFloat reads an optional decimal form field. Empty values yield nil.
func formFloat(c *gin.Context, field string) (*float64, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// formString reads an optional text form field. Empty values yield nil so
// untouched fields pass through unchanged.
func formString(c *gin.Context, field string) *string {
	raw := c.PostForm(field)
	if raw == "" {
		return nil
	}
	return &raw
}
