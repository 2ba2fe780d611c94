package panel

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskforce/internal/middleware"
	"taskforce/internal/models"
	"taskforce/internal/services"
)

// TasksList renders the tasks visible to the actor: all of them for the
// super-administrator, only managed users' tasks for an admin.
func (p *Panel) TasksList(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	tasks, err := p.taskService.ListTasksFor(user)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load tasks.")
		return
	}

	c.HTML(http.StatusOK, "tasks_list.html", gin.H{
		"User":  user,
		"Tasks": tasks,
	})
}

// TaskCreateForm renders the empty task form with the actor's assignable
// user set.
func (p *Panel) TaskCreateForm(c *gin.Context) {
	p.renderTaskForm(c, "Create Task", nil, "")
}

// TaskCreate handles the task creation form submission.
func (p *Panel) TaskCreate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	input, errMsg := p.taskInputFromForm(c)
	if errMsg != "" {
		p.renderTaskForm(c, "Create Task", nil, errMsg)
		return
	}

	if _, err := p.taskService.CreateTask(user, input); err != nil {
		p.renderTaskForm(c, "Create Task", nil, err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/panel/tasks")
}

// TaskEditForm renders the form pre-filled with an existing task. An admin
// outside the owner's scope is denied outright.
func (p *Panel) TaskEditForm(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "Task not found.")
		return
	}

	task, err := p.taskService.GetTask(user, id)
	if err != nil {
		p.respondTaskError(c, err)
		return
	}

	p.renderTaskForm(c, "Edit Task", task, "")
}

// TaskEdit handles the task edit form submission.
func (p *Panel) TaskEdit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "Task not found.")
		return
	}

	task, err := p.taskService.GetTask(user, id)
	if err != nil {
		p.respondTaskError(c, err)
		return
	}

	input, errMsg := p.taskInputFromForm(c)
	if errMsg != "" {
		p.renderTaskForm(c, "Edit Task", task, errMsg)
		return
	}

	title := input.Title
	description := input.Description
	status := input.Status
	update := services.UpdateTaskInput{
		Title:            &title,
		Description:      &description,
		AssignedToID:     &input.AssignedToID,
		Status:           &status,
		CompletionReport: input.CompletionReport,
		WorkedHours:      input.WorkedHours,
	}
	if input.DueDate != nil {
		update.DueDate = input.DueDate
	} else {
		update.ClearDueDate = true
	}

	if _, err := p.taskService.UpdateTask(user, id, update); err != nil {
		p.renderTaskForm(c, "Edit Task", task, err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/panel/tasks")
}

// TaskReport renders the completion report of a task inside the actor's
// scope.
func (p *Panel) TaskReport(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "Task not found.")
		return
	}

	task, err := p.taskService.GetTaskReport(user, id)
	if err != nil {
		p.respondTaskError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_report.html", gin.H{
		"User": user,
		"Task": task,
	})
}

// taskInputFromForm binds the task form fields, reporting the first field
// that fails to parse.
func (p *Panel) taskInputFromForm(c *gin.Context) (services.CreateTaskInput, string) {
	var input services.CreateTaskInput

	assignedTo, ok := formUint64(c, "assigned_to")
	if !ok || assignedTo == nil {
		return input, "An assigned user is required."
	}
	dueDate, ok := formDate(c, "due_date")
	if !ok {
		return input, "Due date must be a valid date."
	}
	hours, ok := formFloat(c, "worked_hours")
	if !ok {
		return input, "worked_hours must be numeric."
	}

	status := models.TaskStatus(c.PostForm("status"))
	if status == "" {
		status = models.TaskStatusPending
	}

	input = services.CreateTaskInput{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		AssignedToID:     *assignedTo,
		DueDate:          dueDate,
		Status:           status,
		CompletionReport: formString(c, "completion_report"),
		WorkedHours:      hours,
	}
	return input, ""
}

func (p *Panel) renderTaskForm(c *gin.Context, title string, task *models.Task, errMsg string) {
	user, _ := middleware.CurrentUser(c)

	assignable, err := p.userService.AssignableUsers(user)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load users.")
		return
	}

	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "task_form.html", gin.H{
		"User":       user,
		"Title":      title,
		"Task":       task,
		"Assignable": assignable,
		"Statuses":   Statuses,
		"Error":      errMsg,
	})
}

func (p *Panel) respondTaskError(c *gin.Context, err error) {
	user, _ := middleware.CurrentUser(c)

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.String(http.StatusNotFound, "Task not found.")
	case errors.Is(err, services.ErrPermissionDenied):
		c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
			"User": user,
		})
	case errors.Is(err, services.ErrReportNotAvailable):
		c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
			"User":    user,
			"Message": "Report only available for completed tasks.",
		})
	default:
		c.String(http.StatusInternalServerError, "Something went wrong.")
	}
}
