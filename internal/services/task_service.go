package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskforce/internal/authz"
	"taskforce/internal/lifecycle"
	"taskforce/internal/models"
	"taskforce/internal/repository"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrPermissionDenied   = errors.New("not allowed to perform this action")
	ErrReportNotAvailable = errors.New("report available only for completed tasks")
	ErrTitleRequired      = errors.New("title is required")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
	ErrAssigneeNotAllowed = errors.New("tasks can only be assigned to a managed standard user")
)

// TaskService handles task business logic for both the JSON API and the
// management panel.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListOwnTasks returns the actor's tasks, newest id first.
func (s *TaskService) ListOwnTasks(actor *models.User) ([]models.Task, error) {
	if !authz.Can(actor, authz.ActionListOwnTasks, nil) {
		return nil, ErrPermissionDenied
	}

	tasks, err := s.taskRepo.ListByOwner(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksFor returns the tasks visible to an administrator: every task for
// the super-administrator, only managed users' tasks for an admin. The list
// silently filters, unlike identifier-addressed access which hard-denies.
func (s *TaskService) ListTasksFor(actor *models.User) ([]models.Task, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return s.taskRepo.ListAll()
	case models.RoleAdmin:
		return s.taskRepo.ListByManagingAdmin(actor.ID)
	case models.RoleUser:
		return nil, ErrPermissionDenied
	}
	return nil, ErrPermissionDenied
}

// UpdateOwnTaskInput carries the fields a task owner may change. Nil
// pointers leave a field untouched.
type UpdateOwnTaskInput struct {
	Status           *models.TaskStatus
	CompletionReport *string
	WorkedHours      *float64
}

// UpdateOwnTask lets the task owner change status, completion report, and
// worked hours. The lifecycle rules are enforced against the merged state,
// so a rejected update leaves the task exactly as it was.
func (s *TaskService) UpdateOwnTask(actor *models.User, taskID uint64, input UpdateOwnTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.Can(actor, authz.ActionUpdateOwnTask, task) {
		return nil, ErrPermissionDenied
	}

	next := task.Status
	if input.Status != nil {
		next = *input.Status
	}
	report := task.CompletionReport
	if input.CompletionReport != nil {
		report = input.CompletionReport
	}
	hours := task.WorkedHours
	if input.WorkedHours != nil {
		hours = input.WorkedHours
	}

	if err := lifecycle.ValidateTransition(task.Status, next, report, hours); err != nil {
		return nil, err
	}

	task.Status = next
	task.CompletionReport = report
	task.WorkedHours = hours

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// GetTaskReport returns a completed task for report viewing. Authorization
// is checked before completion status: an actor outside the task's scope is
// denied without learning whether the report exists yet.
func (s *TaskService) GetTaskReport(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.Can(actor, authz.ActionViewTaskReport, task) {
		return nil, ErrPermissionDenied
	}

	if task.Status != models.TaskStatusCompleted {
		return nil, ErrReportNotAvailable
	}

	return task, nil
}

// CreateTaskInput carries the full field set an administrator provides.
type CreateTaskInput struct {
	Title            string
	Description      string
	AssignedToID     uint64
	DueDate          *time.Time
	Status           models.TaskStatus
	CompletionReport *string
	WorkedHours      *float64
}

// CreateTask creates a task for a user within the actor's assignment scope.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	assignee, err := s.userRepo.FindByID(input.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if !authz.CanAssignTaskTo(actor, assignee) {
		return nil, ErrAssigneeNotAllowed
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusPending
	}

	if err := lifecycle.ValidateTransition(models.TaskStatusPending, status, input.CompletionReport, input.WorkedHours); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:            input.Title,
		Description:      input.Description,
		AssignedToID:     input.AssignedToID,
		DueDate:          input.DueDate,
		Status:           status,
		CompletionReport: input.CompletionReport,
		WorkedHours:      input.WorkedHours,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput carries the full field set an administrator may change.
// Nil pointers leave a field untouched; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	AssignedToID     *uint64
	DueDate          *time.Time
	ClearDueDate     bool
	Status           *models.TaskStatus
	CompletionReport *string
	WorkedHours      *float64
}

// UpdateTask lets an administrator edit any field of a task inside their
// scope. An admin outside the owner's scope is hard-denied.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.Can(actor, authz.ActionManageTask, task) {
		return nil, ErrPermissionDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AssignedToID != nil && *input.AssignedToID != task.AssignedToID {
		assignee, err := s.userRepo.FindByID(*input.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		if !authz.CanAssignTaskTo(actor, assignee) {
			return nil, ErrAssigneeNotAllowed
		}
		task.AssignedToID = *input.AssignedToID
		task.AssignedTo = *assignee
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	next := task.Status
	if input.Status != nil {
		next = *input.Status
	}
	report := task.CompletionReport
	if input.CompletionReport != nil {
		report = input.CompletionReport
	}
	hours := task.WorkedHours
	if input.WorkedHours != nil {
		hours = input.WorkedHours
	}

	if err := lifecycle.ValidateTransition(task.Status, next, report, hours); err != nil {
		return nil, err
	}

	task.Status = next
	task.CompletionReport = report
	task.WorkedHours = hours

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// GetTask returns a task with its owner for an administrator inside the
// owner's scope.
func (s *TaskService) GetTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.Can(actor, authz.ActionManageTask, task) {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// DashboardCounts holds the totals shown on the panel dashboard.
type DashboardCounts struct {
	Users int64
	Tasks int64
}

// DashboardCounts returns role-scoped totals: global for the
// super-administrator, managed-scope for an admin.
func (s *TaskService) DashboardCounts(actor *models.User) (*DashboardCounts, error) {
	if !authz.Can(actor, authz.ActionViewDashboard, nil) {
		return nil, ErrPermissionDenied
	}

	var counts DashboardCounts
	var err error

	switch actor.Role {
	case models.RoleSuperAdmin:
		if counts.Users, err = s.userRepo.CountAll(); err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if counts.Tasks, err = s.taskRepo.CountAll(); err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
	case models.RoleAdmin:
		if counts.Users, err = s.userRepo.CountManaged(actor.ID); err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if counts.Tasks, err = s.taskRepo.CountByManagingAdmin(actor.ID); err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
	}

	return &counts, nil
}
