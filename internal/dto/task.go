package dto

import (
	"time"

	"taskforce/internal/models"
)

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID               uint64            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	AssignedTo       uint64            `json:"assigned_to"`
	DueDate          *time.Time        `json:"due_date"`
	Status           models.TaskStatus `json:"status"`
	CompletionReport *string           `json:"completion_report"`
	WorkedHours      *float64          `json:"worked_hours"`
}

// TaskReportDTO represents a completed task's report in API responses.
type TaskReportDTO struct {
	ID               uint64            `json:"id"`
	Title            string            `json:"title"`
	AssignedTo       uint64            `json:"assigned_to"`
	Status           models.TaskStatus `json:"status"`
	CompletionReport *string           `json:"completion_report"`
	WorkedHours      *float64          `json:"worked_hours"`
}

// ToTaskDTO converts a Task model to TaskDTO.
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		AssignedTo:       task.AssignedToID,
		DueDate:          task.DueDate,
		Status:           task.Status,
		CompletionReport: task.CompletionReport,
		WorkedHours:      task.WorkedHours,
	}
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskReportDTO converts a Task model to TaskReportDTO.
func ToTaskReportDTO(task models.Task) TaskReportDTO {
	return TaskReportDTO{
		ID:               task.ID,
		Title:            task.Title,
		AssignedTo:       task.AssignedToID,
		Status:           task.Status,
		CompletionReport: task.CompletionReport,
		WorkedHours:      task.WorkedHours,
	}
}
