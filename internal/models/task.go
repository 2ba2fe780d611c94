package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	AssignedToID uint64     `gorm:"not null;index" json:"assigned_to"`
	DueDate      *time.Time `json:"due_date"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// CompletionReport and WorkedHours are required once Status reaches
	// COMPLETED and pass through untouched on any other transition.
	CompletionReport *string  `gorm:"type:text" json:"completion_report"`
	WorkedHours      *float64 `gorm:"type:decimal(6,2)" json:"worked_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	AssignedTo User `gorm:"foreignKey:AssignedToID" json:"-"`
}
