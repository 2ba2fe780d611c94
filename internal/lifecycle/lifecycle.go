// Package lifecycle holds the task status transition rules shared by the
// JSON API and the management panel.
package lifecycle

import (
	"errors"

	"taskforce/internal/models"
)

var (
	// ErrCompletionFieldsRequired is returned when a task is marked COMPLETED
	// without a completion report or worked hours.
	ErrCompletionFieldsRequired = errors.New("when marking as COMPLETED, completion_report and worked_hours are required")
	// ErrNegativeWorkedHours is returned when worked hours are below zero.
	ErrNegativeWorkedHours = errors.New("worked_hours must be zero or positive")
	// ErrUnknownStatus is returned for a status outside the known set.
	ErrUnknownStatus = errors.New("unknown task status")
)

// ValidateTransition checks whether a task may move from current to next with
// the given completion fields. Only entering COMPLETED carries constraints:
// the missing-fields check runs before the sign check, and transitions away
// from COMPLETED leave report and hours untouched.
func ValidateTransition(current, next models.TaskStatus, report *string, hours *float64) error {
	if !next.Valid() {
		return ErrUnknownStatus
	}

	if next != models.TaskStatusCompleted {
		return nil
	}

	if report == nil || *report == "" || hours == nil {
		return ErrCompletionFieldsRequired
	}
	if *hours < 0 {
		return ErrNegativeWorkedHours
	}

	return nil
}
