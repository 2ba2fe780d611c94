// Package authz is the authorization engine: pure decisions over an actor,
// an action, and an optional target task. Handlers and middleware consult it
// instead of re-deriving role checks at each call site.
package authz

import (
	"taskforce/internal/models"
)

// Action enumerates everything an actor can attempt.
type Action int

const (
	// ActionListOwnTasks lists the tasks assigned to the actor.
	ActionListOwnTasks Action = iota
	// ActionUpdateOwnTask updates status/report/hours on an owned task.
	ActionUpdateOwnTask
	// ActionViewTaskReport reads the completion report of a task.
	ActionViewTaskReport
	// ActionManageTask creates or edits a task with the full field set.
	ActionManageTask
	// ActionManageUsers covers user create/edit/delete/list/assign.
	ActionManageUsers
	// ActionViewDashboard views the role-scoped dashboard counts.
	ActionViewDashboard
)

// Can reports whether actor may perform action. task carries the target for
// task-addressed actions and must have AssignedTo loaded for admin-scope
// decisions; it is ignored for the rest. A nil actor is always denied.
func Can(actor *models.User, action Action, task *models.Task) bool {
	if actor == nil {
		return false
	}

	switch action {
	case ActionListOwnTasks:
		return true

	case ActionUpdateOwnTask:
		return task != nil && task.AssignedToID == actor.ID

	case ActionViewTaskReport, ActionManageTask:
		if task == nil {
			return false
		}
		switch actor.Role {
		case models.RoleSuperAdmin:
			return true
		case models.RoleAdmin:
			return task.AssignedTo.IsManagedBy(actor.ID)
		case models.RoleUser:
			return false
		}
		return false

	case ActionManageUsers:
		return actor.Role == models.RoleSuperAdmin

	case ActionViewDashboard:
		switch actor.Role {
		case models.RoleSuperAdmin, models.RoleAdmin:
			return true
		case models.RoleUser:
			return false
		}
		return false
	}

	return false
}

// CanAssignTaskTo reports whether actor may assign a task to the given user.
// Admins reach only the standard users they manage; the super-administrator
// reaches every standard user. Tasks are never assigned to admins.
func CanAssignTaskTo(actor, assignee *models.User) bool {
	if actor == nil || assignee == nil || assignee.Role != models.RoleUser {
		return false
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin:
		return assignee.IsManagedBy(actor.ID)
	case models.RoleUser:
		return false
	}
	return false
}
