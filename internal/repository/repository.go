package repository

import (
	"taskforce/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user. References from managed users are cleared,
	// not cascaded, within the same transaction.
	Delete(id uint64) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users ordered by username
	List() ([]models.User, error)

	// ListByRole returns all users with the given role, ordered by username
	ListByRole(role models.Role) ([]models.User, error)

	// ListManagedUsers returns the standard users routed to the given admin
	ListManagedUsers(adminID uint64) ([]models.User, error)

	// CountAll counts every user
	CountAll() (int64, error)

	// CountManaged counts the standard users routed to the given admin
	CountManaged(adminID uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// Update persists changes to a task
	Update(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByOwner returns the tasks assigned to a user, newest id first
	ListByOwner(ownerID uint64) ([]models.Task, error)

	// ListAll returns every task with its owner, newest id first
	ListAll() ([]models.Task, error)

	// ListByManagingAdmin returns tasks whose owner is managed by the given
	// admin, newest id first
	ListByManagingAdmin(adminID uint64) ([]models.Task, error)

	// CountAll counts every task
	CountAll() (int64, error)

	// CountByManagingAdmin counts tasks whose owner is managed by the admin
	CountByManagingAdmin(adminID uint64) (int64, error)
}
