package repository

import (
	"gorm.io/gorm"

	"taskforce/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByOwner returns the tasks assigned to a user, newest id first
func (r *GormTaskRepository) ListByOwner(ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("assigned_to_id = ?", ownerID).
		Order("id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAll returns every task with its owner, newest id first
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("AssignedTo").
		Order("id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByManagingAdmin returns tasks whose owner is managed by the given
// admin, newest id first
func (r *GormTaskRepository) ListByManagingAdmin(adminID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("AssignedTo").
		Joins("JOIN users ON users.id = tasks.assigned_to_id").
		Where("users.assigned_admin_id = ?", adminID).
		Order("tasks.id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountAll counts every task
func (r *GormTaskRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountByManagingAdmin counts tasks whose owner is managed by the admin
func (r *GormTaskRepository) CountByManagingAdmin(adminID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Joins("JOIN users ON users.id = tasks.assigned_to_id").
		Where("users.assigned_admin_id = ?", adminID).
		Count(&count).Error
	return count, err
}
