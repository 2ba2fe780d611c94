package repository

import (
	"gorm.io/gorm"

	"taskforce/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user. Managed users keep existing: their assigned_admin
// reference is nulled out in the same transaction, never cascaded.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("assigned_admin_id = ?", id).
			Update("assigned_admin_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by username
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRole returns all users with the given role, ordered by username
func (r *GormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListManagedUsers returns the standard users routed to the given admin
func (r *GormUserRepository) ListManagedUsers(adminID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.
		Where("assigned_admin_id = ? AND role = ?", adminID, models.RoleUser).
		Order("username").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountAll counts every user
func (r *GormUserRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountManaged counts the standard users routed to the given admin
func (r *GormUserRepository) CountManaged(adminID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("assigned_admin_id = ?", adminID).
		Count(&count).Error
	return count, err
}
