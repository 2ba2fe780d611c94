package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskforce/internal/constants"
	"taskforce/internal/models"
	"taskforce/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUnknownRole          = errors.New("unknown role")
	ErrAdminRoleRequired    = errors.New("assigned admin must have the ADMIN role")
	ErrStandardUserRequired = errors.New("only standard users can be assigned to an admin")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService handles provisioning, assignment, and deletion of users.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput holds the fields for provisioning a user.
type CreateUserInput struct {
	Username        string
	Email           string
	Password        string
	Role            models.Role
	AssignedAdminID *uint64
}

// CreateUser provisions a user. The role defaults to USER; an assigned admin
// is accepted only for standard users and must reference an ADMIN.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if input.AssignedAdminID != nil {
		if role != models.RoleUser {
			return nil, ErrStandardUserRequired
		}
		if err := s.ensureAdmin(*input.AssignedAdminID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:        username,
		Email:           input.Email,
		PasswordHash:    string(hash),
		Role:            role,
		AssignedAdminID: input.AssignedAdminID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CreateSuperAdmin provisions a super-administrator. The staff and superuser
// flags come along for the surrounding platform's tooling.
func (s *UserService) CreateSuperAdmin(username, email, password string) (*models.User, error) {
	user, err := s.CreateUser(CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     models.RoleSuperAdmin,
	})
	if err != nil {
		return nil, err
	}

	user.Staff = true
	user.Superuser = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to flag super admin: %w", err)
	}

	return user, nil
}

// UpdateUserInput holds the mutable fields of a user. Nil pointers leave the
// field unchanged; ClearAssignedAdmin removes the managing admin.
type UpdateUserInput struct {
	Email              *string
	Role               *models.Role
	Password           *string
	AssignedAdminID    *uint64
	ClearAssignedAdmin bool
}

// UpdateUser applies the given changes to a user.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrUnknownRole
		}
		user.Role = *input.Role
	}
	if input.ClearAssignedAdmin {
		user.AssignedAdminID = nil
	} else if input.AssignedAdminID != nil {
		if user.Role != models.RoleUser {
			return nil, ErrStandardUserRequired
		}
		if err := s.ensureAdmin(*input.AssignedAdminID); err != nil {
			return nil, err
		}
		user.AssignedAdminID = input.AssignedAdminID
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. When the user is an admin, the reference on
// every managed user is cleared; the managed users themselves survive.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AssignUserToAdmin routes a standard user to a managing admin. Both sides
// are validated: the target must be an ADMIN, the subject a standard user.
func (s *UserService) AssignUserToAdmin(userID, adminID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.Role != models.RoleUser {
		return nil, ErrStandardUserRequired
	}
	if err := s.ensureAdmin(adminID); err != nil {
		return nil, err
	}

	user.AssignedAdminID = &adminID
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by username.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListAdmins returns every user with the ADMIN role.
func (s *UserService) ListAdmins() ([]models.User, error) {
	admins, err := s.userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// ListStandardUsers returns every user with the USER role.
func (s *UserService) ListStandardUsers() ([]models.User, error) {
	users, err := s.userRepo.ListByRole(models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AssignableUsers returns the standard users the actor may assign tasks to:
// every standard user for the super-administrator, only managed users for an
// admin, nothing for anyone else.
func (s *UserService) AssignableUsers(actor *models.User) ([]models.User, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return s.userRepo.ListByRole(models.RoleUser)
	case models.RoleAdmin:
		return s.userRepo.ListManagedUsers(actor.ID)
	case models.RoleUser:
		return nil, nil
	}
	return nil, nil
}

func (s *UserService) ensureAdmin(adminID uint64) error {
	admin, err := s.userRepo.FindByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find admin: %w", err)
	}
	if admin.Role != models.RoleAdmin {
		return ErrAdminRoleRequired
	}
	return nil
}
