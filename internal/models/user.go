package models

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`

	// AssignedAdminID routes a standard user to the admin managing them.
	// Meaningful only when Role == RoleUser. Cleared, not cascaded, when the
	// referenced admin is deleted.
	AssignedAdminID *uint64 `gorm:"index" json:"assigned_admin"`

	// Staff and Superuser are recorded when a super-administrator is
	// provisioned. Nothing in this service reads them; they exist for the
	// surrounding platform's tooling.
	Staff     bool `json:"-"`
	Superuser bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	AssignedAdmin *User  `gorm:"foreignKey:AssignedAdminID" json:"-"`
	Tasks         []Task `gorm:"foreignKey:AssignedToID" json:"-"`
}

// IsManagedBy reports whether u is a standard user routed to the given admin.
func (u *User) IsManagedBy(adminID uint64) bool {
	return u.AssignedAdminID != nil && *u.AssignedAdminID == adminID
}
