package models

import (
	"time"

	"gorm.io/gorm"
)

// Canonical role names. Seeded at startup; authorization derives its
// capability flags from these, never from raw role IDs.
const (
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
	RoleHOD       = "hod"
	RoleFaculty   = "faculty"
	RoleStudent   = "student"
)

// User represents an authenticated account. Users referenced by a Faculty
// profile are deactivated (IsActive=false) rather than deleted.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	FirstName    string         `gorm:"size:64" json:"first_name,omitempty"`
	LastName     string         `gorm:"size:64" json:"last_name,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	// Roles granted to this user, unique per user-role pair.
	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// HasRole reports whether the user holds the named role.
// Roles must be preloaded by the caller.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool     { return u.HasRole(RoleAdmin) }
func (u *User) IsPrincipal() bool { return u.HasRole(RolePrincipal) }
func (u *User) IsHOD() bool       { return u.HasRole(RoleHOD) }
func (u *User) IsFaculty() bool   { return u.HasRole(RoleFaculty) }

// Role groups permissions and is assigned to users many-to-many.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string       `gorm:"size:255" json:"description,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []*User      `gorm:"many2many:user_roles;" json:"-"`
}

// Permission is a named capability attached to roles.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	Roles       []Role    `gorm:"many2many:role_permissions;" json:"-"`
}
