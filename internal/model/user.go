package model

import "time"

type GlobalRole string

const (
	RoleUser       GlobalRole = "USER"
	RoleModerator  GlobalRole = "MODERATOR"
	RoleAdmin      GlobalRole = "ADMIN"
	RoleSuperAdmin GlobalRole = "SUPER_ADMIN"
)

func (r GlobalRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries platform-level administration.
func (r GlobalRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type UserStatus string

const (
	StatusPending   UserStatus = "PENDING"
	StatusActive    UserStatus = "ACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

type User struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:100;not null" json:"full_name"`
	Status       UserStatus `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	Role         GlobalRole `gorm:"size:16;not null;default:'USER'" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
