package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform-wide user roles.
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Provider     *string   `json:"provider,omitempty"`
	ProviderID   *string   `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
