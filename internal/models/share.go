package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a share grant can carry. "owner" is never stored in a share row;
// it is derived from the resource's owner_id.
const (
	ShareRoleViewer = "viewer"
	ShareRoleEditor = "editor"
)

// Project share statuses. Declining removes the row, so only these two
// values are ever stored.
const (
	ShareStatusPending  = "pending"
	ShareStatusAccepted = "accepted"
)

type ProjectShare struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	SharedWithID uuid.UUID `json:"shared_with_id"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Project      *Project  `json:"project,omitempty"`
	Owner        *User     `json:"owner,omitempty"`
	SharedWith   *User     `json:"shared_with,omitempty"`
}

type LibraryShare struct {
	ID           uuid.UUID `json:"id"`
	LibraryID    uuid.UUID `json:"library_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	SharedWithID uuid.UUID `json:"shared_with_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SharedWith   *User     `json:"shared_with,omitempty"`
}

type ProjectLibrary struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	LibraryID uuid.UUID `json:"library_id"`
	CreatedAt time.Time `json:"created_at"`
}

func IsValidShareRole(role string) bool {
	return role == ShareRoleViewer || role == ShareRoleEditor
}
