package models

import (
	"time"

	"github.com/google/uuid"
)

// Names of the per-user system folders created at registration. System
// folders cannot be renamed, recolored, reparented or deleted.
const (
	FolderMyProjects     = "My projects"
	FolderArchived       = "Archived"
	FolderSharedProjects = "Shared projects"
)

type ProjectFolder struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Name      string     `json:"name"`
	Color     *string    `json:"color,omitempty"`
	IsSystem  bool       `json:"is_system"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
