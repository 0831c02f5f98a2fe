package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses. Stored as a plain string column; any status may be set
// to any other via update.
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusDone       = "done"
	ProjectStatusArchived   = "archived"
)

type Project struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	FolderID     *uuid.UUID `json:"folder_id,omitempty"`
	Name         string     `json:"name"`
	Client       *string    `json:"client,omitempty"`
	Typology     *string    `json:"typology,omitempty"`
	InternalRef  *string    `json:"internal_ref,omitempty"`
	Address      *string    `json:"address,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       string     `json:"status"`
	TotalArea    *float64   `json:"total_area,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusInProgress, ProjectStatusDone, ProjectStatusArchived:
		return true
	}
	return false
}
