package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/models"
)

type CreateProjectRequest struct {
	Name         string     `json:"name"`
	Client       *string    `json:"client,omitempty"`
	Typology     *string    `json:"typology,omitempty"`
	InternalRef  *string    `json:"internal_ref,omitempty"`
	Address      *string    `json:"address,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       string     `json:"status,omitempty"`
	TotalArea    *float64   `json:"total_area,omitempty"`
	FolderID     *uuid.UUID `json:"folder_id,omitempty"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Status, validation.In(
			models.ProjectStatusDraft, models.ProjectStatusInProgress,
			models.ProjectStatusDone, models.ProjectStatusArchived,
		)),
	)
}

type UpdateProjectRequest struct {
	Name         *string    `json:"name,omitempty"`
	Client       *string    `json:"client,omitempty"`
	Typology     *string    `json:"typology,omitempty"`
	InternalRef  *string    `json:"internal_ref,omitempty"`
	Address      *string    `json:"address,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       *string    `json:"status,omitempty"`
	TotalArea    *float64   `json:"total_area,omitempty"`
	FolderID     *uuid.UUID `json:"folder_id,omitempty"`
	MoveToRoot   bool       `json:"move_to_root,omitempty"`
}

func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 300)),
	)
}
