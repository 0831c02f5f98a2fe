package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/mlaurent/chantier-api/internal/models"
)

type CreateShareRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r CreateShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required,
			validation.In(models.ShareRoleViewer, models.ShareRoleEditor)),
	)
}

type UpdateShareRoleRequest struct {
	Role string `json:"role"`
}

func (r UpdateShareRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required,
			validation.In(models.ShareRoleViewer, models.ShareRoleEditor)),
	)
}
