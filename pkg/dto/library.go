package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateLibraryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsGlobal    bool    `json:"is_global,omitempty"`
}

func (r CreateLibraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

type UpdateLibraryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsGlobal    *bool   `json:"is_global,omitempty"`
}

func (r UpdateLibraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

type AssignLibraryRequest struct {
	LibraryID uuid.UUID `json:"library_id"`
}

func (r AssignLibraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LibraryID, validation.Required),
	)
}
