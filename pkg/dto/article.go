package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateArticleRequest struct {
	Designation string  `json:"designation"`
	Lot         string  `json:"lot"`
	SubCategory *string `json:"sub_category,omitempty"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Status      *string `json:"status,omitempty"`
}

func (r CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Designation, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Lot, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Unit, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.UnitPrice, validation.Min(0.0)),
	)
}

type UpdateArticleRequest struct {
	Designation *string  `json:"designation,omitempty"`
	Lot         *string  `json:"lot,omitempty"`
	SubCategory *string  `json:"sub_category,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func (r UpdateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Designation, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Lot, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Unit, validation.NilOrNotEmpty, validation.Length(1, 50)),
	)
}

type MoveArticlesRequest struct {
	ArticleIDs    []uuid.UUID `json:"article_ids"`
	DestLibraryID uuid.UUID   `json:"dest_library_id"`
}

func (r MoveArticlesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ArticleIDs, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.DestLibraryID, validation.Required),
	)
}
