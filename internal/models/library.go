package models

import (
	"time"

	"github.com/google/uuid"
)

type Library struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsGlobal    bool      `json:"is_global"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Article struct {
	ID          uuid.UUID `json:"id"`
	LibraryID   uuid.UUID `json:"library_id"`
	Designation string    `json:"designation"`
	Lot         string    `json:"lot"`
	SubCategory *string   `json:"sub_category,omitempty"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unit_price"`
	Status      *string   `json:"status,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
