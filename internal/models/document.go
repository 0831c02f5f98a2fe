package models

import (
	"time"

	"github.com/google/uuid"
)

// Document types. Each type carries its own extension allow-list,
// enforced on upload.
const (
	DocumentTypePlan     = "plan"
	DocumentTypeDocument = "document"
)

type Document struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	UploadedBy *uuid.UUID `json:"uploaded_by,omitempty"`
	DocType    string     `json:"doc_type"`
	Filename   string     `json:"filename"`
	StoredPath string     `json:"-"`
	SizeBytes  int64      `json:"size_bytes"`
	Format     string     `json:"format"`
	CreatedAt  time.Time  `json:"created_at"`
}
