package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/storage"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidDocType    = errors.New("invalid document type")
)

// Accepted file extensions per document type.
var allowedFormats = map[string]map[string]bool{
	models.DocumentTypePlan: {
		".dwg": true, ".pdf": true, ".dxf": true,
	},
	models.DocumentTypeDocument: {
		".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
		".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	},
}

const documentColumns = `id, project_id, uploaded_by, doc_type, filename, stored_path, size_bytes, format, created_at`

type DocumentService struct {
	db    *database.DB
	files *storage.FileStore
}

func NewDocumentService(db *database.DB, files *storage.FileStore) *DocumentService {
	return &DocumentService{db: db, files: files}
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID, &doc.ProjectID, &doc.UploadedBy, &doc.DocType, &doc.Filename,
		&doc.StoredPath, &doc.SizeBytes, &doc.Format, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upload stores the file on disk and records it. The extension is checked
// against the allow-list for the document type before anything is written.
func (s *DocumentService) Upload(ctx context.Context, projectID, uploadedBy uuid.UUID, docType, filename string, r io.Reader) (*models.Document, error) {
	formats, ok := allowedFormats[docType]
	if !ok {
		return nil, ErrInvalidDocType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !formats[ext] {
		return nil, ErrUnsupportedFormat
	}

	storedPath, size, err := s.files.Save(projectID, ext, r)
	if err != nil {
		return nil, err
	}

	doc, err := scanDocument(s.db.Pool.QueryRow(ctx, `
		INSERT INTO documents (project_id, uploaded_by, doc_type, filename, stored_path, size_bytes, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns+`
	`, projectID, uploadedBy, docType, filename, storedPath, size, strings.TrimPrefix(ext, ".")))
	if err != nil {
		_ = s.files.Remove(storedPath)
		return nil, fmt.Errorf("failed to record document: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(s.db.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListForProject(ctx context.Context, projectID uuid.UUID, docType string) ([]models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE project_id = $1`
	args := []any{projectID}
	if docType != "" {
		query += ` AND doc_type = $2`
		args = append(args, docType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.ProjectID, &doc.UploadedBy, &doc.DocType, &doc.Filename,
			&doc.StoredPath, &doc.SizeBytes, &doc.Format, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// OpenContent returns a reader over the stored file. The caller closes it.
func (s *DocumentService) OpenContent(doc *models.Document) (io.ReadCloser, error) {
	f, err := s.files.Open(doc.StoredPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return f, nil
}

func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}

	return s.files.Remove(doc.StoredPath)
}

// CleanupProjectFiles drops all stored files for a project. Called after
// the project row is deleted; the document rows cascade with the project.
func (s *DocumentService) CleanupProjectFiles(projectID uuid.UUID) error {
	return s.files.RemoveProject(projectID)
}
