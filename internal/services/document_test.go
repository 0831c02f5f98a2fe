package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/storage"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDocumentService(t *testing.T) (*DocumentService, pgxmock.PgxPoolIface, string) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	root := t.TempDir()
	files, err := storage.NewFileStore(root)
	require.NoError(t, err)

	db := &database.DB{Pool: mock}
	return NewDocumentService(db, files), mock, root
}

func documentRow(id, projectID, uploadedBy uuid.UUID, docType, filename, storedPath string, size int64, format string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "project_id", "uploaded_by", "doc_type", "filename",
		"stored_path", "size_bytes", "format", "created_at",
	}).AddRow(id, projectID, &uploadedBy, docType, filename, storedPath, size, format, time.Now())
}

func TestDocumentService_Upload(t *testing.T) {
	svc, mock, root := setupDocumentService(t)
	projectID := uuid.New()
	uploadedBy := uuid.New()
	docID := uuid.New()

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(projectID, uploadedBy, models.DocumentTypePlan, "ground-floor.pdf",
			pgxmock.AnyArg(), int64(9), "pdf").
		WillReturnRows(documentRow(docID, projectID, uploadedBy, models.DocumentTypePlan,
			"ground-floor.pdf", projectID.String()+"/x.pdf", 9, "pdf"))

	doc, err := svc.Upload(context.Background(), projectID, uploadedBy,
		models.DocumentTypePlan, "ground-floor.pdf", strings.NewReader("plan data"))

	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	assert.Equal(t, "pdf", doc.Format)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The file landed in the project's directory
	entries, err := os.ReadDir(filepath.Join(root, projectID.String()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDocumentService_Upload_InvalidDocType(t *testing.T) {
	svc, mock, _ := setupDocumentService(t)

	_, err := svc.Upload(context.Background(), uuid.New(), uuid.New(),
		"invoice", "a.pdf", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrInvalidDocType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Upload_UnsupportedFormat(t *testing.T) {
	svc, mock, root := setupDocumentService(t)
	projectID := uuid.New()

	// .dwg is a plan format, not a document format
	_, err := svc.Upload(context.Background(), projectID, uuid.New(),
		models.DocumentTypeDocument, "drawing.dwg", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Nothing written before the extension check
	_, err = os.Stat(filepath.Join(root, projectID.String()))
	assert.True(t, os.IsNotExist(err))
}

func TestDocumentService_GetByID_NotFound(t *testing.T) {
	svc, mock, _ := setupDocumentService(t)
	docID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM documents WHERE id`).
		WithArgs(docID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), docID)

	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_ListForProject_FilterByType(t *testing.T) {
	svc, mock, _ := setupDocumentService(t)
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM documents`).
		WithArgs(projectID, models.DocumentTypePlan).
		WillReturnRows(documentRow(uuid.New(), projectID, uuid.New(),
			models.DocumentTypePlan, "a.pdf", projectID.String()+"/a.pdf", 4, "pdf"))

	docs, err := svc.ListForProject(context.Background(), projectID, models.DocumentTypePlan)

	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Delete_RemovesFile(t *testing.T) {
	svc, mock, root := setupDocumentService(t)
	projectID := uuid.New()
	docID := uuid.New()

	// Put a real file where the document row points
	dir := filepath.Join(root, projectID.String())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	storedPath := filepath.Join(projectID.String(), "stored.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(root, storedPath), []byte("x"), 0o644))

	mock.ExpectQuery(`SELECT (.+) FROM documents WHERE id`).
		WithArgs(docID).
		WillReturnRows(documentRow(docID, projectID, uuid.New(),
			models.DocumentTypePlan, "a.pdf", storedPath, 1, "pdf"))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs(docID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(context.Background(), docID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = os.Stat(filepath.Join(root, storedPath))
	assert.True(t, os.IsNotExist(err))
}
