package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProjectService(t *testing.T) (*ProjectService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewProjectService(db, NewFolderService(db)), mock
}

func projectColumnNames() []string {
	return []string{"id", "owner_id", "folder_id", "name", "client", "typology", "internal_ref",
		"address", "delivery_date", "status", "total_area", "created_at", "updated_at"}
}

func projectRow(id, ownerID uuid.UUID, folderID *uuid.UUID, name, status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(projectColumnNames()).
		AddRow(id, ownerID, folderID, name, nil, nil, nil, nil, nil, status, nil, now, now)
}

func TestProjectService_Create_DefaultsToMyProjects(t *testing.T) {
	svc, mock := setupProjectService(t)
	ownerID := uuid.New()
	projectID := uuid.New()
	folderID := uuid.New()

	mock.ExpectQuery(`SELECT id FROM project_folders`).
		WithArgs(ownerID, models.FolderMyProjects).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(folderID))

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(ownerID, &folderID, "Villa Dupont", (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*time.Time)(nil), models.ProjectStatusDraft, (*float64)(nil)).
		WillReturnRows(projectRow(projectID, ownerID, &folderID, "Villa Dupont", models.ProjectStatusDraft))

	project, err := svc.Create(context.Background(), ownerID, ProjectInput{Name: "Villa Dupont"})

	require.NoError(t, err)
	assert.Equal(t, projectID, project.ID)
	assert.Equal(t, models.ProjectStatusDraft, project.Status)
	require.NotNil(t, project.FolderID)
	assert.Equal(t, folderID, *project.FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Create_ArchivedGoesToArchivedFolder(t *testing.T) {
	svc, mock := setupProjectService(t)
	ownerID := uuid.New()
	projectID := uuid.New()
	folderID := uuid.New()

	mock.ExpectQuery(`SELECT id FROM project_folders`).
		WithArgs(ownerID, models.FolderArchived).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(folderID))

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(ownerID, &folderID, "Old Site", (*string)(nil), (*string)(nil),
			(*string)(nil), (*string)(nil), (*time.Time)(nil), models.ProjectStatusArchived, (*float64)(nil)).
		WillReturnRows(projectRow(projectID, ownerID, &folderID, "Old Site", models.ProjectStatusArchived))

	project, err := svc.Create(context.Background(), ownerID, ProjectInput{
		Name:   "Old Site",
		Status: models.ProjectStatusArchived,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusArchived, project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Create_InvalidStatus(t *testing.T) {
	svc, mock := setupProjectService(t)
	ownerID := uuid.New()

	_, err := svc.Create(context.Background(), ownerID, ProjectInput{
		Name:   "Villa",
		Status: "paused",
	})

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_List_RewritesSharedFolder(t *testing.T) {
	svc, mock := setupProjectService(t)
	userID := uuid.New()
	otherOwner := uuid.New()
	sharedFolderID := uuid.New()
	ownFolderID := uuid.New()
	foreignFolderID := uuid.New()
	ownedID := uuid.New()
	sharedID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id FROM project_folders`).
		WithArgs(userID, models.FolderSharedProjects).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(sharedFolderID))

	rows := pgxmock.NewRows(append(projectColumnNames(), "owned")).
		AddRow(ownedID, userID, &ownFolderID, "Mine", nil, nil, nil, nil, nil, models.ProjectStatusDraft, nil, now, now, true).
		AddRow(sharedID, otherOwner, &foreignFolderID, "Theirs", nil, nil, nil, nil, nil, models.ProjectStatusInProgress, nil, now, now, false)

	mock.ExpectQuery(`SELECT .+ FROM projects p`).
		WithArgs(userID, models.ShareStatusAccepted).
		WillReturnRows(rows)

	projects, err := svc.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, ownFolderID, *projects[0].FolderID)
	assert.Equal(t, sharedFolderID, *projects[1].FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Update_InvalidStatus(t *testing.T) {
	svc, mock := setupProjectService(t)
	projectID := uuid.New()
	ownerID := uuid.New()
	status := "paused"

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id`).
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, ownerID, nil, "Villa", models.ProjectStatusDraft))

	_, err := svc.Update(context.Background(), projectID, ProjectUpdate{Status: &status})

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	svc, mock := setupProjectService(t)
	projectID := uuid.New()

	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs(projectID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), projectID)

	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
