package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupArticleService(t *testing.T) (*ArticleService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewArticleService(db, permissions.NewResolver(db)), mock
}

func articleRow(id, libraryID uuid.UUID, designation string, favorite bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "library_id", "designation", "lot", "sub_category", "unit",
		"unit_price", "status", "is_favorite", "created_at", "updated_at"}).
		AddRow(id, libraryID, designation, "Lot 2", nil, "m2", 45.50, nil, favorite, now, now)
}

// expectOwnedLibraryRole satisfies a resolver lookup with an owner match.
func expectOwnedLibraryRole(mock pgxmock.PgxPoolIface, libraryID, ownerID uuid.UUID) {
	mock.ExpectQuery(`SELECT l.owner_id, l.is_global, ls.role`).
		WithArgs(libraryID, ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id", "is_global", "role"}).
			AddRow(ownerID, false, nil))
}

func TestArticleService_Create(t *testing.T) {
	svc, mock := setupArticleService(t)
	libraryID := uuid.New()
	articleID := uuid.New()

	mock.ExpectQuery(`INSERT INTO articles`).
		WithArgs(libraryID, "Cloison placo", "Lot 2", (*string)(nil), "m2", 45.50, (*string)(nil)).
		WillReturnRows(articleRow(articleID, libraryID, "Cloison placo", false))

	article, err := svc.Create(context.Background(), libraryID, ArticleInput{
		Designation: "Cloison placo",
		Lot:         "Lot 2",
		Unit:        "m2",
		UnitPrice:   45.50,
	})

	require.NoError(t, err)
	assert.Equal(t, articleID, article.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_ToggleFavorite_Owner(t *testing.T) {
	svc, mock := setupArticleService(t)
	articleID := uuid.New()
	libraryID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT l.owner_id`).
		WithArgs(articleID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))

	mock.ExpectQuery(`UPDATE articles`).
		WithArgs(articleID).
		WillReturnRows(articleRow(articleID, libraryID, "Cloison placo", true))

	article, err := svc.ToggleFavorite(context.Background(), articleID, ownerID)

	require.NoError(t, err)
	assert.True(t, article.IsFavorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_ToggleFavorite_NotOwner(t *testing.T) {
	svc, mock := setupArticleService(t)
	articleID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT l.owner_id`).
		WithArgs(articleID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))

	_, err := svc.ToggleFavorite(context.Background(), articleID, uuid.New())

	assert.ErrorIs(t, err, permissions.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_ToggleFavorite_UnknownArticle(t *testing.T) {
	svc, mock := setupArticleService(t)
	articleID := uuid.New()

	mock.ExpectQuery(`SELECT l.owner_id`).
		WithArgs(articleID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.ToggleFavorite(context.Background(), articleID, uuid.New())

	assert.ErrorIs(t, err, permissions.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_MoveBatch(t *testing.T) {
	svc, mock := setupArticleService(t)
	userID := uuid.New()
	destID := uuid.New()
	sourceID := uuid.New()
	articleID := uuid.New()

	expectOwnedLibraryRole(mock, destID, userID)

	mock.ExpectQuery(`SELECT library_id FROM articles`).
		WithArgs(articleID).
		WillReturnRows(pgxmock.NewRows([]string{"library_id"}).AddRow(sourceID))
	expectOwnedLibraryRole(mock, sourceID, userID)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE articles SET library_id`).
		WithArgs(destID, articleID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, err := svc.MoveBatch(context.Background(), []uuid.UUID{articleID}, destID, userID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 1, result.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_MoveBatch_SkipsUnwritableSources(t *testing.T) {
	svc, mock := setupArticleService(t)
	userID := uuid.New()
	destID := uuid.New()
	sourceOwner := uuid.New()
	sourceID := uuid.New()
	movable := uuid.New()
	blocked := uuid.New()
	movableSource := uuid.New()

	expectOwnedLibraryRole(mock, destID, userID)

	mock.ExpectQuery(`SELECT library_id FROM articles`).
		WithArgs(movable).
		WillReturnRows(pgxmock.NewRows([]string{"library_id"}).AddRow(movableSource))
	expectOwnedLibraryRole(mock, movableSource, userID)

	// Second article lives in a library the caller can only view.
	mock.ExpectQuery(`SELECT library_id FROM articles`).
		WithArgs(blocked).
		WillReturnRows(pgxmock.NewRows([]string{"library_id"}).AddRow(sourceID))
	mock.ExpectQuery(`SELECT l.owner_id, l.is_global, ls.role`).
		WithArgs(sourceID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id", "is_global", "role"}).
			AddRow(sourceOwner, true, nil))
	mock.ExpectQuery(`SELECT p.owner_id = \$2 OR ps.role = \$3`).
		WithArgs(sourceID, userID, "editor", "accepted").
		WillReturnRows(pgxmock.NewRows([]string{"as_editor"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE articles SET library_id`).
		WithArgs(destID, movable).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, err := svc.MoveBatch(context.Background(), []uuid.UUID{movable, blocked}, destID, userID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 2, result.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleService_MoveBatch_DestinationReadOnly(t *testing.T) {
	svc, mock := setupArticleService(t)
	userID := uuid.New()
	destID := uuid.New()
	destOwner := uuid.New()

	mock.ExpectQuery(`SELECT l.owner_id, l.is_global, ls.role`).
		WithArgs(destID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id", "is_global", "role"}).
			AddRow(destOwner, true, nil))
	mock.ExpectQuery(`SELECT p.owner_id = \$2 OR ps.role = \$3`).
		WithArgs(destID, userID, "editor", "accepted").
		WillReturnRows(pgxmock.NewRows([]string{"as_editor"}))

	_, err := svc.MoveBatch(context.Background(), []uuid.UUID{uuid.New()}, destID, userID)

	assert.ErrorIs(t, err, permissions.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
