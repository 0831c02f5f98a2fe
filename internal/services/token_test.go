package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenService(t *testing.T) (*TokenService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTokenService(db), mock
}

func TestTokenService_StoreRefreshToken(t *testing.T) {
	svc, mock := setupTokenService(t)
	userID := uuid.New()
	expiresAt := time.Now().Add(24 * time.Hour)

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(userID, "hash", expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := svc.StoreRefreshToken(context.Background(), userID, "hash", expiresAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_ValidateRefreshToken(t *testing.T) {
	svc, mock := setupTokenService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens`).
		WithArgs("hash").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(userID))

	got, err := svc.ValidateRefreshToken(context.Background(), "hash")

	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_ValidateRefreshToken_Expired(t *testing.T) {
	svc, mock := setupTokenService(t)

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens`).
		WithArgs("hash").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.ValidateRefreshToken(context.Background(), "hash")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenService_RevokeAllUserTokens(t *testing.T) {
	svc, mock := setupTokenService(t)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM refresh_tokens`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := svc.RevokeAllUserTokens(context.Background(), userID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
