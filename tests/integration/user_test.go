package integration

import (
	"context"
	"testing"
	"time"

	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_RegisterAndAuthenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Register(ctx, "marie@example.com", "Marie Laurent", "supersecret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "marie@example.com", user.Email)

	// Correct password
	authed, err := svc.Authenticate(ctx, "marie@example.com", "supersecret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Wrong password
	_, err = svc.Authenticate(ctx, "marie@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Duplicate email
	_, err = svc.Register(ctx, "marie@example.com", "Other", "supersecret2")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestUserService_Integration_OAuthFindOrCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	info := testutil.OAuthUserInfo("marie@example.com", "Marie Laurent", "google", "google-123")

	created, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, "marie@example.com", created.Email)

	// A second sign-in finds the same account
	found, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestTokenService_Integration_RefreshTokenLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	hash := services.HashToken("some-refresh-token")

	err := svc.StoreRefreshToken(ctx, user.ID, hash, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	gotID, err := svc.ValidateRefreshToken(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)

	err = svc.RevokeRefreshToken(ctx, hash)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, hash)
	assert.Error(t, err)
}
