package integration

import (
	"context"
	"testing"

	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectShareService_Integration_InviteLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	userSvc := services.NewUserService(tdb.DB)
	shareSvc := services.NewProjectShareService(tdb.DB, userSvc)
	resolver := permissions.NewResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)

	share, err := shareSvc.Create(ctx, project.ID, owner.ID, invitee.Email, models.ShareRoleEditor)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusPending, share.Status)
	assert.Equal(t, models.ShareRoleEditor, share.Role)

	// The invitee sees the pending invite but has no access yet
	pending, err := shareSvc.ListPendingForUser(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, share.ID, pending[0].ID)

	role, err := resolver.ProjectRole(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleNone, role)

	// Accepting activates the granted role
	accepted, err := shareSvc.Accept(ctx, share.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusAccepted, accepted.Status)

	role, err = resolver.ProjectRole(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleEditor, role)

	pending, err = shareSvc.ListPendingForUser(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Leaving drops the access again
	err = shareSvc.Leave(ctx, project.ID, invitee.ID)
	require.NoError(t, err)

	role, err = resolver.ProjectRole(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleNone, role)
}

func TestProjectShareService_Integration_Decline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	userSvc := services.NewUserService(tdb.DB)
	shareSvc := services.NewProjectShareService(tdb.DB, userSvc)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)

	share, err := shareSvc.Create(ctx, project.ID, owner.ID, invitee.Email, models.ShareRoleViewer)
	require.NoError(t, err)

	err = shareSvc.Decline(ctx, share.ID, invitee.ID)
	require.NoError(t, err)

	pending, err := shareSvc.ListPendingForUser(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A declined invite cannot be accepted afterwards
	_, err = shareSvc.Accept(ctx, share.ID, invitee.ID)
	assert.ErrorIs(t, err, services.ErrShareNotFound)
}

func TestProjectShareService_Integration_ReinviteUpdatesRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	userSvc := services.NewUserService(tdb.DB)
	shareSvc := services.NewProjectShareService(tdb.DB, userSvc)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)

	first, err := shareSvc.Create(ctx, project.ID, owner.ID, invitee.Email, models.ShareRoleViewer)
	require.NoError(t, err)

	second, err := shareSvc.Create(ctx, project.ID, owner.ID, invitee.Email, models.ShareRoleEditor)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ShareRoleEditor, second.Role)
}

func TestProjectShareService_Integration_CannotShareWithSelf(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	userSvc := services.NewUserService(tdb.DB)
	shareSvc := services.NewProjectShareService(tdb.DB, userSvc)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)

	_, err := shareSvc.Create(ctx, project.ID, owner.ID, owner.Email, models.ShareRoleViewer)
	assert.ErrorIs(t, err, services.ErrCannotShareWithSelf)
}

func TestLibraryShareService_Integration_ShareAndRevoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	userSvc := services.NewUserService(tdb.DB)
	shareSvc := services.NewLibraryShareService(tdb.DB, userSvc)
	resolver := permissions.NewResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	collaborator := fixtures.CreateUser(t)
	library := fixtures.CreateLibrary(t, owner)

	// Library shares take effect immediately, there is no invite step
	share, err := shareSvc.Create(ctx, library.ID, owner.ID, collaborator.Email, models.ShareRoleEditor)
	require.NoError(t, err)

	role, err := resolver.LibraryRole(ctx, library.ID, collaborator.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleEditor, role)

	err = shareSvc.Delete(ctx, share.ID)
	require.NoError(t, err)

	role, err = resolver.LibraryRole(ctx, library.ID, collaborator.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleNone, role)
}
