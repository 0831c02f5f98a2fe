package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/pkg/dto"
	"github.com/mlaurent/chantier-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type shareTestMocks struct {
	projectShares *testutil.MockProjectShareService
	libraryShares *testutil.MockLibraryShareService
	projects      *testutil.MockProjectService
	users         *testutil.MockUserService
	email         *testutil.MockEmailService
	resolver      *testutil.MockResolver
}

func setupShareTest(t *testing.T) (*shareTestMocks, *ShareHandler, *services.JWTService) {
	t.Helper()
	m := &shareTestMocks{
		projectShares: new(testutil.MockProjectShareService),
		libraryShares: new(testutil.MockLibraryShareService),
		projects:      new(testutil.MockProjectService),
		users:         new(testutil.MockUserService),
		email:         new(testutil.MockEmailService),
		resolver:      new(testutil.MockResolver),
	}
	handler := NewShareHandler(m.projectShares, m.libraryShares, m.projects, m.users, m.email, m.resolver)
	return m, handler, testJWTService()
}

func TestShareHandler_CreateProjectShare_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	projectID := uuid.New()
	inviteeID := uuid.New()
	share := &models.ProjectShare{
		ID:           uuid.New(),
		ProjectID:    projectID,
		OwnerID:      userID,
		SharedWithID: inviteeID,
		Role:         models.ShareRoleEditor,
		Status:       models.ShareStatusPending,
		SharedWith: &models.User{
			ID:    inviteeID,
			Email: "invitee@example.com",
			Name:  "Invitee",
		},
	}

	m.resolver.On("AuthorizeProject", mock.Anything, projectID, userID, permissions.ActionShare).
		Return(permissions.RoleOwner, nil)
	m.projectShares.On("Create", mock.Anything, projectID, userID, "invitee@example.com", models.ShareRoleEditor).
		Return(share, nil)

	// The invite email is sent from a goroutine after the response is
	// written, so these are not asserted.
	m.projects.On("GetByID", mock.Anything, projectID).
		Return(&models.Project{ID: projectID, OwnerID: userID, Name: "Villa Dupont"}, nil).Maybe()
	m.users.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, Email: email, Name: "Marie"}, nil).Maybe()
	m.email.On("SendProjectShareInvite", "invitee@example.com", "Villa Dupont", "Marie", models.ShareRoleEditor).
		Return(nil).Maybe()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/shares", handler.CreateProjectShare)

	body := dto.CreateShareRequest{Email: "invitee@example.com", Role: models.ShareRoleEditor}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response models.ProjectShare
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusPending, response.Status)
	assert.Equal(t, models.ShareRoleEditor, response.Role)

	m.resolver.AssertExpectations(t)
	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_CreateProjectShare_NotOwner(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "editor@example.com"
	projectID := uuid.New()

	m.resolver.On("AuthorizeProject", mock.Anything, projectID, userID, permissions.ActionShare).
		Return(permissions.RoleEditor, permissions.ErrForbidden)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/shares", handler.CreateProjectShare)

	body := dto.CreateShareRequest{Email: "invitee@example.com", Role: models.ShareRoleViewer}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient permissions")

	m.resolver.AssertExpectations(t)
}

func TestShareHandler_CreateProjectShare_UnknownEmail(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	projectID := uuid.New()

	m.resolver.On("AuthorizeProject", mock.Anything, projectID, userID, permissions.ActionShare).
		Return(permissions.RoleOwner, nil)
	m.projectShares.On("Create", mock.Anything, projectID, userID, "ghost@example.com", models.ShareRoleViewer).
		Return(nil, services.ErrUserNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/shares", handler.CreateProjectShare)

	body := dto.CreateShareRequest{Email: "ghost@example.com", Role: models.ShareRoleViewer}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no account with this email")

	m.resolver.AssertExpectations(t)
	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_CreateProjectShare_InvalidRole(t *testing.T) {
	_, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	projectID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/shares", handler.CreateProjectShare)

	// "owner" is not a grantable role.
	body := dto.CreateShareRequest{Email: "invitee@example.com", Role: "owner"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareHandler_ListPendingInvites_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "invitee@example.com"
	shares := []models.ProjectShare{
		{
			ID:           uuid.New(),
			ProjectID:    uuid.New(),
			SharedWithID: userID,
			Role:         models.ShareRoleViewer,
			Status:       models.ShareStatusPending,
			Project:      &models.Project{Name: "Villa Dupont"},
		},
	}

	m.projectShares.On("ListPendingForUser", mock.Anything, userID).Return(shares, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/invites", handler.ListPendingInvites)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/invites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.ProjectShare
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Len(t, response, 1)
	assert.NotNil(t, response[0].Project)

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_AcceptInvite_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "invitee@example.com"
	shareID := uuid.New()
	accepted := &models.ProjectShare{
		ID:           shareID,
		SharedWithID: userID,
		Role:         models.ShareRoleEditor,
		Status:       models.ShareStatusAccepted,
	}

	m.projectShares.On("Accept", mock.Anything, shareID, userID).Return(accepted, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/invites/:id/accept", handler.AcceptInvite)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/invites/"+shareID.String()+"/accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.ProjectShare
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusAccepted, response.Status)

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_AcceptInvite_NotFound(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "invitee@example.com"
	shareID := uuid.New()

	m.projectShares.On("Accept", mock.Anything, shareID, userID).Return(nil, services.ErrShareNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/invites/:id/accept", handler.AcceptInvite)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/invites/"+shareID.String()+"/accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "invite not found")

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_DeclineInvite_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "invitee@example.com"
	shareID := uuid.New()

	m.projectShares.On("Decline", mock.Anything, shareID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/invites/:id/decline", handler.DeclineInvite)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/invites/"+shareID.String()+"/decline", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invite declined")

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_UpdateProjectShareRole_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	projectID := uuid.New()
	shareID := uuid.New()
	share := &models.ProjectShare{ID: shareID, ProjectID: projectID, Role: models.ShareRoleViewer}
	updated := &models.ProjectShare{ID: shareID, ProjectID: projectID, Role: models.ShareRoleEditor}

	m.projectShares.On("GetByID", mock.Anything, shareID).Return(share, nil)
	m.resolver.On("AuthorizeProject", mock.Anything, projectID, userID, permissions.ActionShare).
		Return(permissions.RoleOwner, nil)
	m.projectShares.On("UpdateRole", mock.Anything, shareID, models.ShareRoleEditor).Return(updated, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/projects/:id/shares/:shareId", handler.UpdateProjectShareRole)

	body := dto.UpdateShareRoleRequest{Role: models.ShareRoleEditor}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPatch,
		"/projects/"+projectID.String()+"/shares/"+shareID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.ProjectShare
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, models.ShareRoleEditor, response.Role)

	m.projectShares.AssertExpectations(t)
	m.resolver.AssertExpectations(t)
}

func TestShareHandler_DeleteProjectShare_NotOwner(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "editor@example.com"
	projectID := uuid.New()
	shareID := uuid.New()
	share := &models.ProjectShare{ID: shareID, ProjectID: projectID, Role: models.ShareRoleViewer}

	m.projectShares.On("GetByID", mock.Anything, shareID).Return(share, nil)
	m.resolver.On("AuthorizeProject", mock.Anything, projectID, userID, permissions.ActionShare).
		Return(permissions.RoleEditor, permissions.ErrForbidden)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/projects/:id/shares/:shareId", handler.DeleteProjectShare)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodDelete,
		"/projects/"+projectID.String()+"/shares/"+shareID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	m.projectShares.AssertExpectations(t)
	m.resolver.AssertExpectations(t)
}

func TestShareHandler_LeaveProject_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "member@example.com"
	projectID := uuid.New()

	m.projectShares.On("Leave", mock.Anything, projectID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/leave", handler.LeaveProject)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/leave", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "left project")

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_LeaveProject_NotMember(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "stranger@example.com"
	projectID := uuid.New()

	m.projectShares.On("Leave", mock.Anything, projectID, userID).Return(services.ErrShareNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/projects/:id/leave", handler.LeaveProject)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/leave", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a member")

	m.projectShares.AssertExpectations(t)
}

func TestShareHandler_CreateLibraryShare_Success(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	libraryID := uuid.New()
	share := &models.LibraryShare{
		ID:           uuid.New(),
		LibraryID:    libraryID,
		OwnerID:      userID,
		SharedWithID: uuid.New(),
		Role:         models.ShareRoleViewer,
	}

	m.resolver.On("AuthorizeLibrary", mock.Anything, libraryID, userID, permissions.ActionShare).
		Return(permissions.RoleOwner, nil)
	m.libraryShares.On("Create", mock.Anything, libraryID, userID, "invitee@example.com", models.ShareRoleViewer).
		Return(share, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/libraries/:id/shares", handler.CreateLibraryShare)

	body := dto.CreateShareRequest{Email: "invitee@example.com", Role: models.ShareRoleViewer}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/libraries/"+libraryID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response models.LibraryShare
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, models.ShareRoleViewer, response.Role)

	m.resolver.AssertExpectations(t)
	m.libraryShares.AssertExpectations(t)
}

func TestShareHandler_CreateLibraryShare_SelfShare(t *testing.T) {
	m, handler, jwtSvc := setupShareTest(t)

	userID := uuid.New()
	email := "owner@example.com"
	libraryID := uuid.New()

	m.resolver.On("AuthorizeLibrary", mock.Anything, libraryID, userID, permissions.ActionShare).
		Return(permissions.RoleOwner, nil)
	m.libraryShares.On("Create", mock.Anything, libraryID, userID, email, models.ShareRoleViewer).
		Return(nil, services.ErrCannotShareWithSelf)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/libraries/:id/shares", handler.CreateLibraryShare)

	body := dto.CreateShareRequest{Email: email, Role: models.ShareRoleViewer}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/libraries/"+libraryID.String()+"/shares", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "yourself")

	m.resolver.AssertExpectations(t)
	m.libraryShares.AssertExpectations(t)
}
