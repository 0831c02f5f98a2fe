package testutil

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/oauth"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFolderService mocks the FolderService
type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) EnsureSystemFolders(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockFolderService) Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID, color *string) (*models.ProjectFolder, error) {
	args := m.Called(ctx, ownerID, name, parentID, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectFolder), args.Error(1)
}

func (m *MockFolderService) List(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectFolder, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectFolder), args.Error(1)
}

func (m *MockFolderService) Update(ctx context.Context, id, ownerID uuid.UUID, update services.FolderUpdate) (*models.ProjectFolder, error) {
	args := m.Called(ctx, id, ownerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectFolder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID uuid.UUID, input services.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id uuid.UUID, update services.ProjectUpdate) (*models.Project, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLibraryService mocks the LibraryService
type MockLibraryService struct {
	mock.Mock
}

func (m *MockLibraryService) Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, isGlobal bool) (*models.Library, error) {
	args := m.Called(ctx, ownerID, name, description, isGlobal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Library), args.Error(1)
}

func (m *MockLibraryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Library, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Library), args.Error(1)
}

func (m *MockLibraryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Library, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Library), args.Error(1)
}

func (m *MockLibraryService) Update(ctx context.Context, id uuid.UUID, update services.LibraryUpdate) (*models.Library, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Library), args.Error(1)
}

func (m *MockLibraryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLibraryService) AssignToProject(ctx context.Context, projectID, libraryID uuid.UUID) (*models.ProjectLibrary, error) {
	args := m.Called(ctx, projectID, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectLibrary), args.Error(1)
}

func (m *MockLibraryService) UnassignFromProject(ctx context.Context, projectID, libraryID uuid.UUID) error {
	args := m.Called(ctx, projectID, libraryID)
	return args.Error(0)
}

func (m *MockLibraryService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Library, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Library), args.Error(1)
}

// MockArticleService mocks the ArticleService
type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) Create(ctx context.Context, libraryID uuid.UUID, input services.ArticleInput) (*models.Article, error) {
	args := m.Called(ctx, libraryID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleService) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleService) ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.Article, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticleService) Update(ctx context.Context, id uuid.UUID, update services.ArticleUpdate) (*models.Article, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleService) ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (*models.Article, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleService) MoveBatch(ctx context.Context, articleIDs []uuid.UUID, destLibraryID, userID uuid.UUID) (*services.MoveResult, error) {
	args := m.Called(ctx, articleIDs, destLibraryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MoveResult), args.Error(1)
}

// MockProjectShareService mocks the ProjectShareService
type MockProjectShareService struct {
	mock.Mock
}

func (m *MockProjectShareService) Create(ctx context.Context, projectID, ownerID uuid.UUID, inviteeEmail, role string) (*models.ProjectShare, error) {
	args := m.Called(ctx, projectID, ownerID, inviteeEmail, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectShare, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectShare, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]models.ProjectShare, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) Accept(ctx context.Context, shareID, userID uuid.UUID) (*models.ProjectShare, error) {
	args := m.Called(ctx, shareID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) Decline(ctx context.Context, shareID, userID uuid.UUID) error {
	args := m.Called(ctx, shareID, userID)
	return args.Error(0)
}

func (m *MockProjectShareService) UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.ProjectShare, error) {
	args := m.Called(ctx, shareID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectShare), args.Error(1)
}

func (m *MockProjectShareService) Delete(ctx context.Context, shareID uuid.UUID) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

func (m *MockProjectShareService) Leave(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

// MockLibraryShareService mocks the LibraryShareService
type MockLibraryShareService struct {
	mock.Mock
}

func (m *MockLibraryShareService) Create(ctx context.Context, libraryID, ownerID uuid.UUID, inviteeEmail, role string) (*models.LibraryShare, error) {
	args := m.Called(ctx, libraryID, ownerID, inviteeEmail, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LibraryShare), args.Error(1)
}

func (m *MockLibraryShareService) GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryShare, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LibraryShare), args.Error(1)
}

func (m *MockLibraryShareService) ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.LibraryShare, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LibraryShare), args.Error(1)
}

func (m *MockLibraryShareService) UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.LibraryShare, error) {
	args := m.Called(ctx, shareID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LibraryShare), args.Error(1)
}

func (m *MockLibraryShareService) Delete(ctx context.Context, shareID uuid.UUID) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

// MockDocumentService mocks the DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, projectID, uploadedBy uuid.UUID, docType, filename string, r io.Reader) (*models.Document, error) {
	args := m.Called(ctx, projectID, uploadedBy, docType, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) ListForProject(ctx context.Context, projectID uuid.UUID, docType string) ([]models.Document, error) {
	args := m.Called(ctx, projectID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentService) OpenContent(doc *models.Document) (io.ReadCloser, error) {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) CleanupProjectFiles(projectID uuid.UUID) error {
	args := m.Called(projectID)
	return args.Error(0)
}

// MockImportService mocks the ImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportArticles(ctx context.Context, libraryID uuid.UUID, r io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, libraryID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockImportService) ImportProjects(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, ownerID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockImportService) ExportArticles(ctx context.Context, libraryID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, libraryID, w)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendProjectShareInvite(to, projectName, inviterName, role string) error {
	args := m.Called(to, projectName, inviterName, role)
	return args.Error(0)
}

// MockResolver mocks the permission resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ProjectRole(ctx context.Context, projectID, userID uuid.UUID) (permissions.Role, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockResolver) LibraryRole(ctx context.Context, libraryID, userID uuid.UUID) (permissions.Role, error) {
	args := m.Called(ctx, libraryID, userID)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockResolver) ArticleRole(ctx context.Context, articleID, userID uuid.UUID) (permissions.Role, error) {
	args := m.Called(ctx, articleID, userID)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockResolver) AuthorizeProject(ctx context.Context, projectID, userID uuid.UUID, action permissions.Action) (permissions.Role, error) {
	args := m.Called(ctx, projectID, userID, action)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockResolver) AuthorizeLibrary(ctx context.Context, libraryID, userID uuid.UUID, action permissions.Action) (permissions.Role, error) {
	args := m.Called(ctx, libraryID, userID, action)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockResolver) AuthorizeArticle(ctx context.Context, articleID, userID uuid.UUID, action permissions.Action) (permissions.Role, error) {
	args := m.Called(ctx, articleID, userID, action)
	return args.Get(0).(permissions.Role), args.Error(1)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
