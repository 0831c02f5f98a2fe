package handlers

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/oauth"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FolderServiceInterface defines the methods used by handlers from FolderService
type FolderServiceInterface interface {
	EnsureSystemFolders(ctx context.Context, ownerID uuid.UUID) error
	Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID, color *string) (*models.ProjectFolder, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectFolder, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, update services.FolderUpdate) (*models.ProjectFolder, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, input services.ProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	Update(ctx context.Context, id uuid.UUID, update services.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LibraryServiceInterface defines the methods used by handlers from LibraryService
type LibraryServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, isGlobal bool) (*models.Library, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Library, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Library, error)
	Update(ctx context.Context, id uuid.UUID, update services.LibraryUpdate) (*models.Library, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignToProject(ctx context.Context, projectID, libraryID uuid.UUID) (*models.ProjectLibrary, error)
	UnassignFromProject(ctx context.Context, projectID, libraryID uuid.UUID) error
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Library, error)
}

// ArticleServiceInterface defines the methods used by handlers from ArticleService
type ArticleServiceInterface interface {
	Create(ctx context.Context, libraryID uuid.UUID, input services.ArticleInput) (*models.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.Article, error)
	Update(ctx context.Context, id uuid.UUID, update services.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (*models.Article, error)
	MoveBatch(ctx context.Context, articleIDs []uuid.UUID, destLibraryID, userID uuid.UUID) (*services.MoveResult, error)
}

// ProjectShareServiceInterface defines the methods used by handlers from ProjectShareService
type ProjectShareServiceInterface interface {
	Create(ctx context.Context, projectID, ownerID uuid.UUID, inviteeEmail, role string) (*models.ProjectShare, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectShare, error)
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectShare, error)
	ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]models.ProjectShare, error)
	Accept(ctx context.Context, shareID, userID uuid.UUID) (*models.ProjectShare, error)
	Decline(ctx context.Context, shareID, userID uuid.UUID) error
	UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.ProjectShare, error)
	Delete(ctx context.Context, shareID uuid.UUID) error
	Leave(ctx context.Context, projectID, userID uuid.UUID) error
}

// LibraryShareServiceInterface defines the methods used by handlers from LibraryShareService
type LibraryShareServiceInterface interface {
	Create(ctx context.Context, libraryID, ownerID uuid.UUID, inviteeEmail, role string) (*models.LibraryShare, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryShare, error)
	ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.LibraryShare, error)
	UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.LibraryShare, error)
	Delete(ctx context.Context, shareID uuid.UUID) error
}

// DocumentServiceInterface defines the methods used by handlers from DocumentService
type DocumentServiceInterface interface {
	Upload(ctx context.Context, projectID, uploadedBy uuid.UUID, docType, filename string, r io.Reader) (*models.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListForProject(ctx context.Context, projectID uuid.UUID, docType string) ([]models.Document, error)
	OpenContent(doc *models.Document) (io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CleanupProjectFiles(projectID uuid.UUID) error
}

// ImportServiceInterface defines the methods used by handlers from ImportService
type ImportServiceInterface interface {
	ImportArticles(ctx context.Context, libraryID uuid.UUID, r io.Reader) (*services.ImportResult, error)
	ImportProjects(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*services.ImportResult, error)
	ExportArticles(ctx context.Context, libraryID uuid.UUID, w io.Writer) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendProjectShareInvite(to, projectName, inviterName, role string) error
}

// ResolverInterface defines the methods used by handlers from the permission resolver
type ResolverInterface interface {
	ProjectRole(ctx context.Context, projectID, userID uuid.UUID) (permissions.Role, error)
	LibraryRole(ctx context.Context, libraryID, userID uuid.UUID) (permissions.Role, error)
	ArticleRole(ctx context.Context, articleID, userID uuid.UUID) (permissions.Role, error)
	AuthorizeProject(ctx context.Context, projectID, userID uuid.UUID, action permissions.Action) (permissions.Role, error)
	AuthorizeLibrary(ctx context.Context, libraryID, userID uuid.UUID, action permissions.Action) (permissions.Role, error)
	AuthorizeArticle(ctx context.Context, articleID, userID uuid.UUID, action permissions.Action) (permissions.Role, error)
}
