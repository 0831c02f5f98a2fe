package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
		Role:  models.UserRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, avatar_url, provider, provider_id, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.PasswordHash, user.AvatarURL,
		user.Provider, user.ProviderID, user.Role).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithRole sets the user's platform role
func WithRole(role string) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// WithPasswordHash sets the user's password hash
func WithPasswordHash(hash string) UserOption {
	return func(u *models.User) {
		u.PasswordHash = &hash
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = &provider
		u.ProviderID = &providerID
	}
}

// CreateFolder creates a test project folder owned by the given user
func (f *Fixtures) CreateFolder(t *testing.T, owner *models.User, opts ...FolderOption) *models.ProjectFolder {
	t.Helper()
	f.counter++

	folder := &models.ProjectFolder{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("Test Folder %d", f.counter),
	}

	for _, opt := range opts {
		opt(folder)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO project_folders (owner_id, parent_id, name, color, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, folder.OwnerID, folder.ParentID, folder.Name, folder.Color, folder.IsSystem).Scan(
		&folder.ID, &folder.CreatedAt, &folder.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}

	return folder
}

// FolderOption configures a test folder
type FolderOption func(*models.ProjectFolder)

// WithFolderName sets the folder's name
func WithFolderName(name string) FolderOption {
	return func(f *models.ProjectFolder) {
		f.Name = name
	}
}

// WithParent nests the folder under the given parent
func WithParent(parent *models.ProjectFolder) FolderOption {
	return func(f *models.ProjectFolder) {
		f.ParentID = &parent.ID
	}
}

// AsSystemFolder marks the folder as a system folder
func AsSystemFolder() FolderOption {
	return func(f *models.ProjectFolder) {
		f.IsSystem = true
	}
}

// CreateProject creates a test project owned by the given user
func (f *Fixtures) CreateProject(t *testing.T, owner *models.User, opts ...ProjectOption) *models.Project {
	t.Helper()
	f.counter++

	project := &models.Project{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("Test Project %d", f.counter),
		Status:  models.ProjectStatusDraft,
	}

	for _, opt := range opts {
		opt(project)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (owner_id, folder_id, name, client, typology, internal_ref, address, delivery_date, status, total_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, project.OwnerID, project.FolderID, project.Name, project.Client,
		project.Typology, project.InternalRef, project.Address,
		project.DeliveryDate, project.Status, project.TotalArea).Scan(
		&project.ID, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

// ProjectOption configures a test project
type ProjectOption func(*models.Project)

// WithProjectName sets the project's name
func WithProjectName(name string) ProjectOption {
	return func(p *models.Project) {
		p.Name = name
	}
}

// WithStatus sets the project's status
func WithStatus(status string) ProjectOption {
	return func(p *models.Project) {
		p.Status = status
	}
}

// InFolder places the project in the given folder
func InFolder(folder *models.ProjectFolder) ProjectOption {
	return func(p *models.Project) {
		p.FolderID = &folder.ID
	}
}

// CreateLibrary creates a test library owned by the given user
func (f *Fixtures) CreateLibrary(t *testing.T, owner *models.User, opts ...LibraryOption) *models.Library {
	t.Helper()
	f.counter++

	library := &models.Library{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("Test Library %d", f.counter),
	}

	for _, opt := range opts {
		opt(library)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO libraries (owner_id, name, description, is_global)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, library.OwnerID, library.Name, library.Description, library.IsGlobal).Scan(
		&library.ID, &library.CreatedAt, &library.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	return library
}

// LibraryOption configures a test library
type LibraryOption func(*models.Library)

// WithLibraryName sets the library's name
func WithLibraryName(name string) LibraryOption {
	return func(l *models.Library) {
		l.Name = name
	}
}

// AsGlobal marks the library as globally readable
func AsGlobal() LibraryOption {
	return func(l *models.Library) {
		l.IsGlobal = true
	}
}

// CreateArticle creates a test article in the given library
func (f *Fixtures) CreateArticle(t *testing.T, library *models.Library, opts ...ArticleOption) *models.Article {
	t.Helper()
	f.counter++

	article := &models.Article{
		LibraryID:   library.ID,
		Designation: fmt.Sprintf("Test Article %d", f.counter),
		Lot:         "Lot 1",
		Unit:        "m2",
		UnitPrice:   10.0,
	}

	for _, opt := range opts {
		opt(article)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO articles (library_id, designation, lot, sub_category, unit, unit_price, status, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, article.LibraryID, article.Designation, article.Lot, article.SubCategory,
		article.Unit, article.UnitPrice, article.Status, article.IsFavorite).Scan(
		&article.ID, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create article: %v", err)
	}

	return article
}

// ArticleOption configures a test article
type ArticleOption func(*models.Article)

// WithDesignation sets the article's designation
func WithDesignation(designation string) ArticleOption {
	return func(a *models.Article) {
		a.Designation = designation
	}
}

// WithUnitPrice sets the article's unit price
func WithUnitPrice(price float64) ArticleOption {
	return func(a *models.Article) {
		a.UnitPrice = price
	}
}

// CreateProjectShare creates a project share row with the given role and status
func (f *Fixtures) CreateProjectShare(t *testing.T, project *models.Project, sharedWith *models.User, role, status string) *models.ProjectShare {
	t.Helper()

	share := &models.ProjectShare{
		ProjectID:    project.ID,
		OwnerID:      project.OwnerID,
		SharedWithID: sharedWith.ID,
		Role:         role,
		Status:       status,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO project_shares (project_id, owner_id, shared_with_id, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, share.ProjectID, share.OwnerID, share.SharedWithID, share.Role, share.Status).Scan(
		&share.ID, &share.CreatedAt, &share.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project share: %v", err)
	}

	return share
}

// CreateLibraryShare creates a library share row with the given role
func (f *Fixtures) CreateLibraryShare(t *testing.T, library *models.Library, sharedWith *models.User, role string) *models.LibraryShare {
	t.Helper()

	share := &models.LibraryShare{
		LibraryID:    library.ID,
		OwnerID:      library.OwnerID,
		SharedWithID: sharedWith.ID,
		Role:         role,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO library_shares (library_id, owner_id, shared_with_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, share.LibraryID, share.OwnerID, share.SharedWithID, share.Role).Scan(
		&share.ID, &share.CreatedAt, &share.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create library share: %v", err)
	}

	return share
}

// LinkLibraryToProject attaches a library to a project
func (f *Fixtures) LinkLibraryToProject(t *testing.T, project *models.Project, library *models.Library) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO project_libraries (project_id, library_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, library_id) DO NOTHING
	`, project.ID, library.ID)
	if err != nil {
		t.Fatalf("failed to link library to project: %v", err)
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
