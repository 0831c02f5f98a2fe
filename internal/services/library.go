package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
)

var (
	ErrLibraryNotFound      = errors.New("library not found")
	ErrLibraryAlreadyLinked = errors.New("library already assigned to this project")
)

const libraryColumns = `id, owner_id, name, description, is_global, created_at, updated_at`

type LibraryService struct {
	db *database.DB
}

func NewLibraryService(db *database.DB) *LibraryService {
	return &LibraryService{db: db}
}

func scanLibrary(row pgx.Row) (*models.Library, error) {
	var lib models.Library
	err := row.Scan(
		&lib.ID, &lib.OwnerID, &lib.Name, &lib.Description, &lib.IsGlobal,
		&lib.CreatedAt, &lib.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

func (s *LibraryService) Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, isGlobal bool) (*models.Library, error) {
	lib, err := scanLibrary(s.db.Pool.QueryRow(ctx, `
		INSERT INTO libraries (owner_id, name, description, is_global)
		VALUES ($1, $2, $3, $4)
		RETURNING `+libraryColumns+`
	`, ownerID, name, description, isGlobal))
	if err != nil {
		return nil, fmt.Errorf("failed to create library: %w", err)
	}
	return lib, nil
}

func (s *LibraryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Library, error) {
	lib, err := scanLibrary(s.db.Pool.QueryRow(ctx, `
		SELECT `+libraryColumns+` FROM libraries WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// ListForUser returns every library visible to the user: owned, shared
// directly, marked global, or linked to a project the user can access.
func (s *LibraryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Library, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT DISTINCT l.id, l.owner_id, l.name, l.description, l.is_global, l.created_at, l.updated_at
		FROM libraries l
		LEFT JOIN library_shares ls ON ls.library_id = l.id AND ls.shared_with_id = $1
		LEFT JOIN project_libraries pl ON pl.library_id = l.id
		LEFT JOIN projects p ON p.id = pl.project_id
		LEFT JOIN project_shares ps ON ps.project_id = p.id
			AND ps.shared_with_id = $1 AND ps.status = $2
		WHERE l.owner_id = $1
			OR l.is_global = TRUE
			OR ls.id IS NOT NULL
			OR p.owner_id = $1
			OR ps.id IS NOT NULL
		ORDER BY l.name
	`, userID, models.ShareStatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libraries []models.Library
	for rows.Next() {
		var lib models.Library
		if err := rows.Scan(
			&lib.ID, &lib.OwnerID, &lib.Name, &lib.Description, &lib.IsGlobal,
			&lib.CreatedAt, &lib.UpdatedAt,
		); err != nil {
			return nil, err
		}
		libraries = append(libraries, lib)
	}
	return libraries, rows.Err()
}

type LibraryUpdate struct {
	Name        *string
	Description *string
	IsGlobal    *bool
}

func (s *LibraryService) Update(ctx context.Context, id uuid.UUID, update LibraryUpdate) (*models.Library, error) {
	lib, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		lib.Name = *update.Name
	}
	if update.Description != nil {
		lib.Description = update.Description
	}
	if update.IsGlobal != nil {
		lib.IsGlobal = *update.IsGlobal
	}

	lib, err = scanLibrary(s.db.Pool.QueryRow(ctx, `
		UPDATE libraries
		SET name = $1, description = $2, is_global = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+libraryColumns+`
	`, lib.Name, lib.Description, lib.IsGlobal, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLibraryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update library: %w", err)
	}
	return lib, nil
}

// Delete removes the library and its articles. Articles are removed
// explicitly so favorites and prices never outlive their library even when
// the cascade constraint is missing on an old database.
func (s *LibraryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM articles WHERE library_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete library articles: %w", err)
	}
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM libraries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete library: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLibraryNotFound
	}
	return nil
}

func (s *LibraryService) AssignToProject(ctx context.Context, projectID, libraryID uuid.UUID) (*models.ProjectLibrary, error) {
	var link models.ProjectLibrary
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO project_libraries (project_id, library_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, library_id) DO NOTHING
		RETURNING id, project_id, library_id, created_at
	`, projectID, libraryID).Scan(&link.ID, &link.ProjectID, &link.LibraryID, &link.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLibraryAlreadyLinked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to assign library: %w", err)
	}
	return &link, nil
}

func (s *LibraryService) UnassignFromProject(ctx context.Context, projectID, libraryID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM project_libraries WHERE project_id = $1 AND library_id = $2
	`, projectID, libraryID)
	if err != nil {
		return fmt.Errorf("failed to unassign library: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLibraryNotFound
	}
	return nil
}

func (s *LibraryService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Library, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT l.id, l.owner_id, l.name, l.description, l.is_global, l.created_at, l.updated_at
		FROM project_libraries pl
		JOIN libraries l ON l.id = pl.library_id
		WHERE pl.project_id = $1
		ORDER BY l.name
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libraries []models.Library
	for rows.Next() {
		var lib models.Library
		if err := rows.Scan(
			&lib.ID, &lib.OwnerID, &lib.Name, &lib.Description, &lib.IsGlobal,
			&lib.CreatedAt, &lib.UpdatedAt,
		); err != nil {
			return nil, err
		}
		libraries = append(libraries, lib)
	}
	return libraries, rows.Err()
}
