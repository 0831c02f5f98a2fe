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
	ErrFolderNotFound  = errors.New("folder not found")
	ErrSystemFolder    = errors.New("system folders cannot be modified")
	ErrFolderNameTaken = errors.New("a folder with this name already exists here")
	ErrFolderCycle     = errors.New("folder cannot be moved inside its own subtree")
)

const folderColumns = `id, owner_id, parent_id, name, color, is_system, created_at, updated_at`

type FolderService struct {
	db *database.DB
}

func NewFolderService(db *database.DB) *FolderService {
	return &FolderService{db: db}
}

func scanFolder(row pgx.Row) (*models.ProjectFolder, error) {
	var folder models.ProjectFolder
	err := row.Scan(
		&folder.ID, &folder.OwnerID, &folder.ParentID, &folder.Name,
		&folder.Color, &folder.IsSystem, &folder.CreatedAt, &folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// EnsureSystemFolders creates the three per-user system folders if they do
// not exist yet. Safe to call on every login.
func (s *FolderService) EnsureSystemFolders(ctx context.Context, ownerID uuid.UUID) error {
	for _, name := range []string{models.FolderMyProjects, models.FolderArchived, models.FolderSharedProjects} {
		_, err := s.db.Pool.Exec(ctx, `
			INSERT INTO project_folders (owner_id, name, is_system)
			SELECT $1, $2, TRUE
			WHERE NOT EXISTS (
				SELECT 1 FROM project_folders
				WHERE owner_id = $1 AND name = $2 AND is_system = TRUE
			)
		`, ownerID, name)
		if err != nil {
			return fmt.Errorf("failed to ensure system folder %q: %w", name, err)
		}
	}
	return nil
}

// SystemFolderID returns the id of one of the caller's system folders by name.
func (s *FolderService) SystemFolderID(ctx context.Context, ownerID uuid.UUID, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id FROM project_folders
		WHERE owner_id = $1 AND name = $2 AND is_system = TRUE
	`, ownerID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrFolderNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *FolderService) Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID, color *string) (*models.ProjectFolder, error) {
	if parentID != nil {
		if _, err := s.getOwned(ctx, *parentID, ownerID); err != nil {
			return nil, err
		}
	}

	taken, err := s.nameTaken(ctx, ownerID, parentID, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrFolderNameTaken
	}

	folder, err := scanFolder(s.db.Pool.QueryRow(ctx, `
		INSERT INTO project_folders (owner_id, parent_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING `+folderColumns+`
	`, ownerID, parentID, name, color))
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

func (s *FolderService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.ProjectFolder, error) {
	return s.getOwned(ctx, id, ownerID)
}

// List returns all folders owned by the user, system folders first.
func (s *FolderService) List(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectFolder, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+folderColumns+`
		FROM project_folders
		WHERE owner_id = $1
		ORDER BY is_system DESC, name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []models.ProjectFolder
	for rows.Next() {
		var folder models.ProjectFolder
		if err := rows.Scan(
			&folder.ID, &folder.OwnerID, &folder.ParentID, &folder.Name,
			&folder.Color, &folder.IsSystem, &folder.CreatedAt, &folder.UpdatedAt,
		); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

type FolderUpdate struct {
	Name     *string
	Color    *string
	ParentID *uuid.UUID
	// SetParent distinguishes "move to root" from "leave parent alone".
	SetParent bool
}

func (s *FolderService) Update(ctx context.Context, id, ownerID uuid.UUID, update FolderUpdate) (*models.ProjectFolder, error) {
	folder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if folder.IsSystem {
		return nil, ErrSystemFolder
	}

	name := folder.Name
	if update.Name != nil {
		name = *update.Name
	}
	color := folder.Color
	if update.Color != nil {
		color = update.Color
	}
	parentID := folder.ParentID
	if update.SetParent {
		parentID = update.ParentID
	}

	if parentID != nil {
		if *parentID == id {
			return nil, ErrFolderCycle
		}
		if _, err := s.getOwned(ctx, *parentID, ownerID); err != nil {
			return nil, err
		}
		onChain, err := s.onAncestorChain(ctx, *parentID, id)
		if err != nil {
			return nil, err
		}
		if onChain {
			return nil, ErrFolderCycle
		}
	}

	taken, err := s.nameTaken(ctx, ownerID, parentID, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrFolderNameTaken
	}

	folder, err = scanFolder(s.db.Pool.QueryRow(ctx, `
		UPDATE project_folders
		SET name = $1, color = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
		RETURNING `+folderColumns+`
	`, name, color, parentID, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}
	return folder, nil
}

// Delete removes a folder and its entire subtree. Projects filed anywhere
// in the subtree are moved back to the owner's "My projects" folder, not
// deleted.
func (s *FolderService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	folder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if folder.IsSystem {
		return ErrSystemFolder
	}

	defaultFolderID, err := s.SystemFolderID(ctx, ownerID, models.FolderMyProjects)
	if err != nil {
		return fmt.Errorf("failed to find default folder: %w", err)
	}

	_, err = s.db.Pool.Exec(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id FROM project_folders WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT f.id FROM project_folders f
			JOIN subtree st ON f.parent_id = st.id
		)
		UPDATE projects SET folder_id = $3, updated_at = NOW()
		WHERE folder_id IN (SELECT id FROM subtree)
	`, id, ownerID, defaultFolderID)
	if err != nil {
		return fmt.Errorf("failed to reassign projects: %w", err)
	}

	// Children cascade through the parent_id foreign key.
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM project_folders WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// onAncestorChain reports whether target appears among folderID's
// ancestors. Reparenting a folder under one of its own descendants would
// close a cycle and break subtree traversal, so Update checks this before
// committing a move.
func (s *FolderService) onAncestorChain(ctx context.Context, folderID, target uuid.UUID) (bool, error) {
	var found bool
	err := s.db.Pool.QueryRow(ctx, `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id FROM project_folders WHERE id = $1
			UNION ALL
			SELECT f.id, f.parent_id FROM project_folders f
			JOIN ancestors a ON f.id = a.parent_id
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
	`, folderID, target).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check folder ancestry: %w", err)
	}
	return found, nil
}

func (s *FolderService) getOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.ProjectFolder, error) {
	folder, err := scanFolder(s.db.Pool.QueryRow(ctx, `
		SELECT `+folderColumns+`
		FROM project_folders
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) nameTaken(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_folders
			WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2
				AND name = $3 AND id != $4
		)
	`, ownerID, parentID, name, exclude).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
