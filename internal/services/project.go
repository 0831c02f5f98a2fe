package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidStatus   = errors.New("invalid project status")
)

const projectColumns = `id, owner_id, folder_id, name, client, typology, internal_ref, address, delivery_date, status, total_area, created_at, updated_at`

type ProjectService struct {
	db      *database.DB
	folders *FolderService
}

func NewProjectService(db *database.DB, folders *FolderService) *ProjectService {
	return &ProjectService{db: db, folders: folders}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.FolderID, &p.Name, &p.Client, &p.Typology,
		&p.InternalRef, &p.Address, &p.DeliveryDate, &p.Status, &p.TotalArea,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type ProjectInput struct {
	Name         string
	Client       *string
	Typology     *string
	InternalRef  *string
	Address      *string
	DeliveryDate *time.Time
	Status       string
	TotalArea    *float64
	FolderID     *uuid.UUID
}

func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, input ProjectInput) (*models.Project, error) {
	status := input.Status
	if status == "" {
		status = models.ProjectStatusDraft
	}
	if !models.IsValidProjectStatus(status) {
		return nil, ErrInvalidStatus
	}

	folderID := input.FolderID
	if folderID != nil {
		if _, err := s.folders.GetByID(ctx, *folderID, ownerID); err != nil {
			return nil, err
		}
	} else {
		// Archived projects land in the Archived system folder, everything
		// else in My projects.
		name := models.FolderMyProjects
		if status == models.ProjectStatusArchived {
			name = models.FolderArchived
		}
		id, err := s.folders.SystemFolderID(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		folderID = &id
	}

	project, err := scanProject(s.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (owner_id, folder_id, name, client, typology, internal_ref, address, delivery_date, status, total_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns+`
	`, ownerID, folderID, input.Name, input.Client, input.Typology,
		input.InternalRef, input.Address, input.DeliveryDate, status, input.TotalArea))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := scanProject(s.db.Pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the projects the user owns plus those shared with them and
// accepted. Shared projects report the caller's "Shared projects" system
// folder instead of the owner's private folder.
func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	sharedFolderID, err := s.folders.SystemFolderID(ctx, userID, models.FolderSharedProjects)
	if err != nil && !errors.Is(err, ErrFolderNotFound) {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+projectColumns+`, (owner_id = $1) AS owned
		FROM projects p
		WHERE p.owner_id = $1
			OR EXISTS (
				SELECT 1 FROM project_shares ps
				WHERE ps.project_id = p.id AND ps.shared_with_id = $1 AND ps.status = $2
			)
		ORDER BY p.created_at DESC
	`, userID, models.ShareStatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var owned bool
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.FolderID, &p.Name, &p.Client, &p.Typology,
			&p.InternalRef, &p.Address, &p.DeliveryDate, &p.Status, &p.TotalArea,
			&p.CreatedAt, &p.UpdatedAt, &owned,
		); err != nil {
			return nil, err
		}
		if !owned {
			if sharedFolderID != uuid.Nil {
				id := sharedFolderID
				p.FolderID = &id
			} else {
				p.FolderID = nil
			}
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

type ProjectUpdate struct {
	Name         *string
	Client       *string
	Typology     *string
	InternalRef  *string
	Address      *string
	DeliveryDate *time.Time
	Status       *string
	TotalArea    *float64
	FolderID     *uuid.UUID
	// SetFolder distinguishes "move to this folder" (including nil) from
	// "leave the folder alone".
	SetFolder bool
}

// Update applies a partial update. Folder moves only make sense for the
// owner, so the target folder is validated against the project's owner.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, update ProjectUpdate) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Client != nil {
		project.Client = update.Client
	}
	if update.Typology != nil {
		project.Typology = update.Typology
	}
	if update.InternalRef != nil {
		project.InternalRef = update.InternalRef
	}
	if update.Address != nil {
		project.Address = update.Address
	}
	if update.DeliveryDate != nil {
		project.DeliveryDate = update.DeliveryDate
	}
	if update.TotalArea != nil {
		project.TotalArea = update.TotalArea
	}
	if update.Status != nil {
		if !models.IsValidProjectStatus(*update.Status) {
			return nil, ErrInvalidStatus
		}
		project.Status = *update.Status
	}
	if update.SetFolder {
		if update.FolderID != nil {
			if _, err := s.folders.GetByID(ctx, *update.FolderID, project.OwnerID); err != nil {
				return nil, err
			}
		}
		project.FolderID = update.FolderID
	}

	project, err = scanProject(s.db.Pool.QueryRow(ctx, `
		UPDATE projects
		SET folder_id = $1, name = $2, client = $3, typology = $4, internal_ref = $5,
			address = $6, delivery_date = $7, status = $8, total_area = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+projectColumns+`
	`, project.FolderID, project.Name, project.Client, project.Typology,
		project.InternalRef, project.Address, project.DeliveryDate,
		project.Status, project.TotalArea, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes the project. Shares, library links and document rows go
// with it through their foreign keys; stored files are the caller's job.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
