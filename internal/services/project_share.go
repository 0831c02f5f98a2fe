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
	ErrShareNotFound       = errors.New("share not found")
	ErrCannotShareWithSelf = errors.New("cannot share a resource with its owner")
	ErrInvalidShareRole    = errors.New("invalid share role")
)

const projectShareColumns = `id, project_id, owner_id, shared_with_id, role, status, created_at, updated_at`

type ProjectShareService struct {
	db    *database.DB
	users *UserService
}

func NewProjectShareService(db *database.DB, users *UserService) *ProjectShareService {
	return &ProjectShareService{db: db, users: users}
}

func scanProjectShare(row pgx.Row) (*models.ProjectShare, error) {
	var share models.ProjectShare
	err := row.Scan(
		&share.ID, &share.ProjectID, &share.OwnerID, &share.SharedWithID,
		&share.Role, &share.Status, &share.CreatedAt, &share.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// Create invites a user, addressed by email, to a project. Inviting the
// same user twice updates the pending invite's role instead of failing.
func (s *ProjectShareService) Create(ctx context.Context, projectID, ownerID uuid.UUID, inviteeEmail, role string) (*models.ProjectShare, error) {
	if !models.IsValidShareRole(role) {
		return nil, ErrInvalidShareRole
	}

	invitee, err := s.users.GetByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee.ID == ownerID {
		return nil, ErrCannotShareWithSelf
	}

	share, err := scanProjectShare(s.db.Pool.QueryRow(ctx, `
		INSERT INTO project_shares (project_id, owner_id, shared_with_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, shared_with_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		RETURNING `+projectShareColumns+`
	`, projectID, ownerID, invitee.ID, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create project share: %w", err)
	}
	share.SharedWith = invitee
	return share, nil
}

func (s *ProjectShareService) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectShare, error) {
	share, err := scanProjectShare(s.db.Pool.QueryRow(ctx, `
		SELECT `+projectShareColumns+` FROM project_shares WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	return share, nil
}

func (s *ProjectShareService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectShare, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT ps.id, ps.project_id, ps.owner_id, ps.shared_with_id, ps.role, ps.status,
			ps.created_at, ps.updated_at, u.email, u.name, u.avatar_url
		FROM project_shares ps
		JOIN users u ON u.id = ps.shared_with_id
		WHERE ps.project_id = $1
		ORDER BY ps.created_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.ProjectShare
	for rows.Next() {
		var share models.ProjectShare
		var sharedWith models.User
		if err := rows.Scan(
			&share.ID, &share.ProjectID, &share.OwnerID, &share.SharedWithID,
			&share.Role, &share.Status, &share.CreatedAt, &share.UpdatedAt,
			&sharedWith.Email, &sharedWith.Name, &sharedWith.AvatarURL,
		); err != nil {
			return nil, err
		}
		sharedWith.ID = share.SharedWithID
		share.SharedWith = &sharedWith
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// ListPendingForUser returns the user's open invitations with the project
// and inviter attached, so the client can render them without extra calls.
func (s *ProjectShareService) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]models.ProjectShare, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT ps.id, ps.project_id, ps.owner_id, ps.shared_with_id, ps.role, ps.status,
			ps.created_at, ps.updated_at, p.name, p.status, o.email, o.name
		FROM project_shares ps
		JOIN projects p ON p.id = ps.project_id
		JOIN users o ON o.id = ps.owner_id
		WHERE ps.shared_with_id = $1 AND ps.status = $2
		ORDER BY ps.created_at DESC
	`, userID, models.ShareStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.ProjectShare
	for rows.Next() {
		var share models.ProjectShare
		var project models.Project
		var owner models.User
		if err := rows.Scan(
			&share.ID, &share.ProjectID, &share.OwnerID, &share.SharedWithID,
			&share.Role, &share.Status, &share.CreatedAt, &share.UpdatedAt,
			&project.Name, &project.Status, &owner.Email, &owner.Name,
		); err != nil {
			return nil, err
		}
		project.ID = share.ProjectID
		project.OwnerID = share.OwnerID
		owner.ID = share.OwnerID
		share.Project = &project
		share.Owner = &owner
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// Accept flips a pending invite addressed to the user to accepted.
func (s *ProjectShareService) Accept(ctx context.Context, shareID, userID uuid.UUID) (*models.ProjectShare, error) {
	share, err := scanProjectShare(s.db.Pool.QueryRow(ctx, `
		UPDATE project_shares
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND shared_with_id = $3 AND status = $4
		RETURNING `+projectShareColumns+`
	`, models.ShareStatusAccepted, shareID, userID, models.ShareStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept share: %w", err)
	}
	return share, nil
}

// Decline removes a pending invite addressed to the user.
func (s *ProjectShareService) Decline(ctx context.Context, shareID, userID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM project_shares
		WHERE id = $1 AND shared_with_id = $2 AND status = $3
	`, shareID, userID, models.ShareStatusPending)
	if err != nil {
		return fmt.Errorf("failed to decline share: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

func (s *ProjectShareService) UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.ProjectShare, error) {
	if !models.IsValidShareRole(role) {
		return nil, ErrInvalidShareRole
	}

	share, err := scanProjectShare(s.db.Pool.QueryRow(ctx, `
		UPDATE project_shares SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+projectShareColumns+`
	`, role, shareID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update share role: %w", err)
	}
	return share, nil
}

func (s *ProjectShareService) Delete(ctx context.Context, shareID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM project_shares WHERE id = $1`, shareID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

// Leave lets a member remove their own access to a shared project.
func (s *ProjectShareService) Leave(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM project_shares WHERE project_id = $1 AND shared_with_id = $2
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to leave project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}
