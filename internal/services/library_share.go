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

const libraryShareColumns = `id, library_id, owner_id, shared_with_id, role, created_at, updated_at`

type LibraryShareService struct {
	db    *database.DB
	users *UserService
}

func NewLibraryShareService(db *database.DB, users *UserService) *LibraryShareService {
	return &LibraryShareService{db: db, users: users}
}

func scanLibraryShare(row pgx.Row) (*models.LibraryShare, error) {
	var share models.LibraryShare
	err := row.Scan(
		&share.ID, &share.LibraryID, &share.OwnerID, &share.SharedWithID,
		&share.Role, &share.CreatedAt, &share.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// Create grants a user, addressed by email, access to a library. Library
// shares take effect immediately; there is no invitation step. Sharing
// twice updates the existing grant's role.
func (s *LibraryShareService) Create(ctx context.Context, libraryID, ownerID uuid.UUID, inviteeEmail, role string) (*models.LibraryShare, error) {
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

	share, err := scanLibraryShare(s.db.Pool.QueryRow(ctx, `
		INSERT INTO library_shares (library_id, owner_id, shared_with_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (library_id, shared_with_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		RETURNING `+libraryShareColumns+`
	`, libraryID, ownerID, invitee.ID, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create library share: %w", err)
	}
	share.SharedWith = invitee
	return share, nil
}

func (s *LibraryShareService) GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryShare, error) {
	share, err := scanLibraryShare(s.db.Pool.QueryRow(ctx, `
		SELECT `+libraryShareColumns+` FROM library_shares WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	return share, nil
}

func (s *LibraryShareService) ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.LibraryShare, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT ls.id, ls.library_id, ls.owner_id, ls.shared_with_id, ls.role,
			ls.created_at, ls.updated_at, u.email, u.name, u.avatar_url
		FROM library_shares ls
		JOIN users u ON u.id = ls.shared_with_id
		WHERE ls.library_id = $1
		ORDER BY ls.created_at
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.LibraryShare
	for rows.Next() {
		var share models.LibraryShare
		var sharedWith models.User
		if err := rows.Scan(
			&share.ID, &share.LibraryID, &share.OwnerID, &share.SharedWithID,
			&share.Role, &share.CreatedAt, &share.UpdatedAt,
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

func (s *LibraryShareService) UpdateRole(ctx context.Context, shareID uuid.UUID, role string) (*models.LibraryShare, error) {
	if !models.IsValidShareRole(role) {
		return nil, ErrInvalidShareRole
	}

	share, err := scanLibraryShare(s.db.Pool.QueryRow(ctx, `
		UPDATE library_shares SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+libraryShareColumns+`
	`, role, shareID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update library share: %w", err)
	}
	return share, nil
}

func (s *LibraryShareService) Delete(ctx context.Context, shareID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM library_shares WHERE id = $1`, shareID)
	if err != nil {
		return fmt.Errorf("failed to delete library share: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}
