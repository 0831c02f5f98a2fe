package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
)

type Resolver struct {
	db *database.DB
}

func NewResolver(db *database.DB) *Resolver {
	return &Resolver{db: db}
}

// ProjectRole resolves the effective role of a user on a project: owner,
// or the role of an accepted share. Pending shares grant nothing.
func (r *Resolver) ProjectRole(ctx context.Context, projectID, userID uuid.UUID) (Role, error) {
	var ownerID uuid.UUID
	var shareRole *string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT p.owner_id, ps.role
		FROM projects p
		LEFT JOIN project_shares ps ON ps.project_id = p.id
			AND ps.shared_with_id = $2 AND ps.status = $3
		WHERE p.id = $1
	`, projectID, userID, models.ShareStatusAccepted).Scan(&ownerID, &shareRole)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("failed to resolve project role: %w", err)
	}

	if ownerID == userID {
		return RoleOwner, nil
	}
	if shareRole != nil {
		return Role(*shareRole), nil
	}
	return RoleNone, nil
}

// LibraryRole resolves the effective role of a user on a library. The
// highest of four independent grants wins: ownership, a direct share,
// the global flag (viewer), and transitive access through any project
// the library is linked to.
func (r *Resolver) LibraryRole(ctx context.Context, libraryID, userID uuid.UUID) (Role, error) {
	var ownerID uuid.UUID
	var isGlobal bool
	var shareRole *string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT l.owner_id, l.is_global, ls.role
		FROM libraries l
		LEFT JOIN library_shares ls ON ls.library_id = l.id AND ls.shared_with_id = $2
		WHERE l.id = $1
	`, libraryID, userID).Scan(&ownerID, &isGlobal, &shareRole)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("failed to resolve library role: %w", err)
	}

	if ownerID == userID {
		return RoleOwner, nil
	}

	best := RoleNone
	if shareRole != nil {
		best = Role(*shareRole)
	}
	if isGlobal {
		best = maxRole(best, RoleViewer)
	}
	if best.AtLeast(RoleEditor) {
		return best, nil
	}

	derived, err := r.transitiveLibraryRole(ctx, libraryID, userID)
	if err != nil {
		return RoleNone, err
	}
	return maxRole(best, derived), nil
}

// transitiveLibraryRole derives a role from the projects the library is
// linked to: editor when the user owns or edits any such project, viewer
// when they can merely read one.
func (r *Resolver) transitiveLibraryRole(ctx context.Context, libraryID, userID uuid.UUID) (Role, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.owner_id = $2 OR ps.role = $3 AS as_editor
		FROM project_libraries pl
		JOIN projects p ON p.id = pl.project_id
		LEFT JOIN project_shares ps ON ps.project_id = p.id
			AND ps.shared_with_id = $2 AND ps.status = $4
		WHERE pl.library_id = $1 AND (p.owner_id = $2 OR ps.id IS NOT NULL)
	`, libraryID, userID, models.ShareRoleEditor, models.ShareStatusAccepted)
	if err != nil {
		return RoleNone, fmt.Errorf("failed to resolve transitive library role: %w", err)
	}
	defer rows.Close()

	best := RoleNone
	for rows.Next() {
		var asEditor bool
		if err := rows.Scan(&asEditor); err != nil {
			return RoleNone, fmt.Errorf("failed to resolve transitive library role: %w", err)
		}
		if asEditor {
			return RoleEditor, nil
		}
		best = RoleViewer
	}
	return best, rows.Err()
}

// ArticleRole resolves through the owning library.
func (r *Resolver) ArticleRole(ctx context.Context, articleID, userID uuid.UUID) (Role, error) {
	var libraryID uuid.UUID
	err := r.db.Pool.QueryRow(ctx, `
		SELECT library_id FROM articles WHERE id = $1
	`, articleID).Scan(&libraryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("failed to resolve article role: %w", err)
	}
	return r.LibraryRole(ctx, libraryID, userID)
}

// AuthorizeProject resolves and checks in one step. It returns ErrNotFound
// when the user has no access at all and ErrForbidden when the resolved
// role is too low for the action.
func (r *Resolver) AuthorizeProject(ctx context.Context, projectID, userID uuid.UUID, action Action) (Role, error) {
	role, err := r.ProjectRole(ctx, projectID, userID)
	if err != nil {
		return RoleNone, err
	}
	if err := authorize(role, action); err != nil {
		return RoleNone, err
	}
	return role, nil
}

func (r *Resolver) AuthorizeLibrary(ctx context.Context, libraryID, userID uuid.UUID, action Action) (Role, error) {
	role, err := r.LibraryRole(ctx, libraryID, userID)
	if err != nil {
		return RoleNone, err
	}
	if err := authorize(role, action); err != nil {
		return RoleNone, err
	}
	return role, nil
}

func (r *Resolver) AuthorizeArticle(ctx context.Context, articleID, userID uuid.UUID, action Action) (Role, error) {
	role, err := r.ArticleRole(ctx, articleID, userID)
	if err != nil {
		return RoleNone, err
	}
	if err := authorize(role, action); err != nil {
		return RoleNone, err
	}
	return role, nil
}
