package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/models"
	"github.com/mlaurent/chantier-api/internal/permissions"
)

var ErrArticleNotFound = errors.New("article not found")

const articleColumns = `id, library_id, designation, lot, sub_category, unit, unit_price, status, is_favorite, created_at, updated_at`

type ArticleService struct {
	db       *database.DB
	resolver *permissions.Resolver
}

func NewArticleService(db *database.DB, resolver *permissions.Resolver) *ArticleService {
	return &ArticleService{db: db, resolver: resolver}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.LibraryID, &a.Designation, &a.Lot, &a.SubCategory, &a.Unit,
		&a.UnitPrice, &a.Status, &a.IsFavorite, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type ArticleInput struct {
	Designation string
	Lot         string
	SubCategory *string
	Unit        string
	UnitPrice   float64
	Status      *string
}

func (s *ArticleService) Create(ctx context.Context, libraryID uuid.UUID, input ArticleInput) (*models.Article, error) {
	article, err := scanArticle(s.db.Pool.QueryRow(ctx, `
		INSERT INTO articles (library_id, designation, lot, sub_category, unit, unit_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+articleColumns+`
	`, libraryID, input.Designation, input.Lot, input.SubCategory,
		input.Unit, input.UnitPrice, input.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article, err := scanArticle(s.db.Pool.QueryRow(ctx, `
		SELECT `+articleColumns+` FROM articles WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) ListForLibrary(ctx context.Context, libraryID uuid.UUID) ([]models.Article, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE library_id = $1
		ORDER BY lot, designation
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID, &a.LibraryID, &a.Designation, &a.Lot, &a.SubCategory, &a.Unit,
			&a.UnitPrice, &a.Status, &a.IsFavorite, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

type ArticleUpdate struct {
	Designation *string
	Lot         *string
	SubCategory *string
	Unit        *string
	UnitPrice   *float64
	Status      *string
}

func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, update ArticleUpdate) (*models.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Designation != nil {
		article.Designation = *update.Designation
	}
	if update.Lot != nil {
		article.Lot = *update.Lot
	}
	if update.SubCategory != nil {
		article.SubCategory = update.SubCategory
	}
	if update.Unit != nil {
		article.Unit = *update.Unit
	}
	if update.UnitPrice != nil {
		article.UnitPrice = *update.UnitPrice
	}
	if update.Status != nil {
		article.Status = update.Status
	}

	article, err = scanArticle(s.db.Pool.QueryRow(ctx, `
		UPDATE articles
		SET designation = $1, lot = $2, sub_category = $3, unit = $4,
			unit_price = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+articleColumns+`
	`, article.Designation, article.Lot, article.SubCategory, article.Unit,
		article.UnitPrice, article.Status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag. Favorites are a property of the
// owner's catalog, so only the library owner may toggle them.
func (s *ArticleService) ToggleFavorite(ctx context.Context, id, userID uuid.UUID) (*models.Article, error) {
	var libraryOwnerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT l.owner_id
		FROM articles a
		JOIN libraries l ON l.id = a.library_id
		WHERE a.id = $1
	`, id).Scan(&libraryOwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, permissions.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if libraryOwnerID != userID {
		return nil, permissions.ErrForbidden
	}

	article, err := scanArticle(s.db.Pool.QueryRow(ctx, `
		UPDATE articles
		SET is_favorite = NOT is_favorite, updated_at = NOW()
		WHERE id = $1
		RETURNING `+articleColumns+`
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return article, nil
}

type MoveResult struct {
	Moved     int `json:"moved"`
	Requested int `json:"requested"`
}

// MoveBatch moves articles into another library. The caller must be at
// least editor on the destination; articles whose source library the
// caller cannot edit are skipped silently. All surviving moves commit in
// one transaction.
func (s *ArticleService) MoveBatch(ctx context.Context, articleIDs []uuid.UUID, destLibraryID, userID uuid.UUID) (*MoveResult, error) {
	if _, err := s.resolver.AuthorizeLibrary(ctx, destLibraryID, userID, permissions.ActionWrite); err != nil {
		return nil, err
	}

	var movable []uuid.UUID
	for _, articleID := range articleIDs {
		_, err := s.resolver.AuthorizeArticle(ctx, articleID, userID, permissions.ActionWrite)
		if errors.Is(err, permissions.ErrNotFound) || errors.Is(err, permissions.ErrForbidden) {
			continue
		}
		if err != nil {
			return nil, err
		}
		movable = append(movable, articleID)
	}

	result := &MoveResult{Requested: len(articleIDs)}
	if len(movable) == 0 {
		return result, nil
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, articleID := range movable {
		tag, err := tx.Exec(ctx, `
			UPDATE articles SET library_id = $1, updated_at = NOW() WHERE id = $2
		`, destLibraryID, articleID)
		if err != nil {
			return nil, fmt.Errorf("failed to move article: %w", err)
		}
		result.Moved += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}
	return result, nil
}
