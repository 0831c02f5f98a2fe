package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/pkg/dto"
	"github.com/sirupsen/logrus"
)

type ArticleHandler struct {
	articleService ArticleServiceInterface
	resolver       ResolverInterface
}

func NewArticleHandler(articleService ArticleServiceInterface, resolver ResolverInterface) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		resolver:       resolver,
	}
}

func (h *ArticleHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	libraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid library id")
		return
	}

	var req dto.CreateArticleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	article, err := h.articleService.Create(ctx, libraryID, services.ArticleInput{
		Designation: req.Designation,
		Lot:         req.Lot,
		SubCategory: req.SubCategory,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Status:      req.Status,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to create article")
		c.InternalServerError("failed to create article")
		return
	}

	_ = c.JSON(201, article)
}

func (h *ArticleHandler) ListForLibrary(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	libraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid library id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionRead); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	articles, err := h.articleService.ListForLibrary(ctx, libraryID)
	if err != nil {
		logrus.WithError(err).Error("failed to list articles")
		c.InternalServerError("failed to list articles")
		return
	}

	_ = c.JSON(200, articles)
}

func (h *ArticleHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid article id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeArticle(ctx, articleID, userID, permissions.ActionRead); err != nil {
		respondPermissionError(c, err, "article")
		return
	}

	article, err := h.articleService.GetByID(ctx, articleID)
	if err != nil {
		c.NotFound("article not found")
		return
	}

	_ = c.JSON(200, article)
}

func (h *ArticleHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid article id")
		return
	}

	var req dto.UpdateArticleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeArticle(ctx, articleID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "article")
		return
	}

	article, err := h.articleService.Update(ctx, articleID, services.ArticleUpdate{
		Designation: req.Designation,
		Lot:         req.Lot,
		SubCategory: req.SubCategory,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.NotFound("article not found")
			return
		}
		logrus.WithError(err).Error("failed to update article")
		c.InternalServerError("failed to update article")
		return
	}

	_ = c.JSON(200, article)
}

func (h *ArticleHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid article id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeArticle(ctx, articleID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "article")
		return
	}

	if err := h.articleService.Delete(ctx, articleID); err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.NotFound("article not found")
			return
		}
		logrus.WithError(err).Error("failed to delete article")
		c.InternalServerError("failed to delete article")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "article deleted"})
}

func (h *ArticleHandler) ToggleFavorite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid article id")
		return
	}

	article, err := h.articleService.ToggleFavorite(context.Background(), articleID, userID)
	if err != nil {
		if errors.Is(err, permissions.ErrNotFound) || errors.Is(err, permissions.ErrForbidden) {
			respondPermissionError(c, err, "article")
			return
		}
		logrus.WithError(err).Error("failed to toggle favorite")
		c.InternalServerError("failed to toggle favorite")
		return
	}

	_ = c.JSON(200, article)
}

func (h *ArticleHandler) Move(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.MoveArticlesRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	result, err := h.articleService.MoveBatch(context.Background(), req.ArticleIDs, req.DestLibraryID, userID)
	if err != nil {
		if errors.Is(err, permissions.ErrNotFound) || errors.Is(err, permissions.ErrForbidden) {
			respondPermissionError(c, err, "library")
			return
		}
		logrus.WithError(err).Error("failed to move articles")
		c.InternalServerError("failed to move articles")
		return
	}

	_ = c.JSON(200, result)
}
