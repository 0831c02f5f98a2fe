package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/sirupsen/logrus"
)

const maxImportSize = 10 << 20

type ImportHandler struct {
	importService ImportServiceInterface
	resolver      ResolverInterface
}

func NewImportHandler(importService ImportServiceInterface, resolver ResolverInterface) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		resolver:      resolver,
	}
}

func (h *ImportHandler) csvFile(c *drift.Context) (multipart.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Response, c.Request.Body, maxImportSize)
	if err := c.Request.ParseMultipartForm(maxImportSize); err != nil {
		c.BadRequest("invalid multipart form")
		return nil, false
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.BadRequest("missing file")
		return nil, false
	}
	return file, true
}

// ImportArticles loads a CSV of articles into a library.
func (h *ImportHandler) ImportArticles(c *drift.Context) {
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
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	file, ok := h.csvFile(c)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.importService.ImportArticles(ctx, libraryID, file)
	if err != nil {
		logrus.WithError(err).Error("article import failed")
		if errors.Is(err, services.ErrMalformedCSV) {
			c.BadRequest("failed to parse csv")
		} else {
			c.InternalServerError("failed to import articles")
		}
		return
	}

	_ = c.JSON(200, result)
}

// ExportArticles streams a library's articles as CSV.
func (h *ImportHandler) ExportArticles(c *drift.Context) {
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

	c.Response.Header().Set("Content-Type", "text/csv; charset=utf-8")
	c.Response.Header().Set("Content-Disposition", `attachment; filename="articles.csv"`)

	if err := h.importService.ExportArticles(ctx, libraryID, c.Response); err != nil {
		logrus.WithError(err).Error("article export failed")
	}
}

// ImportProjects loads a CSV of projects into the caller's account.
func (h *ImportHandler) ImportProjects(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	file, ok := h.csvFile(c)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.importService.ImportProjects(context.Background(), userID, file)
	if err != nil {
		logrus.WithError(err).Error("project import failed")
		if errors.Is(err, services.ErrMalformedCSV) {
			c.BadRequest("failed to parse csv")
		} else {
			c.InternalServerError("failed to import projects")
		}
		return
	}

	_ = c.JSON(200, result)
}
