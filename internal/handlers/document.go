package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/sirupsen/logrus"
)

// Uploads above this size are rejected before reaching disk.
const maxUploadSize = 50 << 20

type DocumentHandler struct {
	documentService DocumentServiceInterface
	resolver        ResolverInterface
}

func NewDocumentHandler(documentService DocumentServiceInterface, resolver ResolverInterface) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		resolver:        resolver,
	}
}

// Upload accepts a multipart form with a "file" part and a "doc_type"
// field ("plan" or "document").
func (h *DocumentHandler) Upload(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Response, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.BadRequest("invalid multipart form")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.BadRequest("missing file")
		return
	}
	defer func() { _ = file.Close() }()

	docType := c.Request.FormValue("doc_type")

	doc, err := h.documentService.Upload(ctx, projectID, userID, docType, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDocType):
			c.BadRequest("doc_type must be plan or document")
		case errors.Is(err, services.ErrUnsupportedFormat):
			c.BadRequest("unsupported file format")
		default:
			logrus.WithError(err).Error("failed to upload document")
			c.InternalServerError("failed to upload document")
		}
		return
	}

	_ = c.JSON(201, doc)
}

func (h *DocumentHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionRead); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	docs, err := h.documentService.ListForProject(ctx, projectID, c.QueryParam("doc_type"))
	if err != nil {
		logrus.WithError(err).Error("failed to list documents")
		c.InternalServerError("failed to list documents")
		return
	}

	_ = c.JSON(200, docs)
}

func (h *DocumentHandler) Download(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	ctx := context.Background()
	doc, err := h.documentService.GetByID(ctx, docID)
	if err != nil {
		c.NotFound("document not found")
		return
	}

	if _, err := h.resolver.AuthorizeProject(ctx, doc.ProjectID, userID, permissions.ActionRead); err != nil {
		respondPermissionError(c, err, "document")
		return
	}

	content, err := h.documentService.OpenContent(doc)
	if err != nil {
		logrus.WithError(err).Error("failed to open document")
		c.InternalServerError("failed to open document")
		return
	}
	defer func() { _ = content.Close() }()

	c.Response.Header().Set("Content-Type", "application/octet-stream")
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Response.Header().Set("Content-Length", fmt.Sprintf("%d", doc.SizeBytes))
	_, _ = io.Copy(c.Response, content)
}

func (h *DocumentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	ctx := context.Background()
	doc, err := h.documentService.GetByID(ctx, docID)
	if err != nil {
		c.NotFound("document not found")
		return
	}

	if _, err := h.resolver.AuthorizeProject(ctx, doc.ProjectID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "document")
		return
	}

	if err := h.documentService.Delete(ctx, docID); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.NotFound("document not found")
			return
		}
		logrus.WithError(err).Error("failed to delete document")
		c.InternalServerError("failed to delete document")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "document deleted"})
}
