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

type LibraryHandler struct {
	libraryService LibraryServiceInterface
	resolver       ResolverInterface
}

func NewLibraryHandler(libraryService LibraryServiceInterface, resolver ResolverInterface) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
		resolver:       resolver,
	}
}

func (h *LibraryHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateLibraryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	library, err := h.libraryService.Create(context.Background(), userID, req.Name, req.Description, req.IsGlobal)
	if err != nil {
		logrus.WithError(err).Error("failed to create library")
		c.InternalServerError("failed to create library")
		return
	}

	_ = c.JSON(201, library)
}

func (h *LibraryHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	libraries, err := h.libraryService.ListForUser(context.Background(), userID)
	if err != nil {
		logrus.WithError(err).Error("failed to list libraries")
		c.InternalServerError("failed to list libraries")
		return
	}

	_ = c.JSON(200, libraries)
}

func (h *LibraryHandler) Get(c *drift.Context) {
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

	library, err := h.libraryService.GetByID(ctx, libraryID)
	if err != nil {
		c.NotFound("library not found")
		return
	}

	_ = c.JSON(200, library)
}

func (h *LibraryHandler) Update(c *drift.Context) {
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

	var req dto.UpdateLibraryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	role, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionWrite)
	if err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	// Publishing a library to every account stays with its owner.
	if req.IsGlobal != nil && role != permissions.RoleOwner {
		c.Forbidden("only the owner can change global visibility")
		return
	}

	library, err := h.libraryService.Update(ctx, libraryID, services.LibraryUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsGlobal:    req.IsGlobal,
	})
	if err != nil {
		if errors.Is(err, services.ErrLibraryNotFound) {
			c.NotFound("library not found")
			return
		}
		logrus.WithError(err).Error("failed to update library")
		c.InternalServerError("failed to update library")
		return
	}

	_ = c.JSON(200, library)
}

func (h *LibraryHandler) Delete(c *drift.Context) {
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
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionDelete); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	if err := h.libraryService.Delete(ctx, libraryID); err != nil {
		if errors.Is(err, services.ErrLibraryNotFound) {
			c.NotFound("library not found")
			return
		}
		logrus.WithError(err).Error("failed to delete library")
		c.InternalServerError("failed to delete library")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "library deleted"})
}

// Assign links a library to a project. The caller needs to be able to edit
// the project and at least read the library.
func (h *LibraryHandler) Assign(c *drift.Context) {
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

	var req dto.AssignLibraryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "project")
		return
	}
	if _, err := h.resolver.AuthorizeLibrary(ctx, req.LibraryID, userID, permissions.ActionRead); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	link, err := h.libraryService.AssignToProject(ctx, projectID, req.LibraryID)
	if err != nil {
		if errors.Is(err, services.ErrLibraryAlreadyLinked) {
			c.BadRequest("library already assigned to this project")
			return
		}
		logrus.WithError(err).Error("failed to assign library")
		c.InternalServerError("failed to assign library")
		return
	}

	_ = c.JSON(201, link)
}

func (h *LibraryHandler) Unassign(c *drift.Context) {
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
	libraryID, err := uuid.Parse(c.Param("libraryId"))
	if err != nil {
		c.BadRequest("invalid library id")
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionWrite); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	if err := h.libraryService.UnassignFromProject(ctx, projectID, libraryID); err != nil {
		if errors.Is(err, services.ErrLibraryNotFound) {
			c.NotFound("library not assigned to this project")
			return
		}
		logrus.WithError(err).Error("failed to unassign library")
		c.InternalServerError("failed to unassign library")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "library unassigned"})
}

func (h *LibraryHandler) ListForProject(c *drift.Context) {
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

	libraries, err := h.libraryService.ListForProject(ctx, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list project libraries")
		c.InternalServerError("failed to list project libraries")
		return
	}

	_ = c.JSON(200, libraries)
}
