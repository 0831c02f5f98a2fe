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

type ProjectHandler struct {
	projectService  ProjectServiceInterface
	documentService DocumentServiceInterface
	resolver        ResolverInterface
}

func NewProjectHandler(projectService ProjectServiceInterface, documentService DocumentServiceInterface, resolver ResolverInterface) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		documentService: documentService,
		resolver:        resolver,
	}
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	project, err := h.projectService.Create(context.Background(), userID, services.ProjectInput{
		Name:         req.Name,
		Client:       req.Client,
		Typology:     req.Typology,
		InternalRef:  req.InternalRef,
		Address:      req.Address,
		DeliveryDate: req.DeliveryDate,
		Status:       req.Status,
		TotalArea:    req.TotalArea,
		FolderID:     req.FolderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			c.NotFound("folder not found")
		case errors.Is(err, services.ErrInvalidStatus):
			c.BadRequest("invalid project status")
		default:
			logrus.WithError(err).Error("failed to create project")
			c.InternalServerError("failed to create project")
		}
		return
	}

	_ = c.JSON(201, project)
}

func (h *ProjectHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projects, err := h.projectService.List(context.Background(), userID)
	if err != nil {
		logrus.WithError(err).Error("failed to list projects")
		c.InternalServerError("failed to list projects")
		return
	}

	_ = c.JSON(200, projects)
}

func (h *ProjectHandler) Get(c *drift.Context) {
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

	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		c.NotFound("project not found")
		return
	}

	_ = c.JSON(200, project)
}

func (h *ProjectHandler) Update(c *drift.Context) {
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

	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	role, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionWrite)
	if err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	// Folders are the owner's private organization; editors cannot refile
	// someone else's project.
	moveFolder := req.FolderID != nil || req.MoveToRoot
	if moveFolder && role != permissions.RoleOwner {
		c.Forbidden("only the owner can move a project between folders")
		return
	}

	project, err := h.projectService.Update(ctx, projectID, services.ProjectUpdate{
		Name:         req.Name,
		Client:       req.Client,
		Typology:     req.Typology,
		InternalRef:  req.InternalRef,
		Address:      req.Address,
		DeliveryDate: req.DeliveryDate,
		Status:       req.Status,
		TotalArea:    req.TotalArea,
		FolderID:     req.FolderID,
		SetFolder:    moveFolder,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			c.NotFound("project not found")
		case errors.Is(err, services.ErrFolderNotFound):
			c.NotFound("folder not found")
		case errors.Is(err, services.ErrInvalidStatus):
			c.BadRequest("invalid project status")
		default:
			logrus.WithError(err).Error("failed to update project")
			c.InternalServerError("failed to update project")
		}
		return
	}

	_ = c.JSON(200, project)
}

func (h *ProjectHandler) Delete(c *drift.Context) {
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
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionDelete); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	if err := h.projectService.Delete(ctx, projectID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			c.NotFound("project not found")
			return
		}
		logrus.WithError(err).Error("failed to delete project")
		c.InternalServerError("failed to delete project")
		return
	}

	if err := h.documentService.CleanupProjectFiles(projectID); err != nil {
		logrus.WithError(err).Warn("failed to remove project files")
	}

	_ = c.JSON(200, map[string]string{"message": "project deleted"})
}
