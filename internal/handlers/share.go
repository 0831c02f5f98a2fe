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

type ShareHandler struct {
	projectShareService ProjectShareServiceInterface
	libraryShareService LibraryShareServiceInterface
	projectService      ProjectServiceInterface
	userService         UserServiceInterface
	emailService        EmailServiceInterface
	resolver            ResolverInterface
}

func NewShareHandler(
	projectShareService ProjectShareServiceInterface,
	libraryShareService LibraryShareServiceInterface,
	projectService ProjectServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	resolver ResolverInterface,
) *ShareHandler {
	return &ShareHandler{
		projectShareService: projectShareService,
		libraryShareService: libraryShareService,
		projectService:      projectService,
		userService:         userService,
		emailService:        emailService,
		resolver:            resolver,
	}
}

func (h *ShareHandler) CreateProjectShare(c *drift.Context) {
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

	var req dto.CreateShareRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	share, err := h.projectShareService.Create(ctx, projectID, userID, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.NotFound("no account with this email")
		case errors.Is(err, services.ErrCannotShareWithSelf):
			c.BadRequest("cannot share a project with yourself")
		case errors.Is(err, services.ErrInvalidShareRole):
			c.BadRequest("invalid share role")
		default:
			logrus.WithError(err).Error("failed to create project share")
			c.InternalServerError("failed to share project")
		}
		return
	}

	go h.notifyInvitee(share.SharedWith.Email, projectID, userID, req.Role)

	_ = c.JSON(201, share)
}

func (h *ShareHandler) notifyInvitee(email string, projectID, inviterID uuid.UUID, role string) {
	ctx := context.Background()
	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		return
	}
	inviter, err := h.userService.GetByID(ctx, inviterID)
	if err != nil {
		return
	}
	if err := h.emailService.SendProjectShareInvite(email, project.Name, inviter.Name, role); err != nil {
		logrus.WithError(err).Warn("failed to send share invite email")
	}
}

func (h *ShareHandler) ListProjectShares(c *drift.Context) {
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
	if _, err := h.resolver.AuthorizeProject(ctx, projectID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	shares, err := h.projectShareService.ListForProject(ctx, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list project shares")
		c.InternalServerError("failed to list shares")
		return
	}

	_ = c.JSON(200, shares)
}

func (h *ShareHandler) ListPendingInvites(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shares, err := h.projectShareService.ListPendingForUser(context.Background(), userID)
	if err != nil {
		logrus.WithError(err).Error("failed to list pending invites")
		c.InternalServerError("failed to list invites")
		return
	}

	_ = c.JSON(200, shares)
}

func (h *ShareHandler) AcceptInvite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	share, err := h.projectShareService.Accept(context.Background(), shareID, userID)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("invite not found")
			return
		}
		logrus.WithError(err).Error("failed to accept invite")
		c.InternalServerError("failed to accept invite")
		return
	}

	_ = c.JSON(200, share)
}

func (h *ShareHandler) DeclineInvite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	if err := h.projectShareService.Decline(context.Background(), shareID, userID); err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("invite not found")
			return
		}
		logrus.WithError(err).Error("failed to decline invite")
		c.InternalServerError("failed to decline invite")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invite declined"})
}

func (h *ShareHandler) UpdateProjectShareRole(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("shareId"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	var req dto.UpdateShareRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	share, err := h.projectShareService.GetByID(ctx, shareID)
	if err != nil {
		c.NotFound("share not found")
		return
	}
	if _, err := h.resolver.AuthorizeProject(ctx, share.ProjectID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	updated, err := h.projectShareService.UpdateRole(ctx, shareID, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("share not found")
			return
		}
		logrus.WithError(err).Error("failed to update share role")
		c.InternalServerError("failed to update share")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *ShareHandler) DeleteProjectShare(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("shareId"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	ctx := context.Background()
	share, err := h.projectShareService.GetByID(ctx, shareID)
	if err != nil {
		c.NotFound("share not found")
		return
	}
	if _, err := h.resolver.AuthorizeProject(ctx, share.ProjectID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "project")
		return
	}

	if err := h.projectShareService.Delete(ctx, shareID); err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("share not found")
			return
		}
		logrus.WithError(err).Error("failed to delete share")
		c.InternalServerError("failed to delete share")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "share removed"})
}

// LeaveProject removes the caller's own accepted share.
func (h *ShareHandler) LeaveProject(c *drift.Context) {
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

	if err := h.projectShareService.Leave(context.Background(), projectID, userID); err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("you are not a member of this project")
			return
		}
		logrus.WithError(err).Error("failed to leave project")
		c.InternalServerError("failed to leave project")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left project"})
}

func (h *ShareHandler) CreateLibraryShare(c *drift.Context) {
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

	var req dto.CreateShareRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	share, err := h.libraryShareService.Create(ctx, libraryID, userID, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.NotFound("no account with this email")
		case errors.Is(err, services.ErrCannotShareWithSelf):
			c.BadRequest("cannot share a library with yourself")
		case errors.Is(err, services.ErrInvalidShareRole):
			c.BadRequest("invalid share role")
		default:
			logrus.WithError(err).Error("failed to create library share")
			c.InternalServerError("failed to share library")
		}
		return
	}

	_ = c.JSON(201, share)
}

func (h *ShareHandler) ListLibraryShares(c *drift.Context) {
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
	if _, err := h.resolver.AuthorizeLibrary(ctx, libraryID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	shares, err := h.libraryShareService.ListForLibrary(ctx, libraryID)
	if err != nil {
		logrus.WithError(err).Error("failed to list library shares")
		c.InternalServerError("failed to list shares")
		return
	}

	_ = c.JSON(200, shares)
}

func (h *ShareHandler) UpdateLibraryShareRole(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("shareId"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	var req dto.UpdateShareRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	share, err := h.libraryShareService.GetByID(ctx, shareID)
	if err != nil {
		c.NotFound("share not found")
		return
	}
	if _, err := h.resolver.AuthorizeLibrary(ctx, share.LibraryID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	updated, err := h.libraryShareService.UpdateRole(ctx, shareID, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("share not found")
			return
		}
		logrus.WithError(err).Error("failed to update library share")
		c.InternalServerError("failed to update share")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *ShareHandler) DeleteLibraryShare(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	shareID, err := uuid.Parse(c.Param("shareId"))
	if err != nil {
		c.BadRequest("invalid share id")
		return
	}

	ctx := context.Background()
	share, err := h.libraryShareService.GetByID(ctx, shareID)
	if err != nil {
		c.NotFound("share not found")
		return
	}
	if _, err := h.resolver.AuthorizeLibrary(ctx, share.LibraryID, userID, permissions.ActionShare); err != nil {
		respondPermissionError(c, err, "library")
		return
	}

	if err := h.libraryShareService.Delete(ctx, shareID); err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			c.NotFound("share not found")
			return
		}
		logrus.WithError(err).Error("failed to delete library share")
		c.InternalServerError("failed to delete share")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "share removed"})
}
