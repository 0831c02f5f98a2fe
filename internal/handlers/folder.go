package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/pkg/dto"
)

type FolderHandler struct {
	folderService FolderServiceInterface
}

func NewFolderHandler(folderService FolderServiceInterface) *FolderHandler {
	return &FolderHandler{folderService: folderService}
}

func (h *FolderHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateFolderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	folder, err := h.folderService.Create(context.Background(), userID, req.Name, req.ParentID, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			c.NotFound("parent folder not found")
		case errors.Is(err, services.ErrFolderNameTaken):
			c.BadRequest("a folder with this name already exists here")
		default:
			c.InternalServerError("failed to create folder")
		}
		return
	}

	_ = c.JSON(201, folder)
}

func (h *FolderHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	folders, err := h.folderService.List(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list folders")
		return
	}

	_ = c.JSON(200, folders)
}

func (h *FolderHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid folder id")
		return
	}

	var req dto.UpdateFolderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	update := services.FolderUpdate{
		Name:  req.Name,
		Color: req.Color,
	}
	if req.ParentID != nil || req.MoveToRoot {
		update.ParentID = req.ParentID
		update.SetParent = true
	}

	folder, err := h.folderService.Update(context.Background(), folderID, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			c.NotFound("folder not found")
		case errors.Is(err, services.ErrSystemFolder):
			c.Forbidden("system folders cannot be modified")
		case errors.Is(err, services.ErrFolderNameTaken):
			c.BadRequest("a folder with this name already exists here")
		case errors.Is(err, services.ErrFolderCycle):
			c.BadRequest("folder cannot be moved inside its own subtree")
		default:
			c.InternalServerError("failed to update folder")
		}
		return
	}

	_ = c.JSON(200, folder)
}

func (h *FolderHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid folder id")
		return
	}

	if err := h.folderService.Delete(context.Background(), folderID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			c.NotFound("folder not found")
		case errors.Is(err, services.ErrSystemFolder):
			c.Forbidden("system folders cannot be deleted")
		default:
			c.InternalServerError("failed to delete folder")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "folder deleted"})
}
