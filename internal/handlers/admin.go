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

// AdminHandler exposes user administration. Routes are gated by the
// RequireAdmin middleware.
type AdminHandler struct {
	userService UserServiceInterface
}

func NewAdminHandler(userService UserServiceInterface) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) ListUsers(c *drift.Context) {
	users, err := h.userService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list users")
		return
	}

	response := make([]dto.UserResponse, len(users))
	for i := range users {
		response[i] = userResponse(&users[i])
	}
	_ = c.JSON(200, response)
}

func (h *AdminHandler) DeleteUser(c *drift.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if targetID == middleware.GetUserID(c) {
		c.BadRequest("cannot delete own account")
		return
	}

	if err := h.userService.Delete(context.Background(), targetID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to delete user")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "user deleted"})
}
