package handlers

import (
	"errors"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/sirupsen/logrus"
)

// respondPermissionError maps a resolver error onto the response. Unknown
// resources and invisible ones both answer 404 so probing ids reveals
// nothing; a readable resource the caller cannot act on answers 403.
func respondPermissionError(c *drift.Context, err error, resource string) {
	switch {
	case errors.Is(err, permissions.ErrNotFound):
		c.NotFound(resource + " not found")
	case errors.Is(err, permissions.ErrForbidden):
		c.Forbidden("insufficient permissions")
	default:
		logrus.WithError(err).Error("permission resolution failed")
		c.InternalServerError("failed to check permissions")
	}
}
