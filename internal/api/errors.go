package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/service"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Validation failures (including membership conflicts and removing an
// absent membership) are 400, missing entities 404, ownership failures
// 403. Everything else is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
