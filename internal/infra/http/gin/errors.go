package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/domain/shared/fault"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 with no internals leaked.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		verr     *fault.ValidationError
		notFound *fault.NotFoundError
		authz    *fault.AuthorizationError
		capacity *fault.CapacityError
		conflict *fault.ConflictError
		state    *fault.InvalidStateError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, gin.H{"error": authz.Error()})
	case errors.As(err, &capacity):
		c.JSON(http.StatusBadRequest, gin.H{"error": capacity.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflict.Error()})
	case errors.As(err, &state):
		c.JSON(http.StatusBadRequest, gin.H{"error": state.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
