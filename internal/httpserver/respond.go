package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
	checkoutsvc "standardtime/internal/service/checkout"
)

// respondError maps service errors to status codes. Anything unknown is a
// 500 with a generic message so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, checkoutsvc.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkoutsvc.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
