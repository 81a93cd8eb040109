package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/store"
)

// jsonError aborts the request with an error body.
func jsonError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// storeError maps a store error to its HTTP status. Unexpected errors are
// logged and reported without detail.
func storeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidArgument):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidOperation):
		jsonError(c, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		jsonError(c, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the :id route parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
