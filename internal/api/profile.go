package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/store"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

type profileRequest struct {
	Name string `json:"name"`
}

// Get handles GET /api/auth/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := store.GetProfile(c.Request.Context(), h.DB, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/auth/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := store.UpdateProfile(c.Request.Context(), h.DB, ownerID(c), req.Name)
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
