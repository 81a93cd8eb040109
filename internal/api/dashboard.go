package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/store"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := store.GetDashboardStats(c.Request.Context(), h.DB, ownerID(c), time.Now().UTC())
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
