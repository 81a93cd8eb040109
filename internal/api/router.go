// Package api exposes the inventory service over HTTP.
package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/logger"
)

// Options configures NewRouter.
type Options struct {
	DB          *sql.DB
	Verifier    *auth.Verifier
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter wires the gin engine with all routes and middleware.
func NewRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger.Named(log, "http")))
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlerLog := logger.Named(log, "api")
	profile := &ProfileHandler{DB: opts.DB, Logger: handlerLog}
	items := &ItemsHandler{DB: opts.DB, Logger: handlerLog}
	purchases := &PurchasesHandler{DB: opts.DB, Logger: handlerLog}
	dashboard := &DashboardHandler{DB: opts.DB, Logger: handlerLog}

	authed := r.Group("/api", authMiddleware(opts.Verifier))

	authed.GET("/auth/profile", profile.Get)
	authed.PUT("/auth/profile", profile.Update)

	authed.GET("/inventoryitems", items.List)
	authed.POST("/inventoryitems", items.Create)
	authed.GET("/inventoryitems/:id", items.Get)
	authed.PUT("/inventoryitems/:id", items.Update)
	authed.DELETE("/inventoryitems/:id", items.Delete)
	authed.POST("/inventoryitems/:id/remove", items.RemoveStock)
	authed.GET("/inventoryitems/:id/logs", items.Logs)
	authed.PUT("/inventoryitems/:id/image", items.UploadImage)
	authed.GET("/inventoryitems/:id/image", items.GetImage)

	authed.GET("/purchases", purchases.List)
	authed.POST("/purchases", purchases.Create)
	authed.GET("/purchases/active", purchases.ListActive)
	authed.GET("/purchases/:id", purchases.Get)
	authed.DELETE("/purchases/:id", purchases.Delete)
	authed.POST("/purchases/:id/complete", purchases.Complete)
	authed.PUT("/purchases/:id/status", purchases.SetStatus)

	authed.GET("/dashboard/stats", dashboard.Stats)

	log.Info("router initialized")
	return r
}
