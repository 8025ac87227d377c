package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/server/handlers"
	"github.com/funchapp/funch-server/internal/server/middleware"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Menus     *handlers.MenuHandler
	Changes   *handlers.ChangeHandler
	Confirm   *handlers.ConfirmHandler
	Originals *handlers.OriginalHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, auth *middleware.Authenticator, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(auth.Middleware())

	api.GET("/menus", h.Menus.ListMenus)
	api.GET("/menus/categories", h.Menus.ListCategories)

	api.GET("/original-menus", h.Originals.List)
	api.POST("/original-menus", h.Originals.Create)
	api.PUT("/original-menus/:id", h.Originals.Update)
	api.DELETE("/original-menus/:id", h.Originals.Delete)
	api.POST("/original-menus/:id/image", h.Originals.UploadImage)

	api.GET("/days/:date", h.Changes.DayView)
	api.POST("/days/:date/changes", h.Changes.DayChange)
	api.GET("/months/:month", h.Changes.MonthView)
	api.POST("/months/:month/changes", h.Changes.MonthChange)

	api.POST("/confirm", h.Confirm.Confirm)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
