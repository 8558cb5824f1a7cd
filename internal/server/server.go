// Package server exposes the administrative HTTP surface: project,
// competitor and page management, capture triggering and report access.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(log *slog.Logger, handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	{
		api.POST("/projects", handler.CreateProject)
		api.GET("/projects", handler.ListProjects)
		api.GET("/projects/:id", handler.GetProject)
		api.DELETE("/projects/:id", handler.DeleteProject)

		api.POST("/projects/:id/competitors", handler.CreateCompetitor)
		api.GET("/projects/:id/competitors", handler.ListCompetitors)
		api.DELETE("/competitors/:id", handler.DeleteCompetitor)

		api.POST("/competitors/:id/pages", handler.CreatePage)
		api.GET("/competitors/:id/pages", handler.ListPages)
		api.DELETE("/pages/:id", handler.DeletePage)

		api.POST("/pages/:id/capture", handler.CapturePage)
		api.GET("/pages/:id/captures", handler.ListCaptures)
		api.GET("/pages/:id/changes", handler.ListChanges)

		api.POST("/projects/:id/reports", handler.CreateReport)
		api.GET("/projects/:id/reports", handler.ListReports)
	}

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
