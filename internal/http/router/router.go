// Package router sets up the HTTP routes for the Sendy API server.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/sendy/internal/http/handler"
	"github.com/roguepikachu/sendy/internal/http/middleware"
)

// NewRouter initializes and returns the main Gin engine with all routes.
func NewRouter(h *handler.Handler, health *handler.HealthHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(allowedOrigins),
	)

	v1 := router.Group("/v1")
	{
		v1.GET("/health", handler.Health)
		v1.GET("/livez", health.Liveness)
		v1.GET("/readyz", health.Readiness)

		v1.POST("/domains", h.Create)
		v1.GET("/domains/:domain", h.Get)
		v1.POST("/domains/:domain/unlock", h.Unlock)
		v1.PUT("/domains/:domain", h.Update)
		v1.DELETE("/domains/:domain", h.Delete)
	}

	return router
}
