package routes

import (
	"studlance_backend/internal/handlers"
	"studlance_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Register mounts every route. Everything except auth, swagger and health
// sits behind AuthMiddleware.
func Register(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")

	h.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		h.User.RegisterRoutes(protected)
		h.Profile.RegisterRoutes(protected)
		h.Project.RegisterRoutes(protected)
		h.Proposal.RegisterRoutes(protected)
		h.Chat.RegisterRoutes(protected)
		h.Notification.RegisterRoutes(protected)
		h.Document.RegisterRoutes(protected)
		h.WS.RegisterRoutes(protected)
	}

	// files are public: URLs embed unguessable timestamped paths
	h.File.RegisterRoutes(api)
}
