package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/vidfetch-go/api/handlers"
	"github.com/yourusername/vidfetch-go/api/middleware"
	"github.com/yourusername/vidfetch-go/internal/app"
)

// SetupRouter sets up the HTTP router
func SetupRouter(service *app.DownloadService, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		downloadHandler := handlers.NewDownloadHandler(service, logger)
		v1.POST("/video-info", downloadHandler.VideoInfo)
		v1.POST("/download", downloadHandler.Download)
		v1.GET("/download-file/:id/:file", downloadHandler.DownloadFile)

		downloads := v1.Group("/downloads")
		{
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not found"})
	})

	return router
}
