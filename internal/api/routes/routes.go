package routes

import (
	"go-knowledge-center/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// Setup configures all the routes for the application
func Setup(router *gin.Engine, h *handlers.Handler) {
	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")

	// Folder routes
	folders := v1.Group("/folders")
	{
		folders.POST("", h.CreateFolder)
		folders.GET("", h.ListFolders)
		folders.GET("/tree", h.GetFolderTree)
		folders.GET("/:id", h.GetFolder)
		folders.GET("/:id/contents", h.GetFolderContents)
		folders.PUT("/:id", h.UpdateFolder)
		folders.DELETE("/:id", h.DeleteFolder)
	}

	// Source routes: only the folder reference of a source is managed
	// here; sources themselves are owned elsewhere
	sources := v1.Group("/sources")
	{
		sources.PUT("/:id/folder", h.MoveSource)
		sources.POST("/batch/move", h.BatchMoveSources)
	}
}
