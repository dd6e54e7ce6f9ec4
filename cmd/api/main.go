package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"go-knowledge-center/database/migrations"
	"go-knowledge-center/internal/api/handlers"
	"go-knowledge-center/internal/api/routes"
	"go-knowledge-center/internal/config"
	"go-knowledge-center/internal/database"
	"go-knowledge-center/internal/hierarchy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize Database
	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	if err := migrations.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Wire the hierarchy core; the traversal strategy (server-side
	// recursive queries vs client-side walks) is probed here.
	store := hierarchy.NewGormStore(database.GetDB(), cfg.Hierarchy.MaxDepth)
	service := hierarchy.NewService(context.Background(), store, cfg.Hierarchy.MaxDepth)

	// Initialize Router
	router := gin.Default()
	routes.Setup(router, handlers.New(service))

	// Start Server
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
