package main

import (
	"context"
	"log"
	"os"

	"github.com/ammiranda/nestedset_service/cache"
	"github.com/ammiranda/nestedset_service/config"
	"github.com/ammiranda/nestedset_service/handlers"
	"github.com/ammiranda/nestedset_service/repository"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()

	// Initialize config provider
	cfgProvider := config.NewEnvProvider("")

	// Postgres when configured, embedded sqlite otherwise
	var repo repository.Repository
	if os.Getenv("DB_HOST") != "" {
		pg, err := repository.NewPostgresRepository(cfgProvider)
		if err != nil {
			log.Fatal("Failed to create repository:", err)
		}
		repo = pg
	} else {
		repo = repository.NewSQLiteRepository()
	}
	if err := repo.Initialize(ctx); err != nil {
		log.Fatal("Failed to initialize repository:", err)
	}
	defer repo.Cleanup(ctx)

	// Initialize cache
	if err := cache.Initialize(); err != nil {
		log.Fatal("Failed to initialize cache:", err)
	}

	// Initialize handlers
	treeHandler := handlers.NewTreeHandler(repo)

	// Initialize router
	r := gin.Default()

	// API routes
	api := r.Group("/api")
	{
		api.GET("/tree", treeHandler.GetTree)
		api.POST("/tree", treeHandler.CreateNode)
		api.PUT("/node/:id", treeHandler.UpdateNode)
		api.PUT("/node/:id/move", treeHandler.MoveNode)
		api.DELETE("/node/:id", treeHandler.DeleteNode)
		api.GET("/node/:id/descendants", treeHandler.GetDescendants)
		api.GET("/node/:id/ancestors", treeHandler.GetAncestors)
		api.GET("/node/:id/children", treeHandler.GetChildren)
	}

	// Start server
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
