package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"vpd-analysis/internal/api/handlers"
	"vpd-analysis/internal/api/middleware"
	"vpd-analysis/internal/config"
	"vpd-analysis/internal/cropconfig"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/recommend"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("VPD_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}
	log.Printf("Data directory: %s (cache TTL %s, convention %s)",
		cfg.DataDir, cfg.CacheTTL, cfg.DayNightConvention)

	cache := data.NewCache(cfg.TTL())
	store := cropconfig.NewStore(cfg.ConfigStore)
	bands := model.DefaultBandTable()
	engine := recommend.New(cfg.RecommendParams())

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(cfg, cache, store, bands, engine)
	recommendHandler := handlers.NewRecommendHandler(bands, engine)
	bandsHandler := handlers.NewBandsHandler(bands)
	sectorsHandler := handlers.NewSectorsHandler(cfg, cache)
	configHandler := handlers.NewConfigHandler(store, cache)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/analysis", analysisHandler.RunAnalysis)
		api.GET("/analysis/:id", analysisHandler.GetAnalysis)

		api.POST("/recommend", recommendHandler.Recommend)
		api.GET("/bands", bandsHandler.List)

		api.GET("/sectors", sectorsHandler.List)
		api.GET("/sectors/:sector/dates", sectorsHandler.Dates)

		api.GET("/config/:sector", configHandler.GetSector)
		api.PUT("/config/:sector/:island", configHandler.SetIsland)
		api.DELETE("/config/:sector", configHandler.ClearSector)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
