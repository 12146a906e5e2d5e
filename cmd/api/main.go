package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tower-anomaly-api/config"
	"tower-anomaly-api/handlers"
	"tower-anomaly-api/middleware"
	"tower-anomaly-api/services"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	defer sqlDB.Close()

	// Cache is optional; when Redis is down the API serves uncached.
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, serving without cache: %v", err)
	}
	defer cache.Close()

	authService := services.NewAuthService(cfg.JWT)
	anomalyService := services.NewAnomalyService(db)
	bandService := services.NewBandService(db)

	anomalyHandler := handlers.NewAnomalyHandler(anomalyService, cache)
	metricsHandler := handlers.NewMetricsHandler(bandService, cache)
	towersHandler := handlers.NewTowersHandler(db)
	providersHandler := handlers.NewProvidersHandler(db)
	cellsHandler := handlers.NewCellsHandler(db)
	towerBandsHandler := handlers.NewTowerBandsHandler(db)
	authHandler := handlers.NewAuthHandler(db, authService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "UP",
			"message": "Tower Anomaly API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		anomalies := v1.Group("/anomalies")
		{
			anomalies.GET("/versions", anomalyHandler.GetVersions)
			anomalies.GET("/stats", anomalyHandler.GetStats)
			anomalies.GET("/top", anomalyHandler.GetTop)
			anomalies.GET("/in-bounds", anomalyHandler.GetInBounds)
			anomalies.GET("/distribution", anomalyHandler.GetDistribution)
			anomalies.GET("/tower/:tower_id", anomalyHandler.GetTowerScore)
			anomalies.GET("/metrics", anomalyHandler.GetMetrics)
		}

		v1.GET("/metrics/band-distribution", metricsHandler.GetBandDistribution)

		v1.GET("/towers", towersHandler.GetTowers)
		v1.GET("/towers/:id", towersHandler.GetTower)
		v1.GET("/providers", providersHandler.GetProviders)
		v1.GET("/providers/:id", providersHandler.GetProvider)
		v1.GET("/cells", cellsHandler.GetCells)
		v1.GET("/cells/:id", cellsHandler.GetCell)
		v1.GET("/tower-bands", towerBandsHandler.GetTowerBands)
		v1.GET("/tower-bands/:id", towerBandsHandler.GetTowerBand)

		// Mutations require a valid token.
		authed := v1.Group("", middleware.RequireAuth(authService))
		{
			authed.POST("/towers", towersHandler.CreateTower)
			authed.PATCH("/towers/:id", towersHandler.UpdateTower)
			authed.DELETE("/towers/:id", towersHandler.DeleteTower)
			authed.POST("/providers", providersHandler.CreateProvider)
			authed.PATCH("/providers/:id", providersHandler.UpdateProvider)
			authed.DELETE("/providers/:id", providersHandler.DeleteProvider)
			authed.POST("/cells", cellsHandler.CreateCell)
			authed.PATCH("/cells/:id", cellsHandler.UpdateCell)
			authed.DELETE("/cells/:id", cellsHandler.DeleteCell)
			authed.POST("/tower-bands", towerBandsHandler.CreateTowerBand)
			authed.PATCH("/tower-bands/:id", towerBandsHandler.UpdateTowerBand)
			authed.DELETE("/tower-bands/:id", towerBandsHandler.DeleteTowerBand)
		}
	}

	router.GET("/ws/imports", handlers.ImportsWebSocket(cache, authService))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
