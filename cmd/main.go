package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantrypilot/internal/api"
	"pantrypilot/internal/config"
	"pantrypilot/internal/database"
	"pantrypilot/internal/inventory"
	"pantrypilot/internal/models"
	"pantrypilot/internal/monitoring"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/scoring"
	"pantrypilot/internal/shopping"
	"pantrypilot/internal/travel"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedDefaultData(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	metrics := monitoring.NewCollector()

	var provider travel.Provider
	if cfg.Routing.BaseURL != "" {
		provider = travel.NewHTTPProvider(cfg.Routing.BaseURL, cfg.Routing.Timeout.Std())
	}
	cache := travel.NewTTLCache(cfg.Travel.CacheTTL.Std(), nil)
	estimator := travel.NewEstimator(provider, cache).WithMetrics(metrics)

	home := models.Coordinates{Lat: cfg.Home.Lat, Lng: cfg.Home.Lng}
	inventoryStore := inventory.NewStore(db)
	catalog := planner.NewCatalogStore(db)
	engine := scoring.NewEngine()
	mealPlanner := planner.NewPlanner(catalog, inventoryStore, engine)
	plans := planner.NewPlanRepository(db)
	storeRepo := shopping.NewStoreRepository(db)
	optimizer := shopping.NewOptimizer(estimator, home)

	server := api.NewServer(inventoryStore, catalog, mealPlanner, plans, storeRepo, optimizer, estimator, metrics)

	if cfg.Metrics.Enabled {
		go startMetricsServer(*metricsPort, cfg.Metrics.Path, metrics)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", *port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, path string, metrics *monitoring.Collector) {
	metricsRouter := gin.Default()
	metricsRouter.GET(path, gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
