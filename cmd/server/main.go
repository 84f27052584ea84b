package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"carsearch/internal/catalog"
	"carsearch/internal/config"
	"carsearch/internal/handler"
	"carsearch/internal/model"
	"carsearch/internal/repository"
	"carsearch/internal/search"
	"carsearch/internal/service"
	"carsearch/internal/session"
	"carsearch/internal/weights"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Car Search Core")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog: either a JSON feed file with optional hot reload, or a
	// wholesale load from PostgreSQL.
	store := catalog.NewStore(nil)
	var repo *repository.PostgresRepository
	var watcher *catalog.Watcher

	switch cfg.Catalog.Source {
	case "postgres":
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
		log.Println("✅ Connected to PostgreSQL database")

		listings, err := repo.LoadCatalog(ctx)
		if err != nil {
			log.Fatalf("Failed to load catalog from database: %v", err)
		}
		snap, err := catalog.FromListings(listings, fmt.Sprintf("pg-%d", time.Now().Unix()))
		if err != nil {
			log.Fatalf("Failed to build catalog snapshot: %v", err)
		}
		store.Replace(snap)
		log.Printf("✅ Catalog loaded from database: %d listings", len(snap.Listings))

	default:
		snap, err := catalog.LoadFile(cfg.Catalog.DataFile)
		if err != nil {
			log.Fatalf("Failed to load catalog file: %v", err)
		}
		store.Replace(snap)
		log.Printf("✅ Catalog loaded from %s: version=%s listings=%d", cfg.Catalog.DataFile, snap.Version, len(snap.Listings))

		if cfg.Catalog.Watch {
			watcher, err = catalog.NewWatcher(cfg.Catalog.DataFile, store)
			if err != nil {
				log.Fatalf("Failed to watch catalog file: %v", err)
			}
			log.Println("✅ Catalog hot reload enabled")
		}
	}

	// Optional trained weight bundle; scoring falls back to built-in
	// defaults without one.
	var bundle *model.WeightBundle
	if cfg.Search.WeightsFile != "" {
		bundle, err = weights.Load(cfg.Search.WeightsFile)
		if err != nil {
			log.Fatalf("Failed to load weights: %v", err)
		}
		log.Printf("✅ Weight bundle loaded: %d terms", len(bundle.Vocab))
	} else {
		log.Println("⚠️  No weight bundle configured - text scoring is disabled")
	}

	policy := search.DefaultPolicy()
	if cfg.Search.RelaxPolicyFile != "" {
		policy, err = search.LoadPolicy(cfg.Search.RelaxPolicyFile)
		if err != nil {
			log.Fatalf("Failed to load relaxation policy: %v", err)
		}
		log.Printf("✅ Relaxation policy loaded: %v", policy.Order)
	}

	ranker := search.NewRanker(bundle)
	sessions := session.NewMemoryStore(cfg.Session.TTL)
	searchService := service.NewSearchService(
		store, ranker, policy, sessions, repo,
		cfg.Search.DefaultTopK, cfg.Search.MaxTopK,
	)

	log.Println("✅ Services initialized")

	searchHandler := handler.NewSearchHandler(searchService)
	dataFile := ""
	if cfg.Catalog.Source == "file" {
		dataFile = cfg.Catalog.DataFile
	}
	adminHandler := handler.NewAdminHandler(searchService, store, dataFile, bundle)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "car-search-core",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/listings/:carNo", searchHandler.GetListing)
		apiV1.GET("/listings/:carNo/maintenance", searchHandler.GetMaintenance)
		apiV1.DELETE("/sessions/:id", searchHandler.ResetSession)

		apiV1.GET("/admin/catalog", adminHandler.CatalogStatus)
		apiV1.POST("/admin/catalog/reload", adminHandler.ReloadCatalog)
		apiV1.POST("/admin/vectors/rebuild", adminHandler.RebuildVectors)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("🚀 Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("✅ Server stopped")
}
