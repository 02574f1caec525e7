package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-away-stress/cache"
	"go-away-stress/collector"
	"go-away-stress/config"
	_ "go-away-stress/docs" // Swagger docs
	"go-away-stress/handler"
	appLogger "go-away-stress/logger"
	"go-away-stress/middleware"
	"go-away-stress/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// @title Go Away Stress Collector API
// @version 1.0
// @description Collects stress survey responses as append-only rows and serves aggregate statistics.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Collector
// @tag.description Appending responses, statistics and the handshake bridge

// @tag.name Survey
// @tag.description Sharing the survey page

// @tag.name System
// @tag.description Health checks and cache metrics

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	appLogger.Initialize(cfg.Log.Level)
	log.Info().Msg("Configuration loaded successfully")

	// Open the row store
	rows, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open row store")
	}
	log.Info().Str("driver", rows.Name()).Msg("Row store ready")

	c := collector.New(rows, collector.Options{
		EtcPrefix: cfg.Collector.EtcPrefix,
		OtherTag:  cfg.Collector.OtherTag,
	})

	// Initialize cache (if enabled). It holds the per-client rate limiters.
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Cache disabled in configuration, rate limiting off")
	}

	collectorHandler := handler.NewCollectorHandler(c, cacheClient, cfg)

	// Set up router
	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	if cacheClient != nil {
		rateLimiter := middleware.NewRateLimiter(cacheClient, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		r.Use(rateLimiter.Limit)
	}

	collectorHandler.Register(r)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting collector")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if cacheClient != nil {
		cacheClient.Close()
	}

	if err := rows.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close row store")
	}

	log.Info().Msg("Server stopped gracefully")
}
