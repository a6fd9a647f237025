package main

import (
	"chatlens/internal/cache"
	"chatlens/internal/chart"
	"chatlens/internal/config"
	"chatlens/internal/logger"
	"chatlens/internal/repository"
	"chatlens/internal/service"
	"chatlens/internal/transport/rest"
	"chatlens/internal/transport/rest/middleware"
	"chatlens/internal/transport/ws"
	"chatlens/internal/view"
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Chatlens
// @version 1.0
// @description Uploads a WhatsApp chat export to the analytics backend and renders the results
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.MustLoad()
	logger.Initialize(cfg.Log.Level, cfg.Log.Pretty)
	ctx := context.Background()

	log.Info().
		Str("analyzer", cfg.Analyzer.Endpoint()).
		Dur("analyzer_timeout", cfg.Analyzer.Timeout()).
		Bool("redis", cfg.Redis.Enabled).
		Bool("mongo", cfg.Mongo.Enabled).
		Msg("Configuration loaded")
	if cfg.Session.Secret == "change-me" {
		log.Warn().Msg("CHATLENS_SESSION_SECRET not set, using default")
	}

	// Result store
	var store cache.ResultStore
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     strings.TrimPrefix(cfg.Redis.Address, "redis://"),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping Redis")
		}
		log.Info().Str("address", cfg.Redis.Address).Msg("Connected to Redis")
		store = cache.NewResultCache(rdb, cfg.SessionTTL())
	} else {
		local, err := cache.NewLocalResultCache(cfg.Cache.MaxEntries, cfg.SessionTTL())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize result cache")
		}
		store = local
	}

	// Upload audit log
	uploadRepo := repository.NewNoopUploadRepo()
	if cfg.Mongo.Enabled {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to ping MongoDB")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")
		uploadRepo = repository.NewUploadRepo(mongoClient.Database(cfg.Mongo.Database))
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page template")
	}

	// Initialize services
	sessionSvc := service.NewSessionService(cfg.Session.Secret, cfg.SessionTTL())
	uploadSvc := service.NewUploadService(service.NewAnalyzerClient(cfg.Analyzer), store, uploadRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	uploadSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		SessionService: sessionSvc,
		UploadService:  uploadSvc,
		Renderer:       renderer,
		Projector:      chart.NewProjector(),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		WSHub:          wsHub,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		SecureCookie:   cfg.Session.SecureCookie,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      rest.NewRouter(container),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		log.Info().Msg("Endpoints: GET /, POST /analyze, GET /export/json, GET /export/csv, GET /v1/results/latest, GET /v1/uploads, WS /v1/ws/status")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
