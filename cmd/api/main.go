package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/auth"
	"io.winapps.casportfolio/internal/config"
	"io.winapps.casportfolio/internal/db"
	firebaseutil "io.winapps.casportfolio/internal/firebase"
	"io.winapps.casportfolio/internal/jobs"
	"io.winapps.casportfolio/internal/logging"
	"io.winapps.casportfolio/internal/media"
	"io.winapps.casportfolio/internal/server"
	"io.winapps.casportfolio/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()

	entries, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize store", "driver", cfg.StoreDriver, "error", err)
	}
	defer func() {
		if err := entries.Close(context.Background()); err != nil {
			logger.Warnw("Failed to close store", "error", err)
		}
	}()

	// Leave the interface nil when uploads are off so the handler answers 503
	var uploader media.Uploader
	if cfg.MediaConfigured() {
		uploader = media.NewClient(media.Config{
			BaseURL:      cfg.MediaUploadBaseURL,
			CloudName:    cfg.MediaCloudName,
			UploadPreset: cfg.MediaUploadPreset,
			Timeout:      cfg.MediaTimeout,
		}, logger)
	} else {
		logger.Warnw("Media host not configured, uploads are disabled")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warnw("SESSION_SECRET not set, deriving the signing key from the admin credential")
		if cfg.AdminPasswordHash != "" {
			secret = auth.DeriveSecret(cfg.AdminPasswordHash)
		} else {
			secret = auth.DeriveSecret(cfg.AdminPassword)
		}
	}
	sessions, err := auth.NewSessionManager(secret, auth.SessionTTL)
	if err != nil {
		logger.Fatalw("Failed to initialize sessions", "error", err)
	}

	loc, err := time.LoadLocation(cfg.DashboardTZ)
	if err != nil {
		logger.Fatalw("Invalid dashboard time zone", "tz", cfg.DashboardTZ, "error", err)
	}

	if !cfg.AdminAPIGuard {
		logger.Warnw("ADMIN_API_GUARD is off, admin routes accept unauthenticated requests")
	}

	router, err := server.NewRouter(server.Deps{
		Store:        entries,
		Uploader:     uploader,
		Passwords:    auth.NewPasswordChecker(cfg.AdminPassword, cfg.AdminPasswordHash),
		Sessions:     sessions,
		SecureCookie: cfg.CookieSecure,
		AdminGuard:   cfg.AdminAPIGuard,
		MonthlyGoal:  cfg.MonthlyGoal,
		Location:     loc,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatalw("Failed to build router", "error", err)
	}

	scheduler, err := jobs.NewScheduler(entries, jobs.Config{
		SummarySpec:   cfg.SummaryCron,
		CacheWarmSpec: cfg.CacheWarmCron,
		WarmCache:     cfg.RedisURL != "",
		Location:      loc,
		Goal:          cfg.MonthlyGoal,
	}, logger)
	if err != nil {
		logger.Fatalw("Failed to schedule jobs", "error", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// uploads of several audio files can take a while
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Infow("Server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}

// openStore connects the configured backend and, with REDIS_URL set, puts
// the list cache in front of it
func openStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (store.Store, error) {
	var s store.Store

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, cerr := db.InitMongo(ctx, cfg.MongoURI)
		if cerr != nil {
			return nil, cerr
		}
		m, merr := store.OpenMongo(ctx, client, cfg.MongoDB)
		if merr != nil {
			return nil, merr
		}
		s = m
	case config.DriverPostgres:
		pool, perr := db.InitPostgres(ctx, cfg.PostgresURL())
		if perr != nil {
			return nil, perr
		}
		s = store.NewPostgres(pool)
	case config.DriverFirestore:
		app, ferr := firebaseutil.InitFirebase(ctx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccountPath)
		if ferr != nil {
			return nil, ferr
		}
		client, ferr := firebaseutil.GetFirestoreClient(ctx, app)
		if ferr != nil {
			return nil, ferr
		}
		s = store.NewFirestore(client)
	case config.DriverMemory:
		logger.Warnw("Using the in-memory store, entries are lost on restart")
		s = store.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.RedisURL == "" {
		return s, nil
	}
	redisClient, err := db.InitRedis(ctx, cfg.RedisURL)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	logger.Infow("List cache enabled", "ttl", cfg.CacheTTL)
	return store.NewCached(s, redisClient, cfg.CacheTTL, logger), nil
}
