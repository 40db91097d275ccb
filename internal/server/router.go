// Package server assembles the gin engine: middleware, handlers and routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/auth"
	"io.winapps.casportfolio/internal/handlers"
	"io.winapps.casportfolio/internal/media"
	"io.winapps.casportfolio/internal/middleware"
	"io.winapps.casportfolio/internal/store"
)

// Deps are the collaborators the routes are built from
type Deps struct {
	Store store.Store
	// Uploader is nil when the media host is not configured
	Uploader     media.Uploader
	Passwords    *auth.PasswordChecker
	Sessions     *auth.SessionManager
	SecureCookie bool
	// AdminGuard gates create, delete, upload and the admin list behind the session cookie
	AdminGuard  bool
	MonthlyGoal int
	Location    *time.Location
	Logger      *zap.SugaredLogger
}

// NewRouter builds the HTTP handler for the API
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(d.Logger),
		middleware.RequestLoggingMiddleware(d.Logger),
		middleware.MetricsMiddleware(),
	)

	// CORS for the portfolio front end
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	entryHandler := handlers.NewEntryHandler(d.Store, d.Location, d.Logger)
	authHandler := handlers.NewAuthHandler(d.Passwords, d.Sessions, d.SecureCookie, d.Logger)
	mediaHandler := handlers.NewMediaHandler(d.Uploader, d.Logger)
	dashboardHandler := handlers.NewDashboardHandler(d.Store, d.MonthlyGoal, d.Location, d.Logger)

	admin := []gin.HandlerFunc{}
	if d.AdminGuard {
		admin = append(admin, middleware.AdminSession(d.Sessions, d.Logger))
	}
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), h)
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("", authHandler.Login)
		authGroup.GET("/session", authHandler.Session)
	}

	entries := router.Group("/entries")
	{
		entries.GET("", entryHandler.ListEntries)
		entries.POST("", guarded(entryHandler.CreateEntry)...)
		entries.DELETE("/:id", guarded(entryHandler.DeleteEntry)...)
	}

	router.POST("/media", guarded(mediaHandler.UploadMedia)...)
	router.GET("/admin/entries", guarded(entryHandler.AdminEntries)...)

	router.GET("/dashboard", dashboardHandler.Dashboard)
	router.GET("/strands/:slug", dashboardHandler.Strand)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warnw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}
