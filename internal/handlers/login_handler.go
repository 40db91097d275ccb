package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/auth"
	"io.winapps.casportfolio/internal/metrics"
	loginmodels "io.winapps.casportfolio/internal/models/login"
)

type AuthHandler struct {
	passwords    *auth.PasswordChecker
	sessions     *auth.SessionManager
	secureCookie bool
	logger       *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(passwords *auth.PasswordChecker, sessions *auth.SessionManager, secureCookie bool, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		passwords:    passwords,
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login handles POST /auth
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginmodels.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	if err := h.passwords.Check(req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			h.logError(c, err, "password check failed")
		} else if h.logger != nil {
			logWithContext(h.logger, c, "warn", "rejected admin login")
		}
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, loginmodels.LoginResponse{Success: false})
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		h.logError(c, err, "failed to issue admin session")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	if h.logger != nil {
		logWithContext(h.logger, c, "info", "admin logged in")
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	c.JSON(http.StatusOK, loginmodels.LoginResponse{Success: true})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil {
		c.JSON(http.StatusOK, loginmodels.SessionResponse{Authenticated: false})
		return
	}
	_, err = h.sessions.Validate(token)
	c.JSON(http.StatusOK, loginmodels.SessionResponse{Authenticated: err == nil})
}
