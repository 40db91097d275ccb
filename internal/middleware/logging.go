package middleware

import (
	"bytes"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys handlers use to attach entry details to the request log
const (
	entryKindKey  = "entry_kind"
	entryIDKey    = "entry_id"
	mediaCountKey = "media_count"
)

// TagEntry records which strand and entry a request touched. Empty values are skipped.
func TagEntry(c *gin.Context, kind, id string) {
	if kind != "" {
		c.Set(entryKindKey, kind)
	}
	if id != "" {
		c.Set(entryIDKey, id)
	}
}

// TagMedia records how many media files a request carried
func TagMedia(c *gin.Context, count int) {
	c.Set(mediaCountKey, count)
}

// maxRequestIDLen bounds client supplied ids; longer or non-printable ones are replaced
const maxRequestIDLen = 128

func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestIDMiddleware keeps a sane X-Request-ID from the client or mints one,
// and exposes it as request_id in the context and the response headers
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// maxLoggedBody caps how much of an error response ends up in the log
const maxLoggedBody = 2048

// errorBodyWriter keeps the start of the body, but only for error responses
type errorBodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if w.Status() >= http.StatusBadRequest && w.body.Len() < maxLoggedBody {
		rest := maxLoggedBody - w.body.Len()
		if len(b) < rest {
			rest = len(b)
		}
		w.body.Write(b[:rest])
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorBodyWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// quietPaths are polled constantly and only logged when they fail
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// routeOf is the matched route template, so /entries/:id logs as one route
func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

func requestFields(c *gin.Context) []interface{} {
	fields := []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"route", routeOf(c),
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
	}
	if q := c.Request.URL.RawQuery; q != "" {
		fields = append(fields, "query", q)
	}
	return fields
}

// entryFields are the domain details handlers tagged on the request
func entryFields(c *gin.Context) []interface{} {
	var fields []interface{}
	if v := c.GetString(entryKindKey); v != "" {
		fields = append(fields, entryKindKey, v)
	}
	if v := c.GetString(entryIDKey); v != "" {
		fields = append(fields, entryIDKey, v)
	}
	if v, ok := c.Get(mediaCountKey); ok {
		fields = append(fields, mediaCountKey, v)
	}
	return fields
}

// RequestLoggingMiddleware logs every finished request with its route, the
// admin marker and any entry details; error bodies are included for 4xx/5xx
func RequestLoggingMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		w := &errorBodyWriter{ResponseWriter: c.Writer}
		c.Writer = w

		logger.Debugw("request started", append(requestFields(c), "user_agent", c.Request.UserAgent())...)

		c.Next()

		status := w.Status()
		fields := append(requestFields(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", w.Size(),
			"admin", c.GetString("admin") != "",
		)
		fields = append(fields, entryFields(c)...)

		switch {
		case status >= http.StatusInternalServerError:
			logger.Errorw("request completed with server error", append(fields, "response", w.body.String())...)
		case status >= http.StatusBadRequest:
			logger.Warnw("request completed with client error", append(fields, "response", w.body.String())...)
		case quietPaths[c.Request.URL.Path]:
		default:
			logger.Infow("request completed", fields...)
		}
	}
}

// RecoveryMiddleware converts panics to 500 responses and logs stack traces with context
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := append(requestFields(c), "panic", r, "stack", string(debug.Stack()))
				logger.Errorw("panic recovered", append(fields, entryFields(c)...)...)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString("request_id"),
				})
			}
		}()
		c.Next()
	}
}
