// Package media uploads files to the external media host and turns the
// returned URLs into entry media items.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/metrics"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// ErrHostUnavailable is returned while the circuit breaker refuses calls
var ErrHostUnavailable = errors.New("media host unavailable")

// UploadError is a non-2xx answer from the media host
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media host returned status %d", e.Status)
}

// File is one upload. Body is read once.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader stores a file on the media host and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, f File, kind entrymodels.MediaKind) (string, error)
}

// ResourceType maps a media kind to the host's upload resource type.
// The host files audio under its video resource type.
func ResourceType(kind entrymodels.MediaKind) string {
	switch kind {
	case entrymodels.MediaImage:
		return "image"
	case entrymodels.MediaAudio:
		return "video"
	}
	panic(fmt.Sprintf("unhandled media kind %q", string(kind)))
}

type Config struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
	Timeout      time.Duration

	// Consecutive host failures before the breaker opens (default 5)
	MaxFailures uint32
	// How long the breaker stays open before probing again (default 30s)
	OpenTimeout time.Duration
}

// Client talks to the media host's unsigned upload endpoint
type Client struct {
	cfg    Config
	http   *http.Client
	cb     *gobreaker.CircuitBreaker[string]
	logger *zap.SugaredLogger
}

const breakerName = "media-host"

// NewClient creates a media host client guarded by a circuit breaker
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	metrics.MediaBreakerState.Set(0)

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Rejections of the request itself say nothing about host health
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var upErr *UploadError
			if errors.As(err, &upErr) {
				return upErr.Status < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("media breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.MediaBreakerState.Set(stateToFloat(to))
		},
	})
	return c
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Upload sends one file to the host
func (c *Client) Upload(ctx context.Context, f File, kind entrymodels.MediaKind) (string, error) {
	resourceType := ResourceType(kind)
	start := time.Now()

	url, err := c.cb.Execute(func() (string, error) {
		return c.post(ctx, f, resourceType)
	})
	metrics.MediaUploadDuration.WithLabelValues(resourceType).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.MediaUploads.WithLabelValues(resourceType, "rejected").Inc()
			return "", fmt.Errorf("%w: %v", ErrHostUnavailable, err)
		}
		metrics.MediaUploads.WithLabelValues(resourceType, "failure").Inc()
		return "", err
	}
	metrics.MediaUploads.WithLabelValues(resourceType, "success").Inc()
	return url, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (c *Client) post(ctx context.Context, f File, resourceType string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	part, err := CreateFilePart(w, "file", f)
	if err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.cfg.BaseURL, c.cfg.CloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read media host response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{Status: resp.StatusCode, Body: string(body)}
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode media host response: %w", err)
	}
	if out.SecureURL == "" {
		return "", errors.New("media host response has no secure_url")
	}
	return out.SecureURL, nil
}
