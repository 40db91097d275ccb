package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/metrics"
	"io.winapps.casportfolio/internal/middleware"
	createmodels "io.winapps.casportfolio/internal/models/create_entry"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	"io.winapps.casportfolio/internal/store"
)

type EntryHandler struct {
	store store.Store
	// bare entry dates are midnight here
	loc    *time.Location
	logger *zap.SugaredLogger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(s store.Store, loc *time.Location, logger *zap.SugaredLogger) *EntryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &EntryHandler{
		store:  s,
		loc:    loc,
		logger: logger,
	}
}

// CreateEntry handles POST /entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req createmodels.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	newEntry, err := newEntryFromRequest(req, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.TagEntry(c, string(newEntry.Kind), "")
	middleware.TagMedia(c, len(newEntry.Media))

	saved, err := h.store.Create(c.Request.Context(), newEntry)
	if err != nil {
		h.logError(c, err, "failed to create entry", "kind", newEntry.Kind)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}
	metrics.EntriesCreated.WithLabelValues(string(saved.Kind)).Inc()
	middleware.TagEntry(c, "", saved.ID)

	c.JSON(http.StatusCreated, entrymodels.ToDTO(*saved))
}

// badRequest is an error whose text is shown to the client as is
type badRequest string

func (b badRequest) Error() string { return string(b) }

// newEntryFromRequest converts a bound request. Binding already checked the
// enumerations, so parse failures here only come from entryDate.
func newEntryFromRequest(req createmodels.CreateEntryRequest, loc *time.Location) (entrymodels.NewEntry, error) {
	kind, err := entrymodels.ParseKind(req.Kind)
	if err != nil {
		return entrymodels.NewEntry{}, badRequest("Invalid kind")
	}

	media := make([]entrymodels.MediaItem, 0, len(req.Media))
	for _, m := range req.Media {
		mk, err := entrymodels.ParseMediaKind(m.Kind)
		if err != nil {
			return entrymodels.NewEntry{}, badRequest("Invalid media kind")
		}
		media = append(media, entrymodels.MediaItem{Kind: mk, Name: m.Name, URL: m.URL})
	}

	var entryDate *time.Time
	if s := strings.TrimSpace(req.EntryDate); s != "" {
		d, err := entrymodels.ParseTimeIn(s, loc)
		if err != nil {
			return entrymodels.NewEntry{}, badRequest("Invalid entryDate, expected YYYY-MM-DD or an ISO timestamp")
		}
		entryDate = &d
	}

	return entrymodels.NewEntry{
		Kind:        kind,
		Title:       req.Title,
		Description: req.Description,
		Week:        req.Week,
		EntryDate:   entryDate,
		Media:       media,
	}, nil
}
