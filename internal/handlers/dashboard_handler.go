package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/dashboard"
	"io.winapps.casportfolio/internal/middleware"
	dashboardmodels "io.winapps.casportfolio/internal/models/dashboard"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	"io.winapps.casportfolio/internal/store"
)

type DashboardHandler struct {
	store       store.Store
	defaultGoal int
	defaultLoc  *time.Location
	now         func() time.Time
	logger      *zap.SugaredLogger
}

// NewDashboardHandler creates the dashboard and strand page handler
func NewDashboardHandler(s store.Store, defaultGoal int, defaultLoc *time.Location, logger *zap.SugaredLogger) *DashboardHandler {
	if defaultLoc == nil {
		defaultLoc = time.Local
	}
	return &DashboardHandler{
		store:       s,
		defaultGoal: defaultGoal,
		defaultLoc:  defaultLoc,
		now:         time.Now,
		logger:      logger,
	}
}

// Dashboard handles GET /dashboard?kind=&q=&goal=&tz=
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	goal := h.defaultGoal
	if raw := c.Query("goal"); raw != "" {
		g, err := strconv.Atoi(raw)
		if err != nil || g < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal"})
			return
		}
		goal = g
	}

	loc := h.defaultLoc
	if raw := c.Query("tz"); raw != "" {
		l, err := time.LoadLocation(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tz"})
			return
		}
		loc = l
	}

	entries, err := h.store.List(c.Request.Context(), nil)
	if err != nil {
		h.logError(c, err, "failed to list entries for dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	summary := dashboard.Summarize(entries, h.now(), loc, dashboard.Filter{Kind: kind, Query: c.Query("q")}, goal)
	c.JSON(http.StatusOK, toDashboardResponse(summary))
}

func toDashboardResponse(s dashboard.Summary) dashboardmodels.DashboardResponse {
	resp := dashboardmodels.DashboardResponse{
		Counts:      make([]dashboardmodels.StrandCount, 0, len(entrymodels.Kinds)),
		Total:       s.Total,
		MonthCount:  s.MonthCount,
		Streak:      s.Streak,
		Goal:        s.Goal,
		GoalPercent: s.GoalPercent,
		Timeline:    make([]dashboardmodels.DayBucket, 0, len(s.Timeline)),
		Recent:      entrymodels.ToDTOs(s.Recent),
	}
	for _, k := range entrymodels.Kinds {
		resp.Counts = append(resp.Counts, dashboardmodels.StrandCount{
			Kind:  k,
			Label: k.Label(),
			Slug:  k.Slug(),
			Count: s.Counts[k],
		})
	}
	for _, b := range s.Timeline {
		resp.Timeline = append(resp.Timeline, dashboardmodels.DayBucket{
			Day:     b.Day,
			Entries: entrymodels.ToDTOs(b.Entries),
		})
	}
	return resp
}

// Strand handles GET /strands/:slug. Media is narrowed to what the strand's
// page shows: images for the first three strands, audio for conversations.
func (h *DashboardHandler) Strand(c *gin.Context) {
	kind, ok := entrymodels.ParseSlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	middleware.TagEntry(c, string(kind), "")

	entries, err := h.store.List(c.Request.Context(), &kind)
	if err != nil {
		h.logError(c, err, "failed to list strand entries", "kind", kind)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	expected := kind.ExpectedMedia()
	dtos := make([]entrymodels.EntryDTO, 0, len(entries))
	for _, e := range entries {
		narrowed := make([]entrymodels.MediaItem, 0, len(e.Media))
		for _, m := range e.Media {
			if m.Kind == expected {
				narrowed = append(narrowed, m)
			}
		}
		e.Media = narrowed
		dtos = append(dtos, entrymodels.ToDTO(e))
	}

	c.JSON(http.StatusOK, dashboardmodels.StrandResponse{
		Kind:          kind,
		Label:         kind.Label(),
		Slug:          kind.Slug(),
		ExpectedMedia: expected,
		UsesWeek:      kind.UsesWeek(),
		Entries:       dtos,
	})
}
