package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"io.winapps.casportfolio/internal/dashboard"
	adminmodels "io.winapps.casportfolio/internal/models/admin_entries"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// AdminEntries handles GET /admin/entries?kind=&q=
func (h *EntryHandler) AdminEntries(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	entries, err := h.store.List(c.Request.Context(), kind)
	if err != nil {
		h.logError(c, err, "failed to list admin entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	filtered := dashboard.Filter{Kind: kind, Query: c.Query("q")}.Apply(entries)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	resp := adminmodels.AdminEntriesResponse{
		Entries: make([]adminmodels.AdminEntry, 0, len(filtered)),
		Total:   len(entries),
	}
	for _, e := range filtered {
		resp.Entries = append(resp.Entries, adminmodels.AdminEntry{
			EntryDTO:   entrymodels.ToDTO(e),
			MediaCount: len(e.Media),
		})
	}
	c.JSON(http.StatusOK, resp)
}
