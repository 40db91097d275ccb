package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.casportfolio/internal/middleware"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// kindParam reads an optional ?kind= filter. ok is false after a 400 was written.
func kindParam(c *gin.Context) (kind *entrymodels.Kind, ok bool) {
	raw := c.Query("kind")
	if raw == "" || raw == "all" {
		return nil, true
	}
	k, err := entrymodels.ParseKind(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind"})
		return nil, false
	}
	return &k, true
}

// ListEntries handles GET /entries
func (h *EntryHandler) ListEntries(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if kind != nil {
		middleware.TagEntry(c, string(*kind), "")
	}

	entries, err := h.store.List(c.Request.Context(), kind)
	if err != nil {
		h.logError(c, err, "failed to list entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, entrymodels.ToDTOs(entries))
}
