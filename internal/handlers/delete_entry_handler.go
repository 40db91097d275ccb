package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.casportfolio/internal/metrics"
	"io.winapps.casportfolio/internal/middleware"
	deletemodels "io.winapps.casportfolio/internal/models/delete_entry"
	"io.winapps.casportfolio/internal/store"
)

// DeleteEntry handles DELETE /entries/:id, keyed by the public id
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	middleware.TagEntry(c, "", id)

	err := h.store.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, deletemodels.DeleteEntryResponse{OK: false, Error: "Not found"})
		return
	case err != nil:
		h.logError(c, err, "failed to delete entry", "entry_id", id)
		c.JSON(http.StatusInternalServerError, deletemodels.DeleteEntryResponse{OK: false, Error: "Server error"})
		return
	}
	metrics.EntriesDeleted.Inc()

	c.JSON(http.StatusOK, deletemodels.DeleteEntryResponse{OK: true})
}
