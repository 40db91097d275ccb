package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/media"
	"io.winapps.casportfolio/internal/middleware"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
	uploadmodels "io.winapps.casportfolio/internal/models/upload_media"
)

// MaxUploadFiles bounds one POST /media request
const MaxUploadFiles = 20

type MediaHandler struct {
	uploader media.Uploader
	logger   *zap.SugaredLogger
}

// NewMediaHandler creates a media handler. A nil uploader means the media
// host is not configured and uploads answer 503.
func NewMediaHandler(uploader media.Uploader, logger *zap.SugaredLogger) *MediaHandler {
	return &MediaHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadMedia handles POST /media: multipart "kind" plus one or more "file" parts
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media uploads are not configured"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	kind, err := entrymodels.ParseMediaKind(firstValue(form, "kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media kind"})
		return
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}
	if len(headers) > MaxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many files"})
		return
	}

	middleware.TagMedia(c, len(headers))

	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.logError(c, err, "failed to open uploaded file", "file", fh.Filename)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
			return
		}
		defer f.Close()
		files = append(files, media.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	items, err := media.UploadBatch(c.Request.Context(), h.uploader, kind, files)
	if err != nil {
		fields := []interface{}{"media_kind", kind, "files", len(files)}
		var upErr *media.UploadError
		if errors.As(err, &upErr) {
			fields = append(fields, "upstream_status", upErr.Status, "upstream_body", upErr.Body)
		}
		h.logError(c, err, "media upload failed", fields...)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Media upload failed"})
		return
	}

	c.JSON(http.StatusOK, uploadmodels.UploadMediaResponse{Media: items})
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
