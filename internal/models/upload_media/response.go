package models

import (
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

type UploadMediaResponse struct {
	Media []entrymodels.MediaItem `json:"media"`
}
