package models

import (
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// AdminEntry is an entry row on the admin list page
type AdminEntry struct {
	entrymodels.EntryDTO
	MediaCount int `json:"mediaCount"`
}

type AdminEntriesResponse struct {
	Entries []AdminEntry `json:"entries"`
	Total   int          `json:"total"`
}
