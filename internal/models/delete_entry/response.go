package models

type DeleteEntryResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
