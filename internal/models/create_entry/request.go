package models

type MediaItemRequest struct {
	Kind string `json:"kind" binding:"required,mediakind"`
	Name string `json:"name"`
	URL  string `json:"url" binding:"required"`
}

// CreateEntryRequest is the body of POST /entries. EntryDate takes a
// calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
type CreateEntryRequest struct {
	Kind        string             `json:"kind" binding:"required,notblank,entrykind"`
	Title       string             `json:"title" binding:"required,notblank"`
	Description string             `json:"description" binding:"required,notblank"`
	Week        *int               `json:"week" binding:"omitempty,min=0"`
	EntryDate   string             `json:"entryDate"`
	Media       []MediaItemRequest `json:"media" binding:"omitempty,dive"`
}
