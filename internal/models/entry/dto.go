package models

import (
	"fmt"
	"time"
)

// TimeLayout is the ISO-8601 form used on the wire (millisecond precision, UTC)
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the calendar-date form accepted for entryDate on create
const DateLayout = "2006-01-02"

// EntryDTO is the JSON shape of an entry over HTTP
type EntryDTO struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Week        *int        `json:"week"`
	CreatedAt   string      `json:"createdAt"`
	EntryDate   string      `json:"entryDate,omitempty"`
	Media       []MediaItem `json:"media"`
}

// FormatTime renders a timestamp in the wire layout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts RFC 3339 timestamps (with or without fractional seconds)
// and bare calendar dates, which are taken as UTC midnight.
func ParseTime(s string) (time.Time, error) {
	return ParseTimeIn(s, time.UTC)
}

// ParseTimeIn is ParseTime with bare dates taken as midnight in loc
func ParseTimeIn(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ToDTO converts a stored record into its wire form
func ToDTO(e Entry) EntryDTO {
	media := e.Media
	if media == nil {
		media = []MediaItem{}
	}
	dto := EntryDTO{
		ID:          e.ID,
		Kind:        e.Kind,
		Title:       e.Title,
		Description: e.Description,
		Week:        e.Week,
		CreatedAt:   FormatTime(e.CreatedAt),
		Media:       media,
	}
	if e.EntryDate != nil {
		dto.EntryDate = FormatTime(*e.EntryDate)
	}
	return dto
}

// ToDTOs converts a list of records, never returning nil
func ToDTOs(entries []Entry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToDTO(e))
	}
	return out
}

// FromDTO converts a wire entry back into a record. The internal id is left
// empty because it never crosses the boundary.
func FromDTO(dto EntryDTO) (Entry, error) {
	kind, err := ParseKind(string(dto.Kind))
	if err != nil {
		return Entry{}, err
	}
	createdAt, err := ParseTime(dto.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("createdAt: %w", err)
	}
	e := Entry{
		ID:          dto.ID,
		Kind:        kind,
		Title:       dto.Title,
		Description: dto.Description,
		Week:        dto.Week,
		CreatedAt:   createdAt,
		Media:       dto.Media,
	}
	if e.Media == nil {
		e.Media = []MediaItem{}
	}
	if dto.EntryDate != "" {
		d, err := ParseTime(dto.EntryDate)
		if err != nil {
			return Entry{}, fmt.Errorf("entryDate: %w", err)
		}
		e.EntryDate = &d
	}
	return e, nil
}
