package models

import (
	"fmt"
	"time"
)

// Kind is the strand an entry belongs to
type Kind string

const (
	KindCreativity   Kind = "creativity"
	KindActivity     Kind = "activity"
	KindService      Kind = "service"
	KindConversation Kind = "conversation"
)

// Kinds lists every strand in display order
var Kinds = []Kind{KindCreativity, KindActivity, KindService, KindConversation}

// MediaKind is the type of an attached media item
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// ParseKind converts a raw string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCreativity, KindActivity, KindService, KindConversation:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown entry kind %q", s)
}

// ParseMediaKind converts a raw string into a MediaKind
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case MediaImage, MediaAudio:
		return MediaKind(s), nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// ParseSlug resolves a strand listing route segment back to its Kind
func ParseSlug(slug string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Slug() == slug {
			return k, true
		}
	}
	return "", false
}

// ExpectedMedia is the media kind the admin form offers for this strand.
// It is a UI convention and is never enforced on create.
func (k Kind) ExpectedMedia() MediaKind {
	switch k {
	case KindCreativity, KindActivity, KindService:
		return MediaImage
	case KindConversation:
		return MediaAudio
	}
	panic(fmt.Sprintf("unhandled entry kind %q", string(k)))
}

// Slug is the listing route segment for the strand
func (k Kind) Slug() string {
	switch k {
	case KindCreativity:
		return "creativity"
	case KindActivity:
		return "activity"
	case KindService:
		return "service"
	case KindConversation:
		return "conversations"
	}
	panic(fmt.Sprintf("unhandled entry kind %q", string(k)))
}

// Label is the human readable strand name
func (k Kind) Label() string {
	switch k {
	case KindCreativity:
		return "Creativity"
	case KindActivity:
		return "Activity"
	case KindService:
		return "Service"
	case KindConversation:
		return "CAS Conversation"
	}
	panic(fmt.Sprintf("unhandled entry kind %q", string(k)))
}

// UsesWeek reports whether the week number is meaningful for the strand
func (k Kind) UsesWeek() bool {
	switch k {
	case KindCreativity, KindActivity, KindService:
		return true
	case KindConversation:
		return false
	}
	panic(fmt.Sprintf("unhandled entry kind %q", string(k)))
}

type MediaItem struct {
	Kind MediaKind `json:"kind" bson:"kind" firestore:"kind"`
	Name string    `json:"name" bson:"name" firestore:"name"`
	URL  string    `json:"url" bson:"url" firestore:"url"`
}

// Entry is the stored record. InternalID is the backend's own identifier
// and never leaves the server.
type Entry struct {
	InternalID  string      `json:"-"`
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Week        *int        `json:"week"`
	CreatedAt   time.Time   `json:"createdAt"`
	EntryDate   *time.Time  `json:"entryDate,omitempty"`
	Media       []MediaItem `json:"media"`
}

// NewEntry carries the caller supplied fields of an entry about to be created
type NewEntry struct {
	Kind        Kind
	Title       string
	Description string
	Week        *int
	EntryDate   *time.Time
	Media       []MediaItem
}

// EffectiveDate is the entry date when set, otherwise the creation time
func (e Entry) EffectiveDate() time.Time {
	if e.EntryDate != nil {
		return *e.EntryDate
	}
	return e.CreatedAt
}

// Build stamps the server owned fields onto a new entry
func (n NewEntry) Build(id string, now time.Time) Entry {
	media := n.Media
	if media == nil {
		media = []MediaItem{}
	}
	var entryDate *time.Time
	if n.EntryDate != nil {
		d := n.EntryDate.UTC().Truncate(time.Millisecond)
		entryDate = &d
	}
	return Entry{
		ID:          id,
		Kind:        n.Kind,
		Title:       n.Title,
		Description: n.Description,
		Week:        n.Week,
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
		EntryDate:   entryDate,
		Media:       media,
	}
}
