package models

import (
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

type DayBucket struct {
	Day     string                 `json:"day"`
	Entries []entrymodels.EntryDTO `json:"entries"`
}

type StrandCount struct {
	Kind  entrymodels.Kind `json:"kind"`
	Label string           `json:"label"`
	Slug  string           `json:"slug"`
	Count int              `json:"count"`
}

type DashboardResponse struct {
	Counts      []StrandCount          `json:"counts"`
	Total       int                    `json:"total"`
	MonthCount  int                    `json:"monthCount"`
	Streak      int                    `json:"streak"`
	Goal        int                    `json:"goal"`
	GoalPercent int                    `json:"goalPercent"`
	Timeline    []DayBucket            `json:"timeline"`
	Recent      []entrymodels.EntryDTO `json:"recent"`
}

// StrandResponse is one strand's listing page
type StrandResponse struct {
	Kind          entrymodels.Kind       `json:"kind"`
	Label         string                 `json:"label"`
	Slug          string                 `json:"slug"`
	ExpectedMedia entrymodels.MediaKind  `json:"expectedMedia"`
	UsesWeek      bool                   `json:"usesWeek"`
	Entries       []entrymodels.EntryDTO `json:"entries"`
}
