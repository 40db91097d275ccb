package store

import (
	"context"
	"errors"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// ErrNotFound is returned by Delete when no entry has the given id
var ErrNotFound = errors.New("entry not found")

// Store persists entries keyed by their application level id
type Store interface {
	// Create assigns a fresh id and creation time and stores the entry
	Create(ctx context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error)
	// List returns entries newest first, optionally restricted to one kind
	List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error)
	// Delete removes the entry with the given id or returns ErrNotFound
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
