package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// Memory is an in-process Store used for tests and local runs
type Memory struct {
	mu      sync.RWMutex
	entries []entrymodels.Entry
	seq     int
	now     func() time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Create(_ context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := n.Build(uuid.New().String(), m.now())
	e.InternalID = strconv.Itoa(m.seq)
	e.Media = append([]entrymodels.MediaItem{}, e.Media...)
	m.entries = append(m.entries, e)

	out := e
	return &out, nil
}

func (m *Memory) List(_ context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entrymodels.Entry, 0, len(m.entries))
	// walk backwards so that equal timestamps keep newest-inserted first
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if kind != nil && e.Kind != *kind {
			continue
		}
		e.Media = append([]entrymodels.MediaItem{}, e.Media...)
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }
