package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
)

// Memory is an in-process Store with the same lookup and filter semantics as
// the PostgreSQL implementation. Used by tests.
type Memory struct {
	mu      sync.RWMutex
	records []events.Event

	// InsertErr, when set, makes Insert fail. Lets tests exercise the
	// persistence-failure path.
	InsertErr error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Insert(ctx context.Context, e *events.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	stored := *e
	stored.ID = uuid.NewString()
	m.records = append(m.records, stored)
	return stored.ID, nil
}

func (m *Memory) Find(ctx context.Context, f events.Filter) ([]events.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]events.Event, 0)
	for _, e := range m.records {
		if containsFold(e.Date, f.Date) &&
			containsFold(e.Location, f.Location) &&
			containsFold(e.Theme, f.Theme) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func (m *Memory) FindByID(ctx context.Context, id string) (*events.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrInvalidEventID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.records {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// containsFold reports whether value contains pattern case-insensitively.
// An empty pattern matches everything.
func containsFold(value, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}
