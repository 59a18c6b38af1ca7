package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
)

func seed(t *testing.T, m *Memory, date, location, theme string) string {
	t.Helper()
	id, err := m.Insert(t.Context(), &events.Event{
		Date:     date,
		Location: location,
		Theme:    theme,
		Sources:  []map[string]any{{"type": "Wikipedia"}},
		People:   []map[string]any{},
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return id
}

func TestMemoryInsertAssignsUniqueIDs(t *testing.T) {
	m := NewMemory()
	a := seed(t, m, "1969", "Global", "General")
	b := seed(t, m, "1969", "Global", "General")

	if a == b {
		t.Fatalf("expected distinct ids, both were %q", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("id %q is not a uuid: %v", a, err)
	}
}

func TestMemoryFindByID(t *testing.T) {
	m := NewMemory()
	id := seed(t, m, "1969", "Global", "General")

	e, err := m.FindByID(t.Context(), id)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if e.ID != id || e.Date != "1969" {
		t.Errorf("wrong record back: %+v", e)
	}
}

func TestMemoryFindByIDMalformed(t *testing.T) {
	m := NewMemory()
	seed(t, m, "1969", "Global", "General")

	_, err := m.FindByID(t.Context(), "not-a-uuid")
	if !errors.Is(err, apperrors.ErrInvalidEventID) {
		t.Errorf("expected ErrInvalidEventID, got %v", err)
	}
}

func TestMemoryFindByIDAbsent(t *testing.T) {
	m := NewMemory()
	seed(t, m, "1969", "Global", "General")

	_, err := m.FindByID(t.Context(), uuid.NewString())
	if !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestMemoryFindFilters(t *testing.T) {
	m := NewMemory()
	seed(t, m, "1969", "Global", "General")
	seed(t, m, "1990", "Global", "General")
	seed(t, m, "1990", "Europe", "War")

	tests := []struct {
		name   string
		filter events.Filter
		want   int
	}{
		{"no filter returns all", events.Filter{}, 3},
		{"date substring", events.Filter{Date: "1990"}, 2},
		{"case-insensitive location", events.Filter{Location: "europe"}, 1},
		{"AND of two fields", events.Filter{Date: "1990", Location: "Global"}, 1},
		{"partial substring", events.Filter{Date: "99"}, 2},
		{"no match", events.Filter{Theme: "Science"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Find(t.Context(), tt.filter)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d records, got %d", tt.want, len(got))
			}
		})
	}
}

func TestMemoryInsertFailure(t *testing.T) {
	m := NewMemory()
	m.InsertErr = errors.New("disk full")

	_, err := m.Insert(t.Context(), &events.Event{Date: "1969"})
	if err == nil {
		t.Fatal("expected insert to fail")
	}
	if m.Len() != 0 {
		t.Errorf("failed insert must not leave a record, store has %d", m.Len())
	}
}
