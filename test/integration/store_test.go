// Package integration contains tests that run against a real PostgreSQL
// instance. They skip automatically when no database is reachable.
//
// Run with:
//
//	go test -v ./test/integration/...
package integration

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events/store"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/postgres"
)

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(testPostgresConfig())
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPostgresConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "history_db_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "history"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

func newStore(t *testing.T) *store.Postgres {
	t.Helper()
	db := skipIfNoPostgres(t)
	s := store.NewPostgres(db)
	if err := s.EnsureSchema(t.Context()); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return s
}

func insertTestEvent(t *testing.T, s *store.Postgres, date string) string {
	t.Helper()
	e := events.BuildRecord(date, map[string]any{
		"extract":   "integration test extract " + date,
		"timestamp": "2020-01-01",
	}, "integration ai summary")
	id, err := s.Insert(t.Context(), &e)
	if err != nil {
		t.Fatalf("inserting event: %v", err)
	}
	return id
}

func TestPostgresInsertAndFindByID(t *testing.T) {
	s := newStore(t)
	id := insertTestEvent(t, s, "1969")

	got, err := s.FindByID(t.Context(), id)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.ID != id {
		t.Errorf("id: expected %q, got %q", id, got.ID)
	}
	if got.Date != "1969" {
		t.Errorf("date: got %q", got.Date)
	}
	if len(got.Sources) != 2 {
		t.Errorf("sources must survive the jsonb round trip, got %d entries", len(got.Sources))
	}
	if got.People == nil || len(got.People) != 0 {
		t.Errorf("people must come back as an empty list, got %v", got.People)
	}
}

func TestPostgresFindByIDTaxonomy(t *testing.T) {
	s := newStore(t)
	insertTestEvent(t, s, "1969")

	if _, err := s.FindByID(t.Context(), "garbage"); !errors.Is(err, apperrors.ErrInvalidEventID) {
		t.Errorf("malformed id: expected ErrInvalidEventID, got %v", err)
	}
	if _, err := s.FindByID(t.Context(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("absent id: expected ErrEventNotFound, got %v", err)
	}
}

func TestPostgresFindFilterIsCaseInsensitiveSubstring(t *testing.T) {
	s := newStore(t)
	marker := strconv.FormatInt(time.Now().UnixNano(), 10)
	insertTestEvent(t, s, "year-"+marker)

	got, err := s.Find(t.Context(), events.Filter{Date: "YEAR-" + marker})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 match for unique marker, got %d", len(got))
	}

	got, err = s.Find(t.Context(), events.Filter{Date: marker, Location: "global", Theme: "GENERAL"})
	if err != nil {
		t.Fatalf("combined filter failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ANDed filters should still match, got %d", len(got))
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
