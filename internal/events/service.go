package events

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/metrics"
)

// SummaryFetcher returns the encyclopedia summary payload for a year.
// A nil map with a nil error means the year has no upstream data.
type SummaryFetcher interface {
	Summary(ctx context.Context, year string) (map[string]any, error)
}

// Summarizer produces the narrative summary for an extract. It never fails:
// any upstream error comes back as readable text inside the returned string.
type Summarizer interface {
	Summarize(ctx context.Context, extract string) string
}

// Store persists and retrieves event records.
type Store interface {
	Insert(ctx context.Context, e *Event) (string, error)
	Find(ctx context.Context, f Filter) ([]Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
}

// Notifier announces a freshly ingested record. Implementations publish to
// Kafka; a nil Notifier disables announcements.
type Notifier interface {
	Notify(ctx context.Context, n IngestNotification) error
}

// Service orchestrates the ingestion pipeline and serves queries. All
// collaborators are injected at construction and shared read-only across
// requests; the service itself holds no mutable state.
type Service struct {
	fetcher    SummaryFetcher
	summarizer Summarizer
	store      Store
	notifier   Notifier
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService wires the ingestion and query service. notifier and m may be nil.
func NewService(fetcher SummaryFetcher, summarizer Summarizer, store Store, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		fetcher:    fetcher,
		summarizer: summarizer,
		store:      store,
		notifier:   notifier,
		metrics:    m,
		logger:     slog.Default().With("component", "events-service"),
	}
}

// Ingest runs the pipeline for one year: fetch the Wikipedia summary, enrich
// it, build the record, persist it, and announce it. It returns the new
// record id.
//
// Failure policy: an absent year aborts with ErrYearNotFound before anything
// is written. Enrichment failures are already absorbed into the ai_summary
// text by the Summarizer and never abort the pipeline. Only the store insert
// can fail after that point, and its message is surfaced to the caller.
// Ingestion is not idempotent: repeating a year inserts a fresh record.
func (s *Service) Ingest(ctx context.Context, year string) (string, error) {
	summary, err := s.fetcher.Summary(ctx, year)
	if err != nil {
		return "", err
	}
	if summary == nil {
		return "", apperrors.ErrYearNotFound
	}

	extract, _ := summary["extract"].(string)
	aiSummary := s.summarizer.Summarize(ctx, extract)

	record := BuildRecord(year, summary, aiSummary)
	id, err := s.store.Insert(ctx, &record)
	if err != nil {
		return "", apperrors.Newf(apperrors.ErrInternal, http.StatusInternalServerError, "Error: %v", err)
	}
	if s.metrics != nil {
		s.metrics.EventsIngestedTotal.Inc()
	}
	s.logger.Info("event ingested", "id", id, "year", year)

	s.announce(ctx, id, year)
	return id, nil
}

// announce publishes the ingest notification. The record is already durable,
// so a publish failure is logged and swallowed.
func (s *Service) announce(ctx context.Context, id, year string) {
	if s.notifier == nil {
		return
	}
	n := IngestNotification{
		EventID:    id,
		Year:       year,
		IngestedAt: time.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		if s.metrics != nil {
			s.metrics.NotificationsTotal.WithLabelValues("error").Inc()
		}
		s.logger.Error("failed to publish ingest notification", "id", id, "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.NotificationsTotal.WithLabelValues("ok").Inc()
	}
}

// List returns every record matching the filter, in store-native order.
// There is no pagination; the result is as large as the match set.
func (s *Service) List(ctx context.Context, f Filter) ([]Event, error) {
	return s.store.Find(ctx, f)
}

// Get looks up one record by id. A malformed id and a valid-but-absent id
// surface as distinct errors.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.store.FindByID(ctx, id)
}
