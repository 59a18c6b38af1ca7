// Package events holds the historical-event domain model and the ingestion
// and query services built around it.
package events

import "time"

// Placeholder values applied by the ingestion pipeline when upstream data is
// absent. They are part of the persisted record contract.
const (
	DefaultLocation  = "Global"
	DefaultTheme     = "General"
	NoSummary        = "No summary available"
	UnknownTimestamp = "Unknown date"
)

// Event is the persisted historical-event record. The id is assigned by the
// store on insert and never changes; records are never updated or deleted.
//
// Sources and People are deliberately free-form maps: only a minimum field
// set is guaranteed for sources (a Wikipedia entry with a url and an AI
// Generation entry with model metadata), and people is reserved for future
// population.
type Event struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	AccessTimestamp string           `json:"access_timestamp"`
	Location        string           `json:"location"`
	Theme           string           `json:"theme"`
	Summary         string           `json:"summary"`
	AISummary       string           `json:"ai_summary"`
	Sources         []map[string]any `json:"sources"`
	People          []map[string]any `json:"people"`
}

// Filter selects events whose fields contain the given substrings,
// case-insensitively. Empty fields are unconstrained; set fields are ANDed.
type Filter struct {
	Date     string
	Location string
	Theme    string
}

// IngestNotification is published to Kafka after a record is persisted.
type IngestNotification struct {
	EventID    string    `json:"event_id"`
	Year       string    `json:"year"`
	IngestedAt time.Time `json:"ingested_at"`
}
