package wikipedia

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return New(config.WikipediaConfig{BaseURL: baseURL, Timeout: 2 * time.Second}, nil)
}

func TestSummarySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest_v1/page/summary/1969" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"extract":   "Moon landing",
			"timestamp": "1969-07-20",
		})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Summary(t.Context(), "1969")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a payload, got absence")
	}
	if got["extract"] != "Moon landing" {
		t.Errorf("extract: got %v", got["extract"])
	}
}

func TestSummaryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Summary(t.Context(), "99999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected absence for 404, got %v", got)
	}
}

func TestSummaryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Summary(t.Context(), "1969")
	if err != nil || got != nil {
		t.Errorf("expected absence for 500, got %v / %v", got, err)
	}
}

func TestSummaryTransportError(t *testing.T) {
	// A closed server makes the request fail at the transport level; the
	// contract folds that into absence, same as not-found.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	got, err := newTestClient(srv.URL).Summary(t.Context(), "1969")
	if err != nil {
		t.Fatalf("transport failures must not surface as errors, got %v", err)
	}
	if got != nil {
		t.Errorf("expected absence, got %v", got)
	}
}

func TestSummaryMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Summary(t.Context(), "1969")
	if err != nil || got != nil {
		t.Errorf("expected absence for undecodable body, got %v / %v", got, err)
	}
}

func TestSummaryEscapesYear(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]any{"extract": "x"})
	}))
	defer srv.Close()

	newTestClient(srv.URL).Summary(t.Context(), "44 BC")
	if gotPath != "/api/rest_v1/page/summary/44%20BC" {
		t.Errorf("year not escaped, path was %q", gotPath)
	}
}
