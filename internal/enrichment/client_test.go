package enrichment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return New(config.OpenAIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o",
		Timeout: 2 * time.Second,
	}, nil)
}

func chatReply(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestSummarizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: got %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("model: got %q", req.Model)
		}
		if req.Temperature != 0.5 {
			t.Errorf("temperature: got %v", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "Moon landing") {
			t.Errorf("user prompt missing extract: %q", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(chatReply("  Apollo 11 landed on the Moon. [1]\n"))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "Moon landing")
	if got != "Apollo 11 landed on the Moon. [1]" {
		t.Errorf("expected trimmed content, got %q", got)
	}
}

func TestSummarizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded"},
		})
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "anything")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Fatalf("expected failure marker prefix, got %q", got)
	}
	if !strings.Contains(got, "quota exceeded") {
		t.Errorf("expected upstream detail in text, got %q", got)
	}
}

func TestSummarizeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "anything")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("expected failure marker for transport error, got %q", got)
	}
}

func TestSummarizeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "anything")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("expected failure marker for malformed response, got %q", got)
	}
}

func TestSummarizeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "anything")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("expected failure marker for empty choices, got %q", got)
	}
}

func TestSummarizeEmptyExtractStillCalls(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		json.NewEncoder(w).Encode(chatReply("summary"))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Summarize(t.Context(), "")
	if !called {
		t.Error("an empty extract must still be sent upstream")
	}
	if got != "summary" {
		t.Errorf("got %q", got)
	}
}
