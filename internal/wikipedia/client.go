// Package wikipedia fetches year summaries from the Wikipedia REST API.
package wikipedia

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/metrics"
)

const summaryPath = "/api/rest_v1/page/summary/"

// Client issues read-only summary lookups. One shared http.Client, built at
// startup.
type Client struct {
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Client for the configured endpoint. m may be nil.
func New(cfg config.WikipediaConfig, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(timeout),
		metrics: m,
		logger:  slog.Default().With("component", "wikipedia-client"),
	}
}

// Summary fetches the page summary for a year. A 200 response decodes into a
// generic map with at least an "extract" field. Any other status, and any
// transport failure, comes back as (nil, nil): the caller treats both as
// "year not found". The two cases are indistinguishable by contract; the
// transport case is logged at WARN so it stays visible operationally.
func (c *Client) Summary(ctx context.Context, year string) (map[string]any, error) {
	u := c.baseURL + summaryPath + url.PathEscape(year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.count("error")
		c.logger.Warn("wikipedia request failed", "year", year, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.count("not_found")
		c.logger.Debug("wikipedia returned non-200", "year", year, "status", resp.StatusCode)
		return nil, nil
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.count("error")
		c.logger.Warn("decoding wikipedia response", "year", year, "error", err)
		return nil, nil
	}
	c.count("ok")
	return payload, nil
}

func (c *Client) count(outcome string) {
	if c.metrics != nil {
		c.metrics.WikipediaRequests.WithLabelValues(outcome).Inc()
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
