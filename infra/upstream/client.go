// Package upstream talks to the aggregation service. Each document travels
// through its own circuit breaker so one failing endpoint cannot drag the
// others down.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/gridlens/gridlens/core/logger"
	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/core/overlay"
)

// Document names, used as breaker names and metric labels.
const (
	DocSnapshot      = "snapshot"
	DocOverlay       = "overlay"
	DocOpportunities = "opportunities"
)

const (
	snapshotPath      = "/api/aggregated/snapshot"
	overlayPath       = "/api/overlay/state"
	opportunitiesPath = "/api/aggregated/flexibility-opportunities"
)

// Client fetches the three feed documents over HTTP.
type Client struct {
	base     string
	http     *http.Client
	log      logger.Logger
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a client for the aggregation service at baseURL.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base:     strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte]),
	}
	for _, doc := range []string{DocSnapshot, DocOverlay, DocOpportunities} {
		c.breakers[doc] = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    doc,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("breaker %s: %s -> %s", name, from, to)
			},
		})
	}
	return c
}

// FetchSnapshot retrieves the aggregated snapshot document.
func (c *Client) FetchSnapshot(ctx context.Context) (model.AggregatedSnapshot, error) {
	body, err := c.get(ctx, DocSnapshot, snapshotPath)
	if err != nil {
		return model.AggregatedSnapshot{}, err
	}
	var dto snapshotDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return model.AggregatedSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return dto.toModel(), nil
}

// FetchOverlay retrieves and classifies the overlay state document.
func (c *Client) FetchOverlay(ctx context.Context) (overlay.Document, error) {
	body, err := c.get(ctx, DocOverlay, overlayPath)
	if err != nil {
		return overlay.Document{}, err
	}
	var dto overlayStateDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return overlay.Document{}, fmt.Errorf("decode overlay state: %w", err)
	}
	return c.decodeOverlay(dto), nil
}

// FetchOpportunities retrieves the flexibility opportunities document.
func (c *Client) FetchOpportunities(ctx context.Context) ([]model.FlexibilityOpportunity, error) {
	body, err := c.get(ctx, DocOpportunities, opportunitiesPath)
	if err != nil {
		return nil, err
	}
	var dto struct {
		Opportunities []model.FlexibilityOpportunity `json:"opportunities"`
	}
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("decode opportunities: %w", err)
	}
	return dto.Opportunities, nil
}

func (c *Client) get(ctx context.Context, doc, path string) ([]byte, error) {
	return c.breakers[doc].Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", doc, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("fetch %s: unexpected status %d", doc, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}
