package config

import "fmt"

// Upstream defines the connection to the aggregation service.
type Upstream struct {
	BaseURL             string `json:"base_url"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Upstream) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = 60
	}
}

// Validate checks mandatory fields.
func (c Upstream) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("upstream: base_url is required")
	}
	if c.TimeoutSeconds < 0 || c.PollIntervalSeconds < 0 {
		return fmt.Errorf("upstream: negative durations are not allowed")
	}
	return nil
}
