package metrics

import "fmt"

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled" koanf:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr" koanf:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled" koanf:"influx_enabled"`
	InfluxURL         string `json:"influx_url" koanf:"influx_url"`
	InfluxToken       string `json:"influx_token" koanf:"influx_token"`
	InfluxOrg         string `json:"influx_org" koanf:"influx_org"`
	InfluxBucket      string `json:"influx_bucket" koanf:"influx_bucket"`
}

// SetDefaults fills unset fields with safe values.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// Validate checks that enabled sinks are fully configured.
func (c *Config) Validate() error {
	if c.PrometheusEnabled && c.PrometheusAddr == "" {
		return fmt.Errorf("metrics: prometheus_addr is required")
	}
	if c.InfluxEnabled {
		if c.InfluxURL == "" || c.InfluxOrg == "" || c.InfluxBucket == "" {
			return fmt.Errorf("metrics: influx_url, influx_org and influx_bucket are required")
		}
	}
	return nil
}
