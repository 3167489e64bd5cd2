package config

import "fmt"

// Server defines the engine's own API listener.
type Server struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *Server) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	return nil
}
