package config

import "fmt"

// Overlay defines presentation defaults.
type Overlay struct {
	// Projection selects the default strategy: "schematic" or "geographic".
	Projection string `json:"projection"`
}

// SetDefaults applies sane defaults.
func (c *Overlay) SetDefaults() {
	if c.Projection == "" {
		c.Projection = "schematic"
	}
}

// Validate checks mandatory fields.
func (c Overlay) Validate() error {
	if c.Projection != "schematic" && c.Projection != "geographic" {
		return fmt.Errorf("overlay: unknown projection %q", c.Projection)
	}
	return nil
}
