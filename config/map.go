package config

import (
	"fmt"

	"github.com/kilianp07/citytraffic/core/prediction"
)

// MapConfig configures the map data endpoint.
type MapConfig struct {
	Locations []prediction.Location `json:"locations"`
	// DisableJitter removes the random per-location offset.
	DisableJitter bool `json:"disable_jitter"`
	// JitterSeed seeds the offset source; 0 picks a random seed at startup.
	JitterSeed uint64 `json:"jitter_seed"`
}

// SetDefaults applies fallback values for optional fields.
func (c *MapConfig) SetDefaults() {
	if len(c.Locations) == 0 {
		c.Locations = append([]prediction.Location(nil), prediction.DefaultLocations...)
	}
}

// Validate checks location coordinates.
func (c MapConfig) Validate() error {
	for _, l := range c.Locations {
		if l.Name == "" {
			return fmt.Errorf("location name is required")
		}
		if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
			return fmt.Errorf("location %s: invalid coordinates", l.Name)
		}
	}
	return nil
}
