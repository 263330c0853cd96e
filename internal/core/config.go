package core

import "time"

// RuntimeConfig contains configuration passed to the engine at start.
type RuntimeConfig struct {
	Width    int           // Grid width in cells
	Height   int           // Grid height in cells
	Interval time.Duration // Time between drop ticks
	Seed     int64         // RNG seed for piece selection (0 = time based)
}

// DefaultConfig returns a RuntimeConfig for the 8x8 Launchpad grid.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:    8,
		Height:   8,
		Interval: 600 * time.Millisecond,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Cells returns the number of cells in the grid.
func (c RuntimeConfig) Cells() int {
	return c.Width * c.Height
}
