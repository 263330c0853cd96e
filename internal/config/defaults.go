package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tetrispad.yaml
var defaultYAML []byte

// Default returns the built-in configuration: the 8x8 Launchpad grid, the
// classic pieces and a 600ms drop.
func Default() Config {
	return Config{
		Game: GameConfig{
			Width:     8,
			Height:    8,
			Interval:  600 * time.Millisecond,
			Catalogue: "classic",
		},
		Device: DeviceConfig{
			Name:    "Launchpad",
			Backend: BackendAuto,
		},
		Keyboard: KeyboardConfig{
			ReleaseAfter: 120 * time.Millisecond,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
