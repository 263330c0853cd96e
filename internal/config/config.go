// Package config provides YAML-based configuration loading for tetrispad:
// grid and timing, the MIDI device, keyboard bindings, custom piece
// catalogues and the SSH server.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/input"
)

// Device backends.
const (
	BackendAuto      = "auto"      // Launchpad when one is attached, else the terminal grid
	BackendLaunchpad = "launchpad" // Launchpad only; fail without one
	BackendTerminal  = "terminal"  // terminal grid only
)

// CustomCatalogue is the catalogue ID of the pieces defined in the file.
const CustomCatalogue = "custom"

// MaxGridSize bounds width and height. The Launchpad addresses at most 16
// columns per row.
const MaxGridSize = 16

// Config contains the whole tetrispad configuration.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Device   DeviceConfig   `yaml:"device"`
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Pieces   []PieceConfig  `yaml:"pieces"`
	SSH      SSHConfig      `yaml:"ssh"`
}

// GameConfig defines the board and its timing.
type GameConfig struct {
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	Interval  time.Duration `yaml:"interval"`
	Catalogue string        `yaml:"pieces"` // catalogue ID, see `tetrispad pieces`
	Seed      int64         `yaml:"seed"`   // 0 = time based
}

// DeviceConfig selects the output device.
type DeviceConfig struct {
	Name    string `yaml:"name"` // substring matched against MIDI port names
	Backend string `yaml:"backend"`
}

// KeyboardConfig defines terminal key handling.
type KeyboardConfig struct {
	ReleaseAfter time.Duration     `yaml:"release_after"`
	Bindings     map[string]string `yaml:"bindings"` // key name -> action, replaces the defaults
}

// PieceConfig defines one template of the custom catalogue.
type PieceConfig struct {
	Name  string   `yaml:"name"`
	Color string   `yaml:"color"`
	Rows  []string `yaml:"rows"`
}

// SSHConfig defines the `serve` command's listener.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"` // empty = ~/.tetrispad/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Runtime returns the engine-facing part of the configuration.
func (c Config) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		Width:    c.Game.Width,
		Height:   c.Game.Height,
		Interval: c.Game.Interval,
		Seed:     c.Game.Seed,
	}
}

// KeyMap resolves the keyboard bindings. No bindings means the defaults.
func (c Config) KeyMap() (map[string]core.Intent, error) {
	if len(c.Keyboard.Bindings) == 0 {
		return input.DefaultKeyMap(), nil
	}
	keys := make(map[string]core.Intent, len(c.Keyboard.Bindings))
	for key, action := range c.Keyboard.Bindings {
		in, err := core.ParseIntent(action)
		if err != nil {
			return nil, fmt.Errorf("config: binding %q: %w", key, err)
		}
		keys[key] = in
	}
	return keys, nil
}

// Catalogue parses the custom pieces. It returns nil when none are defined.
func (c Config) Catalogue() (engine.Catalogue, error) {
	if len(c.Pieces) == 0 {
		return nil, nil
	}
	cat := make(engine.Catalogue, 0, len(c.Pieces))
	for i, p := range c.Pieces {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("piece-%d", i+1)
		}
		pattern, err := engine.ParsePattern(p.Rows...)
		if err != nil {
			return nil, fmt.Errorf("config: piece %q: %w", name, err)
		}
		color, err := core.ParseColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("config: piece %q: %w", name, err)
		}
		cat = append(cat, engine.Template{Name: name, Pattern: pattern, Color: color})
	}
	return cat, nil
}

// Validate checks the configuration for values the program cannot run with.
func (c Config) Validate() error {
	var errs []error

	g := c.Game
	if g.Width < 1 || g.Width > MaxGridSize || g.Height < 1 || g.Height > MaxGridSize {
		errs = append(errs, fmt.Errorf("config: grid %dx%d outside 1..%d", g.Width, g.Height, MaxGridSize))
	}
	if g.Interval < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("config: interval %v is below 10ms", g.Interval))
	}
	if g.Catalogue == "" {
		errs = append(errs, errors.New("config: game.pieces is empty"))
	}

	switch c.Device.Backend {
	case BackendAuto, BackendLaunchpad, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("config: unknown device backend %q", c.Device.Backend))
	}
	if c.Keyboard.ReleaseAfter < 0 {
		errs = append(errs, errors.New("config: keyboard.release_after is negative"))
	}
	if _, err := c.KeyMap(); err != nil {
		errs = append(errs, err)
	}

	cat, err := c.Catalogue()
	switch {
	case err != nil:
		errs = append(errs, err)
	case cat != nil:
		if err := cat.Validate(g.Width, g.Height); err != nil {
			errs = append(errs, fmt.Errorf("config: custom pieces: %w", err))
		}
	case g.Catalogue == CustomCatalogue:
		errs = append(errs, errors.New("config: game.pieces is \"custom\" but no pieces are defined"))
	}

	return errors.Join(errs...)
}
