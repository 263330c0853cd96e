package main

import (
	"fmt"

	"github.com/maxwellito/tetrispad/internal/grid"
	"github.com/maxwellito/tetrispad/internal/registry"
	"github.com/maxwellito/tetrispad/internal/session"
)

// gameConfig builds a session config from the loaded configuration.
// catalogue overrides the configured one when not empty.
func gameConfig(catalogue string, drivers ...grid.Driver) (session.Config, error) {
	if catalogue == "" {
		catalogue = cfg.Game.Catalogue
	}
	cat, err := registry.Create(catalogue)
	if err != nil {
		return session.Config{}, fmt.Errorf("%w (run 'tetrispad pieces' to list catalogues)", err)
	}
	keys, err := cfg.KeyMap()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Runtime:      cfg.Runtime(),
		Catalogue:    cat,
		KeyMap:       keys,
		ReleaseAfter: cfg.Keyboard.ReleaseAfter,
		Drivers:      drivers,
		Logger:       logger,
	}, nil
}
