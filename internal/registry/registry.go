// Package registry provides a global registry of named piece catalogues.
// Built-in catalogues register themselves in init(); a catalogue defined in
// the configuration file is registered by the CLI at startup.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/maxwellito/tetrispad/internal/engine"
)

// ErrUnknownCatalogue is returned by Create for an unregistered ID.
var ErrUnknownCatalogue = errors.New("registry: unknown catalogue")

// CatalogueInfo contains metadata about a registered catalogue.
type CatalogueInfo struct {
	ID     string
	Title  string
	Pieces []string
}

// Factory returns a fresh copy of a catalogue.
type Factory func() engine.Catalogue

type entry struct {
	title   string
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a catalogue factory to the registry.
// Panics if a catalogue with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: catalogue %q already registered", id))
	}
	entries[id] = entry{title: title, factory: f}
}

// List returns information about all registered catalogues, sorted by ID.
func List() []CatalogueInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CatalogueInfo, 0, len(entries))
	for id, e := range entries {
		info := CatalogueInfo{ID: id, Title: e.title}
		for _, t := range e.factory() {
			info.Pieces = append(info.Pieces, t.Name)
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create builds the catalogue registered under id.
func Create(id string) (engine.Catalogue, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCatalogue, id)
	}
	return e.factory(), nil
}

// Exists checks if a catalogue with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}

func init() {
	Register("classic", "Classic tetrominoes", engine.ClassicCatalogue)
	Register("mini", "Mini pieces for small grids", engine.MiniCatalogue)
}
