package engine

import (
	"errors"
	"fmt"

	"github.com/maxwellito/tetrispad/internal/core"
)

// Catalogue is the immutable list of templates new pieces are drawn from.
type Catalogue []Template

// Picker selects a catalogue index; *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// ClassicCatalogue returns the seven tetrominoes in Launchpad colors.
func ClassicCatalogue() Catalogue {
	return Catalogue{
		{Name: "J", Color: core.ColorRedFull, Pattern: MustPattern(
			"###",
			"#..",
		)},
		{Name: "L", Color: core.ColorRedFull, Pattern: MustPattern(
			"###",
			"..#",
		)},
		{Name: "O", Color: core.ColorYellow, Pattern: MustPattern(
			"##",
			"##",
		)},
		{Name: "I", Color: core.ColorYellow, Pattern: MustPattern(
			"####",
		)},
		{Name: "S", Color: core.ColorGreenFull, Pattern: MustPattern(
			".##",
			"##.",
		)},
		{Name: "Z", Color: core.ColorGreenFull, Pattern: MustPattern(
			"##.",
			".##",
		)},
		{Name: "T", Color: core.ColorAmberFull, Pattern: MustPattern(
			"###",
			".#.",
		)},
	}
}

// MiniCatalogue returns one- to three-cell pieces, for small grids.
func MiniCatalogue() Catalogue {
	return Catalogue{
		{Name: "dot", Color: core.ColorAmberFull, Pattern: MustPattern("#")},
		{Name: "domino", Color: core.ColorYellow, Pattern: MustPattern("##")},
		{Name: "bar", Color: core.ColorGreenFull, Pattern: MustPattern("###")},
		{Name: "corner", Color: core.ColorRedFull, Pattern: MustPattern(
			"##",
			"#.",
		)},
	}
}

// Validate checks every template against a width x height grid. A template
// must fit the grid in its spawn orientation.
func (c Catalogue) Validate(width, height int) error {
	if len(c) == 0 {
		return errors.New("engine: empty catalogue")
	}
	for i, t := range c {
		if err := t.Pattern.Validate(); err != nil {
			return fmt.Errorf("engine: template %d (%s): %w", i, t.Name, err)
		}
		if t.Pattern.Width() > width || t.Pattern.Height() > height {
			return fmt.Errorf("engine: template %d (%s) is %dx%d, larger than the %dx%d grid",
				i, t.Name, t.Pattern.Width(), t.Pattern.Height(), width, height)
		}
		if t.Color.IsOff() {
			return fmt.Errorf("engine: template %d (%s) uses the off color", i, t.Name)
		}
	}
	return nil
}

// Pick returns a copy of a uniformly chosen template.
func (c Catalogue) Pick(p Picker) Template {
	t := c[p.Intn(len(c))]
	t.Pattern = t.Pattern.Clone()
	return t
}
