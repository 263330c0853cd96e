package engine

import "github.com/maxwellito/tetrispad/internal/core"

// Palette holds the colors the engine uses for its own effects.
type Palette struct {
	Clear [4]core.Color
	End   core.Color
	Pause core.Color
}

// DefaultPalette returns the standard Launchpad effect colors: rows
// flash green, yellow, amber and red before they disappear, the board fills
// red from the bottom on game over and pause shows a green square.
func DefaultPalette() Palette {
	return Palette{
		Clear: [4]core.Color{core.ColorGreenFull, core.ColorYellow, core.ColorAmberFull, core.ColorRedFull},
		End:   core.ColorRedFull,
		Pause: core.ColorGreenFull,
	}
}

// PauseGlyph returns a full frame showing a square outline centered on a
// width x height grid. On 8x8 the outline spans rows and columns 2 to 5.
func PauseGlyph(width, height int, on core.Color) []core.Color {
	cells := make([]core.Color, width*height)
	for i := range cells {
		cells[i] = core.ColorOff
	}
	left, top := width/4, height/4
	right, bottom := width-1-left, height-1-top
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			if x == left || x == right || y == top || y == bottom {
				cells[y*width+x] = on
			}
		}
	}
	return cells
}
