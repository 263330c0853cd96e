package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maxwellito/tetrispad/internal/core"
)

const (
	padRune = '█'
	offRune = '·'
	padCols = 2 // terminal columns per pad
)

// ledStyles[red][green] holds the foreground style for each LED mix.
var ledStyles = func() [4][4]lipgloss.Style {
	var styles [4][4]lipgloss.Style
	for r := range 4 {
		for g := range 4 {
			styles[r][g] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x00", r*85, g*85)))
		}
	}
	return styles
}()

var offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

// ledStyle maps a Launchpad color to the terminal color of its LED mix.
func ledStyle(c core.Color) lipgloss.Style {
	if c.IsOff() {
		return offStyle
	}
	return ledStyles[c.Red()][c.Green()]
}

// DrawGrid paints a row-major LED grid onto s, padCols runes per pad.
func DrawGrid(s *core.Screen, cells []core.Color, width int) {
	for i, c := range cells {
		x, y := (i%width)*padCols, i/width
		r := padRune
		if c.IsOff() {
			r = offRune
		}
		for dx := range padCols {
			s.Set(x+dx, y, r, c)
		}
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(ledStyle(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// RenderCells renders a grid snapshot without a border.
func RenderCells(cells []core.Color, width, height int) string {
	s := core.NewScreen(width*padCols, height)
	DrawGrid(s, cells, width)
	return RenderScreen(s)
}
