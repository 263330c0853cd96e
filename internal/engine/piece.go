package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maxwellito/tetrispad/internal/core"
)

// Pattern is a piece's occupancy matrix, indexed [row][column].
type Pattern [][]bool

// ParsePattern builds a pattern from rows of '#' (filled) and '.' (empty).
func ParsePattern(rows ...string) (Pattern, error) {
	if len(rows) == 0 {
		return nil, errors.New("engine: empty pattern")
	}
	p := make(Pattern, len(rows))
	width := len(rows[0])
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("engine: pattern row %d has width %d, expected %d", y, len(row), width)
		}
		p[y] = make([]bool, width)
		for x, ch := range row {
			switch ch {
			case '#', 'X', 'x', '1':
				p[y][x] = true
			case '.', ' ', '0':
			default:
				return nil, fmt.Errorf("engine: pattern row %d has invalid cell %q", y, ch)
			}
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustPattern is ParsePattern for literals known to be valid.
func MustPattern(rows ...string) Pattern {
	p, err := ParsePattern(rows...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that the pattern is rectangular and has a filled cell.
func (p Pattern) Validate() error {
	if len(p) == 0 || len(p[0]) == 0 {
		return errors.New("engine: empty pattern")
	}
	filled := false
	for y, row := range p {
		if len(row) != len(p[0]) {
			return fmt.Errorf("engine: pattern row %d is not rectangular", y)
		}
		for _, cell := range row {
			filled = filled || cell
		}
	}
	if !filled {
		return errors.New("engine: pattern has no filled cell")
	}
	return nil
}

// Width returns the number of columns.
func (p Pattern) Width() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// Height returns the number of rows.
func (p Pattern) Height() int {
	return len(p)
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	for y, row := range p {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Equal reports whether both patterns have the same shape and cells.
func (p Pattern) Equal(other Pattern) bool {
	if p.Height() != other.Height() || p.Width() != other.Width() {
		return false
	}
	for y := range p {
		for x := range p[y] {
			if p[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// transpose swaps rows and columns.
func (p Pattern) transpose() Pattern {
	out := make(Pattern, p.Width())
	for x := range out {
		out[x] = make([]bool, p.Height())
		for y := range p {
			out[x][y] = p[y][x]
		}
	}
	return out
}

// RotateRight returns the pattern turned 90 degrees clockwise
// (transpose, then reverse every row).
func (p Pattern) RotateRight() Pattern {
	out := p.transpose()
	for _, row := range out {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	return out
}

// RotateLeft returns the pattern turned 90 degrees counter-clockwise
// (transpose, then reverse the row order).
func (p Pattern) RotateLeft() Pattern {
	out := p.transpose()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Rotate turns the pattern in the given direction. Directions other than
// left and right return an unchanged copy.
func (p Pattern) Rotate(dir core.Direction) Pattern {
	switch dir {
	case core.DirRight:
		return p.RotateRight()
	case core.DirLeft:
		return p.RotateLeft()
	default:
		return p.Clone()
	}
}

// String renders the pattern with '#' and '.' rows.
func (p Pattern) String() string {
	var sb strings.Builder
	for y, row := range p {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if cell {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Template is a catalogue entry: a named shape and its LED color.
type Template struct {
	Name    string
	Pattern Pattern
	Color   core.Color
}

// Piece is the active falling piece. X and Y anchor the pattern's top-left
// corner in grid coordinates.
type Piece struct {
	Name    string
	Pattern Pattern
	Color   core.Color
	X, Y    int
}

// Bounds returns the piece's bounding box on the grid.
func (p Piece) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.Pattern.Width(), p.Pattern.Height())
}

// Cells calls fn with the grid coordinates of every filled cell.
func (p Piece) Cells(fn func(x, y int)) {
	for dy, row := range p.Pattern {
		for dx, filled := range row {
			if filled {
				fn(p.X+dx, p.Y+dy)
			}
		}
	}
}

// Clone returns a copy that shares no memory with p.
func (p Piece) Clone() Piece {
	p.Pattern = p.Pattern.Clone()
	return p
}
