// Package grid provides the double-buffered pixel surface the engine draws
// on. The surface owns the committed color state of the board and forwards
// only the writes that actually change a pixel to the device driver.
package grid

import (
	"errors"
	"fmt"

	"github.com/kamstrup/intmap"

	"github.com/maxwellito/tetrispad/internal/core"
)

// ErrGridSize is returned by ReplaceAll and Overlay for a frame whose length
// is not width*height.
var ErrGridSize = errors.New("grid: frame size does not match surface")

// Write is a single pixel update addressed by row-major index.
type Write struct {
	Index int
	Color core.Color
}

// Driver is the device capability the surface renders to. Indices are
// row-major grid indices; mapping them to hardware addresses is the
// driver's concern.
type Driver interface {
	ClearAll(c core.Color) error
	WriteBatch(writes []Write) error
	WriteOne(index int, c core.Color) error
}

// Surface is the committed grid plus a pending write batch.
type Surface struct {
	driver  Driver
	width   int
	height  int
	cells   []core.Color
	pending []Write
	seen    *intmap.Set[int]
}

// New creates a surface with every cell off. No device I/O happens until
// ResetAll or the first Commit.
func New(driver Driver, width, height int) *Surface {
	s := &Surface{
		driver: driver,
		width:  width,
		height: height,
		cells:  make([]core.Color, width*height),
		seen:   intmap.NewSet[int](width * height),
	}
	for i := range s.cells {
		s.cells[i] = core.ColorOff
	}
	return s
}

// Width returns the grid width.
func (s *Surface) Width() int { return s.width }

// Height returns the grid height.
func (s *Surface) Height() int { return s.height }

// Bounds returns the grid as a rectangle anchored at the origin.
func (s *Surface) Bounds() core.Rect {
	return core.NewRect(0, 0, s.width, s.height)
}

func (s *Surface) index(x, y int) int {
	return y*s.width + x
}

// SetPixel queues a color change for (x, y). Writes that would not change
// the pixel's effective color (latest pending value, else committed value)
// are dropped. Out-of-range coordinates are ignored.
func (s *Surface) SetPixel(x, y int, c core.Color) {
	if !s.Bounds().Contains(x, y) {
		return
	}
	idx := s.index(x, y)
	if s.effective(idx) == c {
		return
	}
	s.pending = append(s.pending, Write{Index: idx, Color: c})
}

func (s *Surface) effective(idx int) core.Color {
	for i := len(s.pending) - 1; i >= 0; i-- {
		if s.pending[i].Index == idx {
			return s.pending[i].Color
		}
	}
	return s.cells[idx]
}

// Commit applies the pending batch. The newest write per index wins; writes
// that end up equal to the committed color are not sent. The survivors go to
// the driver in a single WriteBatch call, and nothing is sent when none
// survive. The pending batch is cleared even if the driver fails.
func (s *Surface) Commit() error {
	if len(s.pending) == 0 {
		return nil
	}
	defer s.Discard()

	s.seen.Clear()
	batch := make([]Write, 0, len(s.pending))
	for i := len(s.pending) - 1; i >= 0; i-- {
		w := s.pending[i]
		if s.seen.Has(w.Index) {
			continue
		}
		s.seen.Add(w.Index)
		if s.cells[w.Index] == w.Color {
			continue
		}
		s.cells[w.Index] = w.Color
		batch = append(batch, w)
	}

	if len(batch) == 0 {
		return nil
	}
	if err := s.driver.WriteBatch(batch); err != nil {
		return fmt.Errorf("grid: commit %d writes: %w", len(batch), err)
	}
	return nil
}

// Discard drops the pending batch without touching the device.
func (s *Surface) Discard() {
	s.pending = s.pending[:0]
}

// Pending returns a copy of the pending batch, oldest first.
func (s *Surface) Pending() []Write {
	out := make([]Write, len(s.pending))
	copy(out, s.pending)
	return out
}

// ResetAll sets every cell to c with a single ClearAll call.
func (s *Surface) ResetAll(c core.Color) error {
	s.Discard()
	for i := range s.cells {
		s.cells[i] = c
	}
	if err := s.driver.ClearAll(c); err != nil {
		return fmt.Errorf("grid: clear to %v: %w", c, err)
	}
	return nil
}

// ReplaceAll swaps the committed state for cells and forwards the whole
// frame to the driver as one batch in index order.
func (s *Surface) ReplaceAll(cells []core.Color) error {
	if len(cells) != len(s.cells) {
		return fmt.Errorf("%w: got %d cells, expected %d", ErrGridSize, len(cells), len(s.cells))
	}
	s.Discard()
	copy(s.cells, cells)
	if err := s.driver.WriteBatch(frame(s.cells)); err != nil {
		return fmt.Errorf("grid: replace frame: %w", err)
	}
	return nil
}

// Overlay shows a temporary frame on the device without changing the
// committed state. Restore brings the committed state back.
func (s *Surface) Overlay(cells []core.Color) error {
	if len(cells) != len(s.cells) {
		return fmt.Errorf("%w: got %d cells, expected %d", ErrGridSize, len(cells), len(s.cells))
	}
	if err := s.driver.WriteBatch(frame(cells)); err != nil {
		return fmt.Errorf("grid: overlay frame: %w", err)
	}
	return nil
}

// Restore re-sends the committed state to the device.
func (s *Surface) Restore() error {
	if err := s.driver.WriteBatch(frame(s.cells)); err != nil {
		return fmt.Errorf("grid: restore frame: %w", err)
	}
	return nil
}

func frame(cells []core.Color) []Write {
	writes := make([]Write, len(cells))
	for i, c := range cells {
		writes[i] = Write{Index: i, Color: c}
	}
	return writes
}

// At returns the committed color of (x, y), or ColorOff when out of range.
func (s *Surface) At(x, y int) core.Color {
	if !s.Bounds().Contains(x, y) {
		return core.ColorOff
	}
	return s.cells[s.index(x, y)]
}

// Cells returns a copy of the committed state.
func (s *Surface) Cells() []core.Color {
	out := make([]core.Color, len(s.cells))
	copy(out, s.cells)
	return out
}

// IsRowFilled reports whether every committed cell of row y is lit.
func (s *Surface) IsRowFilled(y int) bool {
	if y < 0 || y >= s.height {
		return false
	}
	for x := 0; x < s.width; x++ {
		if s.cells[s.index(x, y)].IsOff() {
			return false
		}
	}
	return true
}

// OccupancyGrid returns a point-in-time [y][x] view of the committed state,
// true where a cell is lit.
func (s *Surface) OccupancyGrid() [][]bool {
	out := make([][]bool, s.height)
	for y := range out {
		out[y] = make([]bool, s.width)
		for x := range out[y] {
			out[y][x] = !s.cells[s.index(x, y)].IsOff()
		}
	}
	return out
}
