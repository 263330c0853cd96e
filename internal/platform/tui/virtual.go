package tui

import (
	"fmt"
	"sync"

	"github.com/kamstrup/intmap"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/grid"
)

// VirtualGrid is an in-memory LED grid. The session writes to it from its
// event loop while the Bubble Tea program reads it on every redraw, so all
// access is guarded.
type VirtualGrid struct {
	mu      sync.Mutex
	width   int
	height  int
	lit     *intmap.Map[int, core.Color] // pads that are not off
	version uint64
}

var _ grid.Driver = (*VirtualGrid)(nil)

// NewVirtualGrid creates a dark width x height grid.
func NewVirtualGrid(width, height int) *VirtualGrid {
	return &VirtualGrid{
		width:  width,
		height: height,
		lit:    intmap.New[int, core.Color](width * height),
	}
}

// Width returns the number of columns.
func (v *VirtualGrid) Width() int { return v.width }

// Height returns the number of rows.
func (v *VirtualGrid) Height() int { return v.height }

// ClearAll sets every pad to c.
func (v *VirtualGrid) ClearAll(c core.Color) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lit.Clear()
	if !c.IsOff() {
		for i := 0; i < v.width*v.height; i++ {
			v.lit.Put(i, c)
		}
	}
	v.version++
	return nil
}

// WriteOne sets a single pad.
func (v *VirtualGrid) WriteOne(index int, c core.Color) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.set(index, c)
}

// WriteBatch applies writes in order.
func (v *VirtualGrid) WriteBatch(writes []grid.Write) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, w := range writes {
		if err := v.set(w.Index, w.Color); err != nil {
			return err
		}
	}
	return nil
}

func (v *VirtualGrid) set(index int, c core.Color) error {
	if index < 0 || index >= v.width*v.height {
		return fmt.Errorf("tui: pad %d outside %dx%d grid", index, v.width, v.height)
	}
	if c.IsOff() {
		v.lit.Del(index)
	} else {
		v.lit.Put(index, c)
	}
	v.version++
	return nil
}

// Cells returns a row-major copy of the grid.
func (v *VirtualGrid) Cells() []core.Color {
	cells, _ := v.Snapshot()
	return cells
}

// Snapshot returns a row-major copy of the grid and the version it was
// taken at.
func (v *VirtualGrid) Snapshot() ([]core.Color, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cells := make([]core.Color, v.width*v.height)
	for i := range cells {
		cells[i] = core.ColorOff
	}
	v.lit.ForEach(func(i int, c core.Color) bool {
		cells[i] = c
		return true
	})
	return cells, v.version
}

// Version increases on every change.
func (v *VirtualGrid) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}
