package grid

import (
	"errors"
	"testing"

	"github.com/maxwellito/tetrispad/internal/core"
)

// recorder is a Driver that keeps every call for inspection.
type recorder struct {
	clears  []core.Color
	batches [][]Write
	ones    []Write
	fail    error
}

func (r *recorder) ClearAll(c core.Color) error {
	r.clears = append(r.clears, c)
	return r.fail
}

func (r *recorder) WriteBatch(writes []Write) error {
	cp := make([]Write, len(writes))
	copy(cp, writes)
	r.batches = append(r.batches, cp)
	return r.fail
}

func (r *recorder) WriteOne(index int, c core.Color) error {
	r.ones = append(r.ones, Write{Index: index, Color: c})
	return r.fail
}

func TestSetPixelDropsNoOpWrites(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 8, 8)

	s.SetPixel(1, 1, core.ColorOff)
	if len(s.Pending()) != 0 {
		t.Errorf("writing the committed color should be dropped, pending = %v", s.Pending())
	}

	s.SetPixel(1, 1, core.ColorRedFull)
	s.SetPixel(1, 1, core.ColorRedFull)
	if len(s.Pending()) != 1 {
		t.Errorf("repeated identical write should be dropped, pending = %v", s.Pending())
	}

	s.SetPixel(-1, 0, core.ColorRedFull)
	s.SetPixel(8, 0, core.ColorRedFull)
	s.SetPixel(0, 8, core.ColorRedFull)
	if len(s.Pending()) != 1 {
		t.Errorf("out-of-range writes should be ignored, pending = %v", s.Pending())
	}

	if len(drv.batches) != 0 {
		t.Error("SetPixel must not touch the driver")
	}
}

func TestCommitLatestWriteWins(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 8, 8)

	s.SetPixel(2, 0, core.ColorGreenFull)
	s.SetPixel(3, 0, core.ColorGreenFull)
	s.SetPixel(2, 0, core.ColorYellow)

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() = %v", err)
	}

	if len(drv.batches) != 1 {
		t.Fatalf("expected 1 driver batch, got %d", len(drv.batches))
	}
	batch := drv.batches[0]
	if len(batch) != 2 {
		t.Fatalf("expected 2 deduplicated writes, got %v", batch)
	}
	for _, w := range batch {
		if w.Index == 2 && w.Color != core.ColorYellow {
			t.Errorf("index 2 sent %v, expected latest write %v", w.Color, core.ColorYellow)
		}
	}
	if s.At(2, 0) != core.ColorYellow || s.At(3, 0) != core.ColorGreenFull {
		t.Errorf("committed state = (%v, %v)", s.At(2, 0), s.At(3, 0))
	}
	if len(s.Pending()) != 0 {
		t.Error("Commit should clear the pending batch")
	}
}

func TestCommitEraseThenRedrawKeepsPixel(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 8, 8)

	s.SetPixel(4, 4, core.ColorAmberFull)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	// A move erases the footprint then repaints; cells shared by the old
	// and new footprint must stay lit and must not be resent.
	s.SetPixel(4, 4, core.ColorOff)
	s.SetPixel(4, 4, core.ColorAmberFull)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	if s.At(4, 4) != core.ColorAmberFull {
		t.Errorf("pixel = %v, expected %v", s.At(4, 4), core.ColorAmberFull)
	}
	if len(drv.batches) != 1 {
		t.Errorf("erase-then-redraw should not reach the driver, got %d batches", len(drv.batches))
	}
}

func TestCommitTwiceIsNoOp(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 8, 8)

	s.SetPixel(0, 0, core.ColorRedFull)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	before := s.Cells()

	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	if len(drv.batches) != 1 {
		t.Errorf("second Commit should not call the driver, got %d batches", len(drv.batches))
	}
	after := s.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("second Commit changed cell %d", i)
		}
	}
}

func TestCommitClearsBatchOnDriverError(t *testing.T) {
	drv := &recorder{fail: errors.New("unplugged")}
	s := New(drv, 8, 8)

	s.SetPixel(0, 0, core.ColorRedFull)
	if err := s.Commit(); err == nil {
		t.Fatal("expected driver error")
	}
	if len(s.Pending()) != 0 {
		t.Error("pending batch should be cleared after a failed commit")
	}
}

func TestResetAll(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 4, 3)
	s.SetPixel(1, 1, core.ColorRedFull)

	if err := s.ResetAll(core.ColorGreenLow); err != nil {
		t.Fatal(err)
	}

	if len(drv.clears) != 1 || drv.clears[0] != core.ColorGreenLow {
		t.Errorf("ClearAll calls = %v", drv.clears)
	}
	for i, c := range s.Cells() {
		if c != core.ColorGreenLow {
			t.Errorf("cell %d = %v after ResetAll", i, c)
		}
	}
	if len(s.Pending()) != 0 {
		t.Error("ResetAll should clear pending writes")
	}
}

func TestReplaceAll(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 2, 2)
	s.SetPixel(0, 0, core.ColorRedFull)

	next := []core.Color{core.ColorOff, core.ColorYellow, core.ColorYellow, core.ColorOff}
	if err := s.ReplaceAll(next); err != nil {
		t.Fatal(err)
	}

	if len(drv.batches) != 1 || len(drv.batches[0]) != 4 {
		t.Fatalf("expected one full-frame batch, got %v", drv.batches)
	}
	for i, w := range drv.batches[0] {
		if w.Index != i || w.Color != next[i] {
			t.Errorf("frame write %d = %+v", i, w)
		}
	}
	if len(s.Pending()) != 0 {
		t.Error("ReplaceAll should clear pending writes")
	}

	// The caller's slice must not alias the committed state.
	next[0] = core.ColorRedFull
	if s.At(0, 0) != core.ColorOff {
		t.Error("ReplaceAll should copy the frame")
	}

	if err := s.ReplaceAll(make([]core.Color, 3)); !errors.Is(err, ErrGridSize) {
		t.Errorf("ReplaceAll with wrong size = %v, expected ErrGridSize", err)
	}
}

func TestOverlayAndRestore(t *testing.T) {
	drv := &recorder{}
	s := New(drv, 2, 1)
	s.SetPixel(0, 0, core.ColorRedFull)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	glyph := []core.Color{core.ColorGreenFull, core.ColorGreenFull}
	if err := s.Overlay(glyph); err != nil {
		t.Fatal(err)
	}
	if s.At(0, 0) != core.ColorRedFull || s.At(1, 0) != core.ColorOff {
		t.Error("Overlay must not change committed state")
	}

	if err := s.Restore(); err != nil {
		t.Fatal(err)
	}
	last := drv.batches[len(drv.batches)-1]
	if len(last) != 2 || last[0].Color != core.ColorRedFull || last[1].Color != core.ColorOff {
		t.Errorf("Restore sent %v", last)
	}
}

func TestIsRowFilled(t *testing.T) {
	s := New(&recorder{}, 3, 3)
	for x := 0; x < 3; x++ {
		s.SetPixel(x, 1, core.ColorAmberFull)
	}
	s.SetPixel(0, 2, core.ColorAmberFull)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	expected := []bool{false, true, false}
	for y, want := range expected {
		if got := s.IsRowFilled(y); got != want {
			t.Errorf("IsRowFilled(%d) = %v, expected %v", y, got, want)
		}
	}
	if s.IsRowFilled(5) {
		t.Error("IsRowFilled out of range should be false")
	}
}

func TestOccupancyGridIsSnapshot(t *testing.T) {
	s := New(&recorder{}, 3, 2)
	s.SetPixel(2, 1, core.ColorRedLow)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	occ := s.OccupancyGrid()
	if len(occ) != 2 || len(occ[0]) != 3 {
		t.Fatalf("OccupancyGrid shape = %dx%d", len(occ), len(occ[0]))
	}
	if !occ[1][2] || occ[0][0] {
		t.Errorf("OccupancyGrid = %v", occ)
	}

	s.SetPixel(0, 0, core.ColorRedLow)
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if occ[0][0] {
		t.Error("OccupancyGrid must be a copy, not a live view")
	}
}
