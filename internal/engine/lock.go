package engine

import "github.com/maxwellito/tetrispad/internal/core"

// lock settles the active piece. Two windows in a row without a single
// successful move end the game; otherwise full rows are cleared and the
// next piece spawns.
func (e *Engine) lock() {
	if e.movesNow == 0 && e.movesBefore == 0 {
		e.end(EndDeadlock)
		return
	}
	e.movesBefore = e.movesNow
	e.movesNow = 0

	var rows []int
	for y := 0; y < e.surface.Height(); y++ {
		if e.surface.IsRowFilled(y) {
			rows = append(rows, y)
		}
	}
	if len(rows) == 0 {
		e.spawnNext()
		return
	}
	e.clearRows(rows)
}

// spawnNext refreshes the occupancy snapshot and brings in a new piece.
func (e *Engine) spawnNext() {
	e.snapshot = e.surface.OccupancyGrid()
	if !e.PickNewBlock() {
		e.end(EndBlockedSpawn)
	}
}

// clearRows flashes rows through the clear colors, one quarter interval
// each after an initial eighth, then removes them and lets everything above
// fall.
func (e *Engine) clearRows(rows []int) {
	e.stopTimer()
	e.piece = nil
	e.logger.Debug("clearing rows", "rows", rows)

	step := e.interval / 4
	steps := make([]Step, 0, len(e.palette.Clear)+1)
	for i, c := range e.palette.Clear {
		wait := step
		if i == 0 {
			wait = e.interval / 8
		}
		steps = append(steps, Step{Wait: wait, Run: e.paintRows(rows, c)})
	}
	steps = append(steps, Step{Wait: step, Run: func() { e.collapse(rows) }})

	e.clearing = NewSequence(e.clock, steps, func() {
		e.clearing = nil
		e.spawnNext()
		if e.state == Running {
			e.startTimer()
		}
	})
	e.clearing.Start()
}

func (e *Engine) paintRows(rows []int, c core.Color) func() {
	return func() {
		for _, y := range rows {
			for x := 0; x < e.surface.Width(); x++ {
				e.surface.SetPixel(x, y, c)
			}
		}
		e.commit()
	}
}

// collapse drops the given rows from the committed grid, prepends as many
// empty rows and sends the new frame.
func (e *Engine) collapse(rows []int) {
	w, h := e.surface.Width(), e.surface.Height()
	cells := e.surface.Cells()
	remove := make(map[int]bool, len(rows))
	for _, y := range rows {
		remove[y] = true
	}

	next := make([]core.Color, 0, len(cells))
	for i := 0; i < len(rows)*w; i++ {
		next = append(next, core.ColorOff)
	}
	for y := 0; y < h; y++ {
		if remove[y] {
			continue
		}
		next = append(next, cells[y*w:(y+1)*w]...)
	}
	if err := e.surface.ReplaceAll(next); err != nil {
		e.logger.Error("collapse rows", "err", err)
	}
}

// end stops the game and fills the board from the bottom row up, one row
// every sixteenth of the interval.
func (e *Engine) end(reason EndReason) {
	e.stopTimer()
	if e.clearing != nil {
		e.clearing.Cancel()
		e.clearing = nil
	}
	e.piece = nil
	e.reason = reason
	e.logger.Info("game over", "reason", reason)
	e.setState(Ended)

	h := e.surface.Height()
	steps := make([]Step, 0, h)
	for y := h - 1; y >= 0; y-- {
		steps = append(steps, Step{Wait: e.interval / 16, Run: e.paintRows([]int{y}, e.palette.End)})
	}
	e.flourish = NewSequence(e.clock, steps, func() {
		e.flourish = nil
	})
	e.flourish.Start()
}
