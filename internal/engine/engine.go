// Package engine implements the falling-block game on a grid.Surface.
//
// The engine is single-threaded: every method, timer callback and intent
// handler must run on the same event loop (see package loop). The engine
// never touches grid cells directly; it paints through the surface and
// collides against an occupancy snapshot taken when a piece locks.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maxwellito/tetrispad/internal/clock"
	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/grid"
	"github.com/maxwellito/tetrispad/internal/input"
)

// State is the engine's lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EndReason says why a game ended.
type EndReason int

const (
	EndNone EndReason = iota
	// EndDeadlock: two consecutive lock windows without a successful move.
	EndDeadlock
	// EndBlockedSpawn: a new piece overlapped settled cells.
	EndBlockedSpawn
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndDeadlock:
		return "deadlock"
	case EndBlockedSpawn:
		return "blocked spawn"
	default:
		return fmt.Sprintf("EndReason(%d)", int(r))
	}
}

var (
	// ErrAlreadyStarted is returned by Start outside the Idle state.
	ErrAlreadyStarted = errors.New("engine: already started")
	// ErrNotEnded is returned by Restart before the game has ended.
	ErrNotEnded = errors.New("engine: game has not ended")
)

// DefaultInterval is the default drop period.
const DefaultInterval = 600 * time.Millisecond

// noWindow marks a move counter with no completed window behind it.
const noWindow = -1

// Engine is the game state machine.
type Engine struct {
	surface   *grid.Surface
	source    *input.Source
	clock     clock.Clock
	logger    *log.Logger
	picker    Picker
	catalogue Catalogue
	palette   Palette
	interval  time.Duration

	state       State
	reason      EndReason
	piece       *Piece
	snapshot    [][]bool
	movesNow    int
	movesBefore int

	timer       clock.Timer
	clearing    *Sequence
	flourish    *Sequence
	unsubscribe func()
	observers   []func(State)
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the drop period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = d
	}
}

// WithCatalogue sets the templates new pieces are drawn from.
func WithCatalogue(c Catalogue) Option {
	return func(e *Engine) {
		e.catalogue = c
	}
}

// WithRand sets the piece picker. *rand.Rand satisfies Picker.
func WithRand(p Picker) Option {
	return func(e *Engine) {
		e.picker = p
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithPalette overrides the effect colors. Empty cells are always
// core.ColorOff.
func WithPalette(p Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// New creates an idle engine drawing on surface and listening to source.
// source may be nil when the engine is driven by method calls only.
func New(surface *grid.Surface, source *input.Source, c clock.Clock, opts ...Option) (*Engine, error) {
	e := &Engine{
		surface:     surface,
		source:      source,
		clock:       c,
		logger:      log.New(io.Discard),
		catalogue:   ClassicCatalogue(),
		palette:     DefaultPalette(),
		interval:    DefaultInterval,
		movesBefore: noWindow,
		snapshot:    surface.OccupancyGrid(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.picker == nil {
		e.picker = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.interval <= 0 {
		return nil, fmt.Errorf("engine: interval must be positive, got %v", e.interval)
	}
	if err := e.catalogue.Validate(surface.Width(), surface.Height()); err != nil {
		return nil, err
	}
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// EndReason returns why the last game ended, or EndNone.
func (e *Engine) EndReason() EndReason {
	return e.reason
}

// Interval returns the drop period.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Piece returns a copy of the active piece.
func (e *Engine) Piece() (Piece, bool) {
	if e.piece == nil {
		return Piece{}, false
	}
	return e.piece.Clone(), true
}

// Snapshot returns a copy of the occupancy snapshot used for collisions.
func (e *Engine) Snapshot() [][]bool {
	out := make([][]bool, len(e.snapshot))
	for y, row := range e.snapshot {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Moves returns the successful move counts of the current and the previous
// lock window. The previous count is -1 before the first lock.
func (e *Engine) Moves() (current, previous int) {
	return e.movesNow, e.movesBefore
}

// Clearing reports whether a row-clear sequence is in flight.
func (e *Engine) Clearing() bool {
	return e.clearing != nil
}

// OnStateChange registers fn to be called after every state transition.
func (e *Engine) OnStateChange(fn func(State)) {
	e.observers = append(e.observers, fn)
}

// Listen subscribes the engine to its input source without starting a
// game, so a Start intent can begin one. Start calls it implicitly.
func (e *Engine) Listen() {
	if e.source == nil || e.unsubscribe != nil {
		return
	}
	e.unsubscribe = e.source.OnIntent(e.handleIntent)
}

// Close unsubscribes from the input source and stops every timer.
func (e *Engine) Close() {
	e.stopTimer()
	e.cancelSequences()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Start clears the board, spawns the first piece and starts dropping.
func (e *Engine) Start() error {
	if e.state != Idle {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, e.state)
	}
	e.Listen()
	e.begin()
	return nil
}

// Restart starts a new game after the previous one ended.
func (e *Engine) Restart() error {
	if e.state != Ended {
		return fmt.Errorf("%w (state %s)", ErrNotEnded, e.state)
	}
	e.cancelSequences()
	e.begin()
	return nil
}

func (e *Engine) begin() {
	if err := e.surface.ResetAll(core.ColorOff); err != nil {
		e.logger.Error("clear board", "err", err)
	}
	e.reason = EndNone
	e.piece = nil
	e.movesNow = 0
	e.movesBefore = noWindow
	e.snapshot = e.surface.OccupancyGrid()
	e.setState(Running)
	if !e.PickNewBlock() {
		e.end(EndBlockedSpawn)
		return
	}
	e.startTimer()
}

// Tick advances the game by one drop period: the piece moves down, or locks
// when it cannot.
func (e *Engine) Tick() {
	if e.state != Running || e.clearing != nil || e.piece == nil {
		return
	}
	if e.MoveBlock(core.DirDown) {
		return
	}
	e.lock()
}

// MoveBlock shifts the active piece one cell. It reports whether the piece
// moved; a refused move leaves the board exactly as it was.
func (e *Engine) MoveBlock(dir core.Direction) bool {
	if e.piece == nil {
		return false
	}
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return false
	}

	e.paint(core.ColorOff)
	fits := e.DoesPatternFit(e.piece.Pattern, e.piece.X+dx, e.piece.Y+dy)
	if fits {
		e.piece.X += dx
		e.piece.Y += dy
		e.movesNow++
	}
	e.paint(e.piece.Color)
	e.commit()
	return fits
}

// RotateBlock turns the active piece in place: right is clockwise, left is
// counter-clockwise. A rotation that does not fit at the current anchor is
// refused without touching the board.
func (e *Engine) RotateBlock(dir core.Direction) bool {
	if e.piece == nil || (dir != core.DirLeft && dir != core.DirRight) {
		return false
	}
	rotated := e.piece.Pattern.Rotate(dir)
	if !e.DoesPatternFit(rotated, e.piece.X, e.piece.Y) {
		return false
	}
	e.paint(core.ColorOff)
	e.piece.Pattern = rotated
	e.paint(e.piece.Color)
	e.commit()
	return true
}

// DoesPatternFit reports whether pattern anchored at (x, y) lies inside the
// grid and misses every settled cell of the occupancy snapshot.
func (e *Engine) DoesPatternFit(pattern Pattern, x, y int) bool {
	box := core.NewRect(x, y, pattern.Width(), pattern.Height())
	if !e.surface.Bounds().ContainsRect(box) {
		return false
	}
	for dy, row := range pattern {
		for dx, filled := range row {
			if filled && e.snapshot[y+dy][x+dx] {
				return false
			}
		}
	}
	return true
}

// PickNewBlock spawns a random template centered on the top row and paints
// it. It returns false, painting nothing, when the spawn position overlaps
// settled cells.
func (e *Engine) PickNewBlock() bool {
	t := e.catalogue.Pick(e.picker)
	p := &Piece{
		Name:    t.Name,
		Pattern: t.Pattern,
		Color:   t.Color,
		X:       (e.surface.Width() - t.Pattern.Width()) / 2,
		Y:       0,
	}
	if !e.DoesPatternFit(p.Pattern, p.X, p.Y) {
		e.logger.Debug("spawn blocked", "piece", p.Name, "x", p.X)
		e.piece = nil
		return false
	}
	e.piece = p
	e.paint(p.Color)
	e.commit()
	e.logger.Debug("piece spawned", "piece", p.Name, "x", p.X)
	return true
}

// Pause toggles between Running and Paused. Pausing stops the drop timer,
// suspends a row-clear in progress and shows the pause glyph; resuming
// restores the board and carries on where the game stopped.
func (e *Engine) Pause() {
	switch e.state {
	case Running:
		e.stopTimer()
		if e.clearing != nil {
			e.clearing.Suspend()
		}
		glyph := PauseGlyph(e.surface.Width(), e.surface.Height(), e.palette.Pause)
		if err := e.surface.Overlay(glyph); err != nil {
			e.logger.Error("show pause glyph", "err", err)
		}
		e.setState(Paused)
	case Paused:
		if err := e.surface.Restore(); err != nil {
			e.logger.Error("restore board", "err", err)
		}
		e.setState(Running)
		if e.clearing != nil {
			e.clearing.Resume()
		} else {
			e.startTimer()
		}
	}
}

func (e *Engine) handleIntent(in core.Intent) {
	switch in.Kind {
	case core.IntentMove:
		if e.controllable() {
			e.MoveBlock(in.Direction)
		}
	case core.IntentRotate:
		if e.controllable() {
			e.RotateBlock(in.Direction)
		}
	case core.IntentPause:
		e.Pause()
	case core.IntentStart:
		switch e.state {
		case Idle:
			e.begin()
		case Ended:
			if err := e.Restart(); err != nil {
				e.logger.Error("restart", "err", err)
			}
		}
	}
}

func (e *Engine) controllable() bool {
	return e.state == Running && e.clearing == nil && e.piece != nil
}

func (e *Engine) paint(c core.Color) {
	e.piece.Cells(func(x, y int) {
		e.surface.SetPixel(x, y, c)
	})
}

func (e *Engine) commit() {
	if err := e.surface.Commit(); err != nil {
		e.logger.Error("commit", "err", err)
	}
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	from := e.state
	e.state = s
	e.logger.Debug("state change", "from", from, "to", s)
	for _, fn := range e.observers {
		fn(s)
	}
}

func (e *Engine) startTimer() {
	if e.timer != nil {
		return
	}
	e.timer = e.clock.AfterFunc(e.interval, e.onTimer)
}

func (e *Engine) onTimer() {
	e.timer = e.clock.AfterFunc(e.interval, e.onTimer)
	e.Tick()
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) cancelSequences() {
	if e.clearing != nil {
		e.clearing.Cancel()
		e.clearing = nil
	}
	if e.flourish != nil {
		e.flourish.Cancel()
		e.flourish = nil
	}
}
