// Package session assembles one playable game: the event loop, the real
// clock, the pixel surface over one or more drivers, the input origins and
// the engine. Front ends (terminal, SSH, headless Launchpad) talk to a
// Session from their own goroutines; everything is funnelled onto the loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maxwellito/tetrispad/internal/clock"
	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/grid"
	"github.com/maxwellito/tetrispad/internal/input"
	"github.com/maxwellito/tetrispad/internal/loop"
)

// Config describes one game.
type Config struct {
	Runtime      core.RuntimeConfig
	Catalogue    engine.Catalogue       // nil = classic
	KeyMap       map[string]core.Intent // nil = input.DefaultKeyMap()
	ReleaseAfter time.Duration          // keyboard auto-release window, 0 = never
	WaitForStart bool                   // wait for a Start intent instead of starting at once
	Drivers      []grid.Driver
	Logger       *log.Logger
}

// Session is a running game.
type Session struct {
	loop     *loop.Loop
	clock    *clock.Real
	source   *input.Source
	surface  *grid.Surface
	engine   *engine.Engine
	keyboard *input.Keyboard
	pad      *input.Pad
	logger   *log.Logger
	wait     bool

	state  atomic.Int32
	reason atomic.Int32
}

// New builds a session. Nothing runs until Run.
func New(cfg Config) (*Session, error) {
	if len(cfg.Drivers) == 0 {
		return nil, errors.New("session: no grid driver")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := cfg.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		loop:   loop.New(0, logger),
		source: input.NewSource(),
		logger: logger,
		wait:   cfg.WaitForStart,
	}
	s.clock = clock.NewReal(s.loop.Post)
	s.surface = grid.New(grid.Fanout(cfg.Drivers...), cfg.Runtime.Width, cfg.Runtime.Height)

	opts := []engine.Option{
		engine.WithInterval(cfg.Runtime.Interval),
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithLogger(logger),
	}
	if cfg.Catalogue != nil {
		opts = append(opts, engine.WithCatalogue(cfg.Catalogue))
	}
	e, err := engine.New(s.surface, s.source, s.clock, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.engine = e
	e.OnStateChange(func(st engine.State) {
		s.reason.Store(int32(e.EndReason()))
		s.state.Store(int32(st))
	})

	kbOpts := []input.KeyboardOption{}
	if cfg.KeyMap != nil {
		kbOpts = append(kbOpts, input.WithKeyMap(cfg.KeyMap))
	}
	if cfg.ReleaseAfter > 0 {
		kbOpts = append(kbOpts, input.WithAutoRelease(s.clock, cfg.ReleaseAfter))
	}
	s.keyboard = input.NewKeyboard(s.source.Emit, kbOpts...)
	s.pad = input.NewPad(s.source.Emit, nil)

	s.loop.Post(s.begin)

	logger.Debug("session ready", "seed", seed, "interval", cfg.Runtime.Interval,
		"grid", fmt.Sprintf("%dx%d", cfg.Runtime.Width, cfg.Runtime.Height))
	return s, nil
}

func (s *Session) begin() {
	if s.wait {
		s.engine.Listen()
		return
	}
	if err := s.engine.Start(); err != nil {
		s.logger.Error("start game", "err", err)
	}
}

// Run processes events, starting with the game start queued by New, until
// ctx is done or Stop is called. It returns nil on a normal shutdown.
func (s *Session) Run(ctx context.Context) error {
	err := s.loop.Run(ctx)
	s.engine.Close()
	if errors.Is(err, loop.ErrStopped) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop ends Run.
func (s *Session) Stop() {
	s.loop.Stop()
}

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.loop.Done()
}

// Press forwards a terminal key event. It reports false once stopped.
func (s *Session) Press(key string) bool {
	return s.loop.Post(func() { s.keyboard.Press(key) })
}

// Release forwards a key release.
func (s *Session) Release() bool {
	return s.loop.Post(s.keyboard.Release)
}

// Pad forwards a raw Launchpad message. It is safe to call from a MIDI
// listener goroutine.
func (s *Session) Pad(status, key, velocity byte) bool {
	return s.loop.Post(func() { s.pad.Handle(status, key, velocity) })
}

// Emit sends an intent straight to the engine.
func (s *Session) Emit(in core.Intent) bool {
	return s.loop.Post(func() { s.source.Emit(in) })
}

// State returns the engine state as of the last transition.
func (s *Session) State() engine.State {
	return engine.State(s.state.Load())
}

// EndReason returns why the last game ended.
func (s *Session) EndReason() engine.EndReason {
	return engine.EndReason(s.reason.Load())
}

// Inspect runs fn on the loop with the engine and waits for it.
func (s *Session) Inspect(ctx context.Context, fn func(e *engine.Engine)) error {
	return s.loop.Do(ctx, func() { fn(s.engine) })
}
