package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/grid"
)

// nullDriver accepts everything. Only the loop goroutine calls it.
type nullDriver struct {
	writes int
}

func (d *nullDriver) ClearAll(core.Color) error        { return nil }
func (d *nullDriver) WriteOne(int, core.Color) error   { d.writes++; return nil }
func (d *nullDriver) WriteBatch(ws []grid.Write) error { d.writes += len(ws); return nil }

func testConfig(drv grid.Driver) Config {
	return Config{
		// The drop timer never fires during a test.
		Runtime:   core.RuntimeConfig{Width: 8, Height: 8, Interval: time.Hour, Seed: 1},
		Catalogue: engine.Catalogue{engine.ClassicCatalogue()[0]},
		Drivers:   []grid.Driver{drv},
	}
}

func run(t *testing.T, s *Session) (context.Context, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	return ctx, errc
}

func pieceX(t *testing.T, ctx context.Context, s *Session) int {
	t.Helper()
	var p engine.Piece
	var ok bool
	require.NoError(t, s.Inspect(ctx, func(e *engine.Engine) { p, ok = e.Piece() }))
	require.True(t, ok, "no active piece")
	return p.X
}

func TestSessionRoutesKeysAndPads(t *testing.T) {
	drv := &nullDriver{}
	s, err := New(testConfig(drv))
	require.NoError(t, err)
	ctx, errc := run(t, s)

	assert.Equal(t, 2, pieceX(t, ctx, s))
	assert.Equal(t, engine.Running, s.State())

	s.Press("left")
	assert.Equal(t, 1, pieceX(t, ctx, s))

	s.Pad(0x90, 113, 127) // right pad
	assert.Equal(t, 2, pieceX(t, ctx, s))

	s.Press(" ")
	require.NoError(t, s.Inspect(ctx, func(*engine.Engine) {}))
	assert.Equal(t, engine.Paused, s.State())

	s.Emit(core.PauseIntent())
	require.NoError(t, s.Inspect(ctx, func(*engine.Engine) {}))
	assert.Equal(t, engine.Running, s.State())

	s.Stop()
	require.NoError(t, <-errc)
	assert.False(t, s.Press("left"), "Press after Stop should report false")
	assert.Positive(t, drv.writes)
}

func TestSessionWaitForStart(t *testing.T) {
	cfg := testConfig(&nullDriver{})
	cfg.WaitForStart = true
	s, err := New(cfg)
	require.NoError(t, err)
	ctx, errc := run(t, s)

	require.NoError(t, s.Inspect(ctx, func(*engine.Engine) {}))
	assert.Equal(t, engine.Idle, s.State())

	s.Press("enter")
	assert.Equal(t, 2, pieceX(t, ctx, s))
	assert.Equal(t, engine.Running, s.State())

	s.Stop()
	require.NoError(t, <-errc)
}

func TestNewRejectsMissingDriver(t *testing.T) {
	cfg := testConfig(nil)
	cfg.Drivers = nil
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestRunReturnsNilOnCancel(t *testing.T) {
	s, err := New(testConfig(&nullDriver{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}
