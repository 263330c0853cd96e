package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maxwellito/tetrispad/internal/config"
	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/grid"
	"github.com/maxwellito/tetrispad/internal/launchpad"
	"github.com/maxwellito/tetrispad/internal/platform/tui"
	"github.com/maxwellito/tetrispad/internal/session"
)

var (
	flagBackend string
	flagDevice  string
	flagAgain   bool
)

// endLinger is how long a headless game stays on the end animation before
// it restarts or exits.
const endLinger = 3 * time.Second

var playCmd = &cobra.Command{
	Use:   "play [pieces]",
	Short: "Play a game",
	Long: `Start a game, optionally with another piece catalogue.

Controls (default bindings):
  Left/Right/Down  - Move the piece
  A / S            - Rotate counter-clockwise / clockwise
  Space            - Pause
  Enter            - Start again after game over
  Q/Ctrl+C         - Quit

Launchpad pads (bottom row): 1-3 move left/right/down, 7-8 rotate,
any other pad pauses. In the terminal, clicking a pad does the same.

Backends:
  auto       - Launchpad when attached (mirrored in the terminal), else terminal
  launchpad  - Launchpad only; without an interactive terminal runs headless
  terminal   - Terminal grid only

Examples:
  tetrispad play
  tetrispad play mini
  tetrispad play --backend launchpad --device "Launchpad Mini"
  tetrispad play --backend launchpad --again   # headless kiosk`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBackend, "backend", "", "Output backend: auto, launchpad, terminal (default from config)")
	playCmd.Flags().StringVar(&flagDevice, "device", "", "MIDI port name to match (default from config)")
	playCmd.Flags().BoolVar(&flagAgain, "again", false, "Headless: start a new game after each game over")
}

func runPlay(_ *cobra.Command, args []string) error {
	var catalogue string
	if len(args) > 0 {
		catalogue = args[0]
	}
	backend := cfg.Device.Backend
	if flagBackend != "" {
		backend = flagBackend
	}
	name := cfg.Device.Name
	if flagDevice != "" {
		name = flagDevice
	}
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	// The alternate screen owns the terminal; keep logs off it.
	if interactive && flagLogFile == "" {
		if err := redirectLogs(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var device *launchpad.Device
	switch backend {
	case config.BackendTerminal:
	case config.BackendLaunchpad, config.BackendAuto:
		d, err := openDevice(name)
		switch {
		case err == nil:
			device = d
			defer func() {
				if err := device.Close(); err != nil {
					logger.Warn("close launchpad", "error", err)
				}
				launchpad.CloseBackend()
			}()
		case backend == config.BackendAuto && isNoDevice(err):
			logger.Info("no launchpad, using the terminal", "reason", err)
		default:
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	if !interactive {
		if device == nil {
			return errors.New("the terminal backend needs an interactive terminal")
		}
		return playHeadless(ctx, device, catalogue)
	}
	return playTerminal(ctx, device, catalogue)
}

func openDevice(name string) (*launchpad.Device, error) {
	t, err := launchpad.Open(name)
	if err != nil {
		return nil, err
	}
	logger.Info("launchpad connected", "port", t.Name())
	r := cfg.Runtime()
	return launchpad.NewDevice(t, r.Width, r.Height,
		launchpad.WithLogger(logger.WithPrefix("launchpad"))), nil
}

func isNoDevice(err error) bool {
	return errors.Is(err, launchpad.ErrDeviceNotFound) || errors.Is(err, launchpad.ErrUnsupportedProtocol)
}

// listenPads forwards pad messages into the session.
func listenPads(device *launchpad.Device, s *session.Session) (func(), error) {
	return device.Listen(func(status, key, velocity byte) {
		s.Pad(status, key, velocity)
	})
}

// playTerminal shows the game in the terminal, mirrored to the Launchpad
// when one is attached.
func playTerminal(ctx context.Context, device *launchpad.Device, catalogue string) error {
	r := cfg.Runtime()
	vg := tui.NewVirtualGrid(r.Width, r.Height)
	drivers := []grid.Driver{vg}
	if device != nil {
		drivers = append(drivers, device)
	}

	gc, err := gameConfig(catalogue, drivers...)
	if err != nil {
		return err
	}
	s, err := session.New(gc)
	if err != nil {
		return err
	}
	if device != nil {
		stopPads, err := listenPads(device, s)
		if err != nil {
			return err
		}
		defer stopPads()
	}

	return tui.Run(ctx, s, vg, tui.Options{KeyMap: gc.KeyMap})
}

// playHeadless runs on the Launchpad alone until interrupted or, without
// --again, until the game is over.
func playHeadless(ctx context.Context, device *launchpad.Device, catalogue string) error {
	gc, err := gameConfig(catalogue, device)
	if err != nil {
		return err
	}
	s, err := session.New(gc)
	if err != nil {
		return err
	}
	stopPads, err := listenPads(device, s)
	if err != nil {
		return err
	}
	defer stopPads()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	logger.Info("playing on the launchpad, Ctrl+C to stop")

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	var endedAt time.Time
	for {
		select {
		case err := <-errc:
			return err
		case now := <-ticker.C:
			if s.State() != engine.Ended {
				endedAt = time.Time{}
				continue
			}
			if endedAt.IsZero() {
				endedAt = now
				logger.Info("game over", "reason", s.EndReason())
				continue
			}
			if now.Sub(endedAt) < endLinger {
				continue
			}
			if !flagAgain {
				s.Stop()
				continue
			}
			endedAt = time.Time{}
			s.Emit(core.StartIntent())
		}
	}
}

// redirectLogs sends logs to ~/.tetrispad/tetrispad.log.
func redirectLogs() error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "tetrispad.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	logger.SetOutput(f)
	return nil
}
