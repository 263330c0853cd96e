// tetrispad is a falling-block puzzle game for the Novation Launchpad.
//
// Usage:
//
//	tetrispad play [pieces]   - Play on a Launchpad or in the terminal
//	tetrispad serve           - Start SSH server for remote play
//	tetrispad devices         - List MIDI ports
//	tetrispad pieces          - List piece catalogues
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tetrispad, ./configs)
//	--seed <value>      - Set RNG seed for reproducible piece order
//	--interval <dur>    - Drop interval, e.g. 400ms
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maxwellito/tetrispad/internal/config"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/registry"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagInterval time.Duration
	flagLogLevel string
	flagLogFile  string
)

// Resolved by the root command before any subcommand runs.
var (
	cfg       config.Config
	cfgSource string
	logger    *log.Logger
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetrispad",
	Short: "Tetrispad - falling blocks on a Launchpad",
	Long: `Tetrispad is a falling-block puzzle game for the 8x8 LED grid of a
Novation Launchpad. Play with the keyboard or with the pads themselves;
without a Launchpad the grid is drawn in the terminal.

Available commands:
  play     - Play a game
  serve    - Start SSH server for remote play
  devices  - List MIDI ports
  pieces   - List piece catalogues

Examples:
  tetrispad play
  tetrispad play mini --backend terminal
  tetrispad play --interval 400ms --seed 42
  tetrispad serve
  tetrispad devices`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().DurationVar(&flagInterval, "interval", 0, "Drop interval (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(piecesCmd)
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetrispad",
		Level:           level,
	})

	cfg, cfgSource, err = config.LoadWithSource(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flagInterval != 0 {
		cfg.Game.Interval = flagInterval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	custom, err := cfg.Catalogue()
	if err != nil {
		return err
	}
	if custom != nil {
		registry.Register(config.CustomCatalogue, "Pieces from "+cfgSource, func() engine.Catalogue {
			return custom
		})
	}

	logger.Debug("config loaded", "source", cfgSource, "pieces", cfg.Game.Catalogue,
		"interval", cfg.Game.Interval)
	return nil
}
