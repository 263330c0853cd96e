package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxwellito/tetrispad/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [pieces]",
	Short: "Start the tetrispad SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game on a virtual Launchpad drawn in
the terminal. Address, host key and idle timeout default to the ssh
section of the config file.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tetrispad/host_key

Examples:
  tetrispad serve                           # Listen on :23234 with auto-generated key
  tetrispad serve --ssh :2222               # Listen on port 2222
  tetrispad serve mini                      # Serve the mini catalogue
  tetrispad serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

func runServe(_ *cobra.Command, args []string) error {
	var catalogue string
	if len(args) > 0 {
		catalogue = args[0]
	}
	game, err := gameConfig(catalogue)
	if err != nil {
		return err
	}
	// Connections pick their own seed.
	game.Runtime.Seed = 0

	sc := tui.DefaultSSHServerConfig()
	sc.Game = game
	sc.Logger = logger.WithPrefix("tetrispad-ssh")
	if cfg.SSH.Address != "" {
		sc.Address = cfg.SSH.Address
	}
	if flagSSHAddr != "" {
		sc.Address = flagSSHAddr
	}
	sc.HostKeyPath = cfg.SSH.HostKey
	if flagHostKey != "" {
		sc.HostKeyPath = flagHostKey
	}
	if cfg.SSH.IdleTimeout > 0 {
		sc.IdleTimeout = cfg.SSH.IdleTimeout
	}
	if flagIdleTimeout > 0 {
		sc.IdleTimeout = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(sc)
	if err != nil {
		return err
	}

	fmt.Printf("Starting tetrispad SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx)
}
