package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
	"github.com/vovakirdan/blockduel/internal/netplay"
	"github.com/vovakirdan/blockduel/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagLogLevel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host online duels",
	Long: `Start the authoritative host for online duels.

SSH users get the full menu and can host or join duels from it.
Websocket clients ('blockduel connect') join the same lobbies, so an SSH
player can duel a remote client. Every board lives on this host; clients
only send their own inputs and render the snapshots they receive.
Finished matches are stored in the scores database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.blockduel/host_key

Examples:
  blockduel serve                        # SSH on :23234, websockets on :8080
  blockduel serve --ssh :2222 --ws ""    # SSH only
  blockduel serve --ssh "" --ws :9000    # websockets only
  blockduel serve --log-level debug

Users can connect with:
  ssh localhost -p 23234
  blockduel connect ws://localhost:8080/ws`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH address (default from config, \"\" in config disables)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle SSH timeout (default from config)")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ssh") {
		cfg.Network.SSHAddress = flagSSHAddr
	}
	if cmd.Flags().Changed("ws") {
		cfg.Network.WSAddress = flagWSAddr
	}
	if flagHostKey != "" {
		cfg.Network.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Network.IdleTimeout = flagIdleTimeout
	}
	if cfg.Network.SSHAddress == "" && cfg.Network.WSAddress == "" {
		return errors.New("nothing to serve: both --ssh and --ws are empty")
	}

	logger := newLogger("blockduel", flagLogLevel)

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(cfg.CoordinatorConfig(), duel.Factory(cfg.DuelConfig()), sessions)
	coord.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		coord.SetResultSaver(store)
	}
	coord.Start()
	defer coord.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	running := 0

	if addr := cfg.Network.WSAddress; addr != "" {
		host := netplay.NewHost(coord, sessions, logger.WithPrefix("ws"))
		running++
		go func() { errs <- host.ListenAndServe(ctx, addr) }()
		fmt.Printf("Websocket clients: blockduel connect ws://localhost%s/ws\n", addr)
	}

	if addr := cfg.Network.SSHAddress; addr != "" {
		server, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     addr,
			HostKeyPath: cfg.Network.HostKeyPath,
			IdleTimeout: cfg.Network.IdleTimeout,
			TickRate:    flagFPS,
		}, store, coord, sessions, logger.WithPrefix("ssh"))
		if err != nil {
			stop()
			return err
		}
		running++
		go func() { errs <- server.ListenAndServe(ctx) }()
		fmt.Printf("SSH players: ssh localhost -p %s\n", portOf(addr))
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first failure stops the other listener.
	var firstErr error
	for ; running > 0; running-- {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
