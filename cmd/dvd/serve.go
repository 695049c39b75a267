package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/dvd-bounce/internal/platform/tui"
	"github.com/vovakirdan/dvd-bounce/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagWatchAddr   string
	flagProfilesDir string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dvd SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session and its own profile, stored under
--profiles-dir by SSH user name. Finished sessions go to the shared history
database.

With --watch, running sessions are also streamed to spectators:
  GET /sessions  JSON list of live sessions
  GET /watch     WebSocket feed of session snapshots

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.dvd/host_key

Examples:
  dvd serve                           # Listen on :23234 with auto-generated key
  dvd serve --ssh :2222               # Listen on port 2222
  dvd serve --watch :8080             # Also serve the spectator feed
  dvd serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagWatchAddr, "watch", "", "Spectator feed address (host:port, empty = disabled)")
	serveCmd.Flags().StringVar(&flagProfilesDir, "profiles-dir", defaults.ProfilesDir, "Directory for per-user profiles")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, _ := newLogger(false)

	scores := openScores(logger)
	if scores != nil {
		defer scores.Close()
	}

	sshCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		ProfilesDir: expandHome(flagProfilesDir),
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Seed:        flagSeed,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var pub tui.Publisher
	if flagWatchAddr != "" {
		hub := web.NewHub(web.WithLogger(logger.WithPrefix("watch")))
		pub = hub
		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})
		g.Go(func() error {
			return hub.Serve(ctx, flagWatchAddr)
		})
	}

	server, err := tui.NewSSHServer(sshCfg, cfg, scores, pub, logger.WithPrefix("ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting dvd SSH server on %s\n", sshCfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	if flagWatchAddr != "" {
		fmt.Printf("Spectators: ws://%s/watch\n", flagWatchAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
