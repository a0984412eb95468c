package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/vimy/supply-core/agent"
	"github.com/nstehr/vimy/supply-core/ipc"
	"github.com/nstehr/vimy/supply-core/observer"
	"github.com/nstehr/vimy/supply-core/store"
	"github.com/nstehr/vimy/supply-core/supply"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Supply Placement Sidecar`

func main() {
	var (
		socketPath   = flag.String("socket", env("SUPPLY_SOCKET", "/tmp/vimy-supply.sock"), "unix socket the bot host connects to")
		tuningPath   = flag.String("tuning", env("SUPPLY_TUNING", ""), "path to tuning.yaml (empty: defaults)")
		dbPath       = flag.String("db", env("SUPPLY_DB", ""), "sqlite state path (empty: in-memory per game)")
		journalDir   = flag.String("journal", env("SUPPLY_JOURNAL_DIR", ""), "decision journal directory (empty: off)")
		observerAddr = flag.String("observer", env("SUPPLY_OBSERVER_ADDR", ""), "websocket observer listen address (empty: off)")
		logLevel     = flag.String("log-level", env("SUPPLY_LOG_LEVEL", "info"), "debug, info, warn or error")
		logFormat    = flag.String("log-format", env("SUPPLY_LOG_FORMAT", "text"), "text or json")
	)
	flag.Parse()

	logger, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	fmt.Println(banner)
	slog.Info("starting supply sidecar")

	tuning := supply.DefaultTuning()
	if *tuningPath != "" {
		tuning, err = supply.LoadTuning(*tuningPath)
		if err != nil {
			slog.Error("failed to load tuning", "path", *tuningPath, "error", err)
			os.Exit(1)
		}
		slog.Info("tuning loaded", "path", *tuningPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := agent.Options{Tuning: tuning, JournalDir: *journalDir}

	if *dbPath != "" {
		db, err := store.OpenSQLite(*dbPath)
		if err != nil {
			slog.Error("failed to open state store", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		opts.State = func(gameID string) supply.StateStore { return db.Game(gameID) }
		slog.Info("state store opened", "path", *dbPath)
	}

	if *observerAddr != "" {
		hub := observer.NewHub()
		go hub.Run(ctx)
		opts.Recorders = append(opts.Recorders, hub)

		srv := &http.Server{Addr: *observerAddr, Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("observer listening", "addr", *observerAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("observer stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(*socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", *socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(*socketPath)

	slog.Info("listening on domain socket", "path", *socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, opts)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func handleConn(ctx context.Context, conn net.Conn, opts agent.Options) {
	c := ipc.NewConnection(conn, nil)
	a := agent.New(c, opts)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	c.ReadLoop(ctx)
	if err := a.Close(); err != nil {
		slog.Error("failed to close journal", "game", a.GameID, "error", err)
	}
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
