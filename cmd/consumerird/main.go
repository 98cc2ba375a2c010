// Command consumerird owns the IR blaster and serves it over HTTP on a unix
// socket or TCP address.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/consumerir/internal/config"
	"github.com/MrWong99/consumerir/internal/hal"
	"github.com/MrWong99/consumerir/internal/health"
	"github.com/MrWong99/consumerir/internal/observe"
	"github.com/MrWong99/consumerir/internal/server"
	"github.com/MrWong99/consumerir/internal/transmit"
	"github.com/MrWong99/consumerir/pkg/consumerir"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (defaults are used when empty)")
	queueTimeout := flag.Duration("queue-timeout", 0, "how long a request may wait for the blaster (0: until the client gives up)")
	flag.Parse()

	// ── Configuration ─────────────────────────────────────────────────────────
	var (
		levelVar slog.LevelVar
		orch     *transmit.Orchestrator
		watcher  *config.Watcher
		cfg      = config.Default()
	)
	if *configPath != "" {
		var err error
		watcher, err = config.NewWatcher(*configPath, config.WithOnChange(func(old, new *config.Config) {
			applyReload(old, new, &levelVar, orch)
		}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "consumerird: %v\n", err)
			return 1
		}
		cfg = watcher.Current()
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	levelVar.Set(slogLevel(cfg.Log.Level))
	logger, closeLog := newLogger(cfg.Log, &levelVar)
	defer closeLog()
	slog.SetDefault(logger)

	slog.Info("consumerird starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"socket_path", cfg.Server.SocketPath,
		"log_level", cfg.Log.Level,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	provider, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Transmitter ───────────────────────────────────────────────────────────
	orch = transmit.New(
		transmit.WithSettings(cfg.Hardware.Settings()),
		transmit.WithMetrics(provider.Metrics),
	)
	module := hal.NewModule(orch)
	dev, err := module.Open(consumerir.TransmitterName)
	if err != nil {
		slog.Error("failed to open transmitter", "err", err)
		return 1
	}
	defer dev.Close()

	// ── HTTP ──────────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	health.New(
		health.DeviceNode(orch.Settings),
		health.MixerPaths(orch.Settings),
	).Register(mux)
	if cfg.Telemetry.MetricsEnabled() {
		mux.Handle("GET /metrics", provider.Handler())
	}
	server.New(dev,
		server.WithInfo(module.Info),
		server.WithQueueTimeout(*queueTimeout),
	).Register(mux)

	ln, err := server.Listen(cfg.Server.ListenAddr, cfg.Server.SocketPath)
	if err != nil {
		slog.Error("failed to listen", "err", err)
		return 1
	}
	httpSrv := &http.Server{
		Handler:           observe.Middleware(provider.Metrics, mux)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── Run ───────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server ready", "addr", ln.Addr().String())
		if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		// A transmission in progress finishes before its response is written.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// applyReload applies the hot-reloadable parts of a config change.
func applyReload(old, new *config.Config, levelVar *slog.LevelVar, orch *transmit.Orchestrator) {
	d := config.Diff(old, new)
	if d.LogLevelChanged {
		levelVar.Set(slogLevel(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.HardwareChanged && orch != nil {
		orch.SetSettings(new.Hardware.Settings())
		slog.Info("hardware settings changed; applying to the next transmission", "fields", d.HardwareFields)
	}
	if config.RestartRequired(old, new) {
		slog.Warn("server, log file or telemetry settings changed; restart to apply")
	}
}
