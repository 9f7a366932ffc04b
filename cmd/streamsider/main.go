package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/streamsider/streamsider/internal/aggregate"
	"github.com/streamsider/streamsider/internal/api"
	"github.com/streamsider/streamsider/internal/cache"
	"github.com/streamsider/streamsider/internal/config"
	"github.com/streamsider/streamsider/internal/kick"
	"github.com/streamsider/streamsider/internal/poller"
	"github.com/streamsider/streamsider/internal/roster"
	"github.com/streamsider/streamsider/internal/storage"
	"github.com/streamsider/streamsider/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	godotenv.Load() //nolint:errcheck

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("streamsider starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("no config file, using defaults", "path", *configPath)
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}

	slog.Info("config loaded",
		"listen_addr", cfg.Server.ListenAddr,
		"poll_interval", cfg.Poll.Interval,
		"full_refresh_every", cfg.Poll.FullRefreshEvery,
		"max_streamers", cfg.Poll.MaxStreamers,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open storage", "path", cfg.Storage.Path, "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	client := kick.New(cfg.Kick)
	tracked := roster.New(kv, client, cfg.Poll.MaxStreamers)
	agg := aggregate.New(tracked, client, cache.New(cfg.Poll.CacheTTL))

	// A freshly connected surface gets the last published snapshot before any
	// broadcast arrives.
	hub := ws.New(func() (ws.Message, bool) {
		var snapshot json.RawMessage
		ok, err := kv.Get(context.Background(), storage.ScopeLocal, poller.SnapshotKey, &snapshot)
		if err != nil {
			slog.Error("reading snapshot for greeting failed", "err", err)
			return ws.Message{}, false
		}
		if !ok {
			return ws.Message{}, false
		}
		return ws.Message{Event: poller.EventStreamers, Data: snapshot}, true
	})
	go hub.Run(ctx)

	p := poller.New(agg, kv, hub, cfg.Poll)
	go p.Run(ctx)

	// Hot-reload watcher. Changes are logged only; a restart applies them.
	go func() {
		if err := config.Watch(ctx, *configPath, func(next *config.Config) {
			slog.Info("config file changed, restart to apply",
				"poll_interval", next.Poll.Interval,
				"max_streamers", next.Poll.MaxStreamers,
			)
		}); err != nil {
			slog.Warn("config watcher stopped", "err", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(agg, tracked, client, p, hub, kv))
	mux.Handle("/ws", hub)

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("streamsider shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
