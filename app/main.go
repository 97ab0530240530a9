package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/lysyi3m/prodwatch/app/api"
	"github.com/lysyi3m/prodwatch/app/cfg"
	"github.com/lysyi3m/prodwatch/app/database"
	"github.com/lysyi3m/prodwatch/app/notify"
	"github.com/lysyi3m/prodwatch/app/pouet"
	"github.com/lysyi3m/prodwatch/app/snapshot"
	"github.com/lysyi3m/prodwatch/app/tasks"
	"github.com/lysyi3m/prodwatch/app/watch"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting prodwatch", "version", appCfg.Version, "prods", appCfg.ProdIDs, "interval", appCfg.Interval.String())

	store, err := openStore(appCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cached, err := store.IDs(); err == nil {
		slog.Info("Snapshot store ready", "store", appCfg.Store, "dir", appCfg.CacheDir, "cached", len(cached))
	}

	httpClient := &http.Client{Timeout: appCfg.Timeout}

	client := pouet.NewClient(httpClient, pouet.Options{
		APIBaseURL:  appCfg.APIBaseURL,
		SiteBaseURL: appCfg.SiteBaseURL,
		UserAgent:   appCfg.UserAgent,
		RateLimit:   appCfg.RateLimit,
	})

	var prods watch.ProdFetcher = client
	if appCfg.Source == cfg.SourceHTML {
		prods = pouet.NewScraper(client)
	}

	sink, err := newSink(appCfg, httpClient)
	if err != nil {
		return err
	}
	slog.Info("Notification sinks configured", "sinks", sink.SinkNames())

	watcher := watch.NewWatcher(prods, client, store, sink, client.ProdURL)
	scheduler := tasks.NewScheduler(watcher, appCfg.ProdIDs, appCfg.Interval)

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if appCfg.Port != "" {
		handler := api.NewHandler(store, scheduler.Status(), client.ProdURL, sink.SinkNames(), appCfg.Version)
		httpServer = &http.Server{
			Addr:         ":" + appCfg.Port,
			Handler:      api.NewServer(handler, appCfg.APIAccessKey),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		listener, err := net.Listen("tcp", httpServer.Addr)
		if err != nil {
			return fmt.Errorf("failed to bind status API on port %s: %w", appCfg.Port, err)
		}

		go func() {
			slog.Info("Starting status API", "port", appCfg.Port)
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	scheduler.Start()

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		slog.Debug("Failed to notify systemd", "error", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	daemon.SdNotify(false, daemon.SdNotifyStopping)
	slog.Info("Shutting down gracefully")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	scheduler.Stop()
	slog.Info("Shutdown complete")

	return nil
}

func openStore(c *cfg.Cfg) (snapshot.Store, error) {
	if c.ClearCache {
		slog.Info("Clearing cache directory", "dir", c.CacheDir)
	}

	if c.Store == cfg.StoreSQLite {
		if err := snapshot.PrepareDir(c.CacheDir, c.ClearCache); err != nil {
			return nil, err
		}
		db, err := database.NewConnection(filepath.Join(c.CacheDir, "snapshots.db"))
		if err != nil {
			return nil, err
		}
		return database.NewSnapshotRepository(db), nil
	}

	store := snapshot.NewFileStore(c.CacheDir)
	if err := store.Prepare(c.ClearCache); err != nil {
		return nil, err
	}
	return store, nil
}

func newSink(c *cfg.Cfg, httpClient *http.Client) (*notify.Multi, error) {
	var remotes []notify.Sink

	if c.WebhookURL != "" {
		remotes = append(remotes, notify.NewWebhook(c.WebhookURL, httpClient, c.UserAgent))
	}

	if c.TelegramToken != "" {
		telegram, err := notify.NewTelegram(notify.TelegramOptions{
			Token:      c.TelegramToken,
			ChatID:     c.TelegramChatID,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		remotes = append(remotes, telegram)
	}

	return notify.NewMulti(notify.NewConsole(os.Stdout), remotes...), nil
}
