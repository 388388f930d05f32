package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/repclock/internal/config"
	"github.com/claude/repclock/internal/display"
	"github.com/claude/repclock/internal/engine"
	repmcp "github.com/claude/repclock/internal/mcp"
	repserver "github.com/claude/repclock/internal/server"
	"github.com/claude/repclock/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepClock starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Wire the live display: the board always runs; desktop notifications
	// are optional and rate-limited so a 1 Hz countdown does not spam the
	// notification daemon.
	board := display.NewBoard()
	displays := engine.Fanout{board}

	if cfg.Engine.DesktopNotify {
		notifier, err := display.NewNotifier(log)
		if err != nil {
			log.Warn("desktop notifications unavailable", "error", err)
		} else {
			defer notifier.Close()
			displays = append(displays,
				engine.NewCoalescingDisplay(notifier, cfg.Engine.NotifyEverySeconds))
			log.Info("desktop notifications enabled", "every_seconds", cfg.Engine.NotifyEverySeconds)
		}
	}

	// Engine
	mgr := engine.NewManager(displays, cfg.Engine.BodyWeightKg, log)
	go mgr.Run(ctx)

	// HTTP server with the MCP endpoint mounted alongside the REST API
	srv := repserver.New(mgr, db, board, cfg.Auth.APIKey, cfg.Engine.DefaultRestSeconds, log)

	mcpSrv := repmcp.New(&repmcp.LocalSource{
		Mgr:         mgr,
		DB:          db,
		DefaultRest: cfg.Engine.DefaultRestSeconds,
	}, Version, log)
	srv.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv))

	// Listen over tsnet or plain TCP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
