package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/rivermark/cardroom/internal/server"
	"github.com/rivermark/cardroom/internal/store"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"cardroom.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Database string `short:"d" long:"database" help:"SQLite database path (overrides config)"`
	Seed     int64  `long:"seed" help:"Deck shuffle seed, 0 uses the clock"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Database != "" {
		cfg.Server.DatabasePath = CLI.Database
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	st, err := store.OpenSQLite(cfg.Server.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "path", cfg.Server.DatabasePath, "error", err)
		kctx.Exit(1)
	}
	defer st.Close()

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	svc := server.NewService(st, quartz.NewReal(), logger, seed)
	if err := svc.Bootstrap(context.Background(), cfg); err != nil {
		logger.Error("Failed to bootstrap tables", "error", err)
		kctx.Exit(1)
	}

	logger.Info("Starting cardroom server",
		"addr", cfg.GetServerAddress(),
		"tables", len(cfg.Tables),
		"database", cfg.Server.DatabasePath)

	wsServer := server.NewServer(cfg.GetServerAddress(), svc, logger)

	g, gctx := errgroup.WithContext(context.Background())
	g.Go(wsServer.Start)
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
			logger.Info("Shutting down server...")
			return wsServer.Stop()
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		kctx.Exit(1)
	}
}
