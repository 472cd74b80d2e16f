package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/regionshade/internal/daemon"
	"github.com/example/regionshade/internal/platform"
	"github.com/example/regionshade/internal/shortcuts"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: regionshade daemon [options]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	keys, err := shortcuts.Load(cfg.ShortcutsFile)
	if err != nil {
		log.Fatalf("Failed to load shortcuts: %v", err)
	}
	log.Printf("Configuration loaded (pin hotkey: %s, slots file: %s)", keys.HotkeyLabel(), cfg.SlotsFile)

	backend, err := platform.NewLinuxBackend(cfg.Display, cfg.XAuthority)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	d, err := daemon.New(logger, cfg, backend, &keys)
	if err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		log.Fatalf("Daemon failed: %v", err)
	}
	return 0
}
