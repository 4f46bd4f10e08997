package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/tolet"
	"github.com/eringen/tolet/logging"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := runServe(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("tolet %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(configPath string) error {
	cfg, err := tolet.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	app := tolet.New(cfg, tolet.WithLogger(logger))
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func printUsage() {
	fmt.Println(`tolet - A rental listing and blog front end built with Go, Echo, and templ

Usage:
  tolet <command> [arguments]

Commands:
  serve [config.yaml]   Start the web server
  version               Print the tolet version
  help                  Show this help message

Environment:
  TOLET_ADDR, TOLET_BACKEND_URL, SESSION_SECRET, REDIS_ADDR, MINIO_ENDPOINT

Examples:
  tolet serve
  tolet serve /etc/tolet/config.yaml`)
}
