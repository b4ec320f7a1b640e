package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Sheyworld98/pln-frontend/internal/backend"
	"github.com/Sheyworld98/pln-frontend/internal/cli"
	"github.com/Sheyworld98/pln-frontend/internal/config"
	"github.com/Sheyworld98/pln-frontend/internal/contributor"
	"github.com/Sheyworld98/pln-frontend/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	user := flag.String("user", "", "initial user id")
	server := flag.String("server", "", "labeling backend base URL (overrides config)")
	timeout := flag.Duration("timeout", 0, "HTTP timeout (overrides config)")
	exportDir := flag.String("export-dir", "", "directory for CSV exports (overrides config)")
	noCache := flag.Bool("no-cache", false, "disable the local snapshot cache")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	baseURL := cfg.Backend.BaseURL
	if *server != "" {
		baseURL = *server
	}
	httpTimeout := cfg.Backend.Timeout()
	if *timeout > 0 {
		httpTimeout = *timeout
	}
	dir := cfg.Export.Dir
	if *exportDir != "" {
		dir = *exportDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := backend.NewClient(baseURL, &http.Client{Timeout: httpTimeout})

	var store contributor.SnapshotStore
	if !*noCache && !cfg.Cache.Disabled {
		sqliteStore, err := snapshot.NewStore(cfg.Cache.Path)
		if err != nil {
			logger.Warn("snapshot cache unavailable", "err", err)
		} else {
			defer sqliteStore.Close()
			store = sqliteStore
		}
	}

	session := contributor.NewSession(client, store, logger)

	err = cli.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{
		Backend:     client,
		Session:     session,
		ExportDir:   dir,
		InitialUser: *user,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
