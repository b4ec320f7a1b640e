package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Sheyworld98/pln-frontend/internal/config"
	"github.com/Sheyworld98/pln-frontend/internal/httpapi"
	"github.com/Sheyworld98/pln-frontend/internal/labeling"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	listenAddr := cfg.Service.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           httpapi.NewRouter(labeling.NewSeededStore(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("labelboard-service listening", "addr", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
