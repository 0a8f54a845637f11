package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andy6609/chatrouter/internal/chat"
	"github.com/andy6609/chatrouter/internal/config"
	"github.com/andy6609/chatrouter/internal/console"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	srv, err := chat.NewServer(cfg, logger)
	if err != nil {
		logger.Error("invalid server configuration", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		httpSrv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http listener starting", "addr", cfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http listener failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleErr := make(chan error, 1)
	go func() {
		consoleErr <- console.New(srv, os.Stdout, logger).Run(ctx, os.Stdin)
	}()

	select {
	case <-ctx.Done():
	case err := <-consoleErr:
		if err != nil && !errors.Is(err, console.ErrQuit) {
			logger.Error("console stopped", "error", err)
		}
		if err == nil {
			// stdin closed; keep serving until signalled.
			<-ctx.Done()
		}
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}
	srv.Shutdown()
}
