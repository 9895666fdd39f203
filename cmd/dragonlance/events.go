package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iRKakashi/dragon-lance-web/internal/config"
	"github.com/iRKakashi/dragon-lance-web/internal/handlers"
	"github.com/iRKakashi/dragon-lance-web/internal/logger"
)

var eventsPort string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Serve broadcast game events over SSE",
	Long: `Relay the signals of sessions started with BROADCAST_EVENTS=true to HTTP
clients as Server-Sent Events at /v1/events/session/{sessionID}.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsPort, "port", "", "listen port (default EVENTS_PORT)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// The relay has no TUI to protect, so it logs to stdout.
	log := logger.Setup(cfg, os.Stdout)

	port := cfg.EventsPort
	if eventsPort != "" {
		port = eventsPort
	}

	client, err := redisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error("Error closing redis connection", "error", err)
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis connection established", "redis_url", cfg.RedisURL)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(map[string]handlers.Pinger{
		"redis": handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
	}, log))
	mux.Handle("/v1/events/session/", handlers.NewEventsHandler(client, log))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: event streams stay open.
		IdleTimeout: 60 * time.Second,
		// Streams end with the process signal so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Server is shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited")
	return nil
}
