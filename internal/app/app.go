// Package app wires configuration, logging, and the hub into a running
// HTTP server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "crane-cafe/server"
	"crane-cafe/server/internal/journal"
	"crane-cafe/server/internal/ledger"
	servernet "crane-cafe/server/internal/net"
	"crane-cafe/server/internal/telemetry"
	"crane-cafe/server/internal/tuning"
	"crane-cafe/server/logging"
	"crane-cafe/server/logging/sinks"
)

const defaultJournalCapacity = 4096

// Run starts the server and blocks until it fails or ctx is cancelled.
func Run(ctx context.Context) error {
	telemetryLogger := telemetry.WrapLogger(log.Default())

	tun, err := tuning.Load(os.Getenv("TUNING_PATH"))
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	catalog, err := ledger.LoadCatalog(os.Getenv("MISSION_CATALOG"))
	if err != nil {
		return fmt.Errorf("load mission catalog: %w", err)
	}

	logConfig := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log: %w", err)
		}
		defer file.Close()
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(file, logConfig.JSON.FlushInterval),
		})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	journalCapacity := defaultJournalCapacity
	if raw := os.Getenv("JOURNAL_CAPACITY"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			journalCapacity = value
		} else {
			telemetryLogger.Printf("invalid JOURNAL_CAPACITY=%q: %v", raw, err)
		}
	}

	hub := server.NewHub(server.HubConfig{
		Tuning:    tun,
		Templates: catalog.Missions,
		Seed:      os.Getenv("GAME_SEED"),
		Publisher: router,
		Journal:   journal.New(journalCapacity, time.Hour),
		Logger:    telemetryLogger,
		Metrics:   telemetry.NewCounters(),
	})

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: os.Getenv("CLIENT_DIR"),
		Logger:    telemetryLogger,
	})

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
