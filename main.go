package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/urna/broadcast"
	"github.com/danielhkuo/urna/cliparse"
	"github.com/danielhkuo/urna/db"
	"github.com/danielhkuo/urna/ingest"
	"github.com/danielhkuo/urna/router"
	"github.com/danielhkuo/urna/store"
)

// Starter roster inserted when SEED_CANDIDATES is enabled and the table is
// empty, matching the legacy deployment's defaults.
var seedCandidates = []string{"Andrés Molina", "Carlos Castillo"}

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := sql.Open(cfg.DriverName(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedCandidates {
		if err := db.SeedCandidates(dbConn, seedCandidates); err != nil {
			slog.Error("candidate seeding failed", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Database schema ready")

	// Connect to the broker; reconnect forever with jittered waits so an
	// outage only pauses ingestion, never kills the process
	nc, err := nats.Connect(cfg.NatsURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("broker disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("broker reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		slog.Error("broker connection failed", "error", err)
		os.Exit(1)
	}
	defer nc.Drain()

	js, err := jetstream.New(nc)
	if err != nil {
		slog.Error("jetstream init failed", "error", err)
		os.Exit(1)
	}

	// Owned service objects, constructed once and passed by reference
	votes := store.New(dbConn, store.Options{
		StrictCandidates: cfg.StrictCandidates,
		Timeout:          cfg.StorageTimeout,
	})
	registry := store.NewRegistry(dbConn, cfg.StorageTimeout)
	bcast := broadcast.New(0)

	ingester := ingest.New(js, votes, registry, bcast, ingest.Config{
		Stream:       cfg.StreamName,
		Subject:      cfg.VoteSubject,
		RequireVoter: cfg.RequireVoter,
		LegacyWire:   cfg.LegacyWire,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ingesterDone := make(chan struct{})
	go func() {
		defer close(ingesterDone)
		if err := ingester.Run(ctx); err != nil {
			slog.Error("ingester stopped", "error", err)
		}
	}()

	// Create router
	mux := router.NewRouter(votes, registry, bcast)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "subject", cfg.VoteSubject)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Let the ingester settle in-flight messages before exiting
	select {
	case <-ingesterDone:
	case <-time.After(5 * time.Second):
		slog.Warn("ingester did not stop in time")
	}
}
