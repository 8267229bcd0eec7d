// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
//
// The server stores data in a test temp directory and picks a random free
// port, so parallel tests never conflict and no external broker or Docker
// is needed. Server and connection are cleaned up with the test.
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // random available port
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("Embedded NATS server not ready within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// NewJetStream returns a JetStream context over nc, failing the test on error.
func NewJetStream(t *testing.T, nc *nats.Conn) jetstream.JetStream {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to create JetStream context: %v", err)
	}

	return js
}
