// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesCommitted counts votes durably committed to the store.
	VotesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_votes_committed_total",
		Help: "Votes committed to the store.",
	})

	// VotesDuplicate counts vote events dropped because the voter already voted.
	VotesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_votes_duplicate_total",
		Help: "Vote events dropped as duplicates of an earlier vote.",
	})

	// VotesRejected counts vote events rejected for semantic reasons
	// (unknown candidate, unknown voter, missing huella).
	VotesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_votes_rejected_total",
		Help: "Vote events rejected during validation.",
	})

	// MessagesMalformed counts payloads that could not be decoded.
	MessagesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_messages_malformed_total",
		Help: "Inbound messages dropped as undecodable.",
	})

	// MessagesRetried counts messages NAK'd back to the broker after a
	// transient storage failure.
	MessagesRetried = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_messages_retried_total",
		Help: "Inbound messages returned to the broker for redelivery.",
	})

	// Registrations counts newly created voter registrations.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_registrations_total",
		Help: "Voter registrations created.",
	})

	// BroadcastsSent counts realtime events delivered to subscriber buffers.
	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_broadcasts_sent_total",
		Help: "Realtime events enqueued to subscribers.",
	})

	// BroadcastsDropped counts events dropped for slow subscribers.
	BroadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urna_broadcasts_dropped_total",
		Help: "Realtime events dropped due to subscriber backpressure.",
	})

	// Subscribers tracks currently connected realtime subscribers.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "urna_subscribers",
		Help: "Currently connected realtime subscribers.",
	})
)
