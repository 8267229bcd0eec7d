// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/danielhkuo/urna/broadcast"
	"github.com/danielhkuo/urna/metrics"
	"github.com/danielhkuo/urna/models"
	"github.com/danielhkuo/urna/store"
)

// Outcome is the terminal state of one processed message.
type Outcome int

const (
	// OutcomeCommitted: a vote was durably committed and broadcast.
	OutcomeCommitted Outcome = iota
	// OutcomeRegistered: a new voter registration was created.
	OutcomeRegistered
	// OutcomeDuplicate: the voter already voted; the event was dropped.
	OutcomeDuplicate
	// OutcomeAlreadyRegistered: replayed registration; nothing changed.
	OutcomeAlreadyRegistered
	// OutcomeRejected: poison or semantically invalid message, terminated.
	OutcomeRejected
	// OutcomeRetried: storage did not confirm; the broker will redeliver.
	OutcomeRetried
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeRegistered:
		return "registered"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeAlreadyRegistered:
		return "already_registered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeRetried:
		return "retried"
	}
	return "unknown"
}

type Config struct {
	Stream  string
	Subject string
	Durable string

	// RequireVoter rejects vote events that carry no huella. Disabled
	// deployments tally them as anonymous votes.
	RequireVoter bool
	// LegacyWire accepts the colon-delimited payload variant.
	LegacyWire bool
}

// Ingester consumes the inbound vote/registration topic and drives the
// registry and vote store. It is the sole writer of domain state.
type Ingester struct {
	js       jetstream.JetStream
	votes    *store.Store
	registry *store.Registry
	bcast    *broadcast.Broadcaster
	cfg      Config
}

func New(js jetstream.JetStream, votes *store.Store, registry *store.Registry, bcast *broadcast.Broadcaster, cfg Config) *Ingester {
	if cfg.Stream == "" {
		cfg.Stream = "VOTOS"
	}
	if cfg.Subject == "" {
		cfg.Subject = "votos.entrada"
	}
	if cfg.Durable == "" {
		cfg.Durable = "urna-ingester"
	}
	return &Ingester{js: js, votes: votes, registry: registry, bcast: bcast, cfg: cfg}
}

// Run creates (or re-attaches to) the durable consumer and processes
// messages until ctx is canceled. The durable consumer with explicit acks
// gives at-least-once delivery: unconfirmed commits are NAK'd and
// redelivered, and the store's uniqueness constraint makes replays safe.
func (i *Ingester) Run(ctx context.Context) error {
	stream, err := i.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     i.cfg.Stream,
		Subjects: []string{i.cfg.Subject},
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", i.cfg.Stream, err)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   i.cfg.Durable,
		AckPolicy: jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", i.cfg.Durable, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return fmt.Errorf("failed to start message iterator: %w", err)
	}

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()

	slog.Info("ingester running", "stream", i.cfg.Stream, "subject", i.cfg.Subject)

	for {
		msg, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				return nil
			}
			return fmt.Errorf("message iterator failed: %w", err)
		}

		i.handle(ctx, msg)
	}
}

// handle processes one message and settles it with the broker.
func (i *Ingester) handle(ctx context.Context, msg jetstream.Msg) Outcome {
	outcome := i.process(ctx, msg.Data())

	var err error
	switch outcome {
	case OutcomeRetried:
		err = msg.Nak()
	case OutcomeRejected:
		// Poison messages are terminated so they never block the topic
		err = msg.Term()
	default:
		err = msg.Ack()
	}
	if err != nil {
		slog.Warn("failed to settle message", "outcome", outcome, "error", err)
	}

	return outcome
}

// process turns a raw payload into committed domain state. Every return
// path is a decided outcome; only storage-unconfirmed operations retry.
func (i *Ingester) process(ctx context.Context, data []byte) Outcome {
	env, err := decode(data, i.cfg.LegacyWire)
	if err != nil {
		metrics.MessagesMalformed.Inc()
		slog.Warn("dropping malformed message", "error", err)
		return OutcomeRejected
	}

	if env.Action == models.ActionRegistro {
		return i.processRegistration(ctx, env.Huella)
	}
	return i.processVote(ctx, env)
}

func (i *Ingester) processRegistration(ctx context.Context, huella string) Outcome {
	status, err := i.registry.Register(ctx, huella)
	if err != nil {
		metrics.MessagesRetried.Inc()
		slog.Error("registration not confirmed", "error", err)
		return OutcomeRetried
	}

	if status == store.RegisterAlreadyExists {
		slog.Info("registration replayed", "huella", huella)
		return OutcomeAlreadyRegistered
	}

	metrics.Registrations.Inc()
	slog.Info("voter registered", "huella", huella)
	return OutcomeRegistered
}

func (i *Ingester) processVote(ctx context.Context, env Envelope) Outcome {
	if env.Huella == "" && i.cfg.RequireVoter {
		metrics.VotesRejected.Inc()
		slog.Warn("dropping vote without huella", "candidato", env.Candidato)
		return OutcomeRejected
	}

	res, err := i.votes.CommitVote(ctx, env.Huella, env.Candidato)
	if err != nil {
		// Unconfirmed commit. Never broadcast; let the broker redeliver.
		metrics.MessagesRetried.Inc()
		slog.Error("vote commit not confirmed", "error", err)
		return OutcomeRetried
	}

	switch res.Status {
	case store.VoteCommitted:
		metrics.VotesCommitted.Inc()
		// Broadcast strictly after the store confirmed the commit
		i.bcast.Publish(env.Candidato)
		slog.Info("vote committed", "candidato", env.Candidato, "vote_id", res.VoteID)
		return OutcomeCommitted
	case store.DuplicateVoter:
		metrics.VotesDuplicate.Inc()
		slog.Info("duplicate vote dropped", "huella", env.Huella)
		return OutcomeDuplicate
	case store.UnknownCandidate:
		metrics.VotesRejected.Inc()
		slog.Warn("vote for unknown candidate rejected", "candidato", env.Candidato)
		return OutcomeRejected
	default: // store.UnknownVoter
		metrics.VotesRejected.Inc()
		slog.Warn("vote from unregistered voter rejected", "huella", env.Huella)
		return OutcomeRejected
	}
}
