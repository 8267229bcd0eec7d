// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest is the protocol state machine between the inbound message
topic and the durable voting state.

Each message moves through decode, validate, and commit, and ends in one of
three broker dispositions:

  - Ack: the outcome is decided (committed, registered, or an expected
    duplicate that was dropped with a diagnostic).
  - Term: the message is poison (undecodable, unknown candidate or voter).
    Terminated messages never block the subscription and never redeliver.
  - Nak: storage did not confirm the operation. The broker redelivers and
    the store's uniqueness constraints make the replay idempotent.

Message order across voters carries no guarantee and none is needed: the
votos.id_usuario constraint makes processing order-independent. The only
ordering the ingester enforces is per vote: the realtime broadcast happens
strictly after the store confirms the commit, so a subscriber can never
observe a vote that is not retrievable from the aggregates.
*/
package ingest
