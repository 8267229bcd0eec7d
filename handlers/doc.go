// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP surface consumed by the dashboards.

# Handler Types

Each handler is a struct constructed with its storage or fan-out
dependencies:

  - QueryHandler: read-only aggregates (/votos, /estadisticas) and
    fingerprint verification (/verificar-huella)
  - CandidateHandler: the candidate roster (/candidatos)
  - EventsHandler: the realtime nuevoVoto stream (/eventos)

# Read path

Votes never enter through HTTP; they arrive on the message topic and are
committed by the ingester. Everything here is an observer: a dashboard
fetches current aggregates via GET /votos on connect, then listens on
GET /eventos for one nuevoVoto per subsequently committed vote. There is
no replay on the event stream.
*/
package handlers
