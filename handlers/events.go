// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/urna/broadcast"
	"github.com/danielhkuo/urna/middleware"
	"github.com/danielhkuo/urna/models"
)

const keepAliveInterval = 30 * time.Second

// EventsHandler exposes the realtime channel as a server-sent event stream.
// Subscribers receive only votes committed after they connect; current
// aggregate state comes from GET /votos on connect.
type EventsHandler struct {
	bcast *broadcast.Broadcaster
}

func NewEventsHandler(bcast *broadcast.Broadcaster) *EventsHandler {
	return &EventsHandler{bcast: bcast}
}

// Stream handles GET /eventos
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	id, events := h.bcast.Subscribe()
	defer h.bcast.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Commit headers right away so the client sees the stream open
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			// Transport detected the disconnect; deferred Unsubscribe
			// removes us from the fan-out set
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case candidato := <-events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", models.EventNuevoVoto, candidato)
			flusher.Flush()
		}
	}
}
