// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"log/slog"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/danielhkuo/urna/metrics"
)

const defaultBuffer = 16

// Broadcaster fans newly committed votes out to connected dashboard
// subscribers. There is no replay buffer: a subscriber that connects after
// an event was published never sees it and is expected to fetch current
// aggregates from the query surface first.
type Broadcaster struct {
	subs   *xsync.Map[uint64, chan string]
	nextID atomic.Uint64
	buffer int
}

// New creates a Broadcaster whose subscribers each get a buffered channel
// of the given size. buffer <= 0 uses the default.
func New(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broadcaster{
		subs:   xsync.NewMap[uint64, chan string](),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its id and delivery
// channel. The caller must Unsubscribe with the id when the connection
// closes.
func (b *Broadcaster) Subscribe() (uint64, <-chan string) {
	id := b.nextID.Add(1)
	ch := make(chan string, b.buffer)
	b.subs.Store(id, ch)
	metrics.Subscribers.Inc()

	slog.Info("subscriber connected", "id", id)

	return id, ch
}

// Unsubscribe removes a subscriber from the fan-out set.
func (b *Broadcaster) Unsubscribe(id uint64) {
	if _, ok := b.subs.LoadAndDelete(id); ok {
		metrics.Subscribers.Dec()
		slog.Info("subscriber disconnected", "id", id)
	}
}

// Publish delivers candidato to every current subscriber. The send is
// non-blocking per subscriber: when a buffer is full the event is dropped
// for that subscriber only, so one slow dashboard never stalls the rest.
func (b *Broadcaster) Publish(candidato string) {
	b.subs.Range(func(id uint64, ch chan string) bool {
		select {
		case ch <- candidato:
			metrics.BroadcastsSent.Inc()
		default:
			metrics.BroadcastsDropped.Inc()
			slog.Warn("dropping event for slow subscriber", "id", id)
		}
		return true
	})
}

// Len returns the number of connected subscribers.
func (b *Broadcaster) Len() int {
	return b.subs.Size()
}
