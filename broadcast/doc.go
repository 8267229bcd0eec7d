// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package broadcast implements the realtime fan-out of committed votes to
// live subscribers. Delivery is best effort per subscriber with bounded
// buffers; the subscriber set only changes on connect and disconnect and
// stays out of the commit hot path.
package broadcast
