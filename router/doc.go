// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the HTTP surface: route definitions using Go 1.22+
// method routing, with logging and CORS applied around the handlers.
package router
