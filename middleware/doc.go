// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides HTTP cross-cutting helpers: request logging,
// CORS, and JSON request/response encoding. Error responses carry a
// generic message; internal detail stays in the logs.
package middleware
