// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

var (
	// ErrCandidateExists is returned when adding a candidate whose name is
	// already taken.
	ErrCandidateExists = errors.New("candidate already exists")
)
