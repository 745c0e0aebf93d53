// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import "errors"

// Sentinel errors returned by the tuner's public entry points.
var (
	// ErrNilEngine is returned by Init when no HostEngine is supplied.
	ErrNilEngine = errors.New("btune: host engine required")
	// ErrStopped is returned by NextCParams/Update callers that insist on
	// distinguishing the terminal state from a silent no-op; the exported
	// entry points themselves treat STOP as a no-op per spec, not an error.
	ErrStopped = errors.New("btune: tuner has reached the stop state")
	// ErrInvalidChunk is returned when Update is called with a cbytes/ctime
	// pair that violates the invariants of the current candidate (e.g.
	// negative ctime).
	ErrInvalidChunk = errors.New("btune: invalid chunk measurement")
)
