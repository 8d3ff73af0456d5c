// SPDX-License-Identifier: MIT
// Package dist: sentinel error set.
// All collectives and distributed containers return these sentinels (wrapped
// with context via %w) so callers can match them with errors.Is.

package dist

import "errors"

var (
	// ErrCommunication signals that a collective exchange failed or was aborted.
	// The originating message is always attached to the wrapped error.
	ErrCommunication = errors.New("dist: collective communication failed")

	// ErrBadGrid indicates a process grid whose shape does not match the communicator.
	ErrBadGrid = errors.New("dist: invalid process grid")

	// ErrGridMismatch indicates two distributed operands living on different grids.
	ErrGridMismatch = errors.New("dist: operands are on different process grids")

	// ErrBadPayload indicates a malformed wire frame received from a peer.
	ErrBadPayload = errors.New("dist: malformed payload")
)
