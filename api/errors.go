// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error values shared across the hioload-pump library.

package api

import "errors"

var (
	// ErrTransportClosed is returned by transports whose send or receive
	// path is no longer usable.
	ErrTransportClosed = errors.New("transport is closed")

	// ErrNotSupported is returned by platform-specific constructors on
	// platforms that lack the underlying facility.
	ErrNotSupported = errors.New("operation not supported")

	// ErrUpgradeNotAllowed reports a client-role engine emitting an
	// upgrade operation, which only server-role engines may do.
	ErrUpgradeNotAllowed = errors.New("protocol upgrade not allowed in client role")
)
