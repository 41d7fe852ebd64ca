// File: server/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for the Server facade.

package server

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger sets the structured logger used by the server and its pumps.
func WithLogger(logger hclog.Logger) ServerOption {
	return func(s *Server) {
		s.cfg.Logger = logger
	}
}

// WithReadBufferSize overrides the per-connection receive buffer capacity.
func WithReadBufferSize(n int) ServerOption {
	return func(s *Server) {
		s.cfg.ReadBufferSize = n
	}
}

// WithShutdownTimeout overrides how long Shutdown waits for draining.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.cfg.ShutdownTimeout = d
	}
}
