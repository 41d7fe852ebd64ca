// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server facade: TCP accept loop feeding accepted connections into the
// pump core, with connection tracking and graceful shutdown.

package server

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-pump/pump"
	"github.com/momentics/hioload-pump/transport"
)

// Config holds server-side configuration parameters.
type Config struct {
	ListenAddr      string        // TCP bind address, e.g. ":9000"
	ReadBufferSize  int           // per-connection receive buffer capacity
	ShutdownTimeout time.Duration // how long Shutdown waits for connections
	Logger          hclog.Logger  // nil for silent operation
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":9000",
		ReadBufferSize:  64 * 1024,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server accepts connections and runs one pumped connection per accepted
// socket. Termination of individual connections is engine-driven; Shutdown
// stops accepting and waits for the active connections to drain.
type Server struct {
	cfg     *Config
	logger  hclog.Logger
	handler ConnectionHandler

	group errgroup.Group

	mu sync.Mutex
	ln net.Listener
}

// NewServer builds the server facade around an engine factory.
func NewServer(cfg *Config, factory EngineFactory, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	logger := s.cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s.logger = logger.Named("server")
	s.handler = NewConnectionHandler(&pump.Config{
		ReadBufferSize: s.cfg.ReadBufferSize,
		Logger:         logger,
	}, factory)
	return s
}

// ListenAndServe binds the configured address and serves until the listener
// is closed by Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on an externally prepared listener. It returns
// nil once the listener is closed by Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("accepting connections", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		c := conn
		s.group.Go(func() error {
			s.logger.Debug("connection accepted", "remote", c.RemoteAddr().String())
			<-s.handler(c.RemoteAddr(), transport.NewNetConn(c))
			s.logger.Debug("connection finished", "remote", c.RemoteAddr().String())
			return nil
		})
	}
}

// Shutdown closes the listener and waits up to ShutdownTimeout for active
// connections to terminate. Errors from both phases are aggregated.
func (s *Server) Shutdown() error {
	var result *multierror.Error

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			result = multierror.Append(result, err)
		}
	}

	drained := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(s.cfg.ShutdownTimeout):
		result = multierror.Append(result,
			errors.New("shutdown timeout: connections still draining"))
	}
	return result.ErrorOrNil()
}
