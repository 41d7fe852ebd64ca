// File: pump/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection start-up and the completion coordinator: both pumps are spawned
// against one shared transport, and a third goroutine joins their completion
// signals before performing the single full close.

package pump

import (
	"github.com/hashicorp/go-hclog"

	"github.com/momentics/hioload-pump/api"
)

// Role selects the connection side the pump serves.
type Role int

const (
	// RoleServer is the listening side. Its write pump may execute upgrade
	// instructions and half-closes the send direction on close.
	RoleServer Role = iota

	// RoleClient is the initiating side. Its write pump never upgrades and
	// performs no explicit half-close; the peer observes EOF when the
	// transport is finally closed.
	RoleClient
)

// String returns the role name for logging.
func (r Role) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}

// Config holds the pump-level tunables.
type Config struct {
	// ReadBufferSize is the fixed capacity of the per-connection receive
	// buffer. Defaults to 64 KiB.
	ReadBufferSize int

	// Logger receives pump diagnostics. Defaults to a null logger.
	Logger hclog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize: 64 * 1024,
		Logger:         nil,
	}
}

// Connection is one running pumped connection: two pump goroutines plus the
// coordinator that closes the transport once both have finished.
type Connection struct {
	p        *pump
	done     chan struct{}
	closeErr error
}

// Start spawns the read pump, the write pump, and the completion coordinator
// for the given engine and transport. The engine must be freshly constructed
// for this connection; the transport is closed exactly once, by the
// coordinator, after both pumps terminate.
func Start(cfg *Config, role Role, eng api.Engine, tr api.Transport) *Connection {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	size := cfg.ReadBufferSize
	if size <= 0 {
		size = DefaultConfig().ReadBufferSize
	}

	p := &pump{
		engine:    eng,
		transport: tr,
		role:      role,
		logger:    logger.Named("pump").With("role", role.String()),
		buf:       NewBuffer(size),
		readDone:  newCompletion(),
		writeDone: newCompletion(),
	}
	c := &Connection{p: p, done: make(chan struct{})}

	go p.readLoop()
	go p.writeLoop()
	go c.join()
	return c
}

// join waits for both pumps and performs the one full transport close.
func (c *Connection) join() {
	<-c.p.readDone.done()
	<-c.p.writeDone.done()
	if err := c.p.transport.Close(); err != nil {
		c.p.logger.Error("transport close failed", "error", err)
		c.closeErr = err
	}
	close(c.done)
}

// Done is closed once both pumps have terminated and the transport is fully
// closed.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// CloseErr returns the transport close error, if any. Valid only after Done
// is closed.
func (c *Connection) CloseErr() error {
	return c.closeErr
}
