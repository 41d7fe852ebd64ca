// File: server/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The connection-handler factory: the upward interface of the pump core for
// the listening side.

package server

import (
	"net"

	"github.com/momentics/hioload-pump/api"
	"github.com/momentics/hioload-pump/pump"
)

// EngineFactory constructs a fresh engine for one accepted connection,
// bound to whatever application callbacks the protocol needs. Engines are
// never reused across connections.
type EngineFactory func(addr net.Addr) api.Engine

// ConnectionHandler starts both pumps for one accepted transport. The
// returned channel closes once the connection has fully terminated and the
// transport is closed.
type ConnectionHandler func(addr net.Addr, tr api.Transport) <-chan struct{}

// NewConnectionHandler binds a pump configuration and an engine factory
// into a server-role connection handler.
func NewConnectionHandler(cfg *pump.Config, factory EngineFactory) ConnectionHandler {
	return func(addr net.Addr, tr api.Transport) <-chan struct{} {
		return pump.Start(cfg, pump.RoleServer, factory(addr), tr).Done()
	}
}
