// File: client/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Initiating-side entry points. A client engine produces the request-body
// write handle at construction time; Connect hands it to the caller
// immediately while the pumps and the close sequence run in the background.

// Package client provides the initiating-side glue over the pump core.
package client

import (
	"io"
	"net"

	"github.com/momentics/hioload-pump/api"
	"github.com/momentics/hioload-pump/pump"
	"github.com/momentics/hioload-pump/transport"
)

// EngineFactory constructs a client-role engine together with the writable
// request-body handle it produced at creation time.
type EngineFactory func() (api.Engine, io.WriteCloser)

// Connect starts both pumps against an already established transport and
// returns the request-body handle plus the running connection. The caller
// writes the body through the handle; connection teardown is observed via
// Connection.Done.
func Connect(cfg *pump.Config, factory EngineFactory, tr api.Transport) (io.WriteCloser, *pump.Connection) {
	eng, body := factory()
	conn := pump.Start(cfg, pump.RoleClient, eng, tr)
	return body, conn
}

// Dial establishes a TCP connection to addr and starts the pumps over it.
func Dial(cfg *pump.Config, factory EngineFactory, addr string) (io.WriteCloser, *pump.Connection, error) {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	body, conn := Connect(cfg, factory, transport.NewNetConn(c))
	return body, conn, nil
}
