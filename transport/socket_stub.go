// File: transport/socket_stub.go
//go:build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw-fd transport stub for platforms without the Linux socket path.

package transport

import (
	"github.com/momentics/hioload-pump/api"
)

// Socket is unavailable on this platform; use NetConn instead.
type Socket struct{}

// NewSocket reports that raw-fd transports are unsupported here.
func NewSocket(fd int) (*Socket, error) {
	return nil, api.ErrNotSupported
}

// Read implements api.Transport.
func (s *Socket) Read(p []byte) (int, error) { return 0, api.ErrNotSupported }

// Writev implements api.Transport.
func (s *Socket) Writev(spans [][]byte) (int, error) { return 0, api.ErrNotSupported }

// ShutdownSend implements api.Transport.
func (s *Socket) ShutdownSend() {}

// ShutdownReceive implements api.Transport.
func (s *Socket) ShutdownReceive() {}

// Close implements api.Transport.
func (s *Socket) Close() error { return nil }
