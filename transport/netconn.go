// File: transport/netconn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// api.Transport adapter over net.Conn. Vectored writes go through
// net.Buffers; half-close degrades to a no-op on connections that cannot
// express it (pipes, tls).

package transport

import (
	"net"
	"sync"

	"github.com/momentics/hioload-pump/api"
)

var _ api.Transport = (*NetConn)(nil)

type closeWriter interface{ CloseWrite() error }
type closeReader interface{ CloseRead() error }

// NetConn adapts a net.Conn to the api.Transport capability.
type NetConn struct {
	conn net.Conn

	closeOnce sync.Once
	closeErr  error
}

// NewNetConn wraps an established connection.
func NewNetConn(c net.Conn) *NetConn {
	return &NetConn{conn: c}
}

// Read implements api.Transport.
func (t *NetConn) Read(p []byte) (int, error) {
	return t.conn.Read(p)
}

// Writev implements api.Transport using net.Buffers, which collapses to a
// single writev syscall on platform sockets. Empty spans are skipped.
func (t *NetConn) Writev(spans [][]byte) (int, error) {
	bufs := make(net.Buffers, 0, len(spans))
	for _, s := range spans {
		if len(s) > 0 {
			bufs = append(bufs, s)
		}
	}
	if len(bufs) == 0 {
		return 0, nil
	}
	n, err := bufs.WriteTo(t.conn)
	return int(n), err
}

// ShutdownSend implements api.Transport. TCP connections get a real
// CloseWrite; everything else is left to the final Close.
func (t *NetConn) ShutdownSend() {
	if cw, ok := t.conn.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
}

// ShutdownReceive implements api.Transport.
func (t *NetConn) ShutdownReceive() {
	if cr, ok := t.conn.(closeReader); ok {
		_ = cr.CloseRead()
	}
}

// Close implements api.Transport. Safe to call more than once.
func (t *NetConn) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
