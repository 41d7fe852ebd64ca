// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport provides concrete implementations of the api.Transport
// capability: NetConn adapts any net.Conn (with true half-close on TCP), and
// Socket drives a raw non-blocking file descriptor directly on Linux.
package transport
