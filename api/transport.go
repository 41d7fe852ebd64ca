// File: api/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Defines the transport socket capability driven by the pumps. The core
// never opens sockets itself; it executes read/write decisions against an
// externally supplied Transport.

package api

// Transport abstracts one open bidirectional connection.
//
// The read and write paths must be independent: shutting down one direction
// must not disturb an in-flight operation on the other. Both pumps share a
// single Transport, each issuing operations only for its own direction;
// Close is invoked exactly once, by the completion coordinator, after both
// pumps have terminated.
type Transport interface {
	// Read fills at most len(p) bytes of p and returns the count.
	// io.EOF (or any other error) signals end of stream; n may be 0.
	Read(p []byte) (n int, err error)

	// Writev performs a vectored write of the given byte spans and returns
	// the total number of bytes accepted. An error indicates the send path
	// is closed; partial acceptance is not an error.
	Writev(spans [][]byte) (n int, err error)

	// ShutdownSend half-closes the outgoing direction. Fire-and-forget.
	ShutdownSend()

	// ShutdownReceive half-closes the incoming direction. Fire-and-forget.
	ShutdownReceive()

	// Close fully closes the connection and releases its resources.
	Close() error
}
