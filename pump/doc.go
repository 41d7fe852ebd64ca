// File: pump/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pump implements the protocol-agnostic I/O pump core: a compacting
// receive buffer, two independently scheduled pump loops (one per direction)
// driving an api.Engine against an api.Transport, and the completion
// coordinator that joins both loops and performs the single transport close.
//
// The same generic pump serves both connection roles. A server-role pump may
// execute protocol-switch (upgrade) instructions and half-closes its send
// direction on close; a client-role pump never upgrades and stops writing
// without an explicit half-close, letting the peer observe EOF. The asymmetry
// is protocol policy and is intentional.
package pump
