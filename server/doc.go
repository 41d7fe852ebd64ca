// File: server/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package server provides the listening-side entry points: a
// connection-handler factory binding engine construction to the pump core,
// and a Server facade with an accept loop and graceful shutdown.
package server
