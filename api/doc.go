// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the capability contracts consumed and exposed by the
// hioload-pump core: the non-blocking Transport abstraction, the opaque
// connection Engine that decides what I/O should happen next, and the
// operation/result types exchanged between them.
//
// The core owns no protocol knowledge. Engines decide; pumps execute.
package api
