// File: fake/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package fake provides scripted implementations of the api.Transport and
// api.Engine capabilities for testing and development. Behavior is
// predictable and controllable: reads are scripted, writes are recorded,
// and every engine interaction is captured for later assertions.
package fake
