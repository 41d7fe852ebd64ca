// File: engine/echo/echo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A complete reference implementation of the api.Engine capability: every
// received chunk is echoed back verbatim. Useful for examples, integration
// tests, and as a template for real protocol engines.

package echo

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-pump/api"
)

var _ api.Engine = (*Engine)(nil)

// Engine echoes all input back to the peer. Received chunks are copied onto
// a FIFO of pending spans; the write side emits them, yields when idle, and
// closes once the input stream has ended and the queue is drained.
//
// Both pump directions call into the engine concurrently, so all state is
// serialized behind one mutex, as the Engine contract requires.
type Engine struct {
	mu sync.Mutex

	pending  *queue.Queue // of []byte, not yet handed to the pump
	inflight [][]byte     // spans handed out, awaiting a write result

	inputDone bool
	failed    error

	writerResume func()
}

// New constructs an idle echo engine for one connection.
func New() *Engine {
	return &Engine{pending: queue.New()}
}

// NextReadOperation implements api.Engine: keep reading until the stream
// ends or the connection failed.
func (e *Engine) NextReadOperation() api.ReadOperation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inputDone || e.failed != nil {
		return api.ReadOpClose
	}
	return api.ReadOpRead
}

// Read implements api.Engine, consuming every byte it is given.
func (e *Engine) Read(p []byte) int {
	e.enqueue(p)
	return len(p)
}

// ReadEOF implements api.Engine. Trailing bytes are still echoed; after this
// the read direction closes and the write direction drains and closes.
func (e *Engine) ReadEOF(p []byte) int {
	e.mu.Lock()
	e.inputDone = true
	e.mu.Unlock()
	e.enqueue(p)
	return len(p)
}

// YieldReader implements api.Engine. The echo read side never yields, so a
// registered resume fires immediately.
func (e *Engine) YieldReader(resume func()) {
	resume()
}

// NextWriteOperation implements api.Engine.
func (e *Engine) NextWriteOperation() api.WriteOperation {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failed != nil {
		return api.WriteOperation{Kind: api.WriteOpClose}
	}
	if len(e.inflight) == 0 {
		for e.pending.Length() > 0 {
			e.inflight = append(e.inflight, e.pending.Remove().([]byte))
		}
	}
	if len(e.inflight) > 0 {
		spans := append([][]byte(nil), e.inflight...)
		return api.WriteOperation{Kind: api.WriteOpWrite, Spans: spans}
	}
	if e.inputDone {
		return api.WriteOperation{Kind: api.WriteOpClose}
	}
	return api.WriteOperation{Kind: api.WriteOpYield}
}

// ReportWriteResult implements api.Engine, advancing the in-flight spans by
// the accepted byte count. Partial writes leave the remainder in place to be
// re-emitted by the next write operation.
func (e *Engine) ReportWriteResult(res api.WriteResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res.Closed {
		e.failed = api.ErrTransportClosed
		e.inflight = nil
		return
	}
	n := res.N
	for n > 0 && len(e.inflight) > 0 {
		head := e.inflight[0]
		if n >= len(head) {
			n -= len(head)
			e.inflight = e.inflight[1:]
			continue
		}
		e.inflight[0] = head[n:]
		n = 0
	}
}

// YieldWriter implements api.Engine. If work arrived between the pump seeing
// Yield and registering the resume, the resume fires at once so no wakeup is
// lost.
func (e *Engine) YieldWriter(resume func()) {
	e.mu.Lock()
	if e.pending.Length() > 0 || len(e.inflight) > 0 || e.inputDone || e.failed != nil {
		e.mu.Unlock()
		resume()
		return
	}
	e.writerResume = resume
	e.mu.Unlock()
}

// ReportError implements api.Engine: any contained failure tears the echo
// session down.
func (e *Engine) ReportError(err error) {
	e.mu.Lock()
	e.failed = err
	resume := e.writerResume
	e.writerResume = nil
	e.mu.Unlock()
	if resume != nil {
		resume()
	}
}

// Err returns the failure that terminated the session, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

// enqueue copies p onto the pending FIFO and wakes a parked writer.
func (e *Engine) enqueue(p []byte) {
	e.mu.Lock()
	if len(p) > 0 {
		c := make([]byte, len(p))
		copy(c, p)
		e.pending.Add(c)
	}
	resume := e.writerResume
	e.writerResume = nil
	e.mu.Unlock()
	if resume != nil {
		resume()
	}
}
