// File: pump/pump.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The generic pump shared by both connection roles: two independent step
// loops, one per direction, each asking the engine for the next required
// operation and executing it against the transport.

package pump

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/momentics/hioload-pump/api"
)

// pump drives one engine against one transport. The read loop and the write
// loop run on separate goroutines; within a loop steps are strictly
// sequential, across loops no ordering exists. The receive buffer is touched
// only by the read loop.
type pump struct {
	engine    api.Engine
	transport api.Transport
	role      Role
	logger    hclog.Logger

	buf    *Buffer
	sawEOF bool

	readDone  *completion
	writeDone *completion
}

// readLoop runs read steps until a terminal outcome. The completion signal
// resolves on every exit path so the coordinator can never be left waiting.
func (p *pump) readLoop() {
	defer p.readDone.resolve()
	for p.readStep() {
	}
}

// readStep executes one read-side instruction. It returns false when the
// pump must stop. Any panic raised while evaluating the step is contained
// here and reported to the engine instead of unwinding the goroutine.
func (p *pump) readStep() (again bool) {
	defer func() {
		if r := recover(); r != nil {
			p.contain("read", r)
			again = false
		}
	}()

	switch op := p.engine.NextReadOperation(); op {
	case api.ReadOpRead:
		if p.sawEOF {
			// EOF has already been fed exactly once; a well-formed engine
			// transitions to Yield or Close after that.
			p.engine.ReportError(fmt.Errorf("read requested after end of stream"))
			return false
		}
		_, err := p.buf.Fill(func(dst []byte) (int, error) {
			n, rerr := p.transport.Read(dst)
			if n > 0 {
				// Deliver the bytes first; end of stream, if any, will
				// surface on the next read.
				return n, nil
			}
			return 0, rerr
		})
		if err != nil {
			p.sawEOF = true
			p.buf.Consume(p.engine.ReadEOF)
		} else {
			p.buf.Consume(p.engine.Read)
		}
		return true

	case api.ReadOpYield:
		p.park(p.engine.YieldReader)
		return true

	case api.ReadOpClose:
		p.readDone.resolve()
		p.transport.ShutdownReceive()
		return false

	default:
		p.engine.ReportError(fmt.Errorf("unknown read operation %d", op))
		return false
	}
}

// writeLoop mirrors readLoop for the outgoing direction.
func (p *pump) writeLoop() {
	defer p.writeDone.resolve()
	for p.writeStep() {
	}
}

// writeStep executes one write-side instruction, with the same containment
// discipline as readStep.
func (p *pump) writeStep() (again bool) {
	defer func() {
		if r := recover(); r != nil {
			p.contain("write", r)
			again = false
		}
	}()

	op := p.engine.NextWriteOperation()
	switch op.Kind {
	case api.WriteOpWrite:
		p.flush(op.Spans)
		return true

	case api.WriteOpUpgrade:
		if p.role != RoleServer {
			p.engine.ReportError(api.ErrUpgradeNotAllowed)
			return false
		}
		// The pending spans must hit the wire and their result must reach
		// the engine before the new protocol owns the transport.
		p.flush(op.Spans)
		p.logger.Debug("protocol switch handoff")
		op.Upgrade(p.transport)
		return true

	case api.WriteOpYield:
		p.park(p.engine.YieldWriter)
		return true

	case api.WriteOpClose:
		p.writeDone.resolve()
		if p.role == RoleServer {
			p.transport.ShutdownSend()
		}
		return false

	default:
		p.engine.ReportError(fmt.Errorf("unknown write operation kind %d", op.Kind))
		return false
	}
}

// flush performs one vectored write and feeds the outcome back. A transport
// error is not a pump failure: it is reported as a Closed result and the
// engine decides how to wind the connection down.
func (p *pump) flush(spans [][]byte) {
	n, err := p.transport.Writev(spans)
	if err != nil {
		p.engine.ReportWriteResult(api.WriteResult{Closed: true})
		return
	}
	p.engine.ReportWriteResult(api.WriteResult{N: n})
}

// park registers a one-shot resume callback with the engine and suspends the
// calling loop until it fires. Double resumes are tolerated.
func (p *pump) park(register func(resume func())) {
	resume := make(chan struct{})
	var once sync.Once
	register(func() {
		once.Do(func() { close(resume) })
	})
	<-resume
}

// contain translates a recovered panic into an engine exception report. The
// pump never retries and never re-raises.
func (p *pump) contain(direction string, r any) {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	p.logger.Error("pump step failed", "direction", direction, "error", err)
	p.engine.ReportError(err)
}
