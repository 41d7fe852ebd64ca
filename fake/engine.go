// File: fake/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scripted api.Engine double: operation scripts per direction, recorded
// feeds, results and exception reports, controllable yield resumption.

package fake

import (
	"sync"

	"github.com/momentics/hioload-pump/api"
)

var _ api.Engine = (*Engine)(nil)

// Engine is a scripted implementation of api.Engine for testing.
//
// Each direction pops instructions from its script; an exhausted script
// yields Close, so a zero-value Engine terminates both pumps immediately.
// Feed behavior defaults to consuming everything and can be overridden with
// ReadFunc / ReadEOFFunc. All interactions are recorded under one mutex.
type Engine struct {
	mu sync.Mutex

	ReadScript  []api.ReadOperation
	WriteScript []api.WriteOperation

	// ReadUntilEOF overrides ReadScript: the engine keeps asking for reads
	// until the EOF feed arrives, then closes the read direction.
	ReadUntilEOF bool

	// ReadFunc and ReadEOFFunc override feed behavior; the default records
	// the bytes and consumes all of them.
	ReadFunc    func(p []byte) int
	ReadEOFFunc func(p []byte) int

	reads   [][]byte
	eofs    [][]byte
	results []api.WriteResult
	errors  []error

	readerResume func()
	writerResume func()

	// ReaderYielded and WriterYielded receive one value per yield
	// registration, letting tests synchronize before resuming.
	ReaderYielded chan struct{}
	WriterYielded chan struct{}
}

// NewEngine creates an empty scripted engine.
func NewEngine() *Engine {
	return &Engine{
		ReaderYielded: make(chan struct{}, 16),
		WriterYielded: make(chan struct{}, 16),
	}
}

// NextReadOperation implements api.Engine.
func (e *Engine) NextReadOperation() api.ReadOperation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ReadUntilEOF {
		if len(e.eofs) > 0 {
			return api.ReadOpClose
		}
		return api.ReadOpRead
	}
	if len(e.ReadScript) == 0 {
		return api.ReadOpClose
	}
	op := e.ReadScript[0]
	e.ReadScript = e.ReadScript[1:]
	return op
}

// Read implements api.Engine.
func (e *Engine) Read(p []byte) int {
	e.mu.Lock()
	c := make([]byte, len(p))
	copy(c, p)
	e.reads = append(e.reads, c)
	f := e.ReadFunc
	e.mu.Unlock()
	if f != nil {
		return f(p)
	}
	return len(p)
}

// ReadEOF implements api.Engine.
func (e *Engine) ReadEOF(p []byte) int {
	e.mu.Lock()
	c := make([]byte, len(p))
	copy(c, p)
	e.eofs = append(e.eofs, c)
	f := e.ReadEOFFunc
	e.mu.Unlock()
	if f != nil {
		return f(p)
	}
	return len(p)
}

// YieldReader implements api.Engine.
func (e *Engine) YieldReader(resume func()) {
	e.mu.Lock()
	e.readerResume = resume
	e.mu.Unlock()
	select {
	case e.ReaderYielded <- struct{}{}:
	default:
	}
}

// ResumeReader fires the last registered read-side resume callback.
func (e *Engine) ResumeReader() {
	e.mu.Lock()
	resume := e.readerResume
	e.readerResume = nil
	e.mu.Unlock()
	if resume != nil {
		resume()
	}
}

// NextWriteOperation implements api.Engine.
func (e *Engine) NextWriteOperation() api.WriteOperation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.WriteScript) == 0 {
		return api.WriteOperation{Kind: api.WriteOpClose}
	}
	op := e.WriteScript[0]
	e.WriteScript = e.WriteScript[1:]
	return op
}

// ReportWriteResult implements api.Engine.
func (e *Engine) ReportWriteResult(res api.WriteResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results = append(e.results, res)
}

// YieldWriter implements api.Engine.
func (e *Engine) YieldWriter(resume func()) {
	e.mu.Lock()
	e.writerResume = resume
	e.mu.Unlock()
	select {
	case e.WriterYielded <- struct{}{}:
	default:
	}
}

// ResumeWriter fires the last registered write-side resume callback.
func (e *Engine) ResumeWriter() {
	e.mu.Lock()
	resume := e.writerResume
	e.writerResume = nil
	e.mu.Unlock()
	if resume != nil {
		resume()
	}
}

// ReportError implements api.Engine.
func (e *Engine) ReportError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors = append(e.errors, err)
}

// Reads returns copies of every span fed through Read, in order.
func (e *Engine) Reads() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]byte(nil), e.reads...)
}

// EOFs returns copies of every span fed through ReadEOF, in order.
func (e *Engine) EOFs() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]byte(nil), e.eofs...)
}

// Results returns every reported write result, in order.
func (e *Engine) Results() []api.WriteResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]api.WriteResult(nil), e.results...)
}

// Errors returns every error delivered through ReportError, in order.
func (e *Engine) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]error(nil), e.errors...)
}
