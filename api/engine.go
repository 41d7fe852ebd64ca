// File: api/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Defines the connection-engine capability: an opaque protocol state machine
// that, given buffered bytes, decides the next required I/O operation per
// direction and consumes the results fed back by the pumps.

package api

// ReadOperation is the engine's instruction to the read pump.
type ReadOperation int

const (
	// ReadOpRead asks the pump to read more bytes from the transport and
	// feed them back through Read (or ReadEOF at end of stream).
	ReadOpRead ReadOperation = iota

	// ReadOpYield asks the pump to suspend until the engine calls the
	// resume callback registered via YieldReader.
	ReadOpYield

	// ReadOpClose terminates the read pump.
	ReadOpClose
)

// WriteOpKind discriminates WriteOperation variants.
type WriteOpKind int

const (
	// WriteOpWrite asks the pump to perform a vectored write of Spans and
	// report the outcome via ReportWriteResult.
	WriteOpWrite WriteOpKind = iota

	// WriteOpUpgrade performs the write like WriteOpWrite, reports its
	// result, and then hands the transport to the Upgrade handler.
	// Server role only.
	WriteOpUpgrade

	// WriteOpYield asks the pump to suspend until the engine calls the
	// resume callback registered via YieldWriter.
	WriteOpYield

	// WriteOpClose terminates the write pump.
	WriteOpClose
)

// UpgradeHandler receives ownership of the transport after a protocol
// switch. The write pump keeps servicing the same engine afterwards until
// the engine itself emits WriteOpClose.
type UpgradeHandler func(Transport)

// WriteOperation is the engine's instruction to the write pump.
type WriteOperation struct {
	Kind    WriteOpKind
	Spans   [][]byte
	Upgrade UpgradeHandler // set when Kind == WriteOpUpgrade
}

// WriteResult reports the outcome of one vectored write back to the engine.
// Closed indicates the transport's send path is gone; otherwise N is the
// total number of bytes accepted. The engine owns partial-write recovery:
// it simply emits the remainder in its next WriteOperation.
type WriteResult struct {
	N      int
	Closed bool
}

// Engine is the opaque protocol state machine driven by the pumps.
//
// The read pump invokes only NextReadOperation, Read, ReadEOF, YieldReader
// and ReportError; the write pump only NextWriteOperation, ReportWriteResult,
// YieldWriter and ReportError. The pumps take no lock around engine calls:
// an engine must tolerate concurrent direction-specific calls, serializing
// internally if its state demands it.
//
// Client-role engines never emit WriteOpUpgrade.
type Engine interface {
	// NextReadOperation returns the next required read-side action.
	NextReadOperation() ReadOperation

	// Read feeds freshly buffered bytes to the engine and returns how many
	// of them it consumed. p may be empty.
	Read(p []byte) int

	// ReadEOF feeds the trailing unread bytes once the stream has ended
	// and returns how many of them the engine consumed. p may be empty.
	ReadEOF(p []byte) int

	// YieldReader registers a one-shot callback that resumes the read pump.
	YieldReader(resume func())

	// NextWriteOperation returns the next required write-side action.
	NextWriteOperation() WriteOperation

	// ReportWriteResult feeds the outcome of the last vectored write.
	ReportWriteResult(res WriteResult)

	// YieldWriter registers a one-shot callback that resumes the write pump.
	YieldWriter(resume func())

	// ReportError delivers a failure contained at a pump boundary. The
	// engine decides how (or whether) the failure affects protocol state.
	ReportError(err error)
}
