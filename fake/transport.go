// File: fake/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scripted api.Transport double: scripted inbound chunks, recorded outbound
// writes, recorded shutdown/close calls.

package fake

import (
	"io"
	"sync"

	"github.com/momentics/hioload-pump/api"
)

var _ api.Transport = (*Transport)(nil)

// Transport is a scripted implementation of api.Transport for testing.
//
// Inbound data is scripted with PushRead; once the script is exhausted every
// further Read reports io.EOF. Outbound spans are recorded and can be
// inspected with SentBytes. Shutdown and close calls are counted.
type Transport struct {
	mu sync.Mutex

	reads [][]byte

	sent        []byte
	writevCalls int
	writeErr    error
	shortWrite  int

	readCalls        int
	sendShutdowns    int
	receiveShutdowns int
	closeCalls       int
	closeErr         error
}

// NewTransport creates an empty scripted transport.
func NewTransport() *Transport {
	return &Transport{}
}

// PushRead appends one inbound chunk to the read script. A zero-length chunk
// scripts a zero-byte read.
func (t *Transport) PushRead(chunk []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := make([]byte, len(chunk))
	copy(c, chunk)
	t.reads = append(t.reads, c)
}

// Read implements api.Transport. It pops the next scripted chunk, splitting
// chunks larger than p across successive calls, and reports io.EOF once the
// script is exhausted.
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readCalls++
	if len(t.reads) == 0 {
		return 0, io.EOF
	}
	head := t.reads[0]
	n := copy(p, head)
	if n < len(head) {
		t.reads[0] = head[n:]
	} else {
		t.reads = t.reads[1:]
	}
	return n, nil
}

// SetWriteError makes every subsequent Writev fail with err.
func (t *Transport) SetWriteError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// SetShortWrite caps the number of bytes a single Writev accepts.
func (t *Transport) SetShortWrite(max int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shortWrite = max
}

// Writev implements api.Transport, recording the accepted bytes.
func (t *Transport) Writev(spans [][]byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writevCalls++
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	budget := -1
	if t.shortWrite > 0 {
		budget = t.shortWrite
	}
	total := 0
	for _, span := range spans {
		take := len(span)
		if budget >= 0 && take > budget-total {
			take = budget - total
		}
		t.sent = append(t.sent, span[:take]...)
		total += take
		if budget >= 0 && total == budget {
			break
		}
	}
	return total, nil
}

// ShutdownSend implements api.Transport.
func (t *Transport) ShutdownSend() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendShutdowns++
}

// ShutdownReceive implements api.Transport.
func (t *Transport) ShutdownReceive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.receiveShutdowns++
}

// SetCloseError configures the error returned by Close.
func (t *Transport) SetCloseError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeErr = err
}

// Close implements api.Transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeCalls++
	return t.closeErr
}

// SentBytes returns a copy of everything accepted by Writev, in order.
func (t *Transport) SentBytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.sent))
	copy(out, t.sent)
	return out
}

// ReadCalls returns the number of Read invocations so far.
func (t *Transport) ReadCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readCalls
}

// WritevCalls returns the number of Writev invocations so far.
func (t *Transport) WritevCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writevCalls
}

// SendShutdowns returns how many times ShutdownSend was called.
func (t *Transport) SendShutdowns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sendShutdowns
}

// ReceiveShutdowns returns how many times ShutdownReceive was called.
func (t *Transport) ReceiveShutdowns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.receiveShutdowns
}

// CloseCalls returns how many times Close was called.
func (t *Transport) CloseCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeCalls
}
