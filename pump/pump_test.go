// File: pump/pump_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pump behavior tests driven through scripted fakes: byte accounting, EOF
// handling, termination joining, exception containment, upgrade ordering.

package pump_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pump/api"
	"github.com/momentics/hioload-pump/fake"
	"github.com/momentics/hioload-pump/pump"
)

func waitDone(t *testing.T, c *pump.Connection) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not terminate")
	}
}

// TestReadPumpFeedsStreamExactlyOnce checks that for an arbitrary chunking
// of a known stream, including zero-byte reads, the spans fed to the engine
// concatenate to the stream exactly once, followed by exactly one EOF feed.
func TestReadPumpFeedsStreamExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	stream := make([]byte, 10000)
	rng.Read(stream)

	tr := fake.NewTransport()
	for off := 0; off < len(stream); {
		if rng.Intn(10) == 0 {
			tr.PushRead(nil) // zero-byte read
			continue
		}
		n := rng.Intn(700) + 1
		if n > len(stream)-off {
			n = len(stream) - off
		}
		tr.PushRead(stream[off : off+n])
		off += n
	}

	eng := fake.NewEngine()
	eng.ReadUntilEOF = true

	conn := pump.Start(nil, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	var fed []byte
	for _, span := range eng.Reads() {
		fed = append(fed, span...)
	}
	require.True(t, bytes.Equal(fed, stream), "fed bytes diverged from stream")

	eofs := eng.EOFs()
	require.Len(t, eofs, 1, "EOF must be fed exactly once")
	require.Empty(t, eofs[0])
	require.Equal(t, 1, tr.CloseCalls())
}

// TestConcreteScenario4096 is the capacity-4096 scenario: reads of sizes
// {10, 4090, EOF} produce exactly 3 transport reads, feeds of 10 then 4090
// bytes with a compaction between them, and one empty EOF feed.
func TestConcreteScenario4096(t *testing.T) {
	first := bytes.Repeat([]byte{0xAA}, 10)
	second := bytes.Repeat([]byte{0xBB}, 4090)

	tr := fake.NewTransport()
	tr.PushRead(first)
	tr.PushRead(second)

	eng := fake.NewEngine()
	eng.ReadUntilEOF = true

	cfg := pump.DefaultConfig()
	cfg.ReadBufferSize = 4096
	conn := pump.Start(cfg, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	require.Equal(t, 3, tr.ReadCalls())

	reads := eng.Reads()
	require.Len(t, reads, 2)
	require.Equal(t, first, reads[0])
	require.Equal(t, second, reads[1])

	eofs := eng.EOFs()
	require.Len(t, eofs, 1)
	require.Empty(t, eofs[0])
}

// TestTerminationJoinsReadFirst keeps the write pump parked after the read
// pump has closed and checks that the transport stays open until the write
// pump closes too.
func TestTerminationJoinsReadFirst(t *testing.T) {
	tr := fake.NewTransport()
	eng := fake.NewEngine()
	eng.WriteScript = []api.WriteOperation{{Kind: api.WriteOpYield}}

	conn := pump.Start(nil, pump.RoleServer, eng, tr)

	<-eng.WriterYielded
	require.Eventually(t, func() bool { return tr.ReceiveShutdowns() == 1 },
		time.Second, time.Millisecond, "read pump should have closed")
	require.Equal(t, 0, tr.CloseCalls(), "transport closed before write pump finished")

	eng.ResumeWriter()
	waitDone(t, conn)
	require.Equal(t, 1, tr.CloseCalls())
	require.Equal(t, 1, tr.SendShutdowns())
}

// TestTerminationJoinsWriteFirst is the mirrored order.
func TestTerminationJoinsWriteFirst(t *testing.T) {
	tr := fake.NewTransport()
	eng := fake.NewEngine()
	eng.ReadScript = []api.ReadOperation{api.ReadOpYield}

	conn := pump.Start(nil, pump.RoleServer, eng, tr)

	<-eng.ReaderYielded
	require.Eventually(t, func() bool { return tr.SendShutdowns() == 1 },
		time.Second, time.Millisecond, "write pump should have closed")
	require.Equal(t, 0, tr.CloseCalls(), "transport closed before read pump finished")

	eng.ResumeReader()
	waitDone(t, conn)
	require.Equal(t, 1, tr.CloseCalls())
	require.Equal(t, 1, tr.ReceiveShutdowns())
}

// TestClientRoleSkipsSendShutdown: the client write pump's Close performs no
// explicit half-close; the server role's does. Intentional asymmetry.
func TestClientRoleSkipsSendShutdown(t *testing.T) {
	tr := fake.NewTransport()
	conn := pump.Start(nil, pump.RoleClient, fake.NewEngine(), tr)
	waitDone(t, conn)
	require.Equal(t, 0, tr.SendShutdowns())
	require.Equal(t, 1, tr.ReceiveShutdowns())
	require.Equal(t, 1, tr.CloseCalls())
}

func TestServerRolePerformsSendShutdown(t *testing.T) {
	tr := fake.NewTransport()
	conn := pump.Start(nil, pump.RoleServer, fake.NewEngine(), tr)
	waitDone(t, conn)
	require.Equal(t, 1, tr.SendShutdowns())
}

// TestExceptionContainment: a panicking feed must not escape the pump; the
// panic value reaches ReportError and the pump terminates cleanly.
func TestExceptionContainment(t *testing.T) {
	errBoom := errors.New("feed exploded")

	tr := fake.NewTransport()
	tr.PushRead([]byte("data"))

	eng := fake.NewEngine()
	eng.ReadScript = []api.ReadOperation{api.ReadOpRead, api.ReadOpRead}
	eng.ReadFunc = func(p []byte) int { panic(errBoom) }

	conn := pump.Start(nil, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	reported := eng.Errors()
	require.Len(t, reported, 1)
	require.ErrorIs(t, reported[0], errBoom)
	// The pump stopped at the failure: the second scripted read never ran.
	require.Len(t, eng.Reads(), 1)
	require.Equal(t, 1, tr.CloseCalls())
}

// TestUpgradeHandoffOrdering: the pending spans are written and their result
// reported strictly before the upgrade handler receives the transport.
func TestUpgradeHandoffOrdering(t *testing.T) {
	tr := fake.NewTransport()
	eng := fake.NewEngine()

	handoffs := 0
	var resultsAtHandoff []api.WriteResult
	eng.WriteScript = []api.WriteOperation{{
		Kind:  api.WriteOpUpgrade,
		Spans: [][]byte{[]byte("101 Switching")},
		Upgrade: func(got api.Transport) {
			handoffs++
			resultsAtHandoff = eng.Results()
			require.Same(t, tr, got.(*fake.Transport))
		},
	}}

	conn := pump.Start(nil, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	require.Equal(t, 1, handoffs)
	require.Len(t, resultsAtHandoff, 1)
	require.Equal(t, len("101 Switching"), resultsAtHandoff[0].N)
	require.Equal(t, []byte("101 Switching"), tr.SentBytes())
}

// TestClientUpgradeRejected: only server-role engines may switch protocols.
func TestClientUpgradeRejected(t *testing.T) {
	tr := fake.NewTransport()
	eng := fake.NewEngine()
	called := false
	eng.WriteScript = []api.WriteOperation{{
		Kind:    api.WriteOpUpgrade,
		Upgrade: func(api.Transport) { called = true },
	}}

	conn := pump.Start(nil, pump.RoleClient, eng, tr)
	waitDone(t, conn)

	require.False(t, called)
	reported := eng.Errors()
	require.Len(t, reported, 1)
	require.ErrorIs(t, reported[0], api.ErrUpgradeNotAllowed)
}

// TestWriteFailureReportedAsClosed: a transport write error is a normal step
// outcome fed back as a Closed result, not a pump failure.
func TestWriteFailureReportedAsClosed(t *testing.T) {
	tr := fake.NewTransport()
	tr.SetWriteError(errors.New("broken pipe"))

	eng := fake.NewEngine()
	eng.WriteScript = []api.WriteOperation{
		{Kind: api.WriteOpWrite, Spans: [][]byte{[]byte("out")}},
	}

	conn := pump.Start(nil, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	results := eng.Results()
	require.Len(t, results, 1)
	require.True(t, results[0].Closed)
	require.Empty(t, eng.Errors())
}

// TestPartialWriteReported: short writes surface as counts; recovery policy
// belongs to the engine.
func TestPartialWriteReported(t *testing.T) {
	tr := fake.NewTransport()
	tr.SetShortWrite(2)

	eng := fake.NewEngine()
	eng.WriteScript = []api.WriteOperation{
		{Kind: api.WriteOpWrite, Spans: [][]byte{[]byte("hello")}},
	}

	conn := pump.Start(nil, pump.RoleServer, eng, tr)
	waitDone(t, conn)

	results := eng.Results()
	require.Len(t, results, 1)
	require.Equal(t, api.WriteResult{N: 2}, results[0])
	require.Equal(t, []byte("he"), tr.SentBytes())
}
