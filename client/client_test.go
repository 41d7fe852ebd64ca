// File: client/client_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client_test

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pump/api"
	"github.com/momentics/hioload-pump/client"
	"github.com/momentics/hioload-pump/engine/echo"
	"github.com/momentics/hioload-pump/fake"
	"github.com/momentics/hioload-pump/pump"
	"github.com/momentics/hioload-pump/server"
)

type nopBody struct{ bytes.Buffer }

func (b *nopBody) Close() error { return nil }

func waitDone(t *testing.T, c *pump.Connection) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not terminate")
	}
}

// The body handle is produced at engine construction and handed back before
// the connection finishes; teardown runs in the background.
func TestConnectReturnsBodyImmediately(t *testing.T) {
	tr := fake.NewTransport()
	wantBody := &nopBody{}

	body, conn := client.Connect(nil, func() (api.Engine, io.WriteCloser) {
		return fake.NewEngine(), wantBody
	}, tr)

	require.Same(t, wantBody, body)
	waitDone(t, conn)

	// Client-role close: full close yes, send half-close no.
	require.Equal(t, 1, tr.CloseCalls())
	require.Equal(t, 0, tr.SendShutdowns())
}

func TestDialAgainstEchoServer(t *testing.T) {
	srv := server.NewServer(nil, func(net.Addr) api.Engine { return echo.New() },
		server.WithShutdownTimeout(5*time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Shutdown() }()

	eng := fake.NewEngine()
	eng.WriteScript = []api.WriteOperation{
		{Kind: api.WriteOpWrite, Spans: [][]byte{[]byte("hi")}},
	}

	body, conn, err := client.Dial(nil, func() (api.Engine, io.WriteCloser) {
		return eng, &nopBody{}
	}, ln.Addr().String())
	require.NoError(t, err)
	require.NotNil(t, body)

	waitDone(t, conn)
	results := eng.Results()
	require.Len(t, results, 1)
	require.Equal(t, 2, results[0].N)
}

func TestDialFailure(t *testing.T) {
	_, _, err := client.Dial(nil, func() (api.Engine, io.WriteCloser) {
		return fake.NewEngine(), &nopBody{}
	}, "127.0.0.1:1")
	require.Error(t, err)
}
