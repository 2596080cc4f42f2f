/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// serveOnce accepts a single connection on listener, reads one framed
// request, and writes back resp.
func serveOnce(t *testing.T, listener net.Listener, respond func(*Request) *Response) {
	t.Helper()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		req, err := NewFrameReader(conn).ReadRequest()
		if err != nil {
			return
		}
		_ = NewFrameWriter(conn).WriteResponse(respond(req))
	}()
}

func TestClient_Call_DecodesSuccessfulResult(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "client-test.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	serveOnce(t, listener, func(req *Request) *Response {
		resp, err := NewResultResponse(req.ID, PingResult{Status: "running", UptimeSeconds: 42})
		require.NoError(t, err)
		return resp
	})

	client := NewClient(ClientOptions{SocketPath: socketPath, RequestTimeout: time.Second})
	result, err := client.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "running", result.Status)
	require.Equal(t, int64(42), result.UptimeSeconds)
}

func TestClient_Call_PropagatesDaemonError(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "client-test-err.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	serveOnce(t, listener, func(req *Request) *Response {
		return NewErrorResponse(req.ID, ErrSymbolNotFound("Widget"))
	})

	client := NewClient(ClientOptions{SocketPath: socketPath, RequestTimeout: time.Second})
	_, err = client.Ping(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Widget")
}

func TestClient_Call_AssignsIncrementingIDs(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "client-test-ids.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	var seenIDs []int64
	go func() {
		for i := 0; i < 2; i++ {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			req, err := NewFrameReader(conn).ReadRequest()
			if err == nil {
				seenIDs = append(seenIDs, req.ID)
				resp, _ := NewResultResponse(req.ID, PingResult{Status: "running"})
				_ = NewFrameWriter(conn).WriteResponse(resp)
			}
			conn.Close()
		}
	}()

	client := NewClient(ClientOptions{SocketPath: socketPath, RequestTimeout: time.Second})
	_, err = client.Ping(context.Background())
	require.NoError(t, err)
	_, err = client.Ping(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(seenIDs) == 2 }, time.Second, 10*time.Millisecond)
	require.Equal(t, []int64{1, 2}, seenIDs)
}

func TestClient_PollForConnection_TimesOutWhenNothingListens(t *testing.T) {
	client := NewClient(ClientOptions{
		SocketPath:     filepath.Join(t.TempDir(), "never-listening.sock"),
		RequestTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.pollForConnection(ctx)
	require.Error(t, err)
}
