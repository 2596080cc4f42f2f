/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package lsp

import (
	"context"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/internal/platform"
)

// fakeClient builds a *Client backed by an in-memory pipe instead of a real
// spawned LSP process, so Pool eviction logic can be exercised without ever
// shelling out to "ty".
func fakeClient(t *testing.T, root string) *Client {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { _ = serverSide.Close() })

	stream := jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, discardHandler{})

	return &Client{
		transport: &Transport{cmd: &exec.Cmd{}, Conn: conn},
		root:      root,
		opened:    make(map[protocol.DocumentUri]bool),
	}
}

func TestPool_GetReturnsSameClientForSameRoot(t *testing.T) {
	mock := platform.NewMockTimeProvider(time.Now())
	pool := &Pool{
		entries:     make(map[string]*poolEntry),
		time:        mock,
		idleTimeout: time.Minute,
	}

	client := fakeClient(t, "/proj")
	pool.entries["/proj"] = &poolEntry{client: client, lastAccess: mock.Now()}

	got, err := pool.Get(context.Background(), "/proj")
	require.NoError(t, err)
	require.Same(t, client, got)
	require.Equal(t, 1, pool.Len())
}

func TestPool_CleanupIdle_EvictsOnlyStaleEntries(t *testing.T) {
	mock := platform.NewMockTimeProvider(time.Now())
	pool := &Pool{
		entries:     make(map[string]*poolEntry),
		time:        mock,
		idleTimeout: 5 * time.Minute,
	}

	stale := fakeClient(t, "/stale")
	fresh := fakeClient(t, "/fresh")
	pool.entries["/stale"] = &poolEntry{client: stale, lastAccess: mock.Now()}

	mock.AdvanceTime(10 * time.Minute)
	pool.entries["/fresh"] = &poolEntry{client: fresh, lastAccess: mock.Now()}

	pool.CleanupIdle(mock.Now())

	require.Equal(t, 1, pool.Len())
	roots := pool.ActiveWorkspaces()
	require.Equal(t, []string{"/fresh"}, roots)
}

func TestPool_IsEmpty(t *testing.T) {
	pool := &Pool{entries: make(map[string]*poolEntry), time: platform.NewMockTimeProvider(time.Now())}
	require.True(t, pool.IsEmpty())

	pool.entries["/proj"] = &poolEntry{client: fakeClient(t, "/proj"), lastAccess: pool.time.Now()}
	require.False(t, pool.IsEmpty())
}

func TestPool_Remove(t *testing.T) {
	mock := platform.NewMockTimeProvider(time.Now())
	pool := &Pool{entries: make(map[string]*poolEntry), time: mock}
	pool.entries["/proj"] = &poolEntry{client: fakeClient(t, "/proj"), lastAccess: mock.Now()}

	pool.Remove("/proj")
	require.True(t, pool.IsEmpty())

	// Removing an absent root is a no-op, not an error.
	pool.Remove("/absent")
}

func TestPool_CloseAll(t *testing.T) {
	mock := platform.NewMockTimeProvider(time.Now())
	pool := &Pool{entries: make(map[string]*poolEntry), time: mock}
	pool.entries["/a"] = &poolEntry{client: fakeClient(t, "/a"), lastAccess: mock.Now()}
	pool.entries["/b"] = &poolEntry{client: fakeClient(t, "/b"), lastAccess: mock.Now()}

	pool.CloseAll()
	require.True(t, pool.IsEmpty())
}
