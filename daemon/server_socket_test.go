/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/ty-find/cmd/config"
	"bennypowers.dev/ty-find/daemon"
	"bennypowers.dev/ty-find/internal/platform"
)

func TestSocketPath_OverrideWins(t *testing.T) {
	require.Equal(t, "/custom/path.sock", daemon.SocketPath("/custom/path.sock"))
}

func TestSocketPath_DefaultIncludesUid(t *testing.T) {
	path := daemon.SocketPath("")
	require.Contains(t, filepath.Base(path), "ty-find-")
	require.Contains(t, path, ".sock")
}

func TestServer_Run_BindsSocketWithRestrictedPermissionsThenCleansUp(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "ty-find-test.sock")

	cfg := config.Defaults()
	cfg.Daemon.SocketPath = socketPath
	cfg.Daemon.SweepInterval = time.Hour
	cfg.Daemon.IdleTimeout = time.Hour

	srv := daemon.NewServer(cfg, platform.NewRealTimeProvider())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		info, err := os.Stat(socketPath)
		return err == nil && info.Mode().Perm() == 0o600
	}, 2*time.Second, 10*time.Millisecond, "socket never appeared with expected permissions")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}

	_, err := os.Stat(socketPath)
	require.True(t, os.IsNotExist(err), "socket file should be removed on shutdown")
}

// TestServer_Run_ShutdownRPCWithoutContextCancelStillExits reproduces the
// explicit-shutdown path (e.g. a "shutdown" RPC or "daemon stop"), which
// closes the shutdown channel but never cancels ctx. Run must still return
// and remove the socket rather than hang waiting on the idle-sweep goroutine.
func TestServer_Run_ShutdownRPCWithoutContextCancelStillExits(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "ty-find-shutdown-test.sock")

	cfg := config.Defaults()
	cfg.Daemon.SocketPath = socketPath
	cfg.Daemon.SweepInterval = time.Hour
	cfg.Daemon.IdleTimeout = time.Hour

	srv := daemon.NewServer(cfg, platform.NewRealTimeProvider())

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "socket never appeared")

	srv.Shutdown()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown() without a canceled context")
	}

	_, err := os.Stat(socketPath)
	require.True(t, os.IsNotExist(err), "socket file should be removed on shutdown")
}
