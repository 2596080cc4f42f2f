/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/ty-find/daemon"
)

func TestDaemonError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := daemon.ErrLSP(cause)

	require.Equal(t, daemon.CodeLSPError, err.Code())
	require.Contains(t, err.Error(), "connection reset")
	require.ErrorIs(t, err, cause)
}

func TestDaemonError_WithoutCause(t *testing.T) {
	err := daemon.ErrWorkspaceNotFound("/tmp/proj")
	require.Equal(t, daemon.CodeWorkspaceNotFound, err.Code())
	require.Contains(t, err.Error(), "/tmp/proj")
	require.Nil(t, err.Unwrap())
}

func TestErrMethodNotFound(t *testing.T) {
	err := daemon.ErrMethodNotFound(daemon.Method("bogus"))
	require.Equal(t, daemon.CodeMethodNotFound, err.Code())
	require.Contains(t, err.Error(), "bogus")
}
