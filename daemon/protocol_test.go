/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/ty-find/daemon"
)

func TestRequest_RoundTrip(t *testing.T) {
	req := &daemon.Request{
		Version: daemon.ProtocolVersion,
		ID:      42,
		Method:  daemon.MethodHover,
		Params:  json.RawMessage(`{"workspace_root":"/tmp/proj","file":"a.py","line":1,"character":2}`),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded daemon.Request
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, req.Version, decoded.Version)
	require.Equal(t, req.ID, decoded.ID)
	require.Equal(t, req.Method, decoded.Method)
	require.JSONEq(t, string(req.Params), string(decoded.Params))
}

func TestRequest_ZeroID(t *testing.T) {
	req := &daemon.Request{Version: daemon.ProtocolVersion, ID: 0, Method: daemon.MethodPing}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded daemon.Request
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, int64(0), decoded.ID)
}

func TestMethod_IsValid(t *testing.T) {
	valid := []daemon.Method{
		daemon.MethodHover, daemon.MethodDefinition, daemon.MethodWorkspaceSymbols,
		daemon.MethodDocumentSymbols, daemon.MethodReferences, daemon.MethodBatchReferences,
		daemon.MethodInspect, daemon.MethodMembers, daemon.MethodDiagnostics,
		daemon.MethodPing, daemon.MethodShutdown,
	}
	for _, m := range valid {
		require.True(t, m.IsValid(), "expected %s to be valid", m)
	}
	require.False(t, daemon.Method("not_a_real_method").IsValid())
}

func TestNewResultResponse(t *testing.T) {
	resp, err := daemon.NewResultResponse(7, map[string]string{"status": "running"})
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.ID)
	require.Nil(t, resp.Error)
	require.JSONEq(t, `{"status":"running"}`, string(resp.Result))
}

func TestNewErrorResponse(t *testing.T) {
	resp := daemon.NewErrorResponse(3, daemon.ErrSymbolNotFound("Widget"))
	require.Equal(t, int64(3), resp.ID)
	require.NotNil(t, resp.Error)
	require.Equal(t, daemon.CodeSymbolNotFound, resp.Error.Code)
	require.Contains(t, resp.Error.Message, "Widget")
}
