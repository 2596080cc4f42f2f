/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/ty-find/daemon"
)

func TestFrameWriter_ReadRequest_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := &daemon.Request{Version: daemon.ProtocolVersion, ID: 3, Method: daemon.MethodPing}
	require.NoError(t, daemon.NewFrameWriter(&buf).WriteRequest(req))

	got, err := daemon.NewFrameReader(&buf).ReadRequest()
	require.NoError(t, err)
	require.Equal(t, req.ID, got.ID)
	require.Equal(t, req.Method, got.Method)
}

func TestFrameReader_ReadRequest_ExplicitZeroLengthIsEmptyBody(t *testing.T) {
	buf := bytes.NewBufferString("Content-Length: 0\r\n\r\n")

	_, err := daemon.NewFrameReader(buf).ReadRequest()
	require.Error(t, err)
	require.True(t, errors.Is(err, daemon.ErrEmptyBody))
}

func TestFrameReader_ReadRequest_MissingHeaderIsError(t *testing.T) {
	buf := bytes.NewBufferString("not a header at all\r\n\r\n")

	_, err := daemon.NewFrameReader(buf).ReadRequest()
	require.Error(t, err)
	require.False(t, errors.Is(err, daemon.ErrEmptyBody))
}
