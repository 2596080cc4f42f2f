/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package lsp

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/sourcegraph/jsonrpc2"

	"bennypowers.dev/ty-find/internal/logging"
)

// stdio glues a child process's stdin/stdout pipes into the
// io.ReadWriteCloser jsonrpc2.NewBufferedStream expects.
type stdio struct {
	io.ReadCloser
	io.WriteCloser
}

func (s stdio) Close() error {
	werr := s.WriteCloser.Close()
	rerr := s.ReadCloser.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// Transport owns the child LSP process and its framed JSON-RPC connection.
// Framing is Content-Length, matching spec.md §4.1; jsonrpc2.NewConn starts
// its background reader goroutine before returning, so the "reader
// installed before initialize is sent" ordering requirement is structural.
type Transport struct {
	cmd  *exec.Cmd
	Conn *jsonrpc2.Conn
}

// discardHandler ignores every inbound call and notification from the LSP
// server — diagnostics pushes and other notifications are not part of this
// tool's contract (spec.md §4.1: "frames without an id are discarded").
type discardHandler struct{}

func (discardHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Notif {
		return
	}
	// A request from the server we don't understand; answer with
	// method-not-found rather than hanging the server's caller.
	_ = conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
		Code:    jsonrpc2.CodeMethodNotFound,
		Message: fmt.Sprintf("ty-find does not handle server-initiated method %q", req.Method),
	})
}

// Spawn launches command (with args) in dir, wiring its stdio to a
// Content-Length-framed jsonrpc2 connection.
func Spawn(ctx context.Context, dir, command string, args []string) (*Transport, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin pipe to %s: %w", command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout pipe to %s: %w", command, err)
	}
	cmd.Stderr = logStderrWriter{}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", command, err)
	}

	stream := jsonrpc2.NewBufferedStream(stdio{ReadCloser: stdout, WriteCloser: stdin}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, discardHandler{})

	return &Transport{cmd: cmd, Conn: conn}, nil
}

// Close terminates the child process and its connection. Any pending
// requests are failed by jsonrpc2 with a "connection closed" error
// (spec.md §4.1).
func (t *Transport) Close() error {
	closeErr := t.Conn.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	_ = t.cmd.Wait()
	return closeErr
}

// logStderrWriter forwards the child LSP process's stderr into our own
// debug log instead of letting it leak onto the daemon's own stderr
// unlabeled.
type logStderrWriter struct{}

func (logStderrWriter) Write(p []byte) (int, error) {
	logging.Debug("ty: %s", string(p))
	return len(p), nil
}
