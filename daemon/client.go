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

package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"bennypowers.dev/ty-find/internal/logging"
)

// startupPollAttempts and startupPollInterval bound the 2s daemon start-up
// budget from spec.md §5: 20 polls at 100ms.
const (
	startupPollAttempts = 20
	startupPollInterval = 100 * time.Millisecond
)

// ClientOptions configures Client's connection and auto-start behavior.
type ClientOptions struct {
	SocketPath     string
	RequestTimeout time.Duration
	// ForegroundArgs re-execs the current binary with these arguments to run
	// the daemon in the foreground when auto-starting (e.g. ["daemon", "run"]).
	ForegroundArgs []string
}

// Client is the short-lived CLI-side RPC client: connect, auto-spawn the
// daemon if needed, and issue typed requests (spec.md §4.6).
type Client struct {
	opts   ClientOptions
	nextID atomic.Int64
}

// NewClient constructs a Client from opts, applying defaults for any zero
// fields.
func NewClient(opts ClientOptions) *Client {
	if opts.SocketPath == "" {
		opts.SocketPath = SocketPath("")
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Client{opts: opts}
}

// dial connects to the socket, auto-starting the daemon if the socket is
// missing or stale (spec.md §4.6).
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	conn, err := c.tryDial()
	if err == nil {
		return conn, nil
	}

	if startErr := c.autoStart(ctx); startErr != nil {
		return nil, startErr
	}

	conn, err = c.pollForConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("daemon did not become ready: %w", err)
	}
	return conn, nil
}

func (c *Client) tryDial() (net.Conn, error) {
	return net.Dial("unix", c.opts.SocketPath)
}

// autoStart re-execs the current binary with ForegroundArgs, detached from
// this process, to run the daemon server (spec.md §4.6).
func (c *Client) autoStart(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}

	cmd := exec.Command(self, c.opts.ForegroundArgs...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = daemonSysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning daemon process: %w", err)
	}
	logging.Debug("auto-started daemon process pid=%d", cmd.Process.Pid)
	// Deliberately not Wait()'d: the daemon outlives this CLI invocation.
	return cmd.Process.Release()
}

func (c *Client) pollForConnection(ctx context.Context) (net.Conn, error) {
	for i := 0; i < startupPollAttempts; i++ {
		if conn, err := c.tryDial(); err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(startupPollInterval):
		}
	}
	return nil, fmt.Errorf("no daemon listening on %s after %d attempts", c.opts.SocketPath, startupPollAttempts)
}

// Call issues method with params and decodes the result into out. out may
// be nil when the caller doesn't need the result (e.g. shutdown).
func (c *Client) Call(ctx context.Context, method Method, params any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("connecting to daemon: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding %s params: %w", method, err)
	}

	req := &Request{
		Version: ProtocolVersion,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  rawParams,
	}

	if err := NewFrameWriter(conn).WriteRequest(req); err != nil {
		return fmt.Errorf("writing %s request: %w", method, err)
	}

	resp, err := NewFrameReader(conn).ReadResponse()
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}

	if resp.Error != nil {
		return newDaemonError(resp.Error.Code, resp.Error.Message, nil)
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

func (c *Client) Hover(ctx context.Context, p HoverParams) (*HoverResult, error) {
	var result HoverResult
	if err := c.Call(ctx, MethodHover, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Definition(ctx context.Context, p DefinitionParams) (*DefinitionResult, error) {
	var result DefinitionResult
	if err := c.Call(ctx, MethodDefinition, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) References(ctx context.Context, p ReferencesParams) (*ReferencesResult, error) {
	var result ReferencesResult
	if err := c.Call(ctx, MethodReferences, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) BatchReferences(ctx context.Context, p BatchReferencesParams) (*BatchReferencesResult, error) {
	var result BatchReferencesResult
	if err := c.Call(ctx, MethodBatchReferences, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) WorkspaceSymbols(ctx context.Context, p WorkspaceSymbolsParams) (*WorkspaceSymbolsResult, error) {
	var result WorkspaceSymbolsResult
	if err := c.Call(ctx, MethodWorkspaceSymbols, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DocumentSymbols(ctx context.Context, p DocumentSymbolsParams) (*DocumentSymbolsResult, error) {
	var result DocumentSymbolsResult
	if err := c.Call(ctx, MethodDocumentSymbols, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Inspect(ctx context.Context, p InspectParams) (*InspectResult, error) {
	var result InspectResult
	if err := c.Call(ctx, MethodInspect, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Members(ctx context.Context, p MembersParams) (*MembersResult, error) {
	var result MembersResult
	if err := c.Call(ctx, MethodMembers, p, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Diagnostics(ctx context.Context) (*DiagnosticsResult, error) {
	var result DiagnosticsResult
	if err := c.Call(ctx, MethodDiagnostics, PingParams{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	var result PingResult
	if err := c.Call(ctx, MethodPing, PingParams{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Shutdown(ctx context.Context) (*ShutdownResult, error) {
	var result ShutdownResult
	if err := c.Call(ctx, MethodShutdown, ShutdownParams{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
