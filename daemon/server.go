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
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/ty-find/cmd/config"
	"bennypowers.dev/ty-find/internal/logging"
	"bennypowers.dev/ty-find/internal/platform"
	"bennypowers.dev/ty-find/lsp"
)

// SocketPath returns override if non-empty, otherwise the default
// uid-scoped socket path (spec.md §4.4/§6: "the socket path is rooted
// under a shared temp directory and includes the invoking user's numeric
// id").
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	dir := xdg.RuntimeDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("ty-find-%d.sock", os.Getuid()))
}

// Server is the daemon process: it binds the local socket, accepts framed
// JSON-RPC connections, dispatches to per-method handlers, and owns the LSP
// pool those handlers operate on (spec.md §4.4).
type Server struct {
	socketPath string
	listener   net.Listener

	pool      *lsp.Pool
	time      platform.TimeProvider
	startedAt time.Time

	idleTimeout   time.Duration
	sweepInterval time.Duration

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewServer constructs a Server from cfg, wiring a pool that will spawn the
// configured LSP command for each new workspace.
func NewServer(cfg *config.TyFindConfig, timeProvider platform.TimeProvider) *Server {
	return &Server{
		socketPath:    SocketPath(cfg.Daemon.SocketPath),
		pool:          lsp.NewPool(timeProvider, cfg.Daemon.IdleTimeout, cfg.Lsp.Command, cfg.Lsp.Subcommand, cfg.Lsp.Args),
		time:          timeProvider,
		idleTimeout:   cfg.Daemon.IdleTimeout,
		sweepInterval: cfg.Daemon.SweepInterval,
		shutdownCh:    make(chan struct{}),
	}
}

// Run binds the socket and serves until the context is canceled or a
// shutdown is triggered, then cleans up the socket file and every pooled
// LSP client (spec.md §4.4 start-up sequence and shutdown policy).
func (s *Server) Run(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("binding socket %s: %w", s.socketPath, err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("setting socket permissions on %s: %w", s.socketPath, err)
	}

	s.startedAt = s.time.Now()
	logging.Notify("daemon listening on %s", s.socketPath)

	defer func() {
		_ = listener.Close()
		s.pool.CloseAll()
		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			logging.Debug("removing socket %s on shutdown: %v", s.socketPath, err)
		}
	}()

	var wg conc.WaitGroup
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	wg.Go(func() { s.idleSweep(sweepCtx) })
	// cancelSweep must run before wg.Wait(): on an explicit shutdown RPC
	// (s.Shutdown, not a canceled ctx), idleSweep only stops once sweepCtx is
	// canceled, so waiting on it first would hang Run forever.
	defer func() {
		cancelSweep()
		wg.Wait()
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.acceptLoop(groupCtx, listener) })
	group.Go(func() error {
		select {
		case <-groupCtx.Done():
			_ = listener.Close()
			return groupCtx.Err()
		case <-s.shutdownCh:
			_ = listener.Close()
			return nil
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !isUseOfClosedConn(err) {
		return err
	}
	return nil
}

func isUseOfClosedConn(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || isUseOfClosedConn(err) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection serves one client connection until EOF or a framing
// error it can't recover from. On a parse failure it writes an error frame
// with a synthetic id of 0 and keeps serving (spec.md §4.4/§7).
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := NewFrameReader(conn)
	writer := NewFrameWriter(conn)

	for {
		req, err := reader.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}

			var derr *DaemonError
			if errors.Is(err, ErrEmptyBody) {
				derr = ErrInvalidRequest("request body is empty")
			} else {
				derr = ErrParse(err)
			}

			resp := NewErrorResponse(0, derr)
			if werr := writer.WriteResponse(resp); werr != nil {
				return
			}
			continue
		}

		resp := s.dispatch(ctx, req)
		if err := writer.WriteResponse(resp); err != nil {
			return
		}
	}
}

// dispatch routes req to its handler and always returns a Response —
// handler panics are not recovered here deliberately, so a genuinely broken
// handler crashes the daemon loudly rather than wedging silently.
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if !req.Method.IsValid() {
		return NewErrorResponse(req.ID, ErrMethodNotFound(req.Method))
	}

	result, derr := s.handle(ctx, req.Method, req.Params)
	if derr != nil {
		return NewErrorResponse(req.ID, derr)
	}
	resp, err := NewResultResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrInternal(err))
	}
	return resp
}

// idleSweep periodically evicts idle pool entries and self-terminates once
// the pool is empty and the daemon has outlived the same idle threshold used
// for pool eviction (spec.md §5: "the 300s idle threshold applies to both
// LspClient eviction and whole-daemon self-termination").
func (s *Server) idleSweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.time.Now()
			s.pool.CleanupIdle(now)

			if s.pool.IsEmpty() && now.Sub(s.startedAt) >= s.idleTimeout {
				logging.Notify("daemon idle with no active workspaces, shutting down")
				s.Shutdown()
				return
			}
		}
	}
}

// Shutdown triggers the shutdown broadcast exactly once; Run's accept loop
// observes it and unwinds.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// Uptime reports how long the server has been running, used by the ping
// handler.
func (s *Server) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.time.Now().Sub(s.startedAt)
}
