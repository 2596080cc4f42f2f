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
	"sync"
	"time"

	"bennypowers.dev/ty-find/internal/logging"
	"bennypowers.dev/ty-find/internal/platform"
)

// poolEntry owns one Client shared by every concurrent handler for the same
// workspace root, plus a monotonic last-access timestamp (spec.md §3).
type poolEntry struct {
	client     *Client
	lastAccess time.Time
}

// Pool maps a workspace root to its shared Client, creating one on demand
// and evicting it after a period of inactivity. The map is guarded by a
// single short-held lock; LSP operations themselves always happen outside
// the lock (spec.md §4.3/§5).
type Pool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry

	time        platform.TimeProvider
	idleTimeout time.Duration

	command    string
	subcommand string
	args       []string
}

// NewPool constructs an empty pool. command/subcommand/args describe how to
// launch the LSP child process for each new workspace (spec.md §6: launched
// by name with subcommand "server").
func NewPool(timeProvider platform.TimeProvider, idleTimeout time.Duration, command, subcommand string, args []string) *Pool {
	return &Pool{
		entries:     make(map[string]*poolEntry),
		time:        timeProvider,
		idleTimeout: idleTimeout,
		command:     command,
		subcommand:  subcommand,
		args:        args,
	}
}

// Get returns the shared Client for workspaceRoot, creating and
// initializing one if absent, and bumps its last-access time. The
// create-and-initialize path — which blocks on the LSP handshake — always
// runs outside the map lock.
func (p *Pool) Get(ctx context.Context, workspaceRoot string) (*Client, error) {
	p.mu.Lock()
	entry, ok := p.entries[workspaceRoot]
	if ok {
		entry.lastAccess = p.time.Now()
		client := entry.client
		p.mu.Unlock()
		return client, nil
	}
	p.mu.Unlock()

	client, err := NewClient(ctx, workspaceRoot, p.command, p.subcommand, p.args)
	if err != nil {
		return nil, fmt.Errorf("creating LSP client for %s: %w", workspaceRoot, err)
	}

	p.mu.Lock()
	// Another goroutine may have created an entry for the same root while
	// we were initializing; keep whichever one won the race and close ours.
	if existing, ok := p.entries[workspaceRoot]; ok {
		existing.lastAccess = p.time.Now()
		winner := existing.client
		p.mu.Unlock()
		_ = client.Close()
		return winner, nil
	}
	p.entries[workspaceRoot] = &poolEntry{client: client, lastAccess: p.time.Now()}
	p.mu.Unlock()

	return client, nil
}

// Len reports the number of live pool entries.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// ActiveWorkspaces returns the workspace roots currently held by the pool.
func (p *Pool) ActiveWorkspaces() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	roots := make([]string, 0, len(p.entries))
	for root := range p.entries {
		roots = append(roots, root)
	}
	return roots
}

// Remove evicts and closes the client for workspaceRoot, if present.
func (p *Pool) Remove(workspaceRoot string) {
	p.mu.Lock()
	entry, ok := p.entries[workspaceRoot]
	if ok {
		delete(p.entries, workspaceRoot)
	}
	p.mu.Unlock()

	if ok {
		if err := entry.client.Close(); err != nil {
			logging.Debug("closing LSP client for %s: %v", workspaceRoot, err)
		}
	}
}

// CleanupIdle evicts every entry whose last access is older than the pool's
// idle timeout, relative to now.
func (p *Pool) CleanupIdle(now time.Time) {
	type stale struct {
		root   string
		client *Client
	}

	p.mu.Lock()
	var evicted []stale
	for root, entry := range p.entries {
		if now.Sub(entry.lastAccess) >= p.idleTimeout {
			evicted = append(evicted, stale{root: root, client: entry.client})
		}
	}
	for _, e := range evicted {
		delete(p.entries, e.root)
	}
	p.mu.Unlock()

	// Closing child processes happens outside the lock (spec.md §5).
	for _, e := range evicted {
		logging.Debug("evicting idle LSP client for %s", e.root)
		if err := e.client.Close(); err != nil {
			logging.Debug("closing idle LSP client for %s: %v", e.root, err)
		}
	}
}

// CloseAll evicts and closes every pool entry, used on daemon shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*poolEntry)
	p.mu.Unlock()

	for root, entry := range entries {
		if err := entry.client.Close(); err != nil {
			logging.Debug("closing LSP client for %s during shutdown: %v", root, err)
		}
	}
}

// IsEmpty reports whether the pool currently holds no entries.
func (p *Pool) IsEmpty() bool {
	return p.Len() == 0
}
