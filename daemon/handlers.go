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
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/lsp"
)

// coldStartDelays is the retry backoff applied to hover and workspace_symbols
// when the LSP server is still warming up on a just-opened document.
var coldStartDelays = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

// handle decodes params for method and runs its handler. This is the single
// dispatch point Server.dispatch calls into.
func (s *Server) handle(ctx context.Context, method Method, raw json.RawMessage) (any, *DaemonError) {
	switch method {
	case MethodHover:
		return s.handleHover(ctx, raw)
	case MethodDefinition:
		return s.handleDefinition(ctx, raw)
	case MethodWorkspaceSymbols:
		return s.handleWorkspaceSymbols(ctx, raw)
	case MethodDocumentSymbols:
		return s.handleDocumentSymbols(ctx, raw)
	case MethodReferences:
		return s.handleReferences(ctx, raw)
	case MethodBatchReferences:
		return s.handleBatchReferences(ctx, raw)
	case MethodInspect:
		return s.handleInspect(ctx, raw)
	case MethodMembers:
		return s.handleMembers(ctx, raw)
	case MethodDiagnostics:
		return s.handleDiagnostics(ctx, raw)
	case MethodPing:
		return s.handlePing(ctx, raw)
	case MethodShutdown:
		return s.handleShutdown(ctx, raw)
	default:
		return nil, ErrMethodNotFound(method)
	}
}

func decodeParams[T any](raw json.RawMessage) (T, *DaemonError) {
	var p T
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, ErrInvalidParams(err)
	}
	return p, nil
}

// sleepWithContext waits for d or ctx cancellation, whichever comes first,
// using the server's TimeProvider so tests can control elapsed time.
func (s *Server) sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-s.time.After(d):
	}
}

// getClient opens the LSP client for a workspace root and opens file on it.
// Every handler that touches a file goes through this.
func (s *Server) getClient(ctx context.Context, workspaceRoot, file string) (*lsp.Client, *DaemonError) {
	client, err := s.pool.Get(ctx, workspaceRoot)
	if err != nil {
		return nil, ErrInternal(err)
	}
	if file != "" {
		if _, err := client.OpenDocument(ctx, file); err != nil {
			return nil, ErrFileNotFound(file, err)
		}
	}
	return client, nil
}

type HoverResult struct {
	Hover *protocol.Hover `json:"hover"`
}

// hoverWithRetry performs a hover call, retrying up to len(coldStartDelays)
// times on a nil result to ride out the cold-start window (spec.md §4.5).
func (s *Server) hoverWithRetry(ctx context.Context, client *lsp.Client, file string, line, character uint32) (*protocol.Hover, error) {
	hover, err := client.Hover(ctx, file, line, character)
	if err != nil {
		return nil, err
	}
	for _, delay := range coldStartDelays {
		if hover != nil {
			return hover, nil
		}
		s.sleepWithContext(ctx, delay)
		hover, err = client.Hover(ctx, file, line, character)
		if err != nil {
			return nil, err
		}
	}
	return hover, nil
}

func (s *Server) handleHover(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[HoverParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	hover, err := s.hoverWithRetry(ctx, client, params.File, params.Line, params.Character)
	if err != nil {
		return nil, ErrLSP(err)
	}
	return HoverResult{Hover: hover}, nil
}

type DefinitionResult struct {
	Locations []protocol.Location `json:"locations"`
}

func (s *Server) handleDefinition(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[DefinitionParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	locs, err := client.GotoDefinition(ctx, params.File, params.Line, params.Character)
	if err != nil {
		return nil, ErrLSP(err)
	}
	return DefinitionResult{Locations: locs}, nil
}

type ReferencesResult struct {
	Locations []protocol.Location `json:"locations"`
}

func (s *Server) handleReferences(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[ReferencesParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	locs, err := client.FindReferences(ctx, params.File, params.Line, params.Character, params.IncludeDeclaration)
	if err != nil {
		return nil, ErrLSP(err)
	}
	return ReferencesResult{Locations: locs}, nil
}

type BatchReferenceEntry struct {
	Label     string              `json:"label"`
	Locations []protocol.Location `json:"locations"`
}

type BatchReferencesResult struct {
	Results []BatchReferenceEntry `json:"results"`
}

// handleBatchReferences issues each query sequentially against the same
// client — never concurrently — per spec.md §4.5/§5's single-pipe ordering
// constraint, and tags/returns results in request order.
func (s *Server) handleBatchReferences(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[BatchReferencesParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, err := s.pool.Get(ctx, params.WorkspaceRoot)
	if err != nil {
		return nil, ErrInternal(err)
	}

	entries := make([]BatchReferenceEntry, 0, len(params.Queries))
	for _, q := range params.Queries {
		if _, err := client.OpenDocument(ctx, q.File); err != nil {
			return nil, ErrFileNotFound(q.File, err)
		}
		locs, err := client.FindReferences(ctx, q.File, q.Line, q.Character, q.IncludeDeclaration)
		if err != nil {
			return nil, ErrLSP(err)
		}
		entries = append(entries, BatchReferenceEntry{Label: q.Label, Locations: locs})
	}

	return BatchReferencesResult{Results: entries}, nil
}

type WorkspaceSymbolsResult struct {
	Symbols []protocol.SymbolInformation `json:"symbols"`
}

// handleWorkspaceSymbols issues the raw (possibly fuzzy) query, retries on
// an empty result the same way hover does, then applies the exact_name and
// limit post-filters before the response is serialized (spec.md §4.5).
func (s *Server) handleWorkspaceSymbols(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[WorkspaceSymbolsParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, err := s.pool.Get(ctx, params.WorkspaceRoot)
	if err != nil {
		return nil, ErrInternal(err)
	}

	symbols, err := client.WorkspaceSymbols(ctx, params.Query)
	if err != nil {
		return nil, ErrLSP(err)
	}
	for _, delay := range coldStartDelays {
		if len(symbols) > 0 {
			break
		}
		s.sleepWithContext(ctx, delay)
		symbols, err = client.WorkspaceSymbols(ctx, params.Query)
		if err != nil {
			return nil, ErrLSP(err)
		}
	}

	if params.ExactName != nil {
		filtered := make([]protocol.SymbolInformation, 0, len(symbols))
		for _, sym := range symbols {
			if sym.Name == *params.ExactName {
				filtered = append(filtered, sym)
			}
		}
		symbols = filtered
	}

	if params.Limit != nil && len(symbols) > *params.Limit {
		symbols = symbols[:*params.Limit]
	}

	return WorkspaceSymbolsResult{Symbols: symbols}, nil
}

type DocumentSymbolsResult struct {
	Symbols []protocol.DocumentSymbol `json:"symbols"`
}

func (s *Server) handleDocumentSymbols(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[DocumentSymbolsParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	symbols, err := client.DocumentSymbols(ctx, params.File)
	if err != nil {
		return nil, ErrLSP(err)
	}
	return DocumentSymbolsResult{Symbols: symbols}, nil
}

type InspectResult struct {
	Hover      *protocol.Hover     `json:"hover"`
	References []protocol.Location `json:"references,omitempty"`
}

// handleInspect folds a hover (with warmup retry) and an optional references
// call into one round-trip (spec.md §4.5).
func (s *Server) handleInspect(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[InspectParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	hover, err := s.hoverWithRetry(ctx, client, params.File, params.Line, params.Character)
	if err != nil {
		return nil, ErrLSP(err)
	}

	result := InspectResult{Hover: hover}
	if params.WithReferences {
		refs, err := client.FindReferences(ctx, params.File, params.Line, params.Character, false)
		if err != nil {
			return nil, ErrLSP(err)
		}
		result.References = refs
	}
	return result, nil
}

type DiagnosticsResult struct {
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
}

// handleDiagnostics is a planned endpoint not yet wired to LSP push
// notifications; it always returns an empty list (spec.md §4.5).
func (s *Server) handleDiagnostics(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	return DiagnosticsResult{Diagnostics: []protocol.Diagnostic{}}, nil
}

type PingResult struct {
	Status           string `json:"status"`
	UptimeSeconds    int64  `json:"uptime"`
	ActiveWorkspaces int    `json:"active_workspaces"`
	CacheSize        int    `json:"cache_size"`
}

func (s *Server) handlePing(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	return PingResult{
		Status:           "running",
		UptimeSeconds:    int64(s.Uptime().Seconds()),
		ActiveWorkspaces: s.pool.Len(),
		CacheSize:        0,
	}, nil
}

type ShutdownResult struct {
	Status string `json:"status"`
}

func (s *Server) handleShutdown(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	s.Shutdown()
	return ShutdownResult{Status: "shutting down"}, nil
}
