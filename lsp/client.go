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
	"os"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/internal/logging"
)

// Client is the typed, six-operation facade over one workspace's LSP
// transport (spec.md §4.2). It is designed to be shared: multiple
// concurrent handlers may call its operations simultaneously (spec.md §5).
type Client struct {
	transport *Transport
	root      string

	openedMu sync.Mutex
	opened   map[protocol.DocumentUri]bool
}

// NewClient spawns command (with subcommand and args) rooted at
// workspaceRoot, performs the initialize/initialized handshake, and returns
// a ready client. The background reader is installed by Spawn before this
// function ever writes the initialize request (spec.md §4.1).
func NewClient(ctx context.Context, workspaceRoot, command, subcommand string, args []string) (*Client, error) {
	fullArgs := append([]string{subcommand}, args...)
	transport, err := Spawn(ctx, workspaceRoot, command, fullArgs)
	if err != nil {
		return nil, fmt.Errorf("spawning LSP server for %s: %w", workspaceRoot, err)
	}

	c := &Client{
		transport: transport,
		root:      workspaceRoot,
		opened:    make(map[protocol.DocumentUri]bool),
	}

	if err := c.initialize(ctx, workspaceRoot); err != nil {
		_ = transport.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) initialize(ctx context.Context, workspaceRoot string) error {
	rootURI, err := FileURI(workspaceRoot)
	if err != nil {
		return fmt.Errorf("canonicalizing workspace root %s: %w", workspaceRoot, err)
	}

	trueVal := true
	params := &protocol.InitializeParams{
		RootURI: &rootURI,
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Definition: &protocol.DefinitionClientCapabilities{
					DynamicRegistration: &trueVal,
				},
				Hover: &protocol.HoverClientCapabilities{
					DynamicRegistration: &trueVal,
				},
				References: &protocol.ReferenceClientCapabilities{
					DynamicRegistration: &trueVal,
				},
				DocumentSymbol: &protocol.DocumentSymbolClientCapabilities{
					DynamicRegistration:               &trueVal,
					HierarchicalDocumentSymbolSupport: &trueVal,
				},
			},
			Workspace: &protocol.WorkspaceClientCapabilities{
				Symbol: &protocol.WorkspaceSymbolClientCapabilities{
					DynamicRegistration: &trueVal,
				},
			},
		},
	}

	var result protocol.InitializeResult
	if err := c.transport.Conn.Call(ctx, "initialize", params, &result); err != nil {
		return fmt.Errorf("LSP initialize handshake with %s failed: %w", c.root, err)
	}

	if err := c.transport.Conn.Notify(ctx, "initialized", &protocol.InitializedParams{}); err != nil {
		return fmt.Errorf("sending initialized notification to %s failed: %w", c.root, err)
	}

	return nil
}

// Close terminates the underlying LSP child process.
func (c *Client) Close() error {
	return c.transport.Close()
}

// OpenDocument sends textDocument/didOpen for path the first time it is
// seen, and is a no-op on every subsequent call for the same URI (spec.md
// §4.2: the LSP spec forbids sending didOpen twice for one URI).
func (c *Client) OpenDocument(ctx context.Context, path string) (firstOpen bool, err error) {
	uri, err := FileURI(path)
	if err != nil {
		return false, fmt.Errorf("canonicalizing %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	c.openedMu.Lock()
	if c.opened[uri] {
		c.openedMu.Unlock()
		return false, nil
	}
	c.opened[uri] = true
	c.openedMu.Unlock()

	params := &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "python",
			Version:    1,
			Text:       string(content),
		},
	}
	if err := c.transport.Conn.Notify(ctx, "textDocument/didOpen", params); err != nil {
		logging.Debug("didOpen notify failed for %s: %v", path, err)
		return false, fmt.Errorf("notifying didOpen for %s: %w", path, err)
	}
	return true, nil
}

func textDocumentPosition(uri protocol.DocumentUri, line, character uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

// GotoDefinition resolves the symbol at (line, character) in file to zero or
// more Locations, normalizing the LSP sum-type response (spec.md §9).
func (c *Client) GotoDefinition(ctx context.Context, file string, line, character uint32) ([]protocol.Location, error) {
	uri, err := FileURI(file)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %s: %w", file, err)
	}

	var result DefinitionResult
	params := &protocol.DefinitionParams{TextDocumentPositionParams: textDocumentPosition(uri, line, character)}
	if err := c.transport.Conn.Call(ctx, "textDocument/definition", params, &result); err != nil {
		return nil, fmt.Errorf("textDocument/definition at %s:%d:%d: %w", file, line, character, err)
	}
	return []protocol.Location(result), nil
}

// FindReferences returns every reference to the symbol at (line, character)
// in file, optionally including the declaration itself.
func (c *Client) FindReferences(ctx context.Context, file string, line, character uint32, includeDeclaration bool) ([]protocol.Location, error) {
	uri, err := FileURI(file)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %s: %w", file, err)
	}

	var result []protocol.Location
	params := &protocol.ReferenceParams{
		TextDocumentPositionParams: textDocumentPosition(uri, line, character),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: includeDeclaration},
	}
	if err := c.transport.Conn.Call(ctx, "textDocument/references", params, &result); err != nil {
		return nil, fmt.Errorf("textDocument/references at %s:%d:%d: %w", file, line, character, err)
	}
	return result, nil
}

// Hover returns the type/docstring information at (line, character) in
// file, or nil if the LSP server has nothing to say (spec.md §4.2/§4.5 —
// cold-start retry on nil is the caller's responsibility, not this method's).
func (c *Client) Hover(ctx context.Context, file string, line, character uint32) (*protocol.Hover, error) {
	uri, err := FileURI(file)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %s: %w", file, err)
	}

	var result *protocol.Hover
	params := &protocol.HoverParams{TextDocumentPositionParams: textDocumentPosition(uri, line, character)}
	if err := c.transport.Conn.Call(ctx, "textDocument/hover", params, &result); err != nil {
		return nil, fmt.Errorf("textDocument/hover at %s:%d:%d: %w", file, line, character, err)
	}
	return result, nil
}

// WorkspaceSymbols issues a workspace/symbol query. Exact-name filtering and
// cold-start retry are handler-level concerns (spec.md §4.5), not this
// method's.
func (c *Client) WorkspaceSymbols(ctx context.Context, query string) ([]protocol.SymbolInformation, error) {
	var result []protocol.SymbolInformation
	params := &protocol.WorkspaceSymbolParams{Query: query}
	if err := c.transport.Conn.Call(ctx, "workspace/symbol", params, &result); err != nil {
		return nil, fmt.Errorf("workspace/symbol %q: %w", query, err)
	}
	return result, nil
}

// DocumentSymbols returns the hierarchical symbol tree for file.
func (c *Client) DocumentSymbols(ctx context.Context, file string) ([]protocol.DocumentSymbol, error) {
	uri, err := FileURI(file)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %s: %w", file, err)
	}

	var result []protocol.DocumentSymbol
	params := &protocol.DocumentSymbolParams{TextDocument: protocol.TextDocumentIdentifier{URI: uri}}
	if err := c.transport.Conn.Call(ctx, "textDocument/documentSymbol", params, &result); err != nil {
		return nil, fmt.Errorf("textDocument/documentSymbol for %s: %w", file, err)
	}
	return result, nil
}
