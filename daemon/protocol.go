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

// Package daemon implements the long-lived background process: its
// client-facing wire protocol, the socket server and lifecycle, and the
// per-method request handlers that coordinate LSP calls.
package daemon

import "encoding/json"

// ProtocolVersion is the wire-schema version marker carried on every request
// and response, independent of the tool's own release version.
const ProtocolVersion = "2.0"

// Method enumerates the closed set of RPC methods the daemon serves.
type Method string

const (
	MethodHover             Method = "hover"
	MethodDefinition        Method = "definition"
	MethodWorkspaceSymbols  Method = "workspace_symbols"
	MethodDocumentSymbols   Method = "document_symbols"
	MethodReferences        Method = "references"
	MethodBatchReferences   Method = "batch_references"
	MethodInspect           Method = "inspect"
	MethodMembers           Method = "members"
	MethodDiagnostics       Method = "diagnostics"
	MethodPing              Method = "ping"
	MethodShutdown          Method = "shutdown"
)

// IsValid reports whether m is one of the closed set of methods above.
func (m Method) IsValid() bool {
	switch m {
	case MethodHover, MethodDefinition, MethodWorkspaceSymbols, MethodDocumentSymbols,
		MethodReferences, MethodBatchReferences, MethodInspect, MethodMembers,
		MethodDiagnostics, MethodPing, MethodShutdown:
		return true
	default:
		return false
	}
}

// Request is the wire shape of a single call to the daemon over its socket.
type Request struct {
	Version string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  Method          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is the wire shape of the daemon's reply. Exactly one of Result or
// Error is populated.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *WireError      `json:"error,omitempty"`
}

// WireError is the serialized form of a DaemonError.
type WireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewResultResponse builds a successful Response for id, marshaling result
// into its Result field.
func NewResultResponse(id int64, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Response{Version: ProtocolVersion, ID: id, Result: raw}, nil
}

// NewErrorResponse builds a failing Response for id from a DaemonError.
func NewErrorResponse(id int64, err *DaemonError) *Response {
	return &Response{
		Version: ProtocolVersion,
		ID:      id,
		Error: &WireError{
			Code:    err.Code(),
			Message: err.Error(),
			Data:    err.Data(),
		},
	}
}

// Params shapes for each method below. Fields mirror the CLI's one-based
// input after cmd/position.go has already converted to zero-based.

type PositionParams struct {
	WorkspaceRoot string `json:"workspace_root"`
	File          string `json:"file"`
	Line          uint32 `json:"line"`
	Character     uint32 `json:"character"`
}

type HoverParams struct {
	PositionParams
}

type DefinitionParams struct {
	PositionParams
}

type ReferencesParams struct {
	PositionParams
	IncludeDeclaration bool `json:"include_declaration"`
}

type BatchReferenceQuery struct {
	Label              string `json:"label"`
	File               string `json:"file"`
	Line               uint32 `json:"line"`
	Character          uint32 `json:"character"`
	IncludeDeclaration bool   `json:"include_declaration"`
}

type BatchReferencesParams struct {
	WorkspaceRoot string                `json:"workspace_root"`
	Queries       []BatchReferenceQuery `json:"queries"`
}

type WorkspaceSymbolsParams struct {
	WorkspaceRoot string  `json:"workspace_root"`
	Query         string  `json:"query"`
	ExactName     *string `json:"exact_name,omitempty"`
	Limit         *int    `json:"limit,omitempty"`
}

type DocumentSymbolsParams struct {
	WorkspaceRoot string `json:"workspace_root"`
	File          string `json:"file"`
}

type InspectParams struct {
	PositionParams
	WithReferences bool `json:"with_references"`
}

type MembersParams struct {
	WorkspaceRoot    string `json:"workspace_root"`
	File             string `json:"file"`
	SymbolName       string `json:"symbol_name"`
	ExcludePrivate   bool   `json:"exclude_private"`
}

type PingParams struct{}

type ShutdownParams struct{}
