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

import "fmt"

// JSON-RPC 2.0 reserved error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Application-range error codes (spec.md §6/§7).
const (
	CodeFileNotFound      = -32000
	CodeWorkspaceNotFound = -32001
	CodeLSPError          = -32002
	CodeTimeout           = -32003
	CodeSymbolNotFound    = -32004
)

// DaemonError is the typed error surfaced by handlers and serialized onto
// the wire as a WireError. It wraps an underlying cause where one exists so
// that the CLI layer can render the full causal chain (spec.md §7).
type DaemonError struct {
	code    int
	message string
	data    any
	cause   error
}

func (e *DaemonError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *DaemonError) Unwrap() error { return e.cause }
func (e *DaemonError) Code() int     { return e.code }
func (e *DaemonError) Data() any     { return e.data }

func newDaemonError(code int, message string, cause error) *DaemonError {
	return &DaemonError{code: code, message: message, cause: cause}
}

func ErrParse(cause error) *DaemonError {
	return newDaemonError(CodeParseError, "failed to parse request", cause)
}

func ErrInvalidRequest(message string) *DaemonError {
	return newDaemonError(CodeInvalidRequest, message, nil)
}

func ErrMethodNotFound(method Method) *DaemonError {
	return newDaemonError(CodeMethodNotFound, fmt.Sprintf("unknown method %q", method), nil)
}

func ErrInvalidParams(cause error) *DaemonError {
	return newDaemonError(CodeInvalidParams, "invalid params", cause)
}

func ErrInternal(cause error) *DaemonError {
	return newDaemonError(CodeInternalError, "internal error", cause)
}

func ErrFileNotFound(path string, cause error) *DaemonError {
	return newDaemonError(CodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

func ErrWorkspaceNotFound(root string) *DaemonError {
	return newDaemonError(CodeWorkspaceNotFound, fmt.Sprintf("workspace not found: %s", root), nil)
}

func ErrLSP(cause error) *DaemonError {
	return newDaemonError(CodeLSPError, "language server error", cause)
}

func ErrTimeout(cause error) *DaemonError {
	return newDaemonError(CodeTimeout, "request timed out", cause)
}

func ErrSymbolNotFound(name string) *DaemonError {
	return newDaemonError(CodeSymbolNotFound, fmt.Sprintf("symbol not found: %s", name), nil)
}
