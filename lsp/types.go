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

// Package lsp drives an external Language Server Protocol process: it spawns
// the child, frames requests over its stdio, and exposes the handful of
// typed operations the daemon's handlers need.
package lsp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Position, Range, Location, Hover, SymbolInformation, DocumentSymbol, and
// SymbolKind are reused directly from protocol_3_16 rather than
// re-declared — they already carry the JSON tags and enum values (File=1
// through TypeParameter=26) the LSP specification defines.

// FileURI canonicalizes path into a file:// URI. Symlinks are resolved and
// the result is made absolute; callers surface a recoverable error on
// failure (spec.md §4.2).
func FileURI(path string) (protocol.DocumentUri, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// A file that doesn't exist yet (or a broken symlink) still gets a
		// usable URI built from the absolute path; only I/O errors other
		// than "not exist" are treated as failures by callers further up.
		resolved = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(resolved)}
	return protocol.DocumentUri(u.String()), nil
}

// DefinitionResult normalizes the goto-definition sum type described in
// spec.md §9: the LSP response may be null, a single Location, or an array
// of Locations. Deserializing through this type always yields a slice:
// null → empty, object → singleton, array → as-is.
type DefinitionResult []protocol.Location

func (d *DefinitionResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*d = DefinitionResult{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var locs []protocol.Location
		if err := json.Unmarshal(data, &locs); err != nil {
			return err
		}
		*d = DefinitionResult(locs)
		return nil
	}
	var loc protocol.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return err
	}
	*d = DefinitionResult{loc}
	return nil
}

// HoverContents normalizes the four-shape LSP hover payload (spec.md §9):
// a plain string, a language-tagged MarkedString, an array mixing either,
// or a MarkupContent object. ExtractText is the single helper used
// uniformly by CLI formatters and by members-signature extraction.
type HoverContents struct {
	raw json.RawMessage
}

func (h *HoverContents) UnmarshalJSON(data []byte) error {
	h.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (h HoverContents) MarshalJSON() ([]byte, error) {
	if h.raw == nil {
		return []byte("null"), nil
	}
	return h.raw, nil
}

// ExtractText renders the hover contents down to plain text regardless of
// which of the four LSP shapes it arrived as.
func (h HoverContents) ExtractText() string {
	if len(h.raw) == 0 {
		return ""
	}

	trimmed := strings.TrimSpace(string(h.raw))

	// Scalar string.
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(h.raw, &s); err == nil {
			return s
		}
	}

	// Array of (MarkedString | string).
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(h.raw, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, (HoverContents{raw: item}).ExtractText())
			}
			return strings.Join(parts, "\n")
		}
	}

	// MarkupContent{kind, value} or MarkedString{language, value}.
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(h.raw, &obj); err == nil {
		return obj.Value
	}

	return ""
}
