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
	"regexp"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/lsp"
)

type MemberInfo struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
}

type MembersResult struct {
	Location   *protocol.Location `json:"location,omitempty"`
	SymbolKind string             `json:"symbol_kind,omitempty"`
	Members    []MemberInfo       `json:"members"`
}

// handleMembers walks the document-symbol tree for the named class and
// turns each direct child into a clean (name, kind, signature, line, column)
// tuple (spec.md §4.5).
func (s *Server) handleMembers(ctx context.Context, raw json.RawMessage) (any, *DaemonError) {
	params, derr := decodeParams[MembersParams](raw)
	if derr != nil {
		return nil, derr
	}

	client, derr := s.getClient(ctx, params.WorkspaceRoot, params.File)
	if derr != nil {
		return nil, derr
	}

	docSymbols, err := client.DocumentSymbols(ctx, params.File)
	if err != nil {
		return nil, ErrLSP(err)
	}

	found := findSymbolByName(docSymbols, params.SymbolName)
	if found == nil {
		return MembersResult{Members: []MemberInfo{}}, nil
	}

	uri, err := lsp.FileURI(params.File)
	if err != nil {
		return nil, ErrFileNotFound(params.File, err)
	}
	location := protocol.Location{URI: uri, Range: found.Range}

	if found.Kind != protocol.SymbolKindClass {
		return MembersResult{
			Location:   &location,
			SymbolKind: symbolKindName(found.Kind),
			Members:    []MemberInfo{},
		}, nil
	}

	members := make([]MemberInfo, 0, len(found.Children))
	for _, child := range found.Children {
		if params.ExcludePrivate && strings.HasPrefix(child.Name, "_") {
			continue
		}

		hover, err := client.Hover(ctx, params.File, child.SelectionRange.Start.Line, child.SelectionRange.Start.Character)
		if err != nil {
			return nil, ErrLSP(err)
		}

		signature := extractSignature(hoverText(hover))
		members = append(members, MemberInfo{
			Name:      child.Name,
			Kind:      symbolKindName(child.Kind),
			Signature: signature,
			Line:      child.SelectionRange.Start.Line,
			Column:    child.SelectionRange.Start.Character,
		})
	}

	return MembersResult{
		Location:   &location,
		SymbolKind: symbolKindName(found.Kind),
		Members:    members,
	}, nil
}

// findSymbolByName searches the document-symbol forest depth-first for an
// exact name match, preferring the first match encountered.
func findSymbolByName(symbols []protocol.DocumentSymbol, name string) *protocol.DocumentSymbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
		if found := findSymbolByName(symbols[i].Children, name); found != nil {
			return found
		}
	}
	return nil
}

// hoverText extracts plain text from a Hover's contents via the same sum-type
// normalizer the CLI formatters use, by round-tripping through JSON since
// protocol.Hover.Contents is untyped.
func hoverText(hover *protocol.Hover) string {
	if hover == nil {
		return ""
	}
	raw, err := json.Marshal(hover.Contents)
	if err != nil {
		return ""
	}
	var hc lsp.HoverContents
	if err := hc.UnmarshalJSON(raw); err != nil {
		return ""
	}
	return hc.ExtractText()
}

var (
	codeFenceRe     = regexp.MustCompile("(?s)^```[a-zA-Z0-9_+-]*\\n(.*?)\\n?```$")
	leadingModifier = regexp.MustCompile(`^\([^)]*\)\s*`)
)

// extractSignature renders a hover's text down to a clean signature string
// following the ordered strip rules of spec.md §4.5:
//  1. drop everything from the first "\n---" docstring separator onward
//  2. unwrap a surrounding markdown code fence, if present
//  3. drop a leading "def " prefix
//  4. drop a leading parenthesized modifier like "(property) ", re-stripping
//     a "def " prefix it may have been hiding
func extractSignature(text string) string {
	if idx := strings.Index(text, "\n---"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	text = strings.TrimPrefix(text, "def ")

	if leadingModifier.MatchString(text) {
		text = leadingModifier.ReplaceAllString(text, "")
		text = strings.TrimPrefix(text, "def ")
	}

	return strings.TrimSpace(text)
}

// symbolKindName renders an LSP SymbolKind as the string name the wire
// protocol and CLI output use.
func symbolKindName(kind protocol.SymbolKind) string {
	switch kind {
	case protocol.SymbolKindFile:
		return "File"
	case protocol.SymbolKindModule:
		return "Module"
	case protocol.SymbolKindNamespace:
		return "Namespace"
	case protocol.SymbolKindPackage:
		return "Package"
	case protocol.SymbolKindClass:
		return "Class"
	case protocol.SymbolKindMethod:
		return "Method"
	case protocol.SymbolKindProperty:
		return "Property"
	case protocol.SymbolKindField:
		return "Field"
	case protocol.SymbolKindConstructor:
		return "Constructor"
	case protocol.SymbolKindEnum:
		return "Enum"
	case protocol.SymbolKindInterface:
		return "Interface"
	case protocol.SymbolKindFunction:
		return "Function"
	case protocol.SymbolKindVariable:
		return "Variable"
	case protocol.SymbolKindConstant:
		return "Constant"
	case protocol.SymbolKindString:
		return "String"
	case protocol.SymbolKindNumber:
		return "Number"
	case protocol.SymbolKindBoolean:
		return "Boolean"
	case protocol.SymbolKindArray:
		return "Array"
	case protocol.SymbolKindObject:
		return "Object"
	case protocol.SymbolKindKey:
		return "Key"
	case protocol.SymbolKindNull:
		return "Null"
	case protocol.SymbolKindEnumMember:
		return "EnumMember"
	case protocol.SymbolKindStruct:
		return "Struct"
	case protocol.SymbolKindEvent:
		return "Event"
	case protocol.SymbolKindOperator:
		return "Operator"
	case protocol.SymbolKindTypeParameter:
		return "TypeParameter"
	default:
		return "Unknown"
	}
}
