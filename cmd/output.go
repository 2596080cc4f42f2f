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

package cmd

import (
	"encoding/json"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/lsp"
)

// printJSON marshals v with indentation and prints it to stdout, used by
// every RPC-backed command when --json is set.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result as JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// hoverContentsText renders a Hover's untyped Contents field down to plain
// text via the same sum-type normalizer used wire-side.
func hoverContentsText(hover *protocol.Hover) string {
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

// symbolKindLabel renders an LSP SymbolKind as a human-readable name for
// plain-text CLI output.
func symbolKindLabel(kind protocol.SymbolKind) string {
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
	case protocol.SymbolKindStruct:
		return "Struct"
	case protocol.SymbolKindEnumMember:
		return "EnumMember"
	case protocol.SymbolKindTypeParameter:
		return "TypeParameter"
	default:
		return "Symbol"
	}
}
