/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestExtractSignature_StripsDocstringSuffix(t *testing.T) {
	text := "def greet(name: str) -> str\n---\nReturns a greeting for name."
	require.Equal(t, "greet(name: str) -> str", extractSignature(text))
}

func TestExtractSignature_StripsCodeFence(t *testing.T) {
	text := "```python\ndef greet(name: str) -> str\n```"
	require.Equal(t, "greet(name: str) -> str", extractSignature(text))
}

func TestExtractSignature_StripsLeadingModifier(t *testing.T) {
	text := "(property) def name: str"
	require.Equal(t, "name: str", extractSignature(text))
}

func TestExtractSignature_StripsMethodModifierWithoutDef(t *testing.T) {
	text := "(method) greet(self) -> None"
	require.Equal(t, "greet(self) -> None", extractSignature(text))
}

func TestExtractSignature_ComposesAllRules(t *testing.T) {
	text := "```python\n(method) def greet(self) -> None\n```\n---\nGreets the caller."
	require.Equal(t, "greet(self) -> None", extractSignature(text))
}

func TestFindSymbolByName_FindsNestedChild(t *testing.T) {
	symbols := []protocol.DocumentSymbol{
		{
			Name: "Dog",
			Kind: protocol.SymbolKindClass,
			Children: []protocol.DocumentSymbol{
				{Name: "bark", Kind: protocol.SymbolKindMethod},
			},
		},
	}

	found := findSymbolByName(symbols, "bark")
	require.NotNil(t, found)
	require.Equal(t, protocol.SymbolKindMethod, found.Kind)
}

func TestFindSymbolByName_NotFound(t *testing.T) {
	symbols := []protocol.DocumentSymbol{{Name: "Dog", Kind: protocol.SymbolKindClass}}
	require.Nil(t, findSymbolByName(symbols, "Cat"))
}

func TestSymbolKindName(t *testing.T) {
	require.Equal(t, "Class", symbolKindName(protocol.SymbolKindClass))
	require.Equal(t, "Function", symbolKindName(protocol.SymbolKindFunction))
	require.Equal(t, "Unknown", symbolKindName(protocol.SymbolKind(9999)))
}
