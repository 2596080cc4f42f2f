/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package lsp_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/lsp"
)

func TestDefinitionResult_Null(t *testing.T) {
	var d lsp.DefinitionResult
	require.NoError(t, json.Unmarshal([]byte("null"), &d))
	require.Empty(t, []protocol.Location(d))
}

func TestDefinitionResult_SingleObject(t *testing.T) {
	var d lsp.DefinitionResult
	raw := `{"uri":"file:///a.py","range":{"start":{"line":1,"character":2},"end":{"line":1,"character":8}}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	require.Len(t, d, 1)
	require.Equal(t, protocol.DocumentUri("file:///a.py"), d[0].URI)
}

func TestDefinitionResult_Array(t *testing.T) {
	var d lsp.DefinitionResult
	raw := `[
		{"uri":"file:///a.py","range":{"start":{"line":1,"character":2},"end":{"line":1,"character":8}}},
		{"uri":"file:///b.py","range":{"start":{"line":3,"character":0},"end":{"line":3,"character":4}}}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	require.Len(t, d, 2)
}

func TestHoverContents_PlainString(t *testing.T) {
	var h lsp.HoverContents
	require.NoError(t, json.Unmarshal([]byte(`"def greet() -> str"`), &h))
	require.Equal(t, "def greet() -> str", h.ExtractText())
}

func TestHoverContents_MarkedString(t *testing.T) {
	var h lsp.HoverContents
	require.NoError(t, json.Unmarshal([]byte(`{"language":"python","value":"def greet() -> str"}`), &h))
	require.Equal(t, "def greet() -> str", h.ExtractText())
}

func TestHoverContents_MarkupContent(t *testing.T) {
	var h lsp.HoverContents
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"markdown","value":"**greet**"}`), &h))
	require.Equal(t, "**greet**", h.ExtractText())
}

func TestHoverContents_ArrayMixed(t *testing.T) {
	var h lsp.HoverContents
	raw := `["plain line", {"language":"python","value":"def greet() -> str"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	require.Equal(t, "plain line\ndef greet() -> str", h.ExtractText())
}

func TestHoverContents_Empty(t *testing.T) {
	var h lsp.HoverContents
	require.Equal(t, "", h.ExtractText())
}

func TestFileURI_ProducesFileScheme(t *testing.T) {
	uri, err := lsp.FileURI(t.TempDir())
	require.NoError(t, err)
	require.Contains(t, string(uri), "file://")
}
