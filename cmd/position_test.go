/*
Copyright © 2025 Benny Powers <web@bennypowers.com>
*/
package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/daemon"
)

func TestOneBasedToZero(t *testing.T) {
	require.Equal(t, uint32(0), OneBasedToZero(0))
	require.Equal(t, uint32(0), OneBasedToZero(1))
	require.Equal(t, uint32(9), OneBasedToZero(10))
	require.Equal(t, uint32(0), OneBasedToZero(-5))
}

func TestZeroBasedToOne(t *testing.T) {
	require.Equal(t, 1, ZeroBasedToOne(0))
	require.Equal(t, 11, ZeroBasedToOne(10))
}

func TestParsePosition_Valid(t *testing.T) {
	file, line, col, err := parsePosition("main.py:10:5")
	require.NoError(t, err)
	require.Equal(t, "main.py", file)
	require.Equal(t, uint32(9), line)
	require.Equal(t, uint32(4), col)
}

func TestParsePosition_WrongShape(t *testing.T) {
	_, _, _, err := parsePosition("main.py:10")
	require.Error(t, err)
}

func TestParsePosition_NonNumericLine(t *testing.T) {
	_, _, _, err := parsePosition("main.py:x:5")
	require.Error(t, err)
}

func TestDedupeLocations_RemovesExactDuplicates(t *testing.T) {
	loc := protocol.Location{
		URI: "file:///a.py",
		Range: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 2},
			End:   protocol.Position{Line: 1, Character: 8},
		},
	}
	out := dedupeLocations([]protocol.Location{loc, loc})
	require.Len(t, out, 1)
}

func TestDedupeLocations_MergesSameStartLineDifferentColumns(t *testing.T) {
	// A read and a synthetic self-reference reported at the same declaration
	// line but different columns must collapse to one entry.
	a := protocol.Location{URI: "file:///a.py", Range: protocol.Range{
		Start: protocol.Position{Line: 4, Character: 2}, End: protocol.Position{Line: 4, Character: 8},
	}}
	b := protocol.Location{URI: "file:///a.py", Range: protocol.Range{
		Start: protocol.Position{Line: 4, Character: 10}, End: protocol.Position{Line: 4, Character: 14},
	}}
	out := dedupeLocations([]protocol.Location{a, b})
	require.Len(t, out, 1)
	require.Equal(t, a, out[0])
}

func TestDedupeLocations_KeepsDistinctRanges(t *testing.T) {
	a := protocol.Location{URI: "file:///a.py", Range: protocol.Range{
		Start: protocol.Position{Line: 1, Character: 2}, End: protocol.Position{Line: 1, Character: 8},
	}}
	b := protocol.Location{URI: "file:///a.py", Range: protocol.Range{
		Start: protocol.Position{Line: 2, Character: 0}, End: protocol.Position{Line: 2, Character: 4},
	}}
	out := dedupeLocations([]protocol.Location{a, b})
	require.Len(t, out, 2)
}

func TestFormatLocation_StripsFileSchemeAndConvertsToOneBased(t *testing.T) {
	loc := protocol.Location{
		URI: "file:///home/user/main.py",
		Range: protocol.Range{
			Start: protocol.Position{Line: 9, Character: 4},
			End:   protocol.Position{Line: 9, Character: 10},
		},
	}
	require.Equal(t, "/home/user/main.py:10:5", formatLocation(loc))
}

func TestDaemonErrorCode_UnwrapsWrappedDaemonError(t *testing.T) {
	base := daemon.ErrSymbolNotFound("Widget")
	wrapped := fmt.Errorf("calling members: %w", base)

	code, ok := daemonErrorCode(wrapped)
	require.True(t, ok)
	require.Equal(t, daemon.CodeSymbolNotFound, code)
}

func TestDaemonErrorCode_FalseForPlainError(t *testing.T) {
	_, ok := daemonErrorCode(fmt.Errorf("boom"))
	require.False(t, ok)
}
