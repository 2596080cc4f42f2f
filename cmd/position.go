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
	"fmt"
	"strconv"
	"strings"

	"bennypowers.dev/ty-find/daemon"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OneBasedToZero converts a one-based CLI line or column to the zero-based
// value the LSP wire protocol uses, saturating at zero rather than going
// negative (spec.md §3/§8: "a CLI one-based line of 0 becomes zero-based 0").
func OneBasedToZero(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32(n - 1)
}

// ZeroBasedToOne converts a zero-based LSP line or column back to the
// one-based value the CLI prints.
func ZeroBasedToOne(n uint32) int {
	return int(n) + 1
}

// parsePosition parses a "file:line:column" argument into a file path and
// zero-based line/character values.
func parsePosition(arg string) (file string, line, character uint32, err error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("expected file:line:column, got %q", arg)
	}
	oneLine, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid line %q: %w", parts[1], err)
	}
	oneCol, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid column %q: %w", parts[2], err)
	}
	return parts[0], OneBasedToZero(oneLine), OneBasedToZero(oneCol), nil
}

// dedupeLocations removes duplicate (uri, start line) entries while
// preserving first-seen order — a read and a synthetic self-reference are
// sometimes reported at the same declaration line with differing columns,
// and collapsing by line (not the full range) is what actually merges them.
func dedupeLocations(locations []protocol.Location) []protocol.Location {
	seen := make(map[string]struct{}, len(locations))
	out := make([]protocol.Location, 0, len(locations))
	for _, loc := range locations {
		key := fmt.Sprintf("%s:%d", loc.URI, loc.Range.Start.Line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, loc)
	}
	return out
}

// locationsAsStrings renders each Location the same way formatLocation does,
// for JSON output that mirrors the plain-text formatting.
func locationsAsStrings(locations []protocol.Location) []string {
	out := make([]string, len(locations))
	for i, loc := range locations {
		out[i] = formatLocation(loc)
	}
	return out
}

// formatLocation renders a Location the way the CLI prints it: one-based
// line/column, file path stripped of the file:// scheme.
func formatLocation(loc protocol.Location) string {
	path := strings.TrimPrefix(string(loc.URI), "file://")
	return fmt.Sprintf("%s:%d:%d", path, ZeroBasedToOne(loc.Range.Start.Line), ZeroBasedToOne(loc.Range.Start.Character))
}

// daemonErrorCode extracts the daemon's numeric error code from err, if it
// is (or wraps) a daemon.DaemonError.
func daemonErrorCode(err error) (int, bool) {
	var derr *daemon.DaemonError
	if ok := asDaemonError(err, &derr); ok {
		return derr.Code(), true
	}
	return 0, false
}

func asDaemonError(err error, target **daemon.DaemonError) bool {
	for err != nil {
		if de, ok := err.(*daemon.DaemonError); ok {
			*target = de
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
