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
	"io"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/ty-find/daemon"
)

// batchReferencesCmd reads a JSON array of {label, file, line, column,
// include_declaration} objects from a file (or stdin with "-") and issues
// them as one batch_references request, preserving label order.
var batchReferencesCmd = &cobra.Command{
	Use:   "batch-references queries-file",
	Short: "Look up references for many positions in a single daemon round-trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := WorkspaceRoot(cmd.Flags().Lookup("workspace").Value.String())
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}

		queries, err := readBatchQueries(args[0])
		if err != nil {
			return err
		}

		client := newDaemonClient(loadConfig())
		result, err := client.BatchReferences(cmd.Context(), daemon.BatchReferencesParams{
			WorkspaceRoot: root,
			Queries:       queries,
		})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		for _, entry := range result.Results {
			locations := dedupeLocations(entry.Locations)
			fmt.Printf("%s: %d references\n", entry.Label, len(locations))
			for _, loc := range locations {
				fmt.Printf("  %s\n", formatLocation(loc))
			}
		}
		return nil
	},
}

type batchQueryFile struct {
	Label              string `json:"label"`
	File               string `json:"file"`
	Line               int    `json:"line"`
	Column             int    `json:"column"`
	IncludeDeclaration bool   `json:"include_declaration"`
}

func readBatchQueries(path string) ([]daemon.BatchReferenceQuery, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []batchQueryFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	queries := make([]daemon.BatchReferenceQuery, len(raw))
	for i, q := range raw {
		queries[i] = daemon.BatchReferenceQuery{
			Label:              q.Label,
			File:               q.File,
			Line:               OneBasedToZero(q.Line),
			Character:          OneBasedToZero(q.Column),
			IncludeDeclaration: q.IncludeDeclaration,
		}
	}
	return queries, nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func init() {
	rootCmd.AddCommand(batchReferencesCmd)
	batchReferencesCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	batchReferencesCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
