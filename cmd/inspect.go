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

	"github.com/spf13/cobra"

	"bennypowers.dev/ty-find/daemon"
)

// inspectCmd folds a hover and an optional references lookup into one
// round-trip, saving a socket call over running both separately.
var inspectCmd = &cobra.Command{
	Use:   "inspect file:line:column",
	Short: "Show hover information and, optionally, references in one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, line, character, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		root, err := WorkspaceRoot(cmd.Flags().Lookup("workspace").Value.String())
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}
		withReferences, _ := cmd.Flags().GetBool("with-references")

		client := newDaemonClient(loadConfig())
		result, err := client.Inspect(cmd.Context(), daemon.InspectParams{
			PositionParams: daemon.PositionParams{WorkspaceRoot: root, File: file, Line: line, Character: character},
			WithReferences: withReferences,
		})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		if result.Hover == nil {
			fmt.Println("No hover information found")
		} else {
			fmt.Println(hoverContentsText(result.Hover))
		}

		if withReferences {
			locations := dedupeLocations(result.References)
			fmt.Printf("\n%d references:\n", len(locations))
			for _, loc := range locations {
				fmt.Println(formatLocation(loc))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	inspectCmd.Flags().Bool("with-references", false, "Also fetch references at this position")
	inspectCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
