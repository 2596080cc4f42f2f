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

var definitionCmd = &cobra.Command{
	Use:   "definition file:line:column",
	Short: "Show where the symbol at a position is defined",
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

		client := newDaemonClient(loadConfig())
		result, err := client.Definition(cmd.Context(), daemon.DefinitionParams{
			PositionParams: daemon.PositionParams{WorkspaceRoot: root, File: file, Line: line, Character: character},
		})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		locations := dedupeLocations(result.Locations)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(struct {
				Locations []string `json:"locations"`
			}{locationsAsStrings(locations)})
		}

		if len(locations) == 0 {
			fmt.Println("No definition found")
			return nil
		}
		for _, loc := range locations {
			fmt.Println(formatLocation(loc))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(definitionCmd)
	definitionCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	definitionCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
