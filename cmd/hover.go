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

var hoverCmd = &cobra.Command{
	Use:   "hover file:line:column",
	Short: "Show type and docstring information at a position",
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

		cfg := loadConfig()
		client := newDaemonClient(cfg)

		result, err := client.Hover(cmd.Context(), daemon.HoverParams{
			PositionParams: daemon.PositionParams{
				WorkspaceRoot: root,
				File:          file,
				Line:          line,
				Character:     character,
			},
		})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		if result.Hover == nil {
			fmt.Println("No hover information found")
			return nil
		}
		fmt.Println(hoverContentsText(result.Hover))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	hoverCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	hoverCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
