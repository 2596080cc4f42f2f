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

var membersCmd = &cobra.Command{
	Use:   "members file symbol-name",
	Short: "List the members of a class",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := WorkspaceRoot(cmd.Flags().Lookup("workspace").Value.String())
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}
		excludePrivate, _ := cmd.Flags().GetBool("exclude-private")

		client := newDaemonClient(loadConfig())
		result, err := client.Members(cmd.Context(), daemon.MembersParams{
			WorkspaceRoot:  root,
			File:           args[0],
			SymbolName:     args[1],
			ExcludePrivate: excludePrivate,
		})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		if result.Location == nil {
			fmt.Printf("No symbol named %q found\n", args[1])
			return nil
		}
		if result.SymbolKind != "Class" {
			fmt.Printf("%s is a %s, not a class — no members\n", args[1], result.SymbolKind)
			return nil
		}
		if len(result.Members) == 0 {
			fmt.Println("No members found")
			return nil
		}
		for _, m := range result.Members {
			fmt.Printf("%s: %s\n", m.Name, m.Signature)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)
	membersCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	membersCmd.Flags().Bool("exclude-private", false, "Exclude members whose name begins with an underscore")
	membersCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
