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
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/ty-find/daemon"
)

var workspaceSymbolsCmd = &cobra.Command{
	Use:   "workspace-symbols query",
	Short: "Search every symbol in the workspace by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := WorkspaceRoot(cmd.Flags().Lookup("workspace").Value.String())
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}

		exactName, _ := cmd.Flags().GetString("exact-name")
		limit, _ := cmd.Flags().GetInt("limit")

		params := daemon.WorkspaceSymbolsParams{WorkspaceRoot: root, Query: args[0]}
		if exactName != "" {
			params.ExactName = &exactName
		}
		if limit > 0 {
			params.Limit = &limit
		}

		client := newDaemonClient(loadConfig())
		result, err := client.WorkspaceSymbols(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		// With --exact-name and no exact match, re-issue the query without the
		// filter so near-misses are still reported.
		fuzzyFallback := false
		if len(result.Symbols) == 0 && params.ExactName != nil {
			params.ExactName = nil
			result, err = client.WorkspaceSymbols(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("Error: %w", err)
			}
			fuzzyFallback = len(result.Symbols) > 0
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		if len(result.Symbols) == 0 {
			fmt.Println("No symbols found")
			return nil
		}
		if fuzzyFallback {
			fmt.Printf("No exact match for %q; fuzzy matches:\n", exactName)
		}
		for _, sym := range result.Symbols {
			container := sym.ContainerName
			if container != nil && *container != "" {
				fmt.Printf("%s (%s) in %s — %s\n", sym.Name, strings.ToLower(symbolKindLabel(sym.Kind)), *container, formatLocation(sym.Location))
			} else {
				fmt.Printf("%s (%s) — %s\n", sym.Name, strings.ToLower(symbolKindLabel(sym.Kind)), formatLocation(sym.Location))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceSymbolsCmd)
	workspaceSymbolsCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	workspaceSymbolsCmd.Flags().String("exact-name", "", "Filter results to an exact name match")
	workspaceSymbolsCmd.Flags().Int("limit", 0, "Maximum number of results to return (0 = unlimited)")
	workspaceSymbolsCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
