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

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/ty-find/daemon"
)

var documentSymbolsCmd = &cobra.Command{
	Use:   "document-symbols file",
	Short: "Show the symbol tree for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := WorkspaceRoot(cmd.Flags().Lookup("workspace").Value.String())
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}

		client := newDaemonClient(loadConfig())
		result, err := client.DocumentSymbols(cmd.Context(), daemon.DocumentSymbolsParams{WorkspaceRoot: root, File: args[0]})
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		if len(result.Symbols) == 0 {
			fmt.Println("No symbols found")
			return nil
		}
		printSymbolTree(result.Symbols, 0)
		return nil
	},
}

func printSymbolTree(symbols []protocol.DocumentSymbol, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sym := range symbols {
		fmt.Printf("%s%s (%s) line %d\n", indent, sym.Name, symbolKindLabel(sym.Kind), ZeroBasedToOne(sym.SelectionRange.Start.Line))
		if len(sym.Children) > 0 {
			printSymbolTree(sym.Children, depth+1)
		}
	}
}

func init() {
	rootCmd.AddCommand(documentSymbolsCmd)
	documentSymbolsCmd.Flags().String("workspace", "", "Workspace root (default: auto-detected)")
	documentSymbolsCmd.Flags().Bool("json", false, "Print the raw JSON result")
}
