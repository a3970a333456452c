package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-ctags/cmd/qntx-ctags/commands"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qntx-ctags",
	Short: "qntx-ctags - completion candidates from Universal Ctags",
	Long: `qntx-ctags - completion candidates from Universal Ctags.

Runs Universal Ctags over the file being edited and turns its JSON output
into completion candidates (word, kind, "scope [scopeKind]" menu).

Available commands:
  probe   - Check that a JSON-capable Universal Ctags is installed
  gather  - Print the candidates for a file
  lsp     - Serve candidates to editors over the Language Server Protocol
  mcp     - Serve candidates to agents over the Model Context Protocol
  am      - Manage qntx-ctags configuration ("I am")
  version - Show version information

Examples:
  qntx-ctags probe                     # Is ctags usable?
  qntx-ctags gather main.py            # Candidates for main.py
  qntx-ctags gather main.py --dry-run  # Show the ctags command line
  qntx-ctags lsp                       # LSP over stdio
  qntx-ctags am show                   # Show current configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		return commands.InitLogging(verbosity)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.ProbeCmd)
	rootCmd.AddCommand(commands.GatherCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.McpCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
