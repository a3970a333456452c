package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-ctags/am"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
	"github.com/teranos/qntx-ctags/mcpserver"
)

// McpCmd serves completion candidates over the Model Context Protocol
var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve candidates over the Model Context Protocol (stdio)",
	Long: `Start an MCP server on stdio exposing two tools:

  ctags_probe       check the ctags executable
  ctags_candidates  list the candidates for a file

Relative file arguments resolve against --root (default: working directory).

Examples:
  qntx-ctags mcp
  qntx-ctags mcp --root ~/src/project`,
	RunE: runMcp,
}

var mcpRoot string

func init() {
	McpCmd.Flags().StringVar(&mcpRoot, "root", "", "Workspace root for relative paths and file discovery")
}

func runMcp(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig()
	if err != nil {
		return err
	}

	root := mcpRoot
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "failed to get working directory")
		}
	}

	srv := mcpserver.NewMCPServer(sourceFactory(cfg, "mcp.source"), mcpOptions(cfg, root))
	return srv.Serve()
}

// mcpOptions carries the config into the tool handlers
func mcpOptions(cfg *am.Config, root string) mcpserver.Options {
	return mcpserver.Options{
		WorkspaceRoot:     root,
		Suffixes:          suffixOption(cfg),
		DefaultExecutable: cfg.Ctags.Executable,
		Executable:        isOnPath,
		Logger:            logger.ComponentLogger("mcp"),
	}
}
