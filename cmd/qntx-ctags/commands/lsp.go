package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/qntx-ctags/am"
	"github.com/teranos/qntx-ctags/langserver"
	"github.com/teranos/qntx-ctags/logger"
)

// LspCmd serves completion candidates over the Language Server Protocol
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve candidates over the Language Server Protocol",
	Long: `Start a language server answering textDocument/completion with ctags
candidates. The executable comes from initializationOptions.executable,
falling back to ctags.executable; it is probed once per client after
"initialized" and failures are shown with window/showMessage.

initializationOptions.suffixesadd ("py,pyi") sets the discovery suffixes.

By default the server speaks over stdio. With --listen (or server.listen) it
accepts WebSocket clients on ` + langserver.WebSocketPath + `.

Examples:
  qntx-ctags lsp
  qntx-ctags lsp --listen 127.0.0.1:7070`,
	RunE: runLsp,
}

var lspListen string

func init() {
	LspCmd.Flags().StringVar(&lspListen, "listen", "", "Serve LSP over WebSocket on host:port instead of stdio")
}

func runLsp(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := langserver.NewServer(sourceFactory(cfg, "lsp.source"), lspHandlerOptions(cfg))

	listen := cfg.Server.Listen
	if lspListen != "" {
		listen = lspListen
	}
	if listen != "" {
		return srv.ListenAndServe(ctx, listen)
	}
	return srv.RunStdio(ctx)
}

// lspHandlerOptions carries the config into every connection's handler
func lspHandlerOptions(cfg *am.Config) langserver.HandlerOptions {
	return langserver.HandlerOptions{
		DefaultExecutable:   cfg.Ctags.Executable,
		Executable:          isOnPath,
		MaxGathersPerMinute: cfg.Server.MaxGathersPerMinute,
		Logger:              logger.ComponentLogger("lsp"),
	}
}
