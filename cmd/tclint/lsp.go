// Copyright © 2026 The tclint authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/luthersystems/tclint/lsp"

	_ "github.com/tliron/commonlog/simple"
)

var (
	lspStdio     bool
	lspPort      int
	lspVerbosity int
)

var lspCmd = &cobra.Command{
	Use:   "lsp [flags]",
	Short: "Start the tclsp language server",
	Long: `Start a Language Server Protocol server for Tcl-family files.

The server publishes lint diagnostics as you type, formats whole
documents and ranges, and lists proc definitions for outline views.
Configuration is discovered from tclint.toml or .tclint in the
workspace root.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  tclint lsp                   Start with stdio transport
  tclint lsp --port 7998       Start with TCP on port 7998`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		commonlog.Configure(lspVerbosity, nil)

		srv := lsp.New()

		if !lspStdio && lspPort > 0 {
			addr := fmt.Sprintf("localhost:%d", lspPort)
			if err := srv.RunTCP(addr); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		if err := srv.RunStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)

	lspCmd.Flags().BoolVar(&lspStdio, "stdio", false,
		"use stdin/stdout for LSP communication (default behavior)")
	lspCmd.Flags().IntVar(&lspPort, "port", 0,
		"TCP port for the LSP server (use instead of --stdio)")
	lspCmd.Flags().IntVar(&lspVerbosity, "verbose", 0,
		"log verbosity for the LSP server")
}
