// Copyright © 2026 The tclint authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/diagnostic"
)

// Exit code flags, OR-ed together across input files.
const (
	exitOK          = 0
	exitViolations  = 1
	exitSyntaxError = 2
	exitInputError  = 4
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tclint",
	Short: "tclint — static analysis for Tcl-family sources",
	Long: `tclint is a static-analysis toolchain for the Tcl family of dialects
(Tcl, SDC, XDC, UPF): a linter that reports style and usage violations,
a formatter that re-emits source in a canonical style, and a language
server that drives both from an editor.

Getting started:
  tclint lint file.tcl         Run lint checks on a source file
  tclint lint src/             Lint every Tcl-family file in a tree
  tclint fmt file.tcl          Print the formatted source
  tclint fmt -w src/           Format a tree in place
  tclint lsp                   Start the language server (stdio)
  tclint plugins validate f    Validate a command-spec plugin file

Configuration is read from tclint.toml or .tclint in the working
directory (override with --config or TCLINT_CONFIG). See the project
documentation for the configuration schema, fileset overrides, and the
inline tclint-disable comment grammar.`,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInputError)
	}
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"path to config file (default tclint.toml or .tclint)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`control colored output: "auto", "always", or "never"`)
}

// initEnv wires environment overrides: TCLINT_CONFIG and TCLINT_COLOR
// mirror the corresponding flags.
func initEnv() {
	viper.SetEnvPrefix("tclint")
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = viper.GetString("config")
	}
	if !rootCmd.PersistentFlags().Changed("color") {
		if v := viper.GetString("color"); v != "" {
			colorFlag = v
		}
	}
}

// loadRunConfig resolves the run configuration from --config or the
// default search locations.
func loadRunConfig() (*config.RunConfig, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.Find()
}

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}
