// Copyright © 2026 The tclint authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/tclint"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/lint"
)

var (
	lintShowCategories bool
	lintListAll        bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run lint checks on Tcl-family source files",
	Long: `Run lint checks on Tcl-family source files.

The linter reports likely mistakes (command-args, redefined-builtin,
unbraced-expr, redundant-expr) and style problems (line-length, spacing,
blank-lines, ...). Directories are searched recursively for files matching
the configured extensions; provide '-' to read from stdin.

Exit codes (OR-ed across files):
  0  No problems found
  1  One or more violations were reported
  2  A file had a syntax error
  4  Bad invocation: invalid config, unreadable files

To suppress a rule inline, add a comment:
  # tclint-disable-next-line command-args
Or for a region:
  # tclint-disable spacing
  ...
  # tclint-enable spacing

Available rules:
` + lint.CheckerDoc() + `
Examples:
  tclint lint file.tcl                  Lint a single file
  tclint lint constraints/              Lint a tree of sdc/xdc files
  tclint lint --show-categories f.tcl   Tag each finding func/style
  cat file.tcl | tclint lint -          Lint from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		if lintListAll {
			for _, rule := range diagnostic.AllRules() {
				fmt.Println(rule)
			}
			return
		}
		if len(args) == 0 {
			args = []string{"-"}
		}

		rc, err := loadRunConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid config file: %s\n", err)
			os.Exit(exitInputError)
		}

		sources, err := resolveSources(args, rc.Global.Exclude, rc.Global.Extensions)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInputError)
		}

		renderer := &diagnostic.Renderer{
			Color:          colorMode(),
			ShowCategories: lintShowCategories,
		}

		retcode := exitOK
		for _, path := range sources {
			src, label, err := readSource(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				retcode |= exitInputError
				continue
			}

			violations, err := tclint.Lint(src, rc.ForPath(path), path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", label, err)
				retcode |= exitInputError
				continue
			}

			if len(violations) > 0 {
				_ = renderer.Render(os.Stdout, label, violations)
				retcode |= exitViolations
				for _, v := range violations {
					if v.Rule == diagnostic.RuleSyntaxError {
						retcode |= exitSyntaxError
						break
					}
				}
			}
		}
		os.Exit(retcode)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintShowCategories, "show-categories", false,
		"print the category tag for each violation")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"list available rules and exit")
}
