// Copyright © 2026 The tclint authors

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/luthersystems/tclint"
	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/parser/token"
)

var (
	fmtWrite bool
	fmtDiff  bool
	fmtList  bool
	fmtCheck bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Format Tcl-family source files",
	Long: `Format Tcl-family source files, similar to gofmt for Go.

Normalizes word spacing and indentation, collapses blank-line runs, and
preserves comments and word-level line breaks. The formatter never
changes token structure or meaning, and formatting already-formatted
output is a fixed point.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed
  --check     Verify the output re-parses to an equivalent tree

Examples:
  tclint fmt file.tcl              Print formatted output
  tclint fmt -w constraints/       Format a tree in place
  tclint fmt -d file.tcl           Show what would change
  cat file.tcl | tclint fmt        Format from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
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

		retcode := exitOK
		for _, path := range sources {
			changed, err := fmtOne(path, rc.ForPath(path), path == "")
			if err != nil {
				var synErr *token.SyntaxError
				if errors.As(err, &synErr) {
					retcode |= exitSyntaxError
				} else {
					retcode |= exitInputError
				}
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if changed && (fmtList || fmtDiff) {
				retcode |= exitViolations
			}
		}
		os.Exit(retcode)
	},
}

func fmtOne(path string, cfg *config.Config, stdin bool) (bool, error) {
	src, label, err := readSource(path)
	if err != nil {
		return false, err
	}

	out, _, err := tclint.Format(src, cfg)
	if err != nil {
		var synErr *token.SyntaxError
		if errors.As(err, &synErr) {
			return false, fmt.Errorf("%s:%d:%d: syntax error: %w",
				label, synErr.Pos.Line, synErr.Pos.Col, synErr)
		}
		return false, fmt.Errorf("%s: %w", label, err)
	}

	if fmtCheck {
		if err := tclint.CheckFormat(src, out, cfg); err != nil {
			return false, fmt.Errorf("%s: %w", label, err)
		}
	}

	changed := string(src) != string(out)

	switch {
	case fmtList:
		if changed {
			fmt.Println(label)
		}
	case fmtDiff:
		if changed {
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(src)),
				B:        difflib.SplitLines(string(out)),
				FromFile: label,
				ToFile:   label + " (formatted)",
				Context:  3,
			})
			if err != nil {
				return changed, err
			}
			fmt.Print(diff)
		}
	case fmtWrite && !stdin:
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, fmt.Errorf("%s: %w", path, err)
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	default:
		_, err = os.Stdout.Write(out)
		return changed, err
	}

	return changed, nil
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"display diffs instead of rewriting files")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"list files whose formatting differs")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false,
		"verify formatted output re-parses to an equivalent tree")
}
