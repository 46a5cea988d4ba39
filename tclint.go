// Copyright © 2026 The tclint authors

// Package tclint is the driver façade over the core analysis engine. The
// CLI and the language server consume the linter, the formatter, and the
// document-symbol scan exclusively through this package.
//
// Every call is per-file, single-threaded, and pure: it consumes a
// source string plus a config snapshot and shares no mutable state with
// other calls. The command registry is rebuilt per call from the
// configuration, so callers may run any number of calls concurrently
// across files.
package tclint

import (
	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/formatter"
	"github.com/luthersystems/tclint/lint"
	"github.com/luthersystems/tclint/parser"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// Registry builds the command registry for a configuration: the builtin
// table overlaid with the static plugin named by the config, if any.
func Registry(cfg *config.Config) (commands.Registry, error) {
	registry := commands.DefaultRegistry()
	if cfg != nil && cfg.Commands != "" {
		plugin, err := commands.LoadPlugin(cfg.Commands)
		if err != nil {
			return nil, err
		}
		registry.Merge(plugin.Commands)
	}
	return registry, nil
}

// Lint analyzes source and returns its violations ordered by position.
// path scopes config ignore entries and appears nowhere in the result.
func Lint(source []byte, cfg *config.Config, path string) ([]diagnostic.Violation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	registry, err := Registry(cfg)
	if err != nil {
		return nil, err
	}
	return lint.New(registry).Lint(string(source), cfg, path)
}

// Format re-emits source under the configured style. The returned
// violations are command-args findings from the parse.
func Format(source []byte, cfg *config.Config) ([]byte, []diagnostic.Violation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	registry, err := Registry(cfg)
	if err != nil {
		return nil, nil, err
	}
	out, violations, err := formatter.Format(string(source), &cfg.Style, registry)
	if err != nil {
		return nil, nil, err
	}
	return []byte(out), violations, nil
}

// CheckFormat verifies a format result against the input in debug mode:
// the output must re-parse to an equivalent tree.
func CheckFormat(source, formatted []byte, cfg *config.Config) error {
	registry, err := Registry(cfg)
	if err != nil {
		return err
	}
	return formatter.Check(string(source), string(formatted), registry)
}

// Declaration is a named definition found in a script, for editor
// document-symbol listings.
type Declaration struct {
	Name  string
	Start token.Pos
	End   token.Pos
}

// Symbols returns the proc declarations in source, in document order.
func Symbols(source []byte) ([]Declaration, error) {
	tree, err := parser.New(commands.DefaultRegistry()).Parse(string(source))
	if err != nil {
		return nil, err
	}

	var decls []Declaration
	ast.WalkCommands(tree, func(cmd *ast.Command) {
		if cmd.Routine() != "proc" {
			return
		}
		args := cmd.Args()
		if len(args) == 0 {
			return
		}
		name, ok := ast.Contents(args[0])
		if !ok {
			return
		}
		decls = append(decls, Declaration{
			Name:  name,
			Start: cmd.Pos(),
			End:   cmd.End(),
		})
	})
	return decls, nil
}
