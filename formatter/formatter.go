// Copyright © 2026 The tclint authors

// Package formatter re-emits Tcl source from a parsed tree under a style
// configuration. Its invariants, in priority order: the output parses to
// an equivalent tree (semantic fidelity), formatting formatted output is
// a fixed point (idempotence), and the output satisfies the configured
// style.
package formatter

import (
	"strings"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser"
)

// Format formats Tcl source. The registry drives the context-sensitive
// parse that determines script and expression structure; nil falls back
// to the builtin command table. The returned violations are command-args
// findings surfaced during the parse.
func Format(source string, style *config.Style, registry commands.Registry) (string, []diagnostic.Violation, error) {
	if style == nil {
		style = &config.Default().Style
	}
	if registry == nil {
		registry = commands.DefaultRegistry()
	}

	p := parser.New(registry)
	tree, err := p.Parse(source)
	if err != nil {
		return "", nil, err
	}

	pr := newPrinter(style)
	pr.writeScriptBody(tree.Cmds, 0)

	// Exactly one trailing newline. Interior trailing whitespace never
	// comes from the printer itself, only from verbatim word contents,
	// which must be preserved.
	result := pr.buf.String()
	if len(result) > 0 {
		result = strings.TrimRight(result, "\n") + "\n"
	}

	return result, p.Violations(), nil
}
