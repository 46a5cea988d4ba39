// Copyright © 2026 The tclint authors

// Package lint provides static analysis for Tcl-family source files.
//
// The linter is modeled after go vet: each check is an independent
// Checker that receives a parsed tree and reports violations. The
// framework handles parsing, running checks, inline-directive filtering,
// and ordering of results.
package lint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser"
	"github.com/luthersystems/tclint/parser/ast"
)

// Checker defines a single lint check.
type Checker struct {
	// Name is the rule id this check reports.
	Name diagnostic.Rule

	// Doc is a human-readable description. The first line is a short
	// summary.
	Doc string

	// Run executes the check. It calls pass.Report for each finding.
	Run func(pass *Pass)
}

// Pass provides context to a running checker.
type Pass struct {
	// Checker is the currently running check.
	Checker *Checker

	// Source is the raw file contents, and Lines its newline split.
	Source string
	Lines  []string

	// Tree is the parsed syntax tree.
	Tree *ast.Script

	// Config is the effective configuration for the file.
	Config *config.Config

	// Registry is the command registry the file was parsed with.
	Registry commands.Registry

	violations []diagnostic.Violation
}

// Report records a violation under the running checker's rule.
func (p *Pass) Report(v diagnostic.Violation) {
	if v.Rule == "" {
		v.Rule = p.Checker.Name
	}
	p.violations = append(p.violations, v)
}

// Reportf records a violation with a formatted message.
func (p *Pass) Reportf(n ast.Node, format string, args ...interface{}) {
	p.Report(diagnostic.Newf(p.Checker.Name, n.Pos(), n.End(), format, args...))
}

// LineText returns the text of a 1-based source line.
func (p *Pass) LineText(line int) string {
	if line < 1 || line > len(p.Lines) {
		return ""
	}
	return p.Lines[line-1]
}

// Linter runs a set of checkers over source files.
type Linter struct {
	Checkers []*Checker
	Registry commands.Registry
}

// New returns a Linter with the default checks and the given registry.
// A nil registry falls back to the builtin command table.
func New(registry commands.Registry) *Linter {
	if registry == nil {
		registry = commands.DefaultRegistry()
	}
	return &Linter{Checkers: DefaultCheckers(), Registry: registry}
}

// Lint analyzes source and returns the filtered, ordered violations.
// Syntax errors that prevent parsing are returned as an error.
func (l *Linter) Lint(source string, cfg *config.Config, path string) ([]diagnostic.Violation, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	p := parser.NewRecovering(l.Registry)
	tree, err := p.Parse(source)
	if err != nil {
		return nil, err
	}

	violations := append([]diagnostic.Violation{}, p.Violations()...)

	pass := &Pass{
		Source:   source,
		Lines:    strings.Split(source, "\n"),
		Tree:     tree,
		Config:   cfg,
		Registry: l.Registry,
	}
	for _, checker := range l.Checkers {
		pass.Checker = checker
		runChecker(pass, checker)
	}
	violations = append(violations, pass.violations...)

	suppressed := resolveDirectives(tree)
	violations = filterViolations(violations, cfg.Ignore, suppressed, path)

	diagnostic.Sort(violations)
	return violations, nil
}

// runChecker executes one checker, converting a panic into an
// internal-error violation so a buggy check cannot abort the file.
func runChecker(pass *Pass, checker *Checker) {
	defer func() {
		if r := recover(); r != nil {
			pass.violations = append(pass.violations, diagnostic.Newf(
				diagnostic.RuleInternalError, pass.Tree.Pos(), pass.Tree.Pos(),
				"checker %s failed: %v, please file a bug report", checker.Name, r))
		}
	}()
	checker.Run(pass)
}

// filterViolations drops violations suppressed by configuration ignore
// entries or inline directives.
func filterViolations(violations []diagnostic.Violation, ignore []config.IgnoreEntry,
	suppressed map[int]map[string]bool, path string) []diagnostic.Violation {

	global := make(map[diagnostic.Rule]bool)
	for _, entry := range ignore {
		if entry.Path == "" {
			for _, rule := range entry.Rules {
				global[rule] = true
			}
			continue
		}
		if path == "" {
			continue
		}
		if pathWithin(path, entry.Path) {
			for _, rule := range entry.Rules {
				global[rule] = true
			}
		}
	}

	var out []diagnostic.Violation
	for _, v := range violations {
		if global[v.Rule] {
			continue
		}
		if rules, ok := suppressed[v.Start.Line]; ok && rules[string(v.Rule)] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func pathWithin(path, base string) bool {
	absPath, err1 := filepath.Abs(path)
	absBase, err2 := filepath.Abs(base)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}

// CheckerDoc returns a formatted documentation string for all checks.
func CheckerDoc() string {
	var b strings.Builder
	for _, c := range DefaultCheckers() {
		fmt.Fprintf(&b, "  %s\n", c.Name)
		lines := strings.Split(c.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
