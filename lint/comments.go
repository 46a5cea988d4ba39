// Copyright © 2026 The tclint authors

package lint

import (
	"strings"

	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser/ast"
)

// resolveDirectives scans the tree for inline lint waiver comments and
// returns, per line, the set of rule ids suppressed on that line.
//
// Recognized forms, each taking an optional comma-separated rule list
// (none means every rule) and an optional trailing " -- free text":
//
//	tclint-disable [rules]            start a disabled region
//	tclint-enable [rules]             end a disabled region (inclusive)
//	tclint-disable-line [rules]       this line only
//	tclint-disable-next-line [rules]  the following line only
//
// Unknown rule names are inert: they suppress nothing and never error.
func resolveDirectives(tree *ast.Script) map[int]map[string]bool {
	lines := make(map[int]map[string]bool)
	// rule -> start line of an open disabled region
	open := make(map[string]int)

	markLine := func(line int, rules []string) {
		set, ok := lines[line]
		if !ok {
			set = make(map[string]bool)
			lines[line] = set
		}
		for _, rule := range rules {
			set[rule] = true
		}
	}

	ast.Walk(tree, func(n ast.Node) bool {
		comment, ok := n.(*ast.Comment)
		if !ok {
			return true
		}
		contents := strings.TrimSpace(comment.Text)
		if !strings.HasPrefix(contents, "tclint-") {
			return true
		}

		command, rest, _ := strings.Cut(contents, " ")

		var rules []string
		rest, _, _ = strings.Cut(rest, "--")
		rest = strings.ReplaceAll(rest, " ", "")
		if rest != "" {
			rules = strings.Split(rest, ",")
		}
		if len(rules) == 0 {
			for _, rule := range diagnostic.AllRules() {
				rules = append(rules, string(rule))
			}
		}

		switch command {
		case "tclint-disable":
			for _, rule := range rules {
				// Disabling an already-disabled rule has no effect.
				if _, disabled := open[rule]; !disabled {
					open[rule] = comment.Start.Line
				}
			}
		case "tclint-disable-line":
			markLine(comment.Start.Line, rules)
		case "tclint-disable-next-line":
			markLine(comment.Start.Line+1, rules)
		case "tclint-enable":
			for _, rule := range rules {
				start, disabled := open[rule]
				if !disabled {
					continue
				}
				for line := start; line <= comment.Start.Line; line++ {
					markLine(line, []string{rule})
				}
				delete(open, rule)
			}
		}
		return true
	})

	// Regions left open run to the end of the file.
	lastLine := tree.End().Line
	for rule, start := range open {
		for line := start; line <= lastLine; line++ {
			markLine(line, []string{rule})
		}
	}

	return lines
}
