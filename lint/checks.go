// Copyright © 2026 The tclint authors

package lint

import (
	"regexp"
	"strings"

	"github.com/muesli/reflow/ansi"

	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/formatter"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// DefaultCheckers returns the built-in set of lint checks. command-args
// violations are produced by the parser's command dispatch rather than a
// checker, and the legacy indent check is opt-in (see AllCheckers).
func DefaultCheckers() []*Checker {
	return []*Checker{
		CheckerRedefinedBuiltin,
		CheckerUnbracedExpr,
		CheckerRedundantExpr,
		CheckerLineLength,
		CheckerTrailingWhitespace,
		CheckerBlankLines,
		CheckerSpacing,
		CheckerBackslashSpacing,
		CheckerExprFormat,
		CheckerSpacesInBraces,
	}
}

// AllCheckers additionally includes the legacy indent check, which tclfmt
// supersedes.
func AllCheckers() []*Checker {
	return append(DefaultCheckers(), CheckerIndent)
}

// urlRE matches lines containing URLs, which are exempt from line-length.
var urlRE = regexp.MustCompile(`[^:/?#]://[^?#]`)

// CheckerLineLength ensures lines aren't too long.
var CheckerLineLength = &Checker{
	Name: diagnostic.RuleLineLength,
	Doc:  "Report lines whose display width exceeds the configured line-length.\n\nLines containing a URL are exempt since URLs cannot be wrapped.",
	Run: func(pass *Pass) {
		limit := pass.Config.Style.LineLength
		for i, line := range pass.Lines {
			if urlRE.MatchString(line) {
				continue
			}
			width := ansi.PrintableRuneWidth(line)
			if width <= limit {
				continue
			}
			lineno := i + 1
			pass.Report(diagnostic.Newf(diagnostic.RuleLineLength,
				token.Pos{Line: lineno, Col: 1},
				token.Pos{Line: lineno, Col: len(line) + 1},
				"line length is %d, maximum allowed is %d", width, limit))
		}
	},
}

// CheckerTrailingWhitespace ensures lines don't end in spaces or tabs.
var CheckerTrailingWhitespace = &Checker{
	Name: diagnostic.RuleTrailingWhitespace,
	Doc:  "Report lines with trailing whitespace.",
	Run: func(pass *Pass) {
		for i, line := range pass.Lines {
			trimmed := strings.TrimRight(line, " \t")
			if len(trimmed) == len(line) {
				continue
			}
			lineno := i + 1
			pass.Report(diagnostic.New(diagnostic.RuleTrailingWhitespace,
				"line has trailing whitespace",
				token.Pos{Line: lineno, Col: len(trimmed) + 1},
				token.Pos{Line: lineno, Col: len(line) + 1}))
		}
	},
}

// CheckerBlankLines limits runs of consecutive blank lines.
var CheckerBlankLines = &Checker{
	Name: diagnostic.RuleBlankLines,
	Doc:  "Report runs of more than max-blank-lines consecutive blank lines.",
	Run: func(pass *Pass) {
		max := pass.Config.Style.MaxBlankLines
		run := 0
		for i := 0; i <= len(pass.Lines); i++ {
			blank := i < len(pass.Lines) && strings.TrimSpace(pass.Lines[i]) == ""
			if blank {
				run++
				continue
			}
			if run > max {
				start := i - run + 1
				pass.Report(diagnostic.Newf(diagnostic.RuleBlankLines,
					token.Pos{Line: start, Col: 1},
					token.Pos{Line: i, Col: 1},
					"found %d consecutive blank lines, maximum allowed is %d", run, max))
			}
			run = 0
		}
	},
}

// CheckerRedefinedBuiltin ensures proc definitions don't reuse the names
// of known commands.
var CheckerRedefinedBuiltin = &Checker{
	Name: diagnostic.RuleRedefinedBuiltin,
	Doc:  "Report proc definitions that redefine a built-in command.",
	Run: func(pass *Pass) {
		ast.WalkCommands(pass.Tree, func(cmd *ast.Command) {
			if cmd.Routine() != "proc" {
				return
			}
			args := cmd.Args()
			if len(args) == 0 {
				// A syntax problem, already reported as command-args by the
				// parser's proc handling.
				return
			}
			name, ok := ast.Contents(args[0])
			if !ok {
				return
			}
			if _, known := pass.Registry[name]; !known {
				return
			}
			end := args[0].End()
			if len(args) > 1 {
				end = args[1].End()
			}
			pass.Report(diagnostic.Newf(diagnostic.RuleRedefinedBuiltin,
				cmd.Pos(), end,
				"redefinition of built-in command '%s'", name))
		})
	},
}

// CheckerUnbracedExpr flags expr calls whose expression is not enclosed
// by braces and cannot be statically analyzed.
var CheckerUnbracedExpr = &Checker{
	Name: diagnostic.RuleUnbracedExpr,
	Doc:  "Report expr calls whose expression should be enclosed by braces.\n\nUnbraced expressions are double-substituted at runtime, which is both a performance and a safety problem.",
	Run: func(pass *Pass) {
		ast.WalkCommands(pass.Tree, func(cmd *ast.Command) {
			if cmd.Routine() != "expr" {
				return
			}
			args := cmd.Args()
			if len(args) == 0 {
				// Already a command-args error.
				return
			}
			if len(args) == 1 {
				switch args[0].(type) {
				case *ast.Expression, *ast.BracedExpression:
					return
				}
			}

			start := args[0].Pos()
			end := args[len(args)-1].End()

			for _, arg := range args {
				if _, ok := ast.Contents(arg); !ok {
					pass.Report(diagnostic.New(diagnostic.RuleUnbracedExpr,
						"expression with substitutions should be enclosed by braces",
						start, end))
					return
				}
			}
			for _, arg := range args {
				switch arg.(type) {
				case *ast.BracedWord, *ast.QuotedWord:
					pass.Report(diagnostic.New(diagnostic.RuleUnbracedExpr,
						"expression containing braced or quoted words should be"+
							" enclosed by braces", start, end))
					return
				}
			}
		})
	},
}

// CheckerRedundantExpr flags [expr ...] substitutions that appear as
// operands inside an expression, where the outer expr already evaluates
// them.
var CheckerRedundantExpr = &Checker{
	Name: diagnostic.RuleRedundantExpr,
	Doc:  "Report unnecessary expr command substitutions within expressions.",
	Run: func(pass *Pass) {
		check := func(operand ast.Node) {
			cmdSub, ok := operand.(*ast.CommandSub)
			if !ok || len(cmdSub.Cmds) != 1 {
				return
			}
			cmd, ok := cmdSub.Cmds[0].(*ast.Command)
			if !ok || cmd.Routine() != "expr" {
				return
			}
			pass.Report(diagnostic.New(diagnostic.RuleRedundantExpr,
				"unnecessary command substitution within expression",
				cmdSub.Pos(), cmdSub.End()))
		}

		ast.Walk(pass.Tree, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.Expression:
				if len(node.Parts) == 1 {
					check(node.Parts[0])
				}
			case *ast.BracedExpression:
				if len(node.Parts) == 1 {
					check(node.Parts[0])
				}
			case *ast.ParenExpression:
				check(node.Expr)
			case *ast.UnaryOp:
				check(node.Operand)
			case *ast.BinaryOp:
				check(node.Left)
				check(node.Right)
			case *ast.TernaryOp:
				check(node.Cond)
				check(node.Then)
				check(node.Else)
			case *ast.Function:
				for _, arg := range node.Args {
					check(arg)
				}
			}
			return true
		})
	},
}

// CheckerIndent verifies that leading whitespace matches the nesting
// depth. The formatter supersedes this rule; it remains for lint-only
// workflows.
var CheckerIndent = &Checker{
	Name: diagnostic.RuleIndent,
	Doc:  "Report lines whose leading whitespace does not match the nesting depth.",
	Run: func(pass *Pass) {
		checkScriptIndent(pass, pass.Tree.Cmds, 0)
	},
}

func checkScriptIndent(pass *Pass, children []ast.Node, level int) {
	for _, child := range children {
		checkLineIndent(pass, child.Pos(), level)

		cmd, ok := child.(*ast.Command)
		if !ok {
			continue
		}

		bodyLevel := level + 1
		if cmd.Routine() == "namespace" && !pass.Config.Style.IndentNamespaceEval {
			if args := cmd.Args(); len(args) > 0 {
				if sub, _ := ast.Contents(args[0]); sub == "eval" {
					bodyLevel = level
				}
			}
		}

		for i, word := range cmd.Words {
			if i > 0 && word.Pos().Line != cmd.Words[i-1].End().Line {
				// Continuation lines get one extra level.
				checkLineIndent(pass, word.Pos(), level+1)
			}
			checkWordIndent(pass, word, bodyLevel)
		}
	}
}

// checkWordIndent recurses into words that contain nested scripts.
func checkWordIndent(pass *Pass, word ast.Node, level int) {
	switch n := word.(type) {
	case *ast.Script:
		checkScriptIndent(pass, n.Cmds, level)
	case *ast.CommandSub:
		checkScriptIndent(pass, n.Cmds, level)
	case *ast.ArgExpansion:
		checkWordIndent(pass, n.Word, level)
	case *ast.QuotedWord:
		for _, part := range n.Parts {
			checkWordIndent(pass, part, level)
		}
	case *ast.CompoundBareWord:
		for _, part := range n.Parts {
			checkWordIndent(pass, part, level)
		}
	case *ast.List:
		for _, elem := range n.Elems {
			checkWordIndent(pass, elem, level)
		}
	}
}

// checkLineIndent verifies leading whitespace for a node that begins its
// source line.
func checkLineIndent(pass *Pass, pos token.Pos, level int) {
	line := pass.LineText(pos.Line)
	if pos.Col-1 > len(line) {
		return
	}
	actual := line[:pos.Col-1]
	if strings.TrimSpace(actual) != "" {
		// Not the first word on the line.
		return
	}
	expected := pass.Config.Style.Indent.Prefix(level)
	if actual == expected {
		return
	}
	pass.Report(diagnostic.Newf(diagnostic.RuleIndent,
		token.Pos{Line: pos.Line, Col: 1}, pos,
		"expected indent of %d columns, got %d",
		indentWidth(expected, pass.Config.Style.Indent),
		indentWidth(actual, pass.Config.Style.Indent)))
}

func indentWidth(ws string, in config.Indent) int {
	tabWidth := 8
	if in.Style == config.IndentMixed {
		tabWidth = in.TabWidth
	}
	width := 0
	for _, c := range ws {
		if c == '\t' {
			width += tabWidth - width%tabWidth
		} else {
			width++
		}
	}
	return width
}

// CheckerSpacing reports more than one space between words on a line.
// With allow-aligned-sets, contiguous set commands may pad the gap before
// their value argument to align a column.
var CheckerSpacing = &Checker{
	Name: diagnostic.RuleSpacing,
	Doc:  "Report more than one space between words of a command.",
	Run: func(pass *Pass) {
		aligned := alignedSetCommands(pass)
		ast.WalkCommands(pass.Tree, func(cmd *ast.Command) {
			for i := 1; i < len(cmd.Words); i++ {
				prev, cur := cmd.Words[i-1], cmd.Words[i]
				if cur.Pos().Line != prev.End().Line {
					continue
				}
				gap := cur.Pos().Col - prev.End().Col
				if gap <= 1 {
					continue
				}
				if aligned[cmd] && i == 2 {
					continue
				}
				pass.Report(diagnostic.New(diagnostic.RuleSpacing,
					"more than one space between words",
					prev.End(), cur.Pos()))
			}
		})
	},
}

// alignedSetCommands returns the set commands participating in an aligned
// column of values, which the spacing check exempts when
// allow-aligned-sets is on.
func alignedSetCommands(pass *Pass) map[*ast.Command]bool {
	aligned := make(map[*ast.Command]bool)
	if !pass.Config.Style.AllowAlignedSets {
		return aligned
	}

	ast.Walk(pass.Tree, func(n ast.Node) bool {
		var children []ast.Node
		switch script := n.(type) {
		case *ast.Script:
			children = script.Cmds
		case *ast.CommandSub:
			children = script.Cmds
		default:
			return true
		}

		var group []*ast.Command
		flush := func() {
			if len(group) >= 2 && sameValueColumn(group) {
				for _, cmd := range group {
					aligned[cmd] = true
				}
			}
			group = nil
		}
		for _, child := range children {
			cmd, ok := child.(*ast.Command)
			if !ok || cmd.Routine() != "set" || len(cmd.Words) != 3 {
				flush()
				continue
			}
			if len(group) > 0 && cmd.Pos().Line != group[len(group)-1].Pos().Line+1 {
				flush()
			}
			group = append(group, cmd)
		}
		flush()
		return true
	})

	return aligned
}

func sameValueColumn(cmds []*ast.Command) bool {
	col := cmds[0].Words[2].Pos().Col
	for _, cmd := range cmds[1:] {
		if cmd.Words[2].Pos().Col != col {
			return false
		}
	}
	return true
}

// CheckerBackslashSpacing requires exactly one space before a
// line-continuation backslash. Continuations inside braced words, quoted
// words, and comments are exempt.
var CheckerBackslashSpacing = &Checker{
	Name: diagnostic.RuleBackslashSpacing,
	Doc:  "Report line-continuation backslashes not preceded by exactly one space.",
	Run: func(pass *Pass) {
		exempt := make(map[int]bool)
		ast.Walk(pass.Tree, func(n ast.Node) bool {
			switch n.(type) {
			case *ast.BracedWord, *ast.QuotedWord, *ast.Comment:
				for line := n.Pos().Line; line < n.End().Line; line++ {
					exempt[line] = true
				}
				return false
			}
			return true
		})

		for i, line := range pass.Lines {
			lineno := i + 1
			if lineno == len(pass.Lines) || exempt[lineno] {
				continue
			}
			if !endsInContinuation(line) {
				continue
			}
			body := line[:len(line)-1]
			if strings.TrimSpace(body) == "" {
				continue
			}
			if strings.HasSuffix(body, " ") && !strings.HasSuffix(body, "  ") &&
				!strings.HasSuffix(strings.TrimSuffix(body, " "), "\t") {
				continue
			}
			pass.Report(diagnostic.New(diagnostic.RuleBackslashSpacing,
				"expected exactly one space before line-continuation backslash",
				token.Pos{Line: lineno, Col: len(body) + 1},
				token.Pos{Line: lineno, Col: len(line) + 1}))
		}
	},
}

// endsInContinuation reports whether a line ends with an unescaped
// backslash.
func endsInContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// CheckerExprFormat verifies single-line expressions are written in the
// canonical operator spacing the formatter emits.
var CheckerExprFormat = &Checker{
	Name: diagnostic.RuleExprFormat,
	Doc:  "Report expressions not written with canonical operator spacing.",
	Run: func(pass *Pass) {
		ast.Walk(pass.Tree, func(n ast.Node) bool {
			var text string
			var parts []ast.Node
			switch node := n.(type) {
			case *ast.BracedExpression:
				if node.Pos().Line != node.End().Line {
					return true
				}
				text, parts = node.Text, node.Parts
			case *ast.Expression:
				if node.Pos().Line != node.End().Line {
					return true
				}
				text, parts = node.Text, node.Parts
			default:
				return true
			}
			if len(parts) != 1 || text == "" {
				return true
			}
			canonical := formatter.ExprString(parts[0])
			if strings.TrimSpace(text) != canonical {
				pass.Reportf(n, "expression should be formatted as %s", canonical)
			}
			return true
		})
	},
}

// CheckerSpacesInBraces verifies brace padding of single-line braced
// scripts and expressions against the spaces-in-braces style.
var CheckerSpacesInBraces = &Checker{
	Name: diagnostic.RuleSpacesInBraces,
	Doc:  "Report missing brace padding when the spaces-in-braces style is on.",
	Run: func(pass *Pass) {
		if !pass.Config.Style.SpacesInBraces {
			return
		}
		ast.Walk(pass.Tree, func(n ast.Node) bool {
			braced := false
			switch node := n.(type) {
			case *ast.Script:
				braced = node.Braced
			case *ast.BracedExpression:
				braced = true
			}
			if !braced || n.Pos().Line != n.End().Line {
				return true
			}
			checkBracePadding(pass, n)
			return true
		})
	},
}

func checkBracePadding(pass *Pass, n ast.Node) {
	line := pass.LineText(n.Pos().Line)
	start, stop := n.Pos().Col, n.End().Col
	if start >= len(line)+1 || stop-2 > len(line) || stop-2 < start {
		return
	}
	interior := line[start : stop-2]
	if interior == "" {
		return
	}
	trimmed := strings.TrimSpace(interior)
	if trimmed == "" {
		return
	}
	if interior == " "+trimmed+" " {
		return
	}
	pass.Reportf(n, "expected one space between braces and contents")
}
