// Copyright © 2026 The tclint authors

package formatter

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/parser"
	"github.com/luthersystems/tclint/parser/ast"
)

// Check verifies that formatted output re-parses to a tree equivalent to
// the input's: the same command sequence with the same argument-word
// count at every command. A mismatch is an internal formatter bug; the
// returned error carries a structural diff of the two trees.
func Check(source, formatted string, registry commands.Registry) error {
	if registry == nil {
		registry = commands.DefaultRegistry()
	}

	before, err := parser.New(registry).Parse(source)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}
	after, err := parser.New(registry).Parse(formatted)
	if err != nil {
		return fmt.Errorf("formatted output no longer parses: %w", err)
	}

	beforeShape := treeShape(before)
	afterShape := treeShape(after)
	if beforeShape == afterShape {
		return nil
	}

	diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(beforeShape),
		B:        difflib.SplitLines(afterShape),
		FromFile: "input tree",
		ToFile:   "formatted tree",
		Context:  3,
	})
	if diffErr != nil {
		diff = beforeShape + "\n---\n" + afterShape
	}
	return fmt.Errorf("formatting changed the syntax tree, please file a bug report:\n%s", diff)
}

// treeShape renders the structural outline compared by Check: node kinds
// and child counts, one node per line, indented by depth. Positions and
// whitespace are deliberately excluded.
func treeShape(root ast.Node) string {
	var b strings.Builder
	var walk func(n ast.Node, depth int)
	walk = func(n ast.Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(nodeKind(n))
		children := n.Children()
		fmt.Fprintf(&b, " (%d)\n", len(children))
		for _, child := range children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return b.String()
}

func nodeKind(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Script:
		return "Script"
	case *ast.CommandSub:
		return "CommandSub"
	case *ast.Command:
		return "Command " + node.Routine()
	case *ast.Comment:
		return "Comment"
	case *ast.BareWord:
		return "BareWord " + node.Text
	case *ast.BracedWord:
		return "BracedWord"
	case *ast.QuotedWord:
		return "QuotedWord"
	case *ast.CompoundBareWord:
		return "CompoundBareWord"
	case *ast.VarSub:
		return "VarSub " + node.Name
	case *ast.ArgExpansion:
		return "ArgExpansion"
	case *ast.List:
		return "List"
	case *ast.Expression:
		return "Expression"
	case *ast.BracedExpression:
		return "BracedExpression"
	case *ast.ParenExpression:
		return "ParenExpression"
	case *ast.UnaryOp:
		return "UnaryOp " + node.Op
	case *ast.BinaryOp:
		return "BinaryOp " + node.Op
	case *ast.TernaryOp:
		return "TernaryOp"
	case *ast.Function:
		return "Function " + node.Name
	default:
		return "Node"
	}
}
