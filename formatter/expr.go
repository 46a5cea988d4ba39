// Copyright © 2026 The tclint authors

package formatter

import (
	"strings"

	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/parser/ast"
)

// ExprString renders an expression operand tree in canonical single-line
// form: one space around binary operators, none after unary operators,
// and ", " between function arguments.
func ExprString(n ast.Node) string {
	switch node := n.(type) {
	case *ast.BinaryOp:
		return ExprString(node.Left) + " " + node.Op + " " + ExprString(node.Right)
	case *ast.UnaryOp:
		return node.Op + ExprString(node.Operand)
	case *ast.TernaryOp:
		return ExprString(node.Cond) + " ? " + ExprString(node.Then) +
			" : " + ExprString(node.Else)
	case *ast.ParenExpression:
		return "(" + ExprString(node.Expr) + ")"
	case *ast.Function:
		args := make([]string, len(node.Args))
		for i, arg := range node.Args {
			args[i] = ExprString(arg)
		}
		return node.Name + "(" + strings.Join(args, ", ") + ")"
	default:
		return wordString(n)
	}
}

// wordString renders a word node inline.
func wordString(n ast.Node) string {
	var pr printer
	style := config.Default().Style
	pr.style = &style
	pr.writeWord(n, 0, 1)
	return pr.buf.String()
}

// writeExprOperand emits an expression tree preserving source line
// breaks between operands: an operator stays on its left operand's line
// and a right operand that began a new line in the source keeps doing
// so, one level in.
func (p *printer) writeExprOperand(n ast.Node, level int) {
	switch node := n.(type) {
	case *ast.BinaryOp:
		p.writeExprOperand(node.Left, level)
		p.write(" " + node.Op)
		p.exprSep(node.Left.End().Line, node.Right.Pos().Line, level)
		p.writeExprOperand(node.Right, level)
	case *ast.UnaryOp:
		p.write(node.Op)
		p.writeExprOperand(node.Operand, level)
	case *ast.TernaryOp:
		p.writeExprOperand(node.Cond, level)
		p.write(" ?")
		p.exprSep(node.Cond.End().Line, node.Then.Pos().Line, level)
		p.writeExprOperand(node.Then, level)
		p.write(" :")
		p.exprSep(node.Then.End().Line, node.Else.Pos().Line, level)
		p.writeExprOperand(node.Else, level)
	case *ast.ParenExpression:
		p.write("(")
		p.writeExprOperand(node.Expr, level)
		p.write(")")
	case *ast.Function:
		p.write(node.Name + "(")
		for i, arg := range node.Args {
			if i > 0 {
				p.write(", ")
			}
			p.writeExprOperand(arg, level)
		}
		p.write(")")
	default:
		p.writeWord(n, level+1, level+2)
	}
}

// exprSep writes the separator between an operator and its right
// operand: a space when they shared a line in the source, a fresh
// indented line when they did not.
func (p *printer) exprSep(leftLine, rightLine, level int) {
	if rightLine > leftLine {
		p.newline(level + 1)
		return
	}
	p.write(" ")
}
