// Copyright © 2026 The tclint authors

package formatter

import (
	"strings"

	"github.com/luthersystems/tclint/config"
	"github.com/luthersystems/tclint/parser/ast"
)

// printer emits formatted source depth-first. Line breaks between
// sibling words and commands are inherited from the source tree as break
// hints; the printer itself never invents or removes a newline inside a
// word and never reorders words.
type printer struct {
	buf   strings.Builder
	style *config.Style
}

func newPrinter(style *config.Style) *printer {
	return &printer{style: style}
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) indent(level int) string {
	return p.style.Indent.Prefix(level)
}

func (p *printer) newline(level int) {
	p.write("\n")
	p.write(p.indent(level))
}

// writeScriptBody emits a sequence of commands and comments at the given
// level. The caller has already positioned the printer at the first
// child's indentation. Leading blank lines are dropped and interior runs
// clamp to max-blank-lines.
func (p *printer) writeScriptBody(children []ast.Node, level int) {
	lastEndLine := -1
	for _, child := range children {
		if lastEndLine >= 0 {
			if child.Pos().Line == lastEndLine {
				if comment, ok := child.(*ast.Comment); ok {
					p.write(" ;#" + trimCommentText(comment.Text))
					continue
				}
				p.write("; ")
			} else {
				blank := child.Pos().Line - lastEndLine - 1
				if blank > p.style.MaxBlankLines {
					blank = p.style.MaxBlankLines
				}
				for i := 0; i <= blank; i++ {
					p.write("\n")
				}
				p.write(p.indent(level))
			}
		}

		switch node := child.(type) {
		case *ast.Comment:
			p.write("#" + trimCommentText(node.Text))
		case *ast.Command:
			p.writeCommand(node, level)
		}
		lastEndLine = child.End().Line
	}
}

// trimCommentText normalizes only trailing whitespace of a comment; the
// text itself is preserved.
func trimCommentText(text string) string {
	return strings.TrimRight(text, " \t")
}

func (p *printer) writeCommand(cmd *ast.Command, level int) {
	bodyLevel := level + 1
	if !p.style.IndentNamespaceEval && cmd.Routine() == "namespace" {
		if args := cmd.Args(); len(args) > 0 {
			if sub, _ := ast.Contents(args[0]); sub == "eval" {
				bodyLevel = level
			}
		}
	}

	for i, word := range cmd.Words {
		if i > 0 {
			prev := cmd.Words[i-1]
			if word.Pos().Line > prev.End().Line {
				// Preserved break between sibling words becomes a
				// line-continuation with exactly one space before the
				// backslash and the continuation reindented one level.
				p.write(" \\")
				p.newline(level + 1)
			} else {
				p.write(" ")
			}
		}
		p.writeWord(word, level, bodyLevel)
	}
}

// writeWord emits one word. level is the indent level of the line the
// word starts on; bodyLevel is the level for nested script bodies (it
// differs from level+1 only for namespace eval).
func (p *printer) writeWord(word ast.Node, level, bodyLevel int) {
	switch node := word.(type) {
	case *ast.BareWord:
		p.write(node.Text)
	case *ast.BracedWord:
		p.write("{" + node.Text + "}")
	case *ast.QuotedWord:
		p.write(`"`)
		for _, part := range node.Parts {
			p.writeWord(part, level, level+1)
		}
		p.write(`"`)
	case *ast.CompoundBareWord:
		for _, part := range node.Parts {
			p.writeWord(part, level, level+1)
		}
	case *ast.VarSub:
		p.writeVarSub(node, level)
	case *ast.ArgExpansion:
		p.write("{*}")
		p.writeWord(node.Word, level, bodyLevel)
	case *ast.CommandSub:
		p.writeCommandSub(node, level)
	case *ast.Script:
		p.writeScript(node, level, bodyLevel)
	case *ast.List:
		p.writeList(node, level)
	case *ast.BracedExpression:
		p.writeBracedExpression(node, level)
	case *ast.Expression:
		p.writeExpression(node, level)
	default:
		// Expression operand forms reached through quoted or compound
		// words fall back to the expr writer.
		p.write(ExprString(word))
	}
}

func (p *printer) writeVarSub(v *ast.VarSub, level int) {
	if v.Braced {
		p.write("${" + v.Name + "}")
		return
	}
	p.write("$" + v.Name)
	if v.Index != nil {
		p.write("(")
		for _, part := range v.Index {
			p.writeWord(part, level, level+1)
		}
		p.write(")")
	}
}

// writeCommandSub emits [...]. A substitution holding multiple commands
// puts its brackets on their own lines; a single command keeps them
// inline.
func (p *printer) writeCommandSub(cs *ast.CommandSub, level int) {
	if len(cs.Cmds) > 1 {
		p.write("[")
		p.newline(level + 1)
		p.writeScriptBody(cs.Cmds, level+1)
		p.newline(level)
		p.write("]")
		return
	}
	p.write("[")
	p.writeScriptBody(cs.Cmds, level+1)
	p.write("]")
}

// writeScript emits a re-parsed script argument. Brace-quoted bodies
// that spanned multiple lines keep the opening brace on the parent line
// and the closing brace on a fresh line at parent indent; bodies from
// merged eval-style words emit without braces.
func (p *printer) writeScript(s *ast.Script, level, bodyLevel int) {
	if s.Quoted {
		p.write(`"`)
		p.writeInlineBody(s.Cmds, level)
		p.write(`"`)
		return
	}
	if !s.Braced {
		p.writeInlineBody(s.Cmds, level)
		return
	}

	if len(s.Cmds) == 0 {
		p.write("{}")
		return
	}

	if s.Pos().Line == s.End().Line {
		pad := p.bracePad()
		p.write("{" + pad)
		p.writeScriptBody(s.Cmds, level)
		p.write(pad + "}")
		return
	}

	p.write("{")
	p.newline(bodyLevel)
	p.writeScriptBody(s.Cmds, bodyLevel)
	p.newline(level)
	p.write("}")
}

// writeInlineBody emits commands without enclosing braces, joining
// same-line commands with "; " and preserving breaks as continuations.
func (p *printer) writeInlineBody(children []ast.Node, level int) {
	lastEndLine := -1
	for _, child := range children {
		if lastEndLine >= 0 {
			if child.Pos().Line == lastEndLine {
				if comment, ok := child.(*ast.Comment); ok {
					p.write(" ;#" + trimCommentText(comment.Text))
					continue
				}
				p.write("; ")
			} else {
				p.write(" \\")
				p.newline(level + 1)
			}
		}
		switch node := child.(type) {
		case *ast.Comment:
			p.write("#" + trimCommentText(node.Text))
		case *ast.Command:
			p.writeCommand(node, level)
		}
		lastEndLine = child.End().Line
	}
}

func (p *printer) writeList(l *ast.List, level int) {
	if len(l.Elems) == 0 {
		p.write("{}")
		return
	}

	if l.Pos().Line == l.End().Line {
		pad := p.bracePad()
		p.write("{" + pad)
		for i, elem := range l.Elems {
			if i > 0 {
				p.write(" ")
			}
			p.writeWord(elem, level, level+1)
		}
		p.write(pad + "}")
		return
	}

	p.write("{")
	p.newline(level + 1)
	lastEndLine := -1
	for _, elem := range l.Elems {
		if lastEndLine >= 0 {
			if elem.Pos().Line == lastEndLine {
				p.write(" ")
			} else {
				p.newline(level + 1)
			}
		}
		p.writeWord(elem, level+1, level+2)
		lastEndLine = elem.End().Line
	}
	p.newline(level)
	p.write("}")
}

func (p *printer) writeBracedExpression(e *ast.BracedExpression, level int) {
	if len(e.Parts) != 1 {
		// Fall back to the retained source text.
		p.write("{" + e.Text + "}")
		return
	}
	operand := e.Parts[0]

	if e.Pos().Line == e.End().Line {
		pad := p.bracePad()
		p.write("{" + pad + ExprString(operand) + pad + "}")
		return
	}

	p.write("{")
	p.newline(level + 1)
	p.writeExprOperand(operand, level)
	p.newline(level)
	p.write("}")
}

// writeExpression emits an unbraced expr-typed argument. The raw text is
// preserved verbatim: normalizing operator spacing here would change the
// word structure of the command. The expr-format check flags the style
// instead.
func (p *printer) writeExpression(e *ast.Expression, level int) {
	if e.Text != "" || e.Quoted {
		if e.Quoted {
			p.write(`"` + e.Text + `"`)
			return
		}
		p.write(e.Text)
		return
	}
	for i, part := range e.Parts {
		if i > 0 {
			p.write(" ")
		}
		p.writeWord(part, level, level+1)
	}
}

func (p *printer) bracePad() string {
	if p.style.SpacesInBraces {
		return " "
	}
	return ""
}
