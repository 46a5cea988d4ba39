// Copyright © 2026 The tclint authors

package parser

import (
	"strings"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// The expr sub-language is parsed in two phases: the shared scanner's
// fragments are first stitched into expression tokens (multi-character
// operators, numbers, names, and fully-parsed substitution operands),
// then a precedence climber builds the operator tree over that slice.

type exprTokenKind int

const (
	exprEOF     exprTokenKind = iota
	exprOperand               // a parsed word node
	exprOp                    // an operator, including ? and :
	exprLParen
	exprRParen
	exprComma
	exprName // bareword: operand, function name, or eq/ne/in/ni
)

type exprToken struct {
	kind  exprTokenKind
	text  string
	node  ast.Node
	start token.Pos
	end   token.Pos
}

// binaryPrec maps operators to binding power; larger binds tighter. The
// ternary ?: sits below all of these and ** is right-associative.
var binaryPrec = map[string]int{
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7,
	"eq": 8, "ne": 8, "in": 8, "ni": 8,
	"<": 9, "<=": 9, ">": 9, ">=": 9,
	"<<": 10, ">>": 10,
	"+": 11, "-": 11,
	"*": 12, "/": 12, "%": 12,
	"**": 13,
}

// parseExprText parses expression source text starting at pos and
// returns the root operand node, or nil for an empty expression.
func (p *Parser) parseExprText(text string, pos token.Pos) (ast.Node, error) {
	ts := token.NewScannerAt(text, pos)
	toks, err := p.lexExpr(ts)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}

	ep := &exprParser{toks: toks}
	node, err := ep.parseTernary()
	if err != nil {
		return nil, err
	}
	if !ep.eof() {
		t := ep.peek()
		return nil, commands.ArgErrorf("invalid expression: unexpected %q at %s", t.text, t.start)
	}
	return node, nil
}

// lexExpr stitches scanner fragments into expression tokens. Operand
// words (variable and command substitutions, quoted strings, braced
// words) are parsed in place with the main parser machinery.
func (p *Parser) lexExpr(ts *token.Scanner) ([]exprToken, error) {
	var toks []exprToken

	operand := func(n ast.Node, err error) error {
		if err != nil {
			return err
		}
		toks = append(toks, exprToken{
			kind: exprOperand, node: n, start: n.Pos(), end: n.End(),
		})
		return nil
	}

	for ts.Type() != token.EOF {
		start := ts.Pos()
		switch ts.Type() {
		case token.WS, token.NEWLINE, token.BACKSLASH_NEWLINE:
			ts.Next()
		case token.DOLLAR:
			varSub, err := p.parseVarSub(ts)
			if err != nil {
				return nil, err
			}
			if varSub == nil {
				return nil, commands.ArgErrorf("invalid expression: stray $ at %s", start)
			}
			if err := operand(varSub, nil); err != nil {
				return nil, err
			}
		case token.LBRACKET:
			if err := operand(p.parseCommandSub(ts)); err != nil {
				return nil, err
			}
		case token.QUOTE:
			if err := operand(p.parseQuotedWord(ts)); err != nil {
				return nil, err
			}
		case token.LBRACE:
			word, err := p.parseBracedWord(ts)
			if err != nil {
				return nil, err
			}
			if err := operand(word, nil); err != nil {
				return nil, err
			}
		case token.LPAREN:
			toks = append(toks, exprToken{kind: exprLParen, text: "(", start: start, end: ts.Pos()})
			ts.Next()
		case token.RPAREN:
			toks = append(toks, exprToken{kind: exprRParen, text: ")", start: start, end: ts.Pos()})
			ts.Next()
		case token.ALPHA_CHARS, token.NAMESPACE_SEP:
			name, end := p.lexExprName(ts)
			toks = append(toks, exprToken{kind: exprName, text: name, start: start, end: end})
		case token.NUM_CHARS:
			text, end := p.lexExprNumber(ts)
			toks = append(toks, exprToken{
				kind: exprOperand,
				node: &ast.BareWord{Span: ast.Span{Start: start, Stop: end}, Text: text},
				start: start, end: end,
			})
		case token.STAR:
			op, end := p.lexExprOperator(ts)
			toks = append(toks, exprToken{kind: exprOp, text: op, start: start, end: end})
		case token.CHAR:
			c := ts.Text()
			switch c {
			case ",":
				toks = append(toks, exprToken{kind: exprComma, text: ",", start: start, end: ts.Pos()})
				ts.Next()
			case ".":
				// A leading-dot float like .5
				text, end := p.lexExprNumber(ts)
				toks = append(toks, exprToken{
					kind: exprOperand,
					node: &ast.BareWord{Span: ast.Span{Start: start, Stop: end}, Text: text},
					start: start, end: end,
				})
			case "+", "-", "!", "~", "?", ":", "<", ">", "=", "&", "|", "^", "%", "/":
				op, end := p.lexExprOperator(ts)
				toks = append(toks, exprToken{kind: exprOp, text: op, start: start, end: end})
			default:
				return nil, commands.ArgErrorf(
					"invalid expression: unexpected character %q at %s", c, start)
			}
		default:
			return nil, commands.ArgErrorf(
				"invalid expression: unexpected %q at %s", ts.Text(), start)
		}
	}

	return toks, nil
}

// lexExprName stitches alpha, digit, and :: fragments into one
// identifier. Word operators bind greedily: eq/ne/in/ni stop the scan so
// that 1eq1 lexes as three tokens.
func (p *Parser) lexExprName(ts *token.Scanner) (string, token.Pos) {
	var name strings.Builder
	end := ts.Pos()
	for {
		switch ts.Type() {
		case token.ALPHA_CHARS, token.NUM_CHARS, token.NAMESPACE_SEP:
			name.WriteString(ts.Text())
		default:
			return name.String(), end
		}
		ts.Next()
		end = ts.Pos()
		switch name.String() {
		case "eq", "ne", "in", "ni":
			return name.String(), end
		}
	}
}

// lexExprNumber stitches adjacent fragments into a numeric literal:
// decimal and floating point (with exponent), hex 0x..., octal 0o...,
// and binary 0b... forms. The text is retained, not evaluated.
func (p *Parser) lexExprNumber(ts *token.Scanner) (string, token.Pos) {
	var text strings.Builder
	end := ts.Pos()
	for {
		t := ts.Text()
		switch ts.Type() {
		case token.NUM_CHARS:
			text.WriteString(t)
		case token.ALPHA_CHARS:
			// Hex digits, radix markers, and exponents attach to a number;
			// anything else ends it.
			if !isNumberTail(t) {
				return text.String(), end
			}
			text.WriteString(t)
		case token.CHAR:
			if t == "." {
				text.WriteString(t)
				break
			}
			// An exponent sign directly after e/E.
			s := text.String()
			if (t == "+" || t == "-") && len(s) > 0 &&
				(s[len(s)-1] == 'e' || s[len(s)-1] == 'E') {
				text.WriteString(t)
				break
			}
			return text.String(), end
		default:
			return text.String(), end
		}
		ts.Next()
		end = ts.Pos()
	}
}

func isNumberTail(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		case c == 'x' || c == 'X' || c == 'o' || c == 'O':
		case c == '_':
			return false
		default:
			return false
		}
	}
	return len(s) > 0
}

// lexExprOperator performs longest-match operator scanning over adjacent
// single-character fragments.
func (p *Parser) lexExprOperator(ts *token.Scanner) (string, token.Pos) {
	first := ts.Text()
	ts.Next()
	end := ts.Pos()

	var second string
	if ts.Type() == token.CHAR || ts.Type() == token.STAR {
		second = ts.Text()
	}

	two := first + second
	switch two {
	case "&&", "||", "==", "!=", "<=", ">=", "<<", ">>", "**":
		ts.Next()
		return two, ts.Pos()
	}
	return first, end
}

type exprParser struct {
	toks []exprToken
	i    int
}

func (e *exprParser) eof() bool { return e.i >= len(e.toks) }

func (e *exprParser) peek() exprToken {
	if e.eof() {
		if len(e.toks) == 0 {
			return exprToken{kind: exprEOF, text: "end of expression"}
		}
		last := e.toks[len(e.toks)-1]
		return exprToken{
			kind: exprEOF, text: "end of expression",
			start: last.end, end: last.end,
		}
	}
	return e.toks[e.i]
}

func (e *exprParser) next() exprToken {
	t := e.peek()
	e.i++
	return t
}

// parseTernary parses cond ? then : else, the loosest, right-associative
// level of the grammar.
func (e *exprParser) parseTernary() (ast.Node, error) {
	cond, err := e.parseBinary(0)
	if err != nil {
		return nil, err
	}

	t := e.peek()
	if t.kind != exprOp || t.text != "?" {
		return cond, nil
	}
	e.next()

	thenArm, err := e.parseTernary()
	if err != nil {
		return nil, err
	}

	t = e.peek()
	if t.kind != exprOp || t.text != ":" {
		return nil, commands.ArgErrorf("invalid expression: expected : at %s", t.start)
	}
	e.next()

	elseArm, err := e.parseTernary()
	if err != nil {
		return nil, err
	}

	return &ast.TernaryOp{
		Span: ast.Span{Start: cond.Pos(), Stop: elseArm.End()},
		Cond: cond,
		Then: thenArm,
		Else: elseArm,
	}, nil
}

func (e *exprParser) parseBinary(minPrec int) (ast.Node, error) {
	left, err := e.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := e.peek()
		var op string
		switch t.kind {
		case exprOp:
			op = t.text
		case exprName:
			op = t.text
		default:
			return left, nil
		}

		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return left, nil
		}
		e.next()

		nextMin := prec + 1
		if op == "**" {
			nextMin = prec
		}
		right, err := e.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryOp{
			Span:  ast.Span{Start: left.Pos(), Stop: right.End()},
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (e *exprParser) parseUnary() (ast.Node, error) {
	t := e.peek()
	if t.kind == exprOp {
		switch t.text {
		case "-", "+", "!", "~":
			e.next()
			operand, err := e.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryOp{
				Span:    ast.Span{Start: t.start, Stop: operand.End()},
				Op:      t.text,
				Operand: operand,
			}, nil
		}
	}
	return e.parsePrimary()
}

func (e *exprParser) parsePrimary() (ast.Node, error) {
	t := e.peek()
	switch t.kind {
	case exprOperand:
		e.next()
		return t.node, nil
	case exprLParen:
		e.next()
		inner, err := e.parseTernary()
		if err != nil {
			return nil, err
		}
		closing := e.peek()
		if closing.kind != exprRParen {
			return nil, commands.ArgErrorf("invalid expression: expected ) at %s", closing.start)
		}
		e.next()
		return &ast.ParenExpression{
			Span: ast.Span{Start: t.start, Stop: closing.end},
			Expr: inner,
		}, nil
	case exprName:
		e.next()
		if e.peek().kind == exprLParen {
			return e.parseFunction(t)
		}
		// Bare names (true, false, inf, nan, and loose strings) stand as
		// operand words.
		return &ast.BareWord{
			Span: ast.Span{Start: t.start, Stop: t.end},
			Text: t.text,
		}, nil
	}
	return nil, commands.ArgErrorf("invalid expression: unexpected %q at %s", t.text, t.start)
}

func (e *exprParser) parseFunction(name exprToken) (ast.Node, error) {
	e.next() // consume (

	fn := &ast.Function{
		Span: ast.Span{Start: name.start},
		Name: name.text,
	}

	if e.peek().kind == exprRParen {
		closing := e.next()
		fn.Stop = closing.end
		return fn, nil
	}

	for {
		arg, err := e.parseTernary()
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)

		t := e.peek()
		switch t.kind {
		case exprComma:
			e.next()
		case exprRParen:
			e.next()
			fn.Stop = t.end
			return fn, nil
		default:
			return nil, commands.ArgErrorf(
				"invalid expression: expected , or ) at %s", t.start)
		}
	}
}
