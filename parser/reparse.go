// Copyright © 2026 The tclint authors

package parser

import (
	"strings"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// The methods in this file implement commands.Parser. Command handlers
// use them to re-interpret argument words as scripts, expressions, and
// lists. Each re-parse starts from the word's position in the original
// source so the resulting nodes carry real file spans.

var _ commands.Parser = (*Parser)(nil)

// ParseScript re-parses a word's contents as a script. The returned
// Script spans the whole word including any braces; Braced records
// brace-quoting for the formatter and the spaces-in-braces check.
func (p *Parser) ParseScript(n ast.Node) (ast.Node, error) {
	if _, ok := n.(*ast.Script); ok {
		// Already structured by an enclosing handler.
		return n, nil
	}
	contents, ok := ast.Contents(n)
	if !ok {
		return nil, commands.ArgErrorf("ambiguous script argument")
	}
	pos, _ := ast.ContentsPos(n)

	saved := p.cmdSub
	p.cmdSub = false
	script, err := p.parseAt(contents, pos)
	p.cmdSub = saved
	if err != nil {
		return nil, err
	}

	switch n.(type) {
	case *ast.BracedWord:
		script.Braced = true
	case *ast.QuotedWord:
		script.Quoted = true
	}
	script.Start = n.Pos()
	script.Stop = n.End()
	return script, nil
}

// ParseBody parses raw script text starting at pos. Handlers that join
// multiple argument words into one logical body (eval, namespace eval,
// uplevel) reconstruct the text with original spacing and parse it here.
func (p *Parser) ParseBody(script string, pos token.Pos) (*ast.Script, error) {
	saved := p.cmdSub
	p.cmdSub = false
	node, err := p.parseAt(script, pos)
	p.cmdSub = saved
	return node, err
}

// ParseExpression re-parses a word as an expr expression. A word whose
// contents are hidden behind substitutions yields an unstructured
// Expression node; the unbraced-expr check reports it where relevant.
func (p *Parser) ParseExpression(n ast.Node) (ast.Node, error) {
	if _, ok := n.(*ast.Expression); ok {
		return n, nil
	}
	if _, ok := n.(*ast.BracedExpression); ok {
		return n, nil
	}

	contents, ok := ast.Contents(n)
	if !ok {
		// The word's text is hidden behind substitutions. Keep the word as
		// the expression's sole part so the formatter can re-emit it.
		return &ast.Expression{
			Span:  ast.Span{Start: n.Pos(), Stop: n.End()},
			Parts: []ast.Node{n},
		}, nil
	}
	pos, _ := ast.ContentsPos(n)

	operand, err := p.parseExprText(contents, pos)
	if err != nil {
		return nil, err
	}

	span := ast.Span{Start: n.Pos(), Stop: n.End()}
	var parts []ast.Node
	if operand != nil {
		parts = []ast.Node{operand}
	}
	switch n.(type) {
	case *ast.BracedWord:
		return &ast.BracedExpression{Span: span, Text: contents, Parts: parts}, nil
	case *ast.QuotedWord:
		return &ast.Expression{Span: span, Text: contents, Quoted: true, Parts: parts}, nil
	}
	return &ast.Expression{Span: span, Text: contents, Parts: parts}, nil
}

// ParseList parses a word's contents as a Tcl list: whitespace-separated
// elements, each braced, quoted, or bare, with backslash-newlines
// permitted between elements. No substitutions are performed.
func (p *Parser) ParseList(n ast.Node) (*ast.List, error) {
	if l, ok := n.(*ast.List); ok {
		return l, nil
	}
	contents, ok := ast.Contents(n)
	if !ok {
		return nil, commands.ArgErrorf("unable to parse list argument with substitutions")
	}
	pos, _ := ast.ContentsPos(n)

	ts := token.NewScannerAt(contents, pos)
	list := &ast.List{Span: ast.Span{Start: n.Pos(), Stop: n.End()}}

	for ts.Type() != token.EOF {
		for isListDelimiter(ts.Type()) {
			ts.Next()
		}
		if ts.Type() == token.EOF {
			break
		}

		switch ts.Type() {
		case token.LBRACE:
			// Braced words take no substitutions, so the script-level
			// parse applies unchanged inside a list.
			word, err := p.parseBracedWord(ts)
			if err != nil {
				return nil, err
			}
			list.Elems = append(list.Elems, word)
		case token.QUOTE:
			quotePos := ts.Pos()
			ts.Next()

			barePos := ts.Pos()
			var text strings.Builder
			for ts.Type() != token.QUOTE && ts.Type() != token.EOF {
				text.WriteString(ts.Text())
				ts.Next()
			}
			bare := &ast.BareWord{
				Span: ast.Span{Start: barePos, Stop: ts.Pos()},
				Text: text.String(),
			}
			if ts.Type() != token.QUOTE {
				return nil, token.SyntaxErrorf(quotePos,
					"reached EOF without finding match for quote at %s", quotePos)
			}
			ts.Next()
			list.Elems = append(list.Elems, &ast.QuotedWord{
				Span:  ast.Span{Start: quotePos, Stop: ts.Pos()},
				Parts: []ast.Node{bare},
			})
		default:
			barePos := ts.Pos()
			var text strings.Builder
			for ts.Type() != token.EOF && !isListDelimiter(ts.Type()) {
				text.WriteString(ts.Text())
				ts.Next()
			}
			list.Elems = append(list.Elems, &ast.BareWord{
				Span: ast.Span{Start: barePos, Stop: ts.Pos()},
				Text: text.String(),
			})
		}
	}

	return list, nil
}

func isListDelimiter(typ token.Type) bool {
	return typ == token.WS || typ == token.BACKSLASH_NEWLINE || typ == token.NEWLINE
}
