// Copyright © 2026 The tclint authors

// Package parser implements a recursive-descent parser for Tcl scripts.
//
// Tcl has no fixed grammar: whether an argument word is data, a script,
// or an expression depends on the command consuming it. The parser
// therefore consults a command registry mid-parse; registered handlers
// call back into ParseScript, ParseExpression, and ParseList to
// re-interpret argument words, and the resulting structured nodes replace
// the plain words in the tree. This mirrors how the Tcl interpreter
// itself consumes scripts and handles edge cases a grammar-driven parser
// cannot, e.g. a close brace inside a comment inside a proc body
// terminating the body.
package parser

import (
	"errors"
	"strings"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// Parser parses Tcl scripts into syntax trees, accumulating command-args
// violations raised by command handlers along the way.
type Parser struct {
	registry   commands.Registry
	cmdSub     bool // current script is terminated by ]
	recover    bool
	violations []diagnostic.Violation
}

// New returns a Parser using the given command registry. A nil registry
// disables command dispatch entirely. Syntax errors abort the parse; use
// NewRecovering for lint workflows.
func New(registry commands.Registry) *Parser {
	return &Parser{registry: registry}
}

// NewRecovering returns a Parser that converts syntax errors into
// syntax-error violations and resumes parsing at the next command
// separator, so a single malformed command doesn't hide the rest of the
// file from analysis.
func NewRecovering(registry commands.Registry) *Parser {
	return &Parser{registry: registry, recover: true}
}

// Violations returns the violations accumulated across all parses
// performed by this Parser: command-args findings and, for a recovering
// parser, syntax-error violations.
func (p *Parser) Violations() []diagnostic.Violation {
	return p.violations
}

// Parse parses a complete script.
func (p *Parser) Parse(script string) (*ast.Script, error) {
	node, err := p.parseAt(script, token.Pos{Line: 1, Col: 1})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseAt(script string, pos token.Pos) (*ast.Script, error) {
	ts := token.NewScannerAt(script, pos)
	node, err := p.parseScript(ts)
	if err != nil {
		return nil, err
	}
	return node.(*ast.Script), nil
}

// parseScript parses commands and comments until EOF, or until an
// unconsumed ] in command-substitution mode.
func (p *Parser) parseScript(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()

	var cmds []ast.Node
	isCmdSub := p.cmdSub

	var lastCmd *ast.Command
	semiLine := -1

	for ts.Type() != token.EOF {
		switch ts.Type() {
		case token.WS, token.BACKSLASH_NEWLINE:
			ts.Next()
			continue
		case token.NEWLINE:
			ts.Next()
			semiLine = -1
			continue
		}

		if isCmdSub && ts.Type() == token.RBRACKET {
			return p.finishScript(cmds, pos, ts.Pos(), isCmdSub), nil
		}

		if ts.Type() == token.HASH {
			comment, err := p.parseComment(ts)
			if err != nil {
				return nil, err
			}
			if lastCmd != nil && semiLine == comment.Start.Line {
				lastCmd.InlineComment = true
			}
			cmds = append(cmds, comment)
		} else {
			cmd, err := p.parseCommand(ts)
			if err != nil {
				var synErr *token.SyntaxError
				if p.recover && !isCmdSub && errors.As(err, &synErr) {
					p.violations = append(p.violations, diagnostic.New(
						diagnostic.RuleSyntaxError, synErr.Msg, synErr.Pos, synErr.Pos))
					skipToSeparator(ts)
					continue
				}
				return nil, err
			}
			if cmd != nil {
				cmds = append(cmds, cmd)
				lastCmd = cmd
			}
		}

		if isCmdSub && ts.Type() == token.RBRACKET {
			return p.finishScript(cmds, pos, ts.Pos(), isCmdSub), nil
		}

		switch ts.Type() {
		case token.EOF:
		case token.NEWLINE:
			semiLine = -1
			ts.Next()
		case token.SEMI:
			semiLine = ts.Pos().Line
			ts.Next()
		default:
			synErr := token.SyntaxErrorf(ts.Pos(),
				"expected newline or semicolon, got %q", ts.Text())
			if p.recover && !isCmdSub {
				p.violations = append(p.violations, diagnostic.New(
					diagnostic.RuleSyntaxError, synErr.Msg, synErr.Pos, synErr.Pos))
				skipToSeparator(ts)
				continue
			}
			return nil, synErr
		}
	}

	if isCmdSub {
		return nil, token.SyntaxErrorf(pos,
			"reached EOF without finding end of command substitution starting at %s", pos)
	}

	return p.finishScript(cmds, pos, ts.Pos(), isCmdSub), nil
}

// skipToSeparator advances past the remains of a malformed command.
func skipToSeparator(ts *token.Scanner) {
	for ts.Type() != token.NEWLINE && ts.Type() != token.SEMI && ts.Type() != token.EOF {
		ts.Next()
	}
}

func (p *Parser) finishScript(cmds []ast.Node, pos, end token.Pos, isCmdSub bool) ast.Node {
	span := ast.Span{Start: pos, Stop: end}
	if isCmdSub {
		return &ast.CommandSub{Span: span, Cmds: cmds}
	}
	return &ast.Script{Span: span, Cmds: cmds}
}

func (p *Parser) parseComment(ts *token.Scanner) (*ast.Comment, error) {
	pos := ts.Pos()
	ts.Next() // consume #

	var text strings.Builder
	for ts.Type() != token.NEWLINE && ts.Type() != token.EOF {
		text.WriteString(ts.Text())
		ts.Next()
	}

	return &ast.Comment{
		Span: ast.Span{Start: pos, Stop: ts.Pos()},
		Text: text.String(),
	}, nil
}

func (p *Parser) parseCommand(ts *token.Scanner) (*ast.Command, error) {
	pos := ts.Pos()

	routine, err := p.parseWord(ts)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, nil
	}

	var args []ast.Node
	for ts.Type() == token.WS || ts.Type() == token.BACKSLASH_NEWLINE {
		for ts.Type() == token.WS || ts.Type() == token.BACKSLASH_NEWLINE {
			ts.Next()
		}
		word, err := p.parseWord(ts)
		if err != nil {
			return nil, err
		}
		if word == nil {
			break
		}
		args = append(args, word)
	}

	name, _ := ast.Contents(routine)
	parsedArgs := p.dispatchCommand(name, args, pos, ts.Pos())

	return &ast.Command{
		Span:  ast.Span{Start: pos, Stop: ts.Pos()},
		Words: append([]ast.Node{routine}, parsedArgs...),
	}, nil
}

// dispatchCommand runs the registered handler for a command, recording a
// command-args violation on failure and returning the original args.
func (p *Parser) dispatchCommand(name string, args []ast.Node, pos, end token.Pos) []ast.Node {
	if name == "" {
		return args
	}
	handler, known := p.registry[name]
	if !known || handler == nil {
		return args
	}

	newArgs, err := handler(args, p)
	if err != nil {
		var argErr *commands.ArgError
		if !errors.As(err, &argErr) {
			// A handler tripping over malformed input is reported as a
			// generic command-args problem rather than aborting the file.
			err = commands.ArgErrorf(
				"error parsing command arguments, possibly malformed %s command", name)
		}
		p.violations = append(p.violations,
			diagnostic.New(diagnostic.RuleCommandArgs, err.Error(), pos, end))
		return args
	}
	if newArgs == nil {
		return args
	}
	return newArgs
}

func (p *Parser) parseWord(ts *token.Scanner) (ast.Node, error) {
	switch ts.Type() {
	case token.ARG_EXPANSION:
		return p.parseArgExpansion(ts)
	case token.LBRACE:
		return p.parseBracedWord(ts)
	case token.QUOTE:
		return p.parseQuotedWord(ts)
	default:
		return p.parseBareWord(ts)
	}
}

func (p *Parser) parseArgExpansion(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()
	ts.Next() // consume {*}

	// {*} followed by whitespace is just a braced word holding *.
	switch ts.Type() {
	case token.WS, token.BACKSLASH_NEWLINE, token.NEWLINE, token.SEMI, token.EOF:
		return &ast.BracedWord{
			Span: ast.Span{Start: pos, Stop: ts.Pos()},
			Text: "*",
		}, nil
	}

	word, err := p.parseWord(ts)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return &ast.BracedWord{
			Span: ast.Span{Start: pos, Stop: ts.Pos()},
			Text: "*",
		}, nil
	}
	return &ast.ArgExpansion{
		Span: ast.Span{Start: pos, Stop: ts.Pos()},
		Word: word,
	}, nil
}

func (p *Parser) parseQuotedWord(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()
	ts.Next() // consume "

	var w wordBuilder
	for ts.Type() != token.QUOTE && ts.Type() != token.EOF {
		switch ts.Type() {
		case token.DOLLAR:
			dollar := ts.Token()
			varSub, err := p.parseVarSub(ts)
			if err != nil {
				return nil, err
			}
			if varSub != nil {
				w.addNode(varSub)
			} else {
				w.addTok(dollar)
			}
		case token.LBRACKET:
			cmdSub, err := p.parseCommandSub(ts)
			if err != nil {
				return nil, err
			}
			w.addNode(cmdSub)
		default:
			w.addTok(ts.Token())
			ts.Next()
		}
	}

	if ts.Type() != token.QUOTE {
		return nil, token.SyntaxErrorf(pos,
			"reached EOF without finding match for quote at %s", pos)
	}
	ts.Next()

	return &ast.QuotedWord{
		Span:  ast.Span{Start: pos, Stop: ts.Pos()},
		Parts: w.resolve(ts.Pos()),
	}, nil
}

func (p *Parser) parseBracedWord(ts *token.Scanner) (*ast.BracedWord, error) {
	pos := ts.Pos()
	ts.Next() // consume {

	var text strings.Builder
	// Track the position of each unmatched brace for error messages.
	expected := []token.Pos{pos}
	for {
		switch ts.Type() {
		case token.EOF:
			return nil, token.SyntaxErrorf(expected[len(expected)-1],
				"reached EOF without finding match for brace at %s",
				expected[len(expected)-1])
		case token.LBRACE:
			expected = append(expected, ts.Pos())
		case token.RBRACE:
			expected = expected[:len(expected)-1]
			if len(expected) == 0 {
				ts.Next()
				return &ast.BracedWord{
					Span: ast.Span{Start: pos, Stop: ts.Pos()},
					Text: text.String(),
				}, nil
			}
		}
		text.WriteString(ts.Text())
		ts.Next()
	}
}

func (p *Parser) parseBareWord(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()

	var w wordBuilder
	for !p.bareWordDelimiter(ts.Type()) {
		switch ts.Type() {
		case token.DOLLAR:
			dollar := ts.Token()
			varSub, err := p.parseVarSub(ts)
			if err != nil {
				return nil, err
			}
			if varSub != nil {
				w.addNode(varSub)
			} else {
				w.addTok(dollar)
			}
		case token.LBRACKET:
			cmdSub, err := p.parseCommandSub(ts)
			if err != nil {
				return nil, err
			}
			w.addNode(cmdSub)
		default:
			w.addTok(ts.Token())
			ts.Next()
		}
	}

	segments := w.resolve(ts.Pos())
	switch len(segments) {
	case 0:
		return nil, nil
	case 1:
		return segments[0], nil
	}
	return &ast.CompoundBareWord{
		Span:  ast.Span{Start: pos, Stop: ts.Pos()},
		Parts: segments,
	}, nil
}

func (p *Parser) bareWordDelimiter(typ token.Type) bool {
	switch typ {
	case token.WS, token.BACKSLASH_NEWLINE, token.NEWLINE, token.SEMI, token.EOF:
		return true
	case token.RBRACKET:
		return p.cmdSub
	}
	return false
}

// parseVarSub parses $name, ${name}, or $name(index). Returns nil when
// the $ is not followed by a variable name, in which case the caller
// treats the dollar as literal text.
func (p *Parser) parseVarSub(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()
	ts.Next() // consume $

	if ts.Type() == token.LBRACE {
		bracePos := ts.Pos()
		ts.Next()
		var name strings.Builder
		for ts.Type() != token.RBRACE {
			if ts.Type() == token.EOF {
				return nil, token.SyntaxErrorf(bracePos,
					"reached EOF without finding match for brace at %s", bracePos)
			}
			name.WriteString(ts.Text())
			ts.Next()
		}
		ts.Next()
		return &ast.VarSub{
			Span:   ast.Span{Start: pos, Stop: ts.Pos()},
			Name:   name.String(),
			Braced: true,
		}, nil
	}

	var name strings.Builder
	for ts.Type() == token.ALPHA_CHARS || ts.Type() == token.NUM_CHARS ||
		ts.Type() == token.NAMESPACE_SEP {
		name.WriteString(ts.Text())
		ts.Next()
	}
	if name.Len() == 0 {
		return nil, nil
	}

	var index []ast.Node
	if ts.Type() == token.LPAREN {
		parenPos := ts.Pos()
		ts.Next()
		var w wordBuilder
		for ts.Type() != token.RPAREN {
			switch ts.Type() {
			case token.EOF:
				return nil, token.SyntaxErrorf(parenPos,
					"reached EOF without finding match for paren at %s", parenPos)
			case token.DOLLAR:
				dollar := ts.Token()
				varSub, err := p.parseVarSub(ts)
				if err != nil {
					return nil, err
				}
				if varSub != nil {
					w.addNode(varSub)
				} else {
					w.addTok(dollar)
				}
			case token.LBRACKET:
				cmdSub, err := p.parseCommandSub(ts)
				if err != nil {
					return nil, err
				}
				w.addNode(cmdSub)
			default:
				w.addTok(ts.Token())
				ts.Next()
			}
		}
		index = w.resolve(ts.Pos())
		ts.Next()
	}

	return &ast.VarSub{
		Span:  ast.Span{Start: pos, Stop: ts.Pos()},
		Name:  name.String(),
		Index: index,
	}, nil
}

func (p *Parser) parseCommandSub(ts *token.Scanner) (ast.Node, error) {
	pos := ts.Pos()
	ts.Next() // consume [

	saved := p.cmdSub
	p.cmdSub = true
	script, err := p.parseScript(ts)
	p.cmdSub = saved
	if err != nil {
		return nil, err
	}

	ts.Next() // consume ]
	end := ts.Pos()

	cmdSub := script.(*ast.CommandSub)
	cmdSub.Start = pos
	cmdSub.Stop = end
	return cmdSub, nil
}

// wordBuilder assembles word nodes out of literal token runs interleaved
// with substitution nodes.
type wordBuilder struct {
	segments []ast.Node
	text     strings.Builder
	start    *token.Pos
}

func (w *wordBuilder) addTok(tok token.Token) {
	if w.start == nil {
		pos := tok.Pos
		w.start = &pos
	}
	w.text.WriteString(tok.Text)
}

func (w *wordBuilder) addNode(node ast.Node) {
	if w.text.Len() > 0 {
		w.segments = append(w.segments, &ast.BareWord{
			Span: ast.Span{Start: *w.start, Stop: node.Pos()},
			Text: w.text.String(),
		})
		w.text.Reset()
		w.start = nil
	}
	w.segments = append(w.segments, node)
}

func (w *wordBuilder) resolve(end token.Pos) []ast.Node {
	if w.text.Len() > 0 {
		w.segments = append(w.segments, &ast.BareWord{
			Span: ast.Span{Start: *w.start, Stop: end},
			Text: w.text.String(),
		})
		w.text.Reset()
		w.start = nil
	}
	return w.segments
}
