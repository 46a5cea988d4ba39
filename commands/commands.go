// Copyright © 2026 The tclint authors

// Package commands implements parse-time handling of Tcl commands: the
// registry of known commands, structural handlers for builtins whose
// arguments are scripts or expressions, declarative argument specs for
// plugin-provided commands, and the validation machinery shared by both.
package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

// ArgError reports invalid arguments to a known command. The parser
// converts it into a command-args violation anchored at the command.
type ArgError struct {
	Msg string
}

func (e *ArgError) Error() string { return e.Msg }

// ArgErrorf constructs an ArgError with a formatted message.
func ArgErrorf(format string, args ...interface{}) error {
	return &ArgError{Msg: fmt.Sprintf(format, args...)}
}

// Parser is the handle a command handler uses to re-interpret argument
// words. Implementations parse the word's concrete contents at its
// original source position so node spans stay anchored to the file.
type Parser interface {
	// ParseScript re-parses a word as a script. Words without concrete
	// contents (substitutions) yield an ArgError.
	ParseScript(n ast.Node) (ast.Node, error)
	// ParseExpression re-parses a word as an expr expression. Words
	// without concrete contents yield an unstructured Expression node.
	ParseExpression(n ast.Node) (ast.Node, error)
	// ParseList parses a word's contents as a Tcl list.
	ParseList(n ast.Node) (*ast.List, error)
	// ParseBody parses raw script text starting at pos. Used by handlers
	// that stitch multiple argument words into one body (eval-style).
	ParseBody(script string, pos token.Pos) (*ast.Script, error)
}

// HandlerFunc validates a command's argument words and may return a
// replacement word list with script/expression arguments structured. A
// nil return leaves the words untouched.
type HandlerFunc func(args []ast.Node, p Parser) ([]ast.Node, error)

// Registry maps command names to handlers. A present name with a nil
// handler marks the command as known but unchecked. Later layers shadow
// earlier ones by name.
type Registry map[string]HandlerFunc

// Merge overlays other onto r, shadowing existing entries by name.
func (r Registry) Merge(other Registry) {
	for name, h := range other {
		r[name] = h
	}
}

// Names returns the sorted command names in the registry.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArgCount returns the number of arguments in args, taking {*} into
// account. A concrete {*}list expands through the list parser; an
// unresolvable expansion sets the second return value and the count is
// the minimum possible number of arguments. Always use this instead of
// len(args) when validating argument counts.
func ArgCount(args []ast.Node, p Parser) (int, bool) {
	count := 0
	hasExpansion := false
	for _, arg := range args {
		if exp, ok := arg.(*ast.ArgExpansion); ok {
			if _, concrete := ast.Contents(exp.Word); !concrete {
				hasExpansion = true
				continue
			}
			list, err := p.ParseList(exp.Word)
			if err != nil {
				hasExpansion = true
				continue
			}
			count += len(list.Elems)
			continue
		}
		count++
	}
	return count, hasExpansion
}

// CheckCount returns a handler that validates the argument count against
// [min, max]. A negative bound is unconstrained.
func CheckCount(command string, min, max int) HandlerFunc {
	return func(args []ast.Node, p Parser) ([]ast.Node, error) {
		if min < 0 && max < 0 {
			return nil, nil
		}

		count, hasExpansion := ArgCount(args, p)

		if !hasExpansion && min >= 0 && min == max && count != min {
			return nil, ArgErrorf(
				"wrong # of args for %s: got %d, expected %d", command, count, min)
		}
		if !hasExpansion && min >= 0 && count < min {
			return nil, ArgErrorf(
				"not enough args for %s: got %d, expected at least %d",
				command, count, min)
		}
		if max >= 0 && count > max {
			return nil, ArgErrorf(
				"too many args for %s: got %d, expected no more than %d",
				command, count, max)
		}
		return nil, nil
	}
}

// Subcommands returns a handler that dispatches on the first argument
// word. A nil handler in subs marks that subcommand known but unchecked;
// fallback handles commands whose first argument is not a subcommand
// name (may be nil).
func Subcommands(name string, subs map[string]HandlerFunc, fallback HandlerFunc) HandlerFunc {
	return func(args []ast.Node, p Parser) ([]ast.Node, error) {
		var sub string
		var concrete bool
		if len(args) > 0 {
			sub, concrete = ast.Contents(args[0])
		}

		if concrete {
			if h, ok := subs[sub]; ok {
				if h == nil {
					return nil, nil
				}
				newArgs, err := h(args[1:], p)
				if err != nil {
					return nil, err
				}
				if newArgs == nil {
					return nil, nil
				}
				return append([]ast.Node{args[0]}, newArgs...), nil
			}
		}

		if fallback != nil {
			return fallback(args, p)
		}

		known := make([]string, 0, len(subs))
		for s := range subs {
			known = append(known, s)
		}
		sort.Strings(known)

		if concrete {
			return nil, ArgErrorf("invalid subcommand for %s: got %s, expected one of %s",
				name, sub, strings.Join(known, ", "))
		}
		return nil, ArgErrorf("no subcommand provided for %s, expected one of %s",
			name, strings.Join(known, ", "))
	}
}

// EvalBody stitches eval-style argument words into a single script and
// parses it as the command's body, preserving inter-word whitespace so
// style checks see the original shape. The returned slice holds one
// Script node replacing all the input words.
func EvalBody(args []ast.Node, p Parser, command string) ([]ast.Node, error) {
	if len(args) > 1 {
		for _, arg := range args {
			switch arg.(type) {
			case *ast.QuotedWord, *ast.BracedWord:
				// Multiple quoted or braced words would merge into a single
				// subcommand when interpreted eval-style, but the tree
				// requires each command argument to map to one child node.
				return nil, ArgErrorf(
					"unable to parse multiple %s arguments when one includes"+
						" a braced or quoted word", command)
			}
		}
	}
	if len(args) == 0 {
		return nil, ArgErrorf("not enough args for %s: got 0, expected at least 1", command)
	}

	var body strings.Builder
	var prevEnd *token.Pos
	for _, arg := range args {
		contents, ok := ast.Contents(arg)
		if !ok {
			return nil, ArgErrorf(
				"%s received an argument with a substitution, unable to parse"+
					" its arguments", command)
		}

		if prevEnd != nil {
			if prevEnd.Line != arg.Pos().Line {
				// Words on different lines imply backslash-newline
				// continuations between them.
				for i := 0; i < arg.Pos().Line-prevEnd.Line; i++ {
					body.WriteString("\\\n")
				}
				body.WriteString(strings.Repeat(" ", arg.Pos().Col-1))
			} else {
				body.WriteString(strings.Repeat(" ", arg.Pos().Col-prevEnd.Col))
			}
		}
		body.WriteString(contents)

		end := arg.End()
		prevEnd = &end
	}

	start, _ := ast.ContentsPos(args[0])
	script, err := p.ParseBody(body.String(), start)
	if err != nil {
		return nil, err
	}
	script.Start = args[0].Pos()
	script.Stop = args[len(args)-1].End()

	// A single quoted or braced argument keeps its delimiters so the
	// formatter can reconstruct the word.
	if len(args) == 1 {
		switch args[0].(type) {
		case *ast.BracedWord:
			script.Braced = true
		case *ast.QuotedWord:
			script.Quoted = true
		}
	}

	return []ast.Node{script}, nil
}
