// Copyright © 2026 The tclint authors

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/parser"
	"github.com/luthersystems/tclint/parser/ast"
)

// parseArgs parses a command line with a registry that captures the raw
// argument words before any dispatch.
func parseArgs(t *testing.T, src string) ([]ast.Node, commands.Parser) {
	t.Helper()
	var captured []ast.Node
	registry := commands.Registry{
		"probe": func(args []ast.Node, p commands.Parser) ([]ast.Node, error) {
			captured = args
			return nil, nil
		},
	}
	p := parser.New(registry)
	_, err := p.Parse("probe " + src)
	require.NoError(t, err)
	return captured, p
}

func TestArgCount(t *testing.T) {
	args, p := parseArgs(t, "a b c")
	count, hasExp := commands.ArgCount(args, p)
	assert.Equal(t, 3, count)
	assert.False(t, hasExp)

	args, p = parseArgs(t, "a {*}$rest")
	count, hasExp = commands.ArgCount(args, p)
	assert.Equal(t, 1, count)
	assert.True(t, hasExp)

	args, p = parseArgs(t, "a {*}{b c d}")
	count, hasExp = commands.ArgCount(args, p)
	assert.Equal(t, 4, count)
	assert.False(t, hasExp)
}

func TestCheckCountMessages(t *testing.T) {
	args, p := parseArgs(t, "a b c")

	_, err := commands.CheckCount("mycmd", 1, 2)(args, p)
	require.Error(t, err)
	assert.Equal(t, "too many args for mycmd: got 3, expected no more than 2", err.Error())

	_, err = commands.CheckCount("mycmd", 4, -1)(args, p)
	require.Error(t, err)
	assert.Equal(t, "not enough args for mycmd: got 3, expected at least 4", err.Error())

	_, err = commands.CheckCount("mycmd", 2, 2)(args, p)
	require.Error(t, err)
	assert.Equal(t, "wrong # of args for mycmd: got 3, expected 2", err.Error())

	_, err = commands.CheckCount("mycmd", -1, -1)(args, p)
	assert.NoError(t, err)
}

func TestSubcommandsDispatch(t *testing.T) {
	var gotSub bool
	subs := map[string]commands.HandlerFunc{
		"start": func(args []ast.Node, p commands.Parser) ([]ast.Node, error) {
			gotSub = true
			return nil, nil
		},
		"stop": nil,
	}
	h := commands.Subcommands("svc", subs, nil)

	args, p := parseArgs(t, "start now")
	_, err := h(args, p)
	require.NoError(t, err)
	assert.True(t, gotSub)

	args, p = parseArgs(t, "stop")
	_, err = h(args, p)
	assert.NoError(t, err)

	args, p = parseArgs(t, "bogus")
	_, err = h(args, p)
	require.Error(t, err)
	assert.Equal(t, "invalid subcommand for svc: got bogus, expected one of start, stop", err.Error())

	args, p = parseArgs(t, "")
	_, err = h(args, p)
	require.Error(t, err)
	assert.Equal(t, "no subcommand provided for svc, expected one of start, stop", err.Error())
}

func TestEvalBodyPreservesSpacing(t *testing.T) {
	args, p := parseArgs(t, "set  x 5")
	replaced, err := commands.EvalBody(args, p, "eval")
	require.NoError(t, err)
	require.Len(t, replaced, 1)

	script, ok := replaced[0].(*ast.Script)
	require.True(t, ok)
	require.Len(t, script.Cmds, 1)
	cmd := script.Cmds[0].(*ast.Command)
	require.Len(t, cmd.Words, 3)
	// The doubled space between words survives into positions so style
	// checks still see it.
	assert.Equal(t, 2, cmd.Words[1].Pos().Col-cmd.Words[0].End().Col)
}

func TestEvalBodyRejectsMixedQuoting(t *testing.T) {
	args, p := parseArgs(t, `set x "a b"`)
	_, err := commands.EvalBody(args, p, "eval")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse multiple eval arguments")
}

func TestEvalBodyRejectsSubstitutions(t *testing.T) {
	args, p := parseArgs(t, "set x $y")
	_, err := commands.EvalBody(args, p, "eval")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument with a substitution")
}

func TestEvalBodySingleBracedKeepsBraces(t *testing.T) {
	args, p := parseArgs(t, "{puts hi}")
	replaced, err := commands.EvalBody(args, p, "eval")
	require.NoError(t, err)
	script := replaced[0].(*ast.Script)
	assert.True(t, script.Braced)
}

func TestRegistryMergeShadows(t *testing.T) {
	base := commands.Registry{"a": nil, "b": nil}
	called := false
	overlay := commands.Registry{
		"b": func(args []ast.Node, p commands.Parser) ([]ast.Node, error) {
			called = true
			return nil, nil
		},
	}
	base.Merge(overlay)

	require.NotNil(t, base["b"])
	_, err := base["b"](nil, nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"a", "b"}, base.Names())
}
