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

func specRegistry(spec *commands.ArgSpec) commands.Registry {
	registry := commands.DefaultRegistry()
	registry["mycmd"] = spec.Handler("mycmd")
	return registry
}

func runSpec(t *testing.T, spec *commands.ArgSpec, src string) (*ast.Command, *parser.Parser) {
	t.Helper()
	p := parser.New(specRegistry(spec))
	tree, err := p.Parse(src)
	require.NoError(t, err)
	require.NotEmpty(t, tree.Cmds)
	return tree.Cmds[0].(*ast.Command), p
}

func basicSpec() *commands.ArgSpec {
	return &commands.ArgSpec{
		Switches: map[string]*commands.SwitchSpec{
			"-verbose": {Value: commands.ValueNone},
			"-name":    {Required: true, Value: commands.ValueAny},
			"-tag":     {Repeated: true, Value: commands.ValueAny},
		},
		Positionals: []*commands.PositionalSpec{
			{Name: "body", Required: true, Value: commands.ValueScript},
		},
	}
}

func TestArgSpecValid(t *testing.T) {
	cmd, p := runSpec(t, basicSpec(), "mycmd -verbose -name foo {puts hi}")
	require.Empty(t, p.Violations())

	// The script positional is re-parsed.
	script, ok := cmd.Words[4].(*ast.Script)
	require.True(t, ok)
	assert.True(t, script.Braced)
}

func TestArgSpecMissingRequiredSwitch(t *testing.T) {
	_, p := runSpec(t, basicSpec(), "mycmd {puts hi}")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "missing required argument for mycmd: -name", p.Violations()[0].Message)
}

func TestArgSpecMissingSwitchValue(t *testing.T) {
	_, p := runSpec(t, basicSpec(), "mycmd {x} -name")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "invalid arguments for mycmd: expected value after -name",
		p.Violations()[0].Message)
}

func TestArgSpecDuplicateSwitch(t *testing.T) {
	_, p := runSpec(t, basicSpec(), "mycmd -name a -name b {x}")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "duplicate argument for mycmd: -name", p.Violations()[0].Message)
}

func TestArgSpecRepeatedSwitchAllowed(t *testing.T) {
	_, p := runSpec(t, basicSpec(), "mycmd -name a -tag t1 -tag t2 {x}")
	assert.Empty(t, p.Violations())
}

func TestArgSpecUnknownDashWordIsPositional(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "value", Required: true, Value: commands.ValueAny},
		},
	}
	_, p := runSpec(t, spec, "mycmd -weird")
	assert.Empty(t, p.Violations())
}

func TestArgSpecDoubleDashEndsSwitches(t *testing.T) {
	spec := &commands.ArgSpec{
		Switches: map[string]*commands.SwitchSpec{
			"-x": {Value: commands.ValueNone},
		},
		Positionals: []*commands.PositionalSpec{
			{Name: "value", Required: true, Value: commands.ValueAny},
		},
	}
	_, p := runSpec(t, spec, "mycmd -- -x")
	assert.Empty(t, p.Violations())
}

func TestArgSpecTooManyPositionals(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "one", Required: true, Value: commands.ValueAny},
		},
	}
	_, p := runSpec(t, spec, "mycmd a b")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "too many arguments for mycmd: got 2, expected no more than 1",
		p.Violations()[0].Message)
}

func TestArgSpecVariadicAbsorbsExtras(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "first", Required: true, Value: commands.ValueAny},
			{Name: "rest", Required: false, Value: commands.ValueVariadic},
		},
	}
	_, p := runSpec(t, spec, "mycmd a b c d")
	assert.Empty(t, p.Violations())
}

func TestArgSpecMissingRequiredPositional(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "src", Required: true, Value: commands.ValueAny},
			{Name: "dst", Required: true, Value: commands.ValueAny},
		},
	}
	_, p := runSpec(t, spec, "mycmd a")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "missing required argument for mycmd: dst", p.Violations()[0].Message)
}

func TestArgSpecArgExpansionCoversRequired(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "src", Required: true, Value: commands.ValueAny},
			{Name: "dst", Required: true, Value: commands.ValueAny},
		},
	}
	_, p := runSpec(t, spec, "mycmd {*}$pair")
	assert.Empty(t, p.Violations())
}

func TestArgSpecExpressionPositional(t *testing.T) {
	spec := &commands.ArgSpec{
		Positionals: []*commands.PositionalSpec{
			{Name: "cond", Required: true, Value: commands.ValueExpression},
		},
	}
	cmd, p := runSpec(t, spec, "mycmd {$a > 1}")
	require.Empty(t, p.Violations())
	_, ok := cmd.Words[1].(*ast.BracedExpression)
	assert.True(t, ok)
}

func TestArgSpecSubcommands(t *testing.T) {
	spec := &commands.ArgSpec{
		Subcommands: map[string]*commands.ArgSpec{
			"add": {
				Positionals: []*commands.PositionalSpec{
					{Name: "item", Required: true, Value: commands.ValueAny},
				},
			},
			"clear": {},
		},
	}

	_, p := runSpec(t, spec, "mycmd add thing")
	assert.Empty(t, p.Violations())

	_, p = runSpec(t, spec, "mycmd add")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "missing required argument for mycmd add: item", p.Violations()[0].Message)

	_, p = runSpec(t, spec, "mycmd bogus")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, "invalid subcommand for mycmd: got bogus, expected one of add, clear",
		p.Violations()[0].Message)
}
