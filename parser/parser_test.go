// Copyright © 2026 The tclint authors

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/tclint/commands"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser/ast"
	"github.com/luthersystems/tclint/parser/token"
)

func parse(t *testing.T, src string) (*ast.Script, *Parser) {
	t.Helper()
	p := New(commands.DefaultRegistry())
	tree, err := p.Parse(src)
	require.NoError(t, err)
	return tree, p
}

func firstCommand(t *testing.T, tree *ast.Script) *ast.Command {
	t.Helper()
	require.NotEmpty(t, tree.Cmds)
	cmd, ok := tree.Cmds[0].(*ast.Command)
	require.True(t, ok, "first child is not a command")
	return cmd
}

func TestParseSimpleCommand(t *testing.T) {
	tree, p := parse(t, "puts hello")
	require.Empty(t, p.Violations())

	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 2)
	assert.Equal(t, "puts", cmd.Routine())

	word, ok := cmd.Words[1].(*ast.BareWord)
	require.True(t, ok)
	assert.Equal(t, "hello", word.Text)
	assert.Equal(t, token.Pos{Line: 1, Col: 6}, word.Pos())
	assert.Equal(t, token.Pos{Line: 1, Col: 11}, word.End())
}

func TestParseMultipleCommands(t *testing.T) {
	tree, _ := parse(t, "set a 1\nset b 2; set c 3")
	assert.Len(t, tree.Cmds, 3)
}

func TestParseQuotedWord(t *testing.T) {
	tree, _ := parse(t, `puts "hi $name"`)
	cmd := firstCommand(t, tree)

	quoted, ok := cmd.Words[1].(*ast.QuotedWord)
	require.True(t, ok)
	require.Len(t, quoted.Parts, 2)

	bare, ok := quoted.Parts[0].(*ast.BareWord)
	require.True(t, ok)
	assert.Equal(t, "hi ", bare.Text)

	varSub, ok := quoted.Parts[1].(*ast.VarSub)
	require.True(t, ok)
	assert.Equal(t, "name", varSub.Name)
}

func TestParseBracedWordVerbatim(t *testing.T) {
	tree, _ := parse(t, "set x {a $b [c]}")
	cmd := firstCommand(t, tree)

	braced, ok := cmd.Words[2].(*ast.BracedWord)
	require.True(t, ok)
	assert.Equal(t, "a $b [c]", braced.Text)
}

func TestParseNestedBraces(t *testing.T) {
	tree, _ := parse(t, "set x {a {b {c}} d}")
	cmd := firstCommand(t, tree)

	braced, ok := cmd.Words[2].(*ast.BracedWord)
	require.True(t, ok)
	assert.Equal(t, "a {b {c}} d", braced.Text)
}

func TestParseCommandSub(t *testing.T) {
	tree, _ := parse(t, "set x [foo bar]")
	cmd := firstCommand(t, tree)

	cmdSub, ok := cmd.Words[2].(*ast.CommandSub)
	require.True(t, ok)
	require.Len(t, cmdSub.Cmds, 1)
	inner := cmdSub.Cmds[0].(*ast.Command)
	assert.Equal(t, "foo", inner.Routine())
	assert.Equal(t, token.Pos{Line: 1, Col: 7}, cmdSub.Pos())
}

func TestParseCompoundBareWord(t *testing.T) {
	tree, _ := parse(t, "puts a$b/c")
	cmd := firstCommand(t, tree)

	compound, ok := cmd.Words[1].(*ast.CompoundBareWord)
	require.True(t, ok)
	require.Len(t, compound.Parts, 3)
	assert.Equal(t, "a", compound.Parts[0].(*ast.BareWord).Text)
	assert.Equal(t, "b", compound.Parts[1].(*ast.VarSub).Name)
	assert.Equal(t, "/c", compound.Parts[2].(*ast.BareWord).Text)
}

func TestParseVarSubForms(t *testing.T) {
	tree, _ := parse(t, `puts ${a b}`)
	cmd := firstCommand(t, tree)
	varSub, ok := cmd.Words[1].(*ast.VarSub)
	require.True(t, ok)
	assert.Equal(t, "a b", varSub.Name)
	assert.True(t, varSub.Braced)

	tree, _ = parse(t, `puts $arr(1,$i)`)
	cmd = firstCommand(t, tree)
	varSub, ok = cmd.Words[1].(*ast.VarSub)
	require.True(t, ok)
	assert.Equal(t, "arr", varSub.Name)
	require.Len(t, varSub.Index, 2)
	assert.Equal(t, "1,", varSub.Index[0].(*ast.BareWord).Text)
	assert.Equal(t, "i", varSub.Index[1].(*ast.VarSub).Name)

	tree, _ = parse(t, `puts $ns::var`)
	cmd = firstCommand(t, tree)
	varSub, ok = cmd.Words[1].(*ast.VarSub)
	require.True(t, ok)
	assert.Equal(t, "ns::var", varSub.Name)
}

func TestParseDollarWithoutName(t *testing.T) {
	tree, _ := parse(t, "puts a$ b")
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 3)
	assert.Equal(t, "a$", cmd.Words[1].(*ast.BareWord).Text)
}

func TestParseArgExpansion(t *testing.T) {
	tree, _ := parse(t, "cmd {*}$args")
	cmd := firstCommand(t, tree)
	exp, ok := cmd.Words[1].(*ast.ArgExpansion)
	require.True(t, ok)
	_, ok = exp.Word.(*ast.VarSub)
	assert.True(t, ok)

	// {*} followed by whitespace is a plain braced word holding *.
	tree, _ = parse(t, "cmd {*} x")
	cmd = firstCommand(t, tree)
	braced, ok := cmd.Words[1].(*ast.BracedWord)
	require.True(t, ok)
	assert.Equal(t, "*", braced.Text)
}

func TestParseComments(t *testing.T) {
	tree, _ := parse(t, "# heading\nputs x")
	require.Len(t, tree.Cmds, 2)
	comment, ok := tree.Cmds[0].(*ast.Comment)
	require.True(t, ok)
	assert.Equal(t, " heading", comment.Text)
}

func TestParseInlineComment(t *testing.T) {
	tree, _ := parse(t, "puts x ;# note")
	require.Len(t, tree.Cmds, 2)
	cmd := tree.Cmds[0].(*ast.Command)
	assert.True(t, cmd.InlineComment)
	comment := tree.Cmds[1].(*ast.Comment)
	assert.Equal(t, " note", comment.Text)
}

func TestHashMidWordIsLiteral(t *testing.T) {
	tree, _ := parse(t, "puts a#b")
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 2)
	assert.Equal(t, "a#b", cmd.Words[1].(*ast.BareWord).Text)
	assert.Len(t, tree.Cmds, 1)
}

func TestParseBackslashNewlineInBracedWord(t *testing.T) {
	tree, _ := parse(t, "set x {a \\\nb}")
	cmd := firstCommand(t, tree)
	braced := cmd.Words[2].(*ast.BracedWord)
	assert.Equal(t, "a \\\nb", braced.Text)
}

func TestParseLineContinuation(t *testing.T) {
	tree, _ := parse(t, "puts a \\\n    b")
	require.Len(t, tree.Cmds, 1)
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 3)
	assert.Equal(t, 2, cmd.Words[2].Pos().Line)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		pos token.Pos
	}{
		{"puts {a", token.Pos{Line: 1, Col: 6}},
		{`puts "a`, token.Pos{Line: 1, Col: 6}},
		{"set x [foo", token.Pos{Line: 1, Col: 8}},
	}
	for _, tt := range tests {
		p := New(commands.DefaultRegistry())
		_, err := p.Parse(tt.src)
		require.Error(t, err, "source: %q", tt.src)
		synErr, ok := err.(*token.SyntaxError)
		require.True(t, ok, "source: %q", tt.src)
		assert.Equal(t, tt.pos, synErr.Pos, "source: %q", tt.src)
	}
}

func TestParseRecovery(t *testing.T) {
	p := NewRecovering(commands.DefaultRegistry())
	tree, err := p.Parse("puts {a}b\nputs ok")
	require.NoError(t, err)

	var syntax []diagnostic.Violation
	for _, v := range p.Violations() {
		if v.Rule == diagnostic.RuleSyntaxError {
			syntax = append(syntax, v)
		}
	}
	require.Len(t, syntax, 1)
	// The recovered tail still parses.
	require.NotEmpty(t, tree.Cmds)
	last := tree.Cmds[len(tree.Cmds)-1].(*ast.Command)
	assert.Equal(t, "puts", last.Routine())
}

func TestProcHandler(t *testing.T) {
	tree, p := parse(t, "proc foo {a b} {puts $a}")
	require.Empty(t, p.Violations())

	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 4)

	// The formals list stays a plain braced word.
	_, ok := cmd.Words[2].(*ast.BracedWord)
	assert.True(t, ok)

	body, ok := cmd.Words[3].(*ast.Script)
	require.True(t, ok)
	assert.True(t, body.Braced)
	require.Len(t, body.Cmds, 1)
	assert.Equal(t, "puts", body.Cmds[0].(*ast.Command).Routine())
}

func TestProcWrongArgCount(t *testing.T) {
	_, p := parse(t, "proc foo {}")
	require.Len(t, p.Violations(), 1)
	v := p.Violations()[0]
	assert.Equal(t, diagnostic.RuleCommandArgs, v.Rule)
	assert.Equal(t, "wrong # of args to proc: got 2, expected 3", v.Message)
}

func TestIfHandler(t *testing.T) {
	tree, p := parse(t, "if {$x > 1} {puts a} elseif {$y} {puts b} else {puts c}")
	require.Empty(t, p.Violations())

	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 8)
	_, ok := cmd.Words[1].(*ast.BracedExpression)
	assert.True(t, ok)
	_, ok = cmd.Words[2].(*ast.Script)
	assert.True(t, ok)
	assert.Equal(t, "elseif", cmd.Words[3].(*ast.BareWord).Text)
	_, ok = cmd.Words[4].(*ast.BracedExpression)
	assert.True(t, ok)
	_, ok = cmd.Words[5].(*ast.Script)
	assert.True(t, ok)
	assert.Equal(t, "else", cmd.Words[6].(*ast.BareWord).Text)
	_, ok = cmd.Words[7].(*ast.Script)
	assert.True(t, ok)
}

func TestIfAmbiguousScriptArgument(t *testing.T) {
	tree, p := parse(t, "if $cond $body")
	require.Len(t, p.Violations(), 1)
	v := p.Violations()[0]
	assert.Equal(t, diagnostic.RuleCommandArgs, v.Rule)
	assert.Equal(t, "ambiguous script argument", v.Message)

	// Words are left unstructured.
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[2].(*ast.VarSub)
	assert.True(t, ok)
}

func TestExprHandler(t *testing.T) {
	tree, p := parse(t, "expr {$a + 1}")
	require.Empty(t, p.Violations())

	cmd := firstCommand(t, tree)
	expr, ok := cmd.Words[1].(*ast.BracedExpression)
	require.True(t, ok)
	assert.Equal(t, "$a + 1", expr.Text)
	require.Len(t, expr.Parts, 1)
	bin, ok := expr.Parts[0].(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestExprUnbracedLeftAlone(t *testing.T) {
	tree, p := parse(t, "expr $foo + 1")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 4)
	_, ok := cmd.Words[1].(*ast.VarSub)
	assert.True(t, ok)
}

func TestExprInvalidExpression(t *testing.T) {
	_, p := parse(t, "expr {1 +}")
	require.Len(t, p.Violations(), 1)
	assert.Equal(t, diagnostic.RuleCommandArgs, p.Violations()[0].Rule)
}

func TestForeachHandler(t *testing.T) {
	tree, p := parse(t, "foreach x {1 2 3} {puts $x}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[3].(*ast.Script)
	assert.True(t, ok)
}

func TestWhileHandler(t *testing.T) {
	tree, p := parse(t, "while {$i < 10} {incr i}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[1].(*ast.BracedExpression)
	assert.True(t, ok)
	_, ok = cmd.Words[2].(*ast.Script)
	assert.True(t, ok)
}

func TestForHandler(t *testing.T) {
	tree, p := parse(t, "for {set i 0} {$i < 3} {incr i} {puts $i}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[1].(*ast.Script)
	assert.True(t, ok)
	_, ok = cmd.Words[2].(*ast.BracedExpression)
	assert.True(t, ok)
	_, ok = cmd.Words[3].(*ast.Script)
	assert.True(t, ok)
	_, ok = cmd.Words[4].(*ast.Script)
	assert.True(t, ok)
}

func TestSwitchInlineForm(t *testing.T) {
	tree, p := parse(t, "switch $x a {puts a} default {puts d}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 6)
	_, ok := cmd.Words[3].(*ast.Script)
	assert.True(t, ok)
	_, ok = cmd.Words[5].(*ast.Script)
	assert.True(t, ok)
}

func TestSwitchListForm(t *testing.T) {
	tree, p := parse(t, "switch $x {\n    a {puts a}\n    default {puts d}\n}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 3)
	list, ok := cmd.Words[2].(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Elems, 4)
	assert.Equal(t, "a", list.Elems[0].(*ast.BareWord).Text)
	_, ok = list.Elems[1].(*ast.Script)
	assert.True(t, ok)
	_, ok = list.Elems[3].(*ast.Script)
	assert.True(t, ok)
}

func TestSwitchFallthroughBody(t *testing.T) {
	_, p := parse(t, "switch $x a - b {puts ab}")
	require.Empty(t, p.Violations())
}

func TestEvalMergesArguments(t *testing.T) {
	tree, p := parse(t, "eval set x 5")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 2)
	script, ok := cmd.Words[1].(*ast.Script)
	require.True(t, ok)
	assert.False(t, script.Braced)
	require.Len(t, script.Cmds, 1)
	inner := script.Cmds[0].(*ast.Command)
	assert.Equal(t, "set", inner.Routine())
	require.Len(t, inner.Words, 3)
}

func TestNamespaceEvalHandler(t *testing.T) {
	tree, p := parse(t, "namespace eval foo {puts hi}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	require.Len(t, cmd.Words, 4)
	script, ok := cmd.Words[3].(*ast.Script)
	require.True(t, ok)
	assert.True(t, script.Braced)
}

func TestUnknownSubcommand(t *testing.T) {
	_, p := parse(t, "namespace bogus")
	require.Len(t, p.Violations(), 1)
	assert.Contains(t, p.Violations()[0].Message, "invalid subcommand for namespace: got bogus")
}

func TestArgCountViolation(t *testing.T) {
	_, p := parse(t, "puts a b c d")
	require.Len(t, p.Violations(), 1)
	v := p.Violations()[0]
	assert.Equal(t, "too many args for puts: got 4, expected no more than 3", v.Message)
	assert.Equal(t, token.Pos{Line: 1, Col: 1}, v.Start)
}

func TestArgExpansionDisablesMinCount(t *testing.T) {
	_, p := parse(t, "puts {*}$args")
	assert.Empty(t, p.Violations())

	_, p = parse(t, "rename {*}$names")
	assert.Empty(t, p.Violations())
}

func TestConcreteArgExpansionCounted(t *testing.T) {
	_, p := parse(t, "rename {*}{a b}")
	assert.Empty(t, p.Violations())

	_, p = parse(t, "rename {*}{a b c}")
	require.Len(t, p.Violations(), 1)
	assert.Contains(t, p.Violations()[0].Message, "wrong # of args for rename")
}

func TestCatchHandler(t *testing.T) {
	tree, p := parse(t, "catch {risky op} err")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[1].(*ast.Script)
	assert.True(t, ok)
}

func TestTryHandler(t *testing.T) {
	tree, p := parse(t, "try {risky} on error {msg} {puts $msg} finally {cleanup}")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	_, ok := cmd.Words[1].(*ast.Script)
	assert.True(t, ok)
	_, ok = cmd.Words[5].(*ast.Script)
	assert.True(t, ok)
	_, ok = cmd.Words[7].(*ast.Script)
	assert.True(t, ok)
}

func TestReturnOptionValidation(t *testing.T) {
	_, p := parse(t, "return -code error {oops}")
	assert.Empty(t, p.Violations())

	_, p = parse(t, "return -code bogus x")
	require.Len(t, p.Violations(), 1)
	assert.Contains(t, p.Violations()[0].Message, "invalid value for return -code")

	_, p = parse(t, "return -level -1 x")
	require.Len(t, p.Violations(), 1)
	assert.Contains(t, p.Violations()[0].Message, "invalid value for return -level")

	_, p = parse(t, "return a b")
	require.Len(t, p.Violations(), 1)
	assert.Contains(t, p.Violations()[0].Message, "too many arguments to return")
}

func TestApplyHandler(t *testing.T) {
	tree, p := parse(t, "apply {{x} {puts $x}} 5")
	require.Empty(t, p.Violations())
	cmd := firstCommand(t, tree)
	list, ok := cmd.Words[1].(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Elems, 2)
	_, ok = list.Elems[1].(*ast.Script)
	assert.True(t, ok)
}

func TestParseListEntryPoint(t *testing.T) {
	tree, _ := parse(t, `set x {a {b c} "d e" f}`)
	cmd := firstCommand(t, tree)

	p := New(nil)
	list, err := p.ParseList(cmd.Words[2])
	require.NoError(t, err)
	require.Len(t, list.Elems, 4)
	assert.Equal(t, "a", list.Elems[0].(*ast.BareWord).Text)
	assert.Equal(t, "b c", list.Elems[1].(*ast.BracedWord).Text)
	quoted := list.Elems[2].(*ast.QuotedWord)
	contents, ok := ast.Contents(quoted)
	require.True(t, ok)
	assert.Equal(t, "d e", contents)
	assert.Equal(t, "f", list.Elems[3].(*ast.BareWord).Text)
}

func TestSpanInvariants(t *testing.T) {
	tree, _ := parse(t, "if {$a} {\n    puts [cmd $x]\n}\nset y 2\n")

	// Child spans nest within parent spans and positions are monotone in
	// document order.
	ast.Walk(tree, func(n ast.Node) bool {
		prevEnd := token.Pos{Line: 1, Col: 1}
		for _, child := range n.Children() {
			assert.False(t, child.Pos().Before(n.Pos()),
				"child %T starts before parent %T", child, n)
			assert.False(t, n.End().Before(child.End()),
				"child %T ends after parent %T", child, n)
			assert.False(t, child.Pos().Before(prevEnd),
				"siblings out of order under %T", n)
			prevEnd = child.Pos()
		}
		return true
	})
}
