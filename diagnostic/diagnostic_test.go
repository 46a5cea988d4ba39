// Copyright © 2026 The tclint authors

package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/tclint/parser/token"
)

func at(line, col int) token.Pos {
	return token.Pos{Line: line, Col: col}
}

func TestViolationString(t *testing.T) {
	v := New(RuleSpacing, "more than one space between words", at(3, 7), at(3, 9))
	assert.Equal(t, "3:7: more than one space between words [spacing]", v.String())
}

func TestSortOrder(t *testing.T) {
	violations := []Violation{
		New(RuleSpacing, "c", at(2, 1), at(2, 2)),
		New(RuleLineLength, "a", at(1, 1), at(1, 2)),
		New(RuleBlankLines, "b", at(2, 1), at(2, 2)),
		New(RuleCommandArgs, "d", at(1, 5), at(1, 6)),
	}
	Sort(violations)

	assert.Equal(t, RuleLineLength, violations[0].Rule)
	assert.Equal(t, RuleCommandArgs, violations[1].Rule)
	// Same position: ordered by rule id.
	assert.Equal(t, RuleBlankLines, violations[2].Rule)
	assert.Equal(t, RuleSpacing, violations[3].Rule)
}

func TestRuleValidation(t *testing.T) {
	assert.True(t, ValidRule("command-args"))
	assert.True(t, ValidRule("spaces-in-braces"))
	assert.False(t, ValidRule("no-such-rule"))
}

func TestRuleCategories(t *testing.T) {
	assert.Equal(t, CategoryFunc, RuleCommandArgs.Category())
	assert.Equal(t, CategoryFunc, RuleRedefinedBuiltin.Category())
	assert.Equal(t, CategoryStyle, RuleLineLength.Category())
	assert.Equal(t, CategoryStyle, RuleSpacing.Category())
}

func TestAllRulesSorted(t *testing.T) {
	rules := AllRules()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, string(rules[i-1]), string(rules[i]))
	}
}

func TestRendererPlain(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever}
	violations := []Violation{
		New(RuleCommandArgs, "too many args for puts: got 4, expected no more than 3",
			at(2, 3), at(2, 10)),
	}
	require.NoError(t, r.Render(&buf, "test.tcl", violations))
	assert.Equal(t,
		"test.tcl:2:3: too many args for puts: got 4, expected no more than 3 [command-args]\n",
		buf.String())
}

func TestRendererCategories(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever, ShowCategories: true}
	violations := []Violation{
		New(RuleSpacing, "more than one space between words", at(1, 5), at(1, 7)),
	}
	require.NoError(t, r.Render(&buf, "a.tcl", violations))
	assert.Equal(t, "a.tcl:1:5: more than one space between words (style) [spacing]\n",
		buf.String())
}

func TestRendererSyntaxError(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever}
	require.NoError(t, r.RenderSyntaxError(&buf, "b.tcl", 4, 2, "reached EOF"))
	assert.Equal(t, "b.tcl:4:2: syntax error: reached EOF\n", buf.String())
}
