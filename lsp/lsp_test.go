// Copyright © 2026 The tclint authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser/token"
)

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()

	doc := store.Open("file:///a.tcl", 1, "puts hi\n")
	assert.Equal(t, doc, store.Get("file:///a.tcl"))
	assert.Equal(t, "puts hi\n", doc.Snapshot())

	store.Change("file:///a.tcl", 2, "puts bye\n")
	assert.Equal(t, "puts bye\n", store.Get("file:///a.tcl").Snapshot())
	assert.Equal(t, int32(2), store.Get("file:///a.tcl").Version)

	// Change on an untracked URI creates the document.
	store.Change("file:///b.tcl", 1, "x\n")
	assert.NotNil(t, store.Get("file:///b.tcl"))

	store.Close("file:///a.tcl")
	assert.Nil(t, store.Get("file:///a.tcl"))
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, "/work/a.tcl", uriToPath("file:///work/a.tcl"))
	assert.Equal(t, "/work/my file.tcl", uriToPath("file:///work/my%20file.tcl"))
	assert.Equal(t, "untitled:one", uriToPath("untitled:one"))
}

func TestConvertViolation(t *testing.T) {
	v := diagnostic.New(diagnostic.RuleCommandArgs, "boom",
		token.Pos{Line: 2, Col: 3}, token.Pos{Line: 2, Col: 8})
	d := convertViolation(v)

	assert.Equal(t, protocol.UInteger(1), d.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(2), d.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(7), d.Range.End.Character)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "command-args", d.Code.Value)

	style := diagnostic.New(diagnostic.RuleSpacing, "spacing",
		token.Pos{Line: 1, Col: 1}, token.Pos{Line: 1, Col: 2})
	d = convertViolation(style)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
}

func TestPosRangeZeroEnd(t *testing.T) {
	r := posRange(token.Pos{Line: 3, Col: 4}, token.Pos{})
	assert.Equal(t, r.Start, r.End)
}

func TestLeadingWhitespace(t *testing.T) {
	assert.Equal(t, "    ", leadingWhitespace("    if {"))
	assert.Equal(t, "\t", leadingWhitespace("\tx"))
	assert.Equal(t, "", leadingWhitespace("x"))
	assert.Equal(t, "  ", leadingWhitespace("  "))
}

func TestDedentReindent(t *testing.T) {
	text := "    puts a\n    puts b"
	dedented := dedent(text, "    ")
	assert.Equal(t, "puts a\nputs b", dedented)

	reindented := reindent("puts a\n\nputs b", "    ")
	assert.Equal(t, "    puts a\n\n    puts b", reindented)

	assert.Equal(t, "x", dedent("x", ""))
	assert.Equal(t, "x", reindent("x", ""))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines("one line"))
	assert.Equal(t, 2, countLines("a\nb\n"))
}

func TestServerConfigFallback(t *testing.T) {
	s := New()
	cfg := s.configForPath("/nowhere/x.tcl")
	require.NotNil(t, cfg)
	assert.Equal(t, 100, cfg.Style.LineLength)
}
