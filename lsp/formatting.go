// Copyright © 2026 The tclint authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/tclint"
)

// textDocumentFormatting handles textDocument/formatting requests. It
// formats the whole document and returns a single text edit, or nil when
// nothing changes.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	content := doc.Snapshot()
	if content == "" {
		return nil, nil
	}
	cfg := s.configForPath(uriToPath(doc.URI))

	formatted, _, err := tclint.Format([]byte(content), cfg)
	if err != nil {
		// Parse error — return nil edits (not an error) so the editor
		// doesn't show an error dialog for incomplete code.
		return nil, nil
	}

	if string(formatted) == content {
		return nil, nil
	}

	lines := countLines(content)
	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: safeUint(lines), Character: 0},
			},
			NewText: string(formatted),
		},
	}, nil
}

// textDocumentRangeFormatting handles textDocument/rangeFormatting. The
// requested range is widened to whole lines, the slice is formatted in
// isolation, and the replacement re-applies the base indentation of the
// first line so the result sits correctly in the surrounding buffer.
func (s *Server) textDocumentRangeFormatting(_ *glsp.Context, params *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	content := doc.Snapshot()
	cfg := s.configForPath(uriToPath(doc.URI))

	lines := strings.Split(content, "\n")
	startLine := int(params.Range.Start.Line)
	endLine := int(params.Range.End.Line)
	if params.Range.End.Character == 0 && endLine > startLine {
		endLine--
	}
	if startLine >= len(lines) {
		return nil, nil
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	snippet := strings.Join(lines[startLine:endLine+1], "\n")
	baseIndent := leadingWhitespace(lines[startLine])

	formatted, _, err := tclint.Format([]byte(strings.TrimSpace(dedent(snippet, baseIndent))), cfg)
	if err != nil {
		return nil, nil
	}

	replacement := reindent(strings.TrimRight(string(formatted), "\n"), baseIndent) + "\n"
	if replacement == snippet+"\n" {
		return nil, nil
	}

	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: safeUint(startLine), Character: 0},
				End:   protocol.Position{Line: safeUint(endLine + 1), Character: 0},
			},
			NewText: replacement,
		},
	}, nil
}

// leadingWhitespace returns the run of spaces and tabs opening a line.
func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// dedent strips base indentation from every line that carries it.
func dedent(text, base string) string {
	if base == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, base)
	}
	return strings.Join(lines, "\n")
}

// reindent prefixes every non-blank line with the base indentation.
func reindent(text, base string) string {
	if base == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = base + line
		}
	}
	return strings.Join(lines, "\n")
}

// countLines returns the number of newlines in s (the 0-indexed end line
// for a whole-document LSP edit).
func countLines(s string) int {
	return strings.Count(s, "\n")
}
