// Copyright © 2026 The tclint authors

package lsp

import (
	"errors"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/tclint"
	"github.com/luthersystems/tclint/diagnostic"
	"github.com/luthersystems/tclint/parser/token"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.lintAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay analysis to avoid thrashing during rapid edits. A
	// superseded call's result is simply dropped; the core itself does
	// not observe cancellation.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on analysis panic
		d := s.docs.Get(doc.URI)
		if d != nil {
			s.lintAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.lintAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

// lintAndPublish runs the core linter on a document and publishes the
// resulting diagnostics to the client.
func (s *Server) lintAndPublish(doc *Document) {
	content := doc.Snapshot()
	path := uriToPath(doc.URI)
	cfg := s.configForPath(path)

	diags := []protocol.Diagnostic{}

	violations, err := tclint.Lint([]byte(content), cfg, path)
	if err != nil {
		// A syntax error means no tree; report it as the sole diagnostic.
		diags = append(diags, syntaxErrorDiagnostic(err))
	}
	for _, v := range violations {
		diags = append(diags, convertViolation(v))
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// convertViolation converts a core violation to an LSP diagnostic.
func convertViolation(v diagnostic.Violation) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityWarning
	if v.Rule.Category() == diagnostic.CategoryFunc {
		sev = protocol.DiagnosticSeverityError
	}
	return protocol.Diagnostic{
		Range:    posRange(v.Start, v.End),
		Severity: &sev,
		Source:   strPtr(serverName),
		Code:     &protocol.IntegerOrString{Value: string(v.Rule)},
		Message:  v.Message,
	}
}

// syntaxErrorDiagnostic extracts the failing span from a parse error.
func syntaxErrorDiagnostic(err error) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityError
	d := protocol.Diagnostic{
		Severity: &sev,
		Source:   strPtr(serverName),
		Message:  err.Error(),
	}
	var synErr *token.SyntaxError
	if errors.As(err, &synErr) {
		d.Range = posRange(synErr.Pos, synErr.Pos)
	}
	return d
}

// posRange converts 1-based core positions to a 0-based LSP range.
func posRange(start, end token.Pos) protocol.Range {
	r := protocol.Range{Start: lspPosition(start), End: lspPosition(end)}
	if end == (token.Pos{}) {
		r.End = r.Start
	}
	return r
}

func lspPosition(pos token.Pos) protocol.Position {
	line, col := pos.Line, pos.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{Line: safeUint(line), Character: safeUint(col)}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

func strPtr(s string) *string {
	return &s
}
