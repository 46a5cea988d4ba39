// Copyright © 2026 The tclint authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/tclint"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request, returning the proc declarations in the document.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	decls, err := tclint.Symbols([]byte(doc.Snapshot()))
	if err != nil {
		return nil, nil
	}

	symbols := make([]protocol.DocumentSymbol, 0, len(decls))
	for _, decl := range decls {
		r := posRange(decl.Start, decl.End)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           decl.Name,
			Kind:           protocol.SymbolKindFunction,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}
