// Copyright © 2026 The tclint authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
)

// Renderer writes violation report lines:
//
//	<path>:<line>:<col>: <message> [<rule-id>]
//
// With ShowCategories set, each line carries the rule's category tag.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// ShowCategories appends the func/style category to each line.
	ShowCategories bool
}

// Render writes all violations for one source path to w, in order.
func (r *Renderer) Render(w io.Writer, path string, violations []Violation) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	for _, v := range violations {
		ew.printf("%s%s:%d:%d:%s %s", p.bold, path, v.Start.Line, v.Start.Col, p.reset, v.Message)
		if r.ShowCategories {
			ew.printf(" %s(%s)%s", p.cyan, v.Rule.Category(), p.reset)
		}
		ew.printf(" %s[%s]%s\n", p.yellow, v.Rule, p.reset)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderSyntaxError writes a syntax error report line for a path, used
// by commands that abort on malformed input instead of recovering.
func (r *Renderer) RenderSyntaxError(w io.Writer, path string, line, col int, msg string) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	_, err := fmt.Fprintf(w, "%s%s:%d:%d:%s %ssyntax error:%s %s\n",
		p.bold, path, line, col, p.reset, p.boldRed, p.reset, msg)
	return err
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}
