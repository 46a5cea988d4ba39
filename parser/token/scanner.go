// Copyright © 2026 The tclint authors

package token

import "strings"

// Scanner produces a stream of tokens from Tcl source text with one token
// of state: the current token. Next advances the stream. A nil current
// token is represented by Type EOF.
type Scanner struct {
	src  string
	off  int // byte offset of the next unscanned character
	line int
	col  int

	cur Token
}

// NewScanner returns a Scanner positioned at the first token of src. The
// starting position defaults to 1:1; use NewScannerAt for re-parsing word
// contents that start mid-file.
func NewScanner(src string) *Scanner {
	return NewScannerAt(src, Pos{Line: 1, Col: 1})
}

// NewScannerAt returns a Scanner whose positions are offset to begin at
// pos. Used when re-parsing the contents of a word embedded in a larger
// script.
func NewScannerAt(src string, pos Pos) *Scanner {
	s := &Scanner{src: src, line: pos.Line, col: pos.Col}
	s.Next()
	return s
}

// Type returns the current token's type, or EOF at the end of input.
func (s *Scanner) Type() Type {
	return s.cur.Type
}

// Text returns the current token's text.
func (s *Scanner) Text() string {
	return s.cur.Text
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.cur
}

// Pos returns the position of the current token, or the scanner position
// at EOF.
func (s *Scanner) Pos() Pos {
	if s.cur.Type == EOF {
		return Pos{Line: s.line, Col: s.col}
	}
	return s.cur.Pos
}

// Next advances the scanner to the next token.
func (s *Scanner) Next() {
	if s.off >= len(s.src) {
		s.cur = Token{Type: EOF, Pos: Pos{Line: s.line, Col: s.col}}
		return
	}

	pos := Pos{Line: s.line, Col: s.col}
	c := s.src[s.off]

	switch {
	case c == '\\':
		if s.off+1 < len(s.src) {
			if s.src[s.off+1] == '\n' {
				s.emit(BACKSLASH_NEWLINE, 2, pos)
				return
			}
			// A backslash escapes exactly one following byte.
			s.emit(BACKSLASH_SUB, 2, pos)
			return
		}
		s.emit(CHAR, 1, pos)
	case c == '\n':
		s.emit(NEWLINE, 1, pos)
	case c == ';':
		s.emit(SEMI, 1, pos)
	case c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r':
		n := 1
		for s.off+n < len(s.src) && isBlank(s.src[s.off+n]) {
			n++
		}
		s.emit(WS, n, pos)
	case c == '"':
		s.emit(QUOTE, 1, pos)
	case c == '{':
		if strings.HasPrefix(s.src[s.off:], "{*}") {
			s.emit(ARG_EXPANSION, 3, pos)
			return
		}
		s.emit(LBRACE, 1, pos)
	case c == '}':
		s.emit(RBRACE, 1, pos)
	case c == '*':
		s.emit(STAR, 1, pos)
	case c == '[':
		s.emit(LBRACKET, 1, pos)
	case c == ']':
		s.emit(RBRACKET, 1, pos)
	case c == '$':
		s.emit(DOLLAR, 1, pos)
	case c == '(':
		s.emit(LPAREN, 1, pos)
	case c == ')':
		s.emit(RPAREN, 1, pos)
	case c == '#':
		s.emit(HASH, 1, pos)
	case c == ':' && s.off+1 < len(s.src) && s.src[s.off+1] == ':':
		n := 2
		for s.off+n < len(s.src) && s.src[s.off+n] == ':' {
			n++
		}
		s.emit(NAMESPACE_SEP, n, pos)
	case isAlpha(c):
		n := 1
		for s.off+n < len(s.src) && isAlpha(s.src[s.off+n]) {
			n++
		}
		s.emit(ALPHA_CHARS, n, pos)
	case isDigit(c):
		n := 1
		for s.off+n < len(s.src) && isDigit(s.src[s.off+n]) {
			n++
		}
		s.emit(NUM_CHARS, n, pos)
	default:
		// Catch-all: a single byte of anything else, including the bytes of
		// a multi-byte UTF-8 rune. Columns count bytes, matching how most
		// editors address Tcl sources.
		s.emit(CHAR, 1, pos)
	}
}

// Expect checks that the current token is one of types and advances past
// it. On mismatch it returns a SyntaxError with the given message.
func (s *Scanner) Expect(msg string, types ...Type) error {
	for _, typ := range types {
		if s.cur.Type == typ {
			s.Next()
			return nil
		}
	}
	return &SyntaxError{Msg: msg, Pos: s.Pos()}
}

func (s *Scanner) emit(typ Type, n int, pos Pos) {
	text := s.src[s.off : s.off+n]
	s.off += n
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	s.cur = Token{Type: typ, Text: text, Pos: pos}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func isAlpha(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
