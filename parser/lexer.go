package parser

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode"
)

// Token kinds produced by the formula lexer.
const (
	EOF = iota
	ILLEGAL
	NUMBER
	IDENTIFIER
	PLUS
	MINUS
	MUL
	DIV
	POW
	LPAREN
	RPAREN
	COMMA
)

var tokenNames = map[int]string{
	EOF:        "end of input",
	ILLEGAL:    "ILLEGAL",
	NUMBER:     "NUMBER",
	IDENTIFIER: "IDENTIFIER",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MUL:        "'*'",
	DIV:        "'/'",
	POW:        "'**'",
	LPAREN:     "'('",
	RPAREN:     "')'",
	COMMA:      "','",
}

// TokenString returns a human readable name for a token kind.
func TokenString(tok int) string {
	if s, ok := tokenNames[tok]; ok {
		return s
	}
	return "UNKNOWN"
}

const eof = -1

// Lexer splits formula text into tokens, tracking byte offsets so parse
// errors can point at the offending character.
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer
	pos             int // Current byte offset from the beginning of the input

	tokenStartPos int    // Byte offset where the current token started
	tokenText     string // Raw text of the current token
}

// NewLexer creates a lexer over r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// NewStringLexer is a convenience for lexing an in-memory formula.
func NewStringLexer(s string) *Lexer {
	return NewLexer(strings.NewReader(s))
}

// Pos returns the start byte offset of the most recently lexed token.
func (l *Lexer) Pos() int { return l.tokenStartPos }

// End returns the byte offset just past the most recently lexed token.
func (l *Lexer) End() int { return l.pos }

// Text returns the raw text of the most recently lexed token.
func (l *Lexer) Text() string { return l.tokenText }

func (l *Lexer) read() rune {
	if l.peek() == eof {
		return eof
	}
	r, width := l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.pos += width
	return r
}

func (l *Lexer) peek() rune {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) rune {
	for len(l.lookaheadRunes) <= n {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			return eof
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return l.lookaheadRunes[n]
}

func (l *Lexer) skipWhitespace() {
	for r := l.peek(); r != eof && unicode.IsSpace(r); r = l.peek() {
		l.read()
	}
}

// Next returns the kind of the next token. The token's text and position
// are available through Text, Pos and End until the following call.
func (l *Lexer) Next() int {
	l.skipWhitespace()
	l.tokenStartPos = l.pos
	l.tokenText = ""

	r := l.peek()
	switch {
	case r == eof:
		return EOF
	case isDigit(r):
		l.tokenText = l.scanNumber()
		return NUMBER
	case isIdentStart(r):
		l.tokenText = l.scanIdentifier()
		return IDENTIFIER
	}

	l.read()
	l.tokenText = string(r)
	switch r {
	case '+':
		return PLUS
	case '-':
		return MINUS
	case '*':
		if l.peek() == '*' {
			l.read()
			l.tokenText = "**"
			return POW
		}
		return MUL
	case '/':
		return DIV
	case '(':
		return LPAREN
	case ')':
		return RPAREN
	case ',':
		return COMMA
	}
	return ILLEGAL
}

// scanNumber consumes \d+(\.\d*)?([eE][+-]?\d+)?. The exponent is only
// taken when at least one digit follows the marker and optional sign.
func (l *Lexer) scanNumber() string {
	l.buf.Reset()
	for isDigit(l.peek()) {
		l.buf.WriteRune(l.read())
	}
	if l.peek() == '.' {
		l.buf.WriteRune(l.read())
		for isDigit(l.peek()) {
			l.buf.WriteRune(l.read())
		}
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		digitAt := 1
		if s := l.peekN(1); s == '+' || s == '-' {
			digitAt = 2
		}
		if isDigit(l.peekN(digitAt)) {
			for range digitAt {
				l.buf.WriteRune(l.read())
			}
			for isDigit(l.peek()) {
				l.buf.WriteRune(l.read())
			}
		}
	}
	return l.buf.String()
}

func (l *Lexer) scanIdentifier() string {
	l.buf.Reset()
	for r := l.peek(); isIdentStart(r) || isDigit(r); r = l.peek() {
		l.buf.WriteRune(l.read())
	}
	return l.buf.String()
}

// Digits and identifier characters are ASCII only.
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
