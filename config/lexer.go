package config

import (
	"strconv"
	"strings"
)

// lexer splits a scene file into tokens; input is treated as ASCII outside
// of quoted strings
type lexer struct {
	input []byte
	pos   int
	line  int
}

func newLexer(input []byte) *lexer {
	return &lexer{input: input, line: 1}
}

func (l *lexer) next() token {
	l.skipBlank()

	if l.pos >= len(l.input) {
		return l.emit(tokenEOF, "")
	}

	ch := l.input[l.pos]
	switch {
	case ch == '\n':
		l.pos++
		tok := l.emit(tokenNewline, "\n")
		l.line++
		return tok
	case ch == '#':
		return l.readComment()
	case ch == '=':
		l.pos++
		return l.emit(tokenEqual, "=")
	case ch == ',':
		l.pos++
		return l.emit(tokenComma, ",")
	case ch == '[':
		l.pos++
		return l.emit(tokenLBracket, "[")
	case ch == ']':
		l.pos++
		return l.emit(tokenRBracket, "]")
	case ch == '"':
		return l.readString()
	case isDigit(ch) || ch == '+' || ch == '-' || ch == '.':
		return l.readNumber()
	case isAlpha(ch) || ch == '_':
		return l.readIdent()
	}

	l.pos++
	return l.emit(tokenError, "unexpected character "+strconv.QuoteRune(rune(ch)))
}

func (l *lexer) emit(typ tokenType, literal string) token {
	return token{typ: typ, literal: literal, line: l.line}
}

func (l *lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) readComment() token {
	start := l.pos + 1
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
	return l.emit(tokenComment, string(l.input[start:l.pos]))
}

// readString accepts Go-style escapes inside a single-line basic string
func (l *lexer) readString() token {
	start := l.pos
	l.pos++ // opening quote
	escaped := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\n':
			return l.emit(tokenError, "unterminated string")
		case ch == '"' && !escaped:
			l.pos++
			s, err := strconv.Unquote(string(l.input[start:l.pos]))
			if err != nil {
				return l.emit(tokenError, "invalid escape in string")
			}
			return l.emit(tokenString, s)
		}
		escaped = ch == '\\' && !escaped
		l.pos++
	}
	return l.emit(tokenError, "unterminated string")
}

func (l *lexer) readNumber() token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) || ch == '.' || ch == '_' || ch == '+' || ch == '-' || ch == 'e' || ch == 'E' {
			l.pos++
			continue
		}
		break
	}
	lit := string(l.input[start:l.pos])
	if strings.ContainsAny(lit, ".eE") {
		return l.emit(tokenFloat, lit)
	}
	return l.emit(tokenInteger, lit)
}

// readIdent reads a bare key: A-Za-z0-9_-
func (l *lexer) readIdent() token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' {
			l.pos++
			continue
		}
		break
	}
	return l.emit(tokenIdent, string(l.input[start:l.pos]))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
