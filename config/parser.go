package config

import (
	"fmt"
	"strconv"
	"strings"
)

// value is a parsed right-hand side: int64, float64, string or []any
type value struct {
	v    any
	line int
}

// entry is one assignment or table header, in file order
type entry struct {
	section string // "" for keys above the first table header
	key     string // "" for the header itself
	val     value
}

type parser struct {
	lex     *lexer
	cur     token
	peek    token
	section string
	seen    map[string]bool
	tables  map[string]bool
	entries []entry
}

// parse reads the whole document; the first error stops parsing
func parse(input []byte) ([]entry, error) {
	p := &parser{
		lex:    newLexer(input),
		seen:   make(map[string]bool),
		tables: make(map[string]bool),
	}
	p.advance()
	p.advance()

	for p.cur.typ != tokenEOF {
		if p.cur.typ == tokenNewline {
			p.advance()
			continue
		}
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.entries, nil
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
	for p.peek.typ == tokenComment {
		p.peek = p.lex.next()
	}
}

func (p *parser) parseStatement() error {
	switch p.cur.typ {
	case tokenLBracket:
		return p.parseTable()
	case tokenIdent, tokenString:
		return p.parseAssignment()
	case tokenError:
		return syntaxError(p.cur.line, "%s", p.cur.literal)
	default:
		return syntaxError(p.cur.line, "unexpected %s", p.cur)
	}
}

// parseTable handles [name]; nested and array tables are not part of the format
func (p *parser) parseTable() error {
	line := p.cur.line
	p.advance() // [
	if p.cur.typ != tokenIdent && p.cur.typ != tokenString {
		return syntaxError(line, "expected table name, got %s", p.cur)
	}
	name := p.cur.literal
	p.advance()
	if p.cur.typ != tokenRBracket {
		return syntaxError(line, "expected ] after table name, got %s", p.cur)
	}
	p.advance()
	if err := p.endOfLine(); err != nil {
		return err
	}

	if p.tables[name] {
		return syntaxError(line, "table [%s] defined twice", name)
	}
	p.tables[name] = true
	p.section = name
	p.entries = append(p.entries, entry{section: name, val: value{line: line}})
	return nil
}

func (p *parser) parseAssignment() error {
	line := p.cur.line
	key := p.cur.literal
	p.advance()
	if p.cur.typ != tokenEqual {
		return syntaxError(line, "expected = after %q, got %s", key, p.cur)
	}
	p.advance()

	v, err := p.parseValue()
	if err != nil {
		return err
	}
	if err := p.endOfLine(); err != nil {
		return err
	}

	full := key
	if p.section != "" {
		full = p.section + "." + key
	}
	if p.seen[full] {
		return syntaxError(line, "duplicate key %s", full)
	}
	p.seen[full] = true

	p.entries = append(p.entries, entry{
		section: p.section,
		key:     key,
		val:     value{v: v, line: line},
	})
	return nil
}

func (p *parser) endOfLine() error {
	switch p.cur.typ {
	case tokenNewline:
		p.advance()
		return nil
	case tokenEOF:
		return nil
	}
	return syntaxError(p.cur.line, "expected end of line, got %s", p.cur)
}

func (p *parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.typ {
	case tokenString:
		p.advance()
		return tok.literal, nil
	case tokenInteger:
		n, err := strconv.ParseInt(strings.ReplaceAll(tok.literal, "_", ""), 10, 64)
		if err != nil {
			return nil, syntaxError(tok.line, "invalid integer %s", tok)
		}
		p.advance()
		return n, nil
	case tokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.literal, "_", ""), 64)
		if err != nil {
			return nil, syntaxError(tok.line, "invalid number %s", tok)
		}
		p.advance()
		return f, nil
	case tokenLBracket:
		return p.parseArray()
	case tokenError:
		return nil, syntaxError(tok.line, "%s", tok.literal)
	}
	return nil, syntaxError(tok.line, "expected value, got %s", tok)
}

// parseArray allows newlines between elements and a trailing comma
func (p *parser) parseArray() ([]any, error) {
	line := p.cur.line
	p.advance() // [
	arr := make([]any, 0, 3)

	for {
		for p.cur.typ == tokenNewline {
			p.advance()
		}
		if p.cur.typ == tokenRBracket {
			p.advance()
			return arr, nil
		}
		if p.cur.typ == tokenEOF {
			return nil, syntaxError(line, "unterminated array")
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		for p.cur.typ == tokenNewline {
			p.advance()
		}
		switch p.cur.typ {
		case tokenComma:
			p.advance()
		case tokenRBracket:
		default:
			return nil, syntaxError(p.cur.line, "expected , or ] in array, got %s", p.cur)
		}
	}
}

func syntaxError(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}
