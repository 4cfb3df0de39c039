package config

import "fmt"

type tokenType int

const (
	tokenError tokenType = iota
	tokenEOF
	tokenComment

	tokenIdent   // bare key
	tokenString  // "quoted"
	tokenInteger // 123
	tokenFloat   // 1.5, -2e3

	tokenEqual    // =
	tokenComma    // ,
	tokenLBracket // [
	tokenRBracket // ]
	tokenNewline  // \n
)

type token struct {
	typ     tokenType
	literal string
	line    int
}

func (t token) String() string {
	switch t.typ {
	case tokenEOF:
		return "end of file"
	case tokenNewline:
		return "newline"
	case tokenError:
		return t.literal
	}
	if len(t.literal) > 20 {
		return fmt.Sprintf("%q...", t.literal[:20])
	}
	return fmt.Sprintf("%q", t.literal)
}
