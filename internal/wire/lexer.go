package wire

import (
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokBare
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokString:
		return "string"
	case tokBare:
		return "bare value"
	default:
		return "unknown token"
	}
}

type token struct {
	kind   tokenKind
	text   string
	offset int
}

type lexer struct {
	src []byte
	pos int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src}
}

func isDelimiter(b byte) bool {
	switch b {
	case '{', '}', '[', ']', ':', ',', '"':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) && isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
}

// next returns the next token. Inside strings, \" and \\ are the only escape
// sequences; any other backslash is kept literally.
func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, offset: start}, nil
	}

	switch lx.src[lx.pos] {
	case '{':
		lx.pos++
		return token{kind: tokLBrace, offset: start}, nil
	case '}':
		lx.pos++
		return token{kind: tokRBrace, offset: start}, nil
	case '[':
		lx.pos++
		return token{kind: tokLBracket, offset: start}, nil
	case ']':
		lx.pos++
		return token{kind: tokRBracket, offset: start}, nil
	case ':':
		lx.pos++
		return token{kind: tokColon, offset: start}, nil
	case ',':
		lx.pos++
		return token{kind: tokComma, offset: start}, nil
	case '"':
		return lx.lexString()
	}

	for lx.pos < len(lx.src) && !isDelimiter(lx.src[lx.pos]) && !isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
	text := string(lx.src[start:lx.pos])
	if !utf8.ValidString(text) {
		return token{}, newSyntaxError(lx.src, start, "invalid UTF-8 in bare value")
	}
	return token{kind: tokBare, text: text, offset: start}, nil
}

func (lx *lexer) lexString() (token, error) {
	start := lx.pos
	lx.pos++ // opening quote

	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '"':
			lx.pos++
			text := b.String()
			if !utf8.ValidString(text) {
				return token{}, newSyntaxError(lx.src, start, "invalid UTF-8 in string")
			}
			return token{kind: tokString, text: text, offset: start}, nil
		case c == '\\' && lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == '"' || lx.src[lx.pos+1] == '\\'):
			b.WriteByte(lx.src[lx.pos+1])
			lx.pos += 2
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, newSyntaxError(lx.src, start, "unterminated string")
}
