package wire

import (
	"bytes"
	"fmt"
)

const maxDepth = 256

// SyntaxError describes where the input stopped making sense.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func newSyntaxError(src []byte, offset int, msg string) *SyntaxError {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - bytes.LastIndexByte(before, '\n')
	return &SyntaxError{Offset: offset, Line: line, Column: col, Msg: msg}
}

// Parse reads one value from data. On a syntax error it still returns the
// part of the tree that was completed before the error, with every
// unfinished container marked Partial, together with a *SyntaxError.
func Parse(data []byte) (Value, error) {
	p := &parser{lx: newLexer(data), src: data}
	if err := p.advance(); err != nil {
		return Value{}, err
	}
	v, err := p.parseValue(0)
	if err != nil {
		return v, err
	}
	if p.tok.kind != tokEOF {
		return v, p.errorf("unexpected %s after top-level value", p.tok.kind)
	}
	return v, nil
}

type parser struct {
	lx  *lexer
	src []byte
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return newSyntaxError(p.src, p.tok.offset, fmt.Sprintf(format, args...))
}

func (p *parser) parseValue(depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, p.errorf("nesting deeper than %d levels", maxDepth)
	}
	switch p.tok.kind {
	case tokLBrace:
		return p.parseObject(depth)
	case tokLBracket:
		return p.parseArray(depth)
	case tokString, tokBare:
		v := Value{Kind: KindString, Text: p.tok.text, Offset: p.tok.offset}
		if p.tok.kind == tokBare {
			v.Kind = KindBare
		}
		return v, p.advance()
	default:
		return Value{}, p.errorf("expected value, found %s", p.tok.kind)
	}
}

func (p *parser) parseObject(depth int) (Value, error) {
	obj := Value{Kind: KindObject, Offset: p.tok.offset, Members: []Member{}}
	if err := p.advance(); err != nil {
		obj.Partial = true
		return obj, err
	}
	for {
		if p.tok.kind == tokRBrace {
			return obj, p.advance()
		}
		if p.tok.kind != tokString && p.tok.kind != tokBare {
			obj.Partial = true
			return obj, p.errorf("expected object key, found %s", p.tok.kind)
		}
		key := p.tok.text
		if err := p.advance(); err != nil {
			obj.Partial = true
			return obj, err
		}
		if p.tok.kind != tokColon {
			obj.Partial = true
			return obj, p.errorf("expected ':' after key %q, found %s", key, p.tok.kind)
		}
		if err := p.advance(); err != nil {
			obj.Partial = true
			return obj, err
		}
		val, err := p.parseValue(depth + 1)
		if err != nil {
			if val.Kind == KindArray || val.Kind == KindObject {
				obj.Members = append(obj.Members, Member{Key: key, Value: val})
			}
			obj.Partial = true
			return obj, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: val})

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				obj.Partial = true
				return obj, err
			}
		case tokRBrace:
		default:
			obj.Partial = true
			return obj, p.errorf("expected ',' or '}' in object, found %s", p.tok.kind)
		}
	}
}

func (p *parser) parseArray(depth int) (Value, error) {
	arr := Value{Kind: KindArray, Offset: p.tok.offset, Items: []Value{}}
	if err := p.advance(); err != nil {
		arr.Partial = true
		return arr, err
	}
	for {
		if p.tok.kind == tokRBracket {
			return arr, p.advance()
		}
		item, err := p.parseValue(depth + 1)
		if err != nil {
			if item.Kind == KindArray || item.Kind == KindObject {
				arr.Items = append(arr.Items, item)
			}
			arr.Partial = true
			return arr, err
		}
		arr.Items = append(arr.Items, item)

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				arr.Partial = true
				return arr, err
			}
		case tokRBracket:
		default:
			arr.Partial = true
			return arr, p.errorf("expected ',' or ']' in array, found %s", p.tok.kind)
		}
	}
}
