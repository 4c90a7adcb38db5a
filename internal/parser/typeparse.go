package parser

import (
	"strconv"
	"strings"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/token"
	"github.com/dan-zheng/GPIR/internal/types"
)

// parseDataType reads one scalar element-type keyword: bool, iN, f16, f32,
// f64. Used both inside a tensor(...) dtype slot and, degenerately, for the
// handful of opcodes (random, dataTypeCast) that name a dtype directly.
func (p *Parser) parseDataType() (dtype.DataType, error) {
	tok := p.peek()
	if tok.Kind != token.Ident {
		return dtype.DataType{}, p.unexpected(tok, "a data type")
	}
	if dt, ok := parseDataTypeText(tok.Text); ok {
		p.advance()
		return dt, nil
	}
	return dtype.DataType{}, p.unexpected(tok, "a data type")
}

func parseDataTypeText(text string) (dtype.DataType, bool) {
	switch text {
	case "bool":
		return dtype.Bool, true
	case "f16":
		return dtype.Float(dtype.Half), true
	case "f32":
		return dtype.Float(dtype.Single), true
	case "f64":
		return dtype.Float(dtype.Double), true
	}
	if strings.HasPrefix(text, "i") && len(text) > 1 {
		if w, err := strconv.Atoi(text[1:]); err == nil && w > 0 {
			return dtype.Int(w), true
		}
	}
	return dtype.DataType{}, false
}

// parseType reads one Type. The lexer's punctuation set has no angle
// brackets, so the nominal "tensor<...>"/"box<...>" spellings are written
// with parens instead, distinguished from tuple/function parens by the
// leading keyword:
//
//	void | bool | stack
//	iN | f16 | f32 | f64                 (scalar-tensor sugar)
//	tensor '(' dim (' x ' dim)* ' x ' dtype ')'
//	'(' type (',' type)* ')' ['->' type] (tuple, or function if arrowed)
//	'[' INT ' x ' type ']'                (array)
//	'^' type                              (pointer)
//	box '(' type ')'
//	'$' name                               (nominal reference)
//
// Every 'x' separator is a standalone Ident token spelled "x"; canonical
// source always surrounds it with spaces, which keeps the lexer's
// identifier/number scanning unambiguous without a dedicated shape token.
func (p *Parser) parseType() (types.Type, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		switch tok.Text {
		case "void":
			p.advance()
			return types.VoidType, nil
		case "bool":
			p.advance()
			return types.BoolType, nil
		case "stack":
			p.advance()
			return types.StackType, nil
		case "tensor":
			return p.parseTensorType()
		case "box":
			return p.parseBoxType()
		}
		if dt, ok := parseDataTypeText(tok.Text); ok {
			p.advance()
			return types.ScalarOf(dt), nil
		}
		return types.Type{}, p.unexpected(tok, "a type")
	case token.TypeName:
		p.advance()
		return p.resolveNominalReference(tok)
	case token.LParen:
		return p.parseParenType()
	case token.LBracket:
		return p.parseArrayType()
	case token.Caret:
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		return types.PointerTo(elem), nil
	default:
		return types.Type{}, p.unexpected(tok, "a type")
	}
}

func (p *Parser) resolveNominalReference(tok token.Token) (types.Type, error) {
	entry, ok := p.mod.nominal[sigilName(tok)]
	if !ok {
		return types.Type{}, newError(UndefinedNominalType, tok.Span, "undefined nominal type %q", tok.Text)
	}
	switch entry.kind {
	case nominalAlias:
		return types.AliasOf(entry.alias.Handle), nil
	case nominalStruct:
		return types.StructOf(entry.strct.Handle), nil
	case nominalEnum:
		return types.EnumOf(entry.enm.Handle), nil
	default:
		return types.Type{}, newError(UndefinedNominalType, tok.Span, "undefined nominal type %q", tok.Text)
	}
}

func (p *Parser) expectXSeparator() error {
	if !p.atIdent("x") {
		return p.unexpected(p.peek(), "'x'")
	}
	p.advance()
	return nil
}

func (p *Parser) parseTensorType() (types.Type, error) {
	p.advance() // 'tensor'
	if err := p.expectKind(token.LParen); err != nil {
		return types.Type{}, err
	}
	var dims []int64
	for {
		tok := p.peek()
		if tok.Kind != token.IntLit {
			return types.Type{}, p.unexpected(tok, "a dimension size")
		}
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return types.Type{}, newError(UnexpectedToken, tok.Span, "invalid dimension %q", tok.Text)
		}
		dims = append(dims, n)
		if !p.atIdent("x") {
			break
		}
		// Lookahead: 'x' followed by another IntLit continues the dim list;
		// 'x' followed by a dtype keyword ends it and is consumed below.
		if next := p.peekAt(1); next.Kind != token.IntLit {
			break
		}
		p.advance()
	}
	if err := p.expectXSeparator(); err != nil {
		return types.Type{}, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return types.Type{}, err
	}
	if err := p.expectKind(token.RParen); err != nil {
		return types.Type{}, err
	}
	return types.TensorOf(shape.New(dims...), dt), nil
}

func (p *Parser) parseBoxType() (types.Type, error) {
	p.advance() // 'box'
	if err := p.expectKind(token.LParen); err != nil {
		return types.Type{}, err
	}
	elem, err := p.parseType()
	if err != nil {
		return types.Type{}, err
	}
	if err := p.expectKind(token.RParen); err != nil {
		return types.Type{}, err
	}
	return types.BoxOf(elem), nil
}

func (p *Parser) parseParenType() (types.Type, error) {
	p.advance() // '('
	var elems []types.Type
	if !p.at(token.RParen) {
		for {
			t, err := p.parseType()
			if err != nil {
				return types.Type{}, err
			}
			elems = append(elems, t)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RParen); err != nil {
		return types.Type{}, err
	}
	if p.at(token.Arrow) {
		p.advance()
		ret, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		return types.FunctionOf(elems, ret), nil
	}
	return types.TupleOf(elems...), nil
}

func (p *Parser) parseArrayType() (types.Type, error) {
	p.advance() // '['
	tok := p.peek()
	if tok.Kind != token.IntLit {
		return types.Type{}, p.unexpected(tok, "an array length")
	}
	p.advance()
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return types.Type{}, newError(UnexpectedToken, tok.Span, "invalid array length %q", tok.Text)
	}
	if err := p.expectXSeparator(); err != nil {
		return types.Type{}, err
	}
	elem, err := p.parseType()
	if err != nil {
		return types.Type{}, err
	}
	if err := p.expectKind(token.RBracket); err != nil {
		return types.Type{}, err
	}
	return types.ArrayOf(n, elem), nil
}
