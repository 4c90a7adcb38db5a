package parser

import (
	"strconv"
	"strings"

	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/token"
	"github.com/dan-zheng/GPIR/internal/types"
)

// parseUse reads one operand: either a definition reference (@global or
// @function, %local) or an inline literal, always followed by
// an explicit ": type" suffix. The explicit suffix means a literal's
// surface syntax never needs to predict its own type -- bracket lists are
// parsed generically and only classified tensor-vs-array once the trailing
// type is in hand.
func (p *Parser) parseUse() (ir.Use, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Global:
		p.advance()
		name := sigilName(tok)
		var def ir.Definition
		if v, ok := p.mod.globals[name]; ok {
			def = v
		} else if fn, ok := p.mod.funcs[name]; ok {
			def = fn.fn
		} else {
			return ir.Use{}, newError(UndefinedIdentifier, tok.Span, "undefined global %q", tok.Text)
		}
		if err := p.checkUseAnnotation(tok, def); err != nil {
			return ir.Use{}, err
		}
		return ir.DefUse(def), nil
	case token.Temp:
		p.advance()
		def, err := p.resolveLocal(tok)
		if err != nil {
			return ir.Use{}, err
		}
		if err := p.checkUseAnnotation(tok, def); err != nil {
			return ir.Use{}, err
		}
		return ir.DefUse(def), nil
	}
	lit, err := p.parseRawLiteral()
	if err != nil {
		return ir.Use{}, err
	}
	if err := p.expectKind(token.Colon); err != nil {
		return ir.Use{}, err
	}
	t, err := p.parseType()
	if err != nil {
		return ir.Use{}, err
	}
	if lit.Kind == ir.LitTensor && t.Kind == types.Array {
		lit.Kind = ir.LitArray
	}
	return ir.LiteralUse(t, lit), nil
}

// checkUseAnnotation reads a use's trailing ": type" annotation and checks
// it against def's actual type. A definition that is itself a not-yet-filled
// instruction placeholder (a forward reference within the same body, spec
// §4.5) has no type to check against yet; the verifier's own type recompute
// catches a genuine mismatch once the whole function is parsed.
func (p *Parser) checkUseAnnotation(tok token.Token, def ir.Definition) error {
	if err := p.expectKind(token.Colon); err != nil {
		return err
	}
	annStart := p.span()
	annotated, err := p.parseType()
	if err != nil {
		return err
	}
	if p.fn != nil && p.fn.isPendingInstruction(def) {
		return nil
	}
	if !types.Equal(annotated, def.Type()) {
		return newError(TypeMismatch, annStart, "use of %q annotated %s, but its definition has type %s", tok.Text, annotated, def.Type())
	}
	return nil
}

// resolveLocal looks up a "%name" reference against the current function's
// local namespace, falling back to the anonymous "%<block>.<inst>" or
// "%<block>^<arg>" forms of spec §4.5 when the name was never bound to a
// local identifier.
func (p *Parser) resolveLocal(tok token.Token) (ir.Definition, error) {
	if p.fn == nil {
		return nil, newError(NotInBasicBlock, tok.Span, "value reference outside a function body")
	}
	name := sigilName(tok)
	if def, ok := p.fn.locals[name]; ok {
		return def, nil
	}
	if def, ok := p.resolveAnonymous(name); ok {
		return def, nil
	}
	return nil, newError(UndefinedIdentifier, tok.Span, "undefined value %%%s", name)
}

func (p *Parser) resolveAnonymous(text string) (ir.Definition, bool) {
	if i := strings.IndexByte(text, '.'); i >= 0 {
		bi, err1 := strconv.Atoi(text[:i])
		ii, err2 := strconv.Atoi(text[i+1:])
		if err1 == nil && err2 == nil && bi >= 0 && bi < len(p.fn.fn.Blocks) {
			b := p.fn.fn.Blocks[bi]
			if ii >= 0 && ii < len(b.Instructions) {
				return b.Instructions[ii], true
			}
		}
		return nil, false
	}
	if i := strings.IndexByte(text, '^'); i >= 0 {
		bi, err1 := strconv.Atoi(text[:i])
		ai, err2 := strconv.Atoi(text[i+1:])
		if err1 == nil && err2 == nil && bi >= 0 && bi < len(p.fn.fn.Blocks) {
			b := p.fn.fn.Blocks[bi]
			if ai >= 0 && ai < len(b.Arguments) {
				return b.Arguments[ai], true
			}
		}
		return nil, false
	}
	return nil, false
}

// parseRawLiteral reads a literal's surface syntax without yet knowing its
// trailing type annotation (needed only to tell a bracket list's tensor vs
// array Kind apart; parseUse finalizes that afterward).
func (p *Parser) parseRawLiteral() (ir.Literal, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		switch tok.Text {
		case "undefined":
			p.advance()
			return ir.Literal{Kind: ir.LitUndefined}, nil
		case "zero":
			p.advance()
			return ir.Literal{Kind: ir.LitZero}, nil
		case "null":
			p.advance()
			return ir.Literal{Kind: ir.LitNull}, nil
		case "true":
			p.advance()
			return ir.Literal{Kind: ir.LitBool, Bool: true}, nil
		case "false":
			p.advance()
			return ir.Literal{Kind: ir.LitBool, Bool: false}, nil
		}
		return ir.Literal{}, p.unexpected(tok, "a literal")
	case token.IntLit:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return ir.Literal{}, newError(UnexpectedToken, tok.Span, "invalid integer literal %q", tok.Text)
		}
		return ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: n}}, nil
	case token.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return ir.Literal{}, newError(UnexpectedToken, tok.Span, "invalid float literal %q", tok.Text)
		}
		return ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{IsFloat: true, Float: f}}, nil
	case token.LBracket:
		elems, err := p.parseUseList(token.LBracket, token.RBracket)
		if err != nil {
			return ir.Literal{}, err
		}
		return ir.Literal{Kind: ir.LitTensor, Elements: elems}, nil
	case token.LParen:
		elems, err := p.parseUseList(token.LParen, token.RParen)
		if err != nil {
			return ir.Literal{}, err
		}
		return ir.Literal{Kind: ir.LitTuple, Elements: elems}, nil
	case token.LBrace:
		fields, err := p.parseFieldList()
		if err != nil {
			return ir.Literal{}, err
		}
		return ir.Literal{Kind: ir.LitStruct, Fields: fields}, nil
	case token.EnumCase:
		p.advance()
		name := sigilName(tok)
		var args []ir.Use
		if p.at(token.LParen) {
			var err error
			args, err = p.parseUseList(token.LParen, token.RParen)
			if err != nil {
				return ir.Literal{}, err
			}
		}
		return ir.Literal{Kind: ir.LitEnumCase, CaseName: name, CaseArgs: args}, nil
	default:
		return ir.Literal{}, p.unexpected(tok, "a literal")
	}
}

// parseUseList reads a comma-separated, bracket-delimited Use list.
func (p *Parser) parseUseList(open, close token.Kind) ([]ir.Use, error) {
	if err := p.expectKind(open); err != nil {
		return nil, err
	}
	var out []ir.Use
	if !p.at(close) {
		for {
			u, err := p.parseUse()
			if err != nil {
				return nil, err
			}
			out = append(out, u)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(close); err != nil {
		return nil, err
	}
	return out, nil
}

// parseFieldList reads a "{" #name = use, ... "}" struct literal body.
func (p *Parser) parseFieldList() ([]ir.NamedUse, error) {
	if err := p.expectKind(token.LBrace); err != nil {
		return nil, err
	}
	var out []ir.NamedUse
	if !p.at(token.RBrace) {
		for {
			name, err := p.expectField()
			if err != nil {
				return nil, err
			}
			if err := p.expectKind(token.Equals); err != nil {
				return nil, err
			}
			u, err := p.parseUse()
			if err != nil {
				return nil, err
			}
			out = append(out, ir.NamedUse{Name: name, Value: u})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBrace); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) expectField() (string, error) {
	tok := p.peek()
	if tok.Kind != token.Field {
		return "", p.unexpected(tok, "a field name")
	}
	p.advance()
	return sigilName(tok), nil
}
