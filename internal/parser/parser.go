package parser

import (
	"github.com/dan-zheng/GPIR/internal/diag"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/token"
)

// Options configures a parse run, mirroring the teacher's parser.Options
// shape. Parse reads only Reporter, an externally supplied diagnostic sink
// that receives the parse error; Trace and MaxErrors are not read.
type Options struct {
	Trace     bool
	MaxErrors int
	Reporter  *diag.Bag
}

// Result is everything a successful parse produces.
type Result struct {
	Module *ir.Module
	Bag    *diag.Bag
}

// Parser holds the mutable state of one parse run: the token cursor, the
// module symbol table built by phase 1, the in-progress *ir.Module, and
// (while inside a function body) the active per-function symbol table.
type Parser struct {
	cursor

	opts     Options
	bag      *diag.Bag
	registry ir.IntrinsicRegistry

	module *ir.Module
	mod    *moduleSymbols
	fn     *funcSymbols
}

// Parse runs the two-phase parse of spec §4.5 over an already-tokenized
// source, returning a fully-typed *ir.Module or the first ParseError
// encountered.
func Parse(toks []token.Token, registry ir.IntrinsicRegistry, opts Options) (*Result, error) {
	bag := opts.Reporter
	if bag == nil {
		bag = diag.NewBag()
	}
	p := &Parser{
		cursor:   cursor{toks: toks},
		opts:     opts,
		bag:      bag,
		registry: registry,
		mod:      newModuleSymbols(),
	}

	name, stage, err := p.parseModuleHeader()
	if err != nil {
		p.report(err)
		return nil, err
	}
	p.module = ir.NewModule(name, stage)

	if err := p.scanNominal(); err != nil {
		p.report(err)
		return nil, err
	}
	if err := p.scanSignatures(); err != nil {
		p.report(err)
		return nil, err
	}
	if err := p.parseBodies(); err != nil {
		p.report(err)
		return nil, err
	}

	return &Result{Module: p.module, Bag: p.bag}, nil
}

func (p *Parser) report(err error) {
	if pe, ok := err.(*Error); ok {
		p.bag.Add(pe.Diagnostic())
	}
}

// --- small token-matching helpers -----------------------------------------

func (p *Parser) expectKind(k token.Kind) error {
	if !p.at(k) {
		return p.unexpected(p.peek(), k.String())
	}
	p.advance()
	return nil
}

func (p *Parser) unexpected(tok token.Token, want string) *Error {
	if tok.Kind == token.EOF {
		return newError(UnexpectedEndOfInput, tok.Span, "unexpected end of input, expected %s", want)
	}
	return newError(UnexpectedToken, tok.Span, "unexpected token %q, expected %s", tok.Text, want)
}

// parseModuleHeader reads the "module Name" / "stage raw|optimizable"
// preamble.
func (p *Parser) parseModuleHeader() (string, ir.Stage, error) {
	p.skipNewlines()
	if err := p.expectIdent("module"); err != nil {
		return "", 0, err
	}
	nameTok := p.peek()
	if nameTok.Kind != token.StringLit {
		return "", 0, p.unexpected(nameTok, "a module name string")
	}
	p.advance()
	p.skipNewlines()
	stage := ir.StageRaw
	if p.atIdent("stage") {
		p.advance()
		tok := p.peek()
		switch {
		case tok.Kind == token.Ident && tok.Text == "raw":
			p.advance()
			stage = ir.StageRaw
		case tok.Kind == token.Ident && tok.Text == "optimizable":
			p.advance()
			stage = ir.StageOptimizable
		default:
			return "", 0, p.unexpected(tok, "'raw' or 'optimizable'")
		}
		p.skipNewlines()
	}
	return nameTok.Text, stage, nil
}

// skipBalanced advances past a balanced run of (), [], {} starting at the
// current token (which must be one of the three openers), used by the
// symbol-scan passes to jump over bodies they don't need to parse yet.
func (p *Parser) skipBalanced() {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.EOF:
			return
		}
		p.advance()
		if depth == 0 {
			return
		}
	}
}

// skipToNewlineBalanced advances to the next top-level Newline, treating
// nested (), [], {} as opaque so a multi-line aggregate literal doesn't
// prematurely end the skip.
func (p *Parser) skipToNewlineBalanced() {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.Newline:
			if depth == 0 {
				return
			}
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
	}
}
