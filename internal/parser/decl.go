package parser

import (
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/token"
	"github.com/dan-zheng/GPIR/internal/types"
)

// scanNominal is phase 1's first sweep (spec §4.5): register every nominal
// type name's handle ahead of parsing any body, so a forward or mutually
// recursive "$Name" reference resolves during the second sweep and the main
// pass alike.
func (p *Parser) scanNominal() error {
	pos0 := p.save()
	defer p.restore(pos0)

	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return nil
		}
		if depth == 0 && tok.Kind == token.Ident {
			switch tok.Text {
			case "type":
				p.advance()
				nameTok := p.peek()
				if nameTok.Kind != token.TypeName {
					return p.unexpected(nameTok, "a type name")
				}
				p.advance()
				name := sigilName(nameTok)
				if _, exists := p.mod.nominal[name]; exists {
					return newError(RedefinedIdentifier, nameTok.Span, "type %q already defined", name)
				}
				a := p.module.Nominal.NewAlias(name, nil)
				p.mod.nominal[name] = &nominalEntry{kind: nominalAlias, alias: a}
				continue
			case "struct":
				p.advance()
				nameTok := p.peek()
				if nameTok.Kind != token.TypeName {
					return p.unexpected(nameTok, "a type name")
				}
				p.advance()
				name := sigilName(nameTok)
				if _, exists := p.mod.nominal[name]; exists {
					return newError(RedefinedIdentifier, nameTok.Span, "type %q already defined", name)
				}
				s := p.module.Nominal.NewStruct(name, nil)
				p.mod.nominal[name] = &nominalEntry{kind: nominalStruct, strct: s}
				continue
			case "enum":
				p.advance()
				nameTok := p.peek()
				if nameTok.Kind != token.TypeName {
					return p.unexpected(nameTok, "a type name")
				}
				p.advance()
				name := sigilName(nameTok)
				if _, exists := p.mod.nominal[name]; exists {
					return newError(RedefinedIdentifier, nameTok.Span, "type %q already defined", name)
				}
				e := p.module.Nominal.NewEnum(name, nil)
				p.mod.nominal[name] = &nominalEntry{kind: nominalEnum, enm: e}
				continue
			}
		}
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
	}
}

// scanSignatures is phase 1's second sweep: build every global Variable and
// Function shell (fully typed, attributes and declaration kind resolved)
// ahead of any body, so both initializers and call/branch targets resolve
// forward.
func (p *Parser) scanSignatures() error {
	pos0 := p.save()
	defer p.restore(pos0)

	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return nil
		}
		if tok.Kind == token.Ident {
			switch tok.Text {
			case "type":
				p.advance()
				p.advance()
				p.skipToNewlineBalanced()
				continue
			case "struct", "enum":
				p.advance()
				p.advance()
				p.skipBalanced()
				continue
			case "var":
				if err := p.scanVariableHeader(); err != nil {
					return err
				}
				continue
			case "func":
				if err := p.scanFunctionHeader(); err != nil {
					return err
				}
				continue
			}
		}
		p.advance()
	}
}

func (p *Parser) scanVariableHeader() error {
	p.advance() // 'var'
	nameTok := p.peek()
	if nameTok.Kind != token.Global {
		return p.unexpected(nameTok, "a global name")
	}
	p.advance()
	name := sigilName(nameTok)
	if _, exists := p.mod.globals[name]; exists {
		return newError(RedefinedIdentifier, nameTok.Span, "global %q already defined", name)
	}
	if len(p.module.Functions) > 0 {
		return newError(VariableAfterFunction, nameTok.Span, "variable %q declared after a function", name)
	}
	if n, ok := anonymousIndex(name); ok && n != len(p.module.Variables) {
		return newError(InvalidVariableIndex, nameTok.Span, "anonymous variable @%d must equal the variable count %d so far", n, len(p.module.Variables))
	}
	if err := p.expectKind(token.Colon); err != nil {
		return err
	}
	t, err := p.parseType()
	if err != nil {
		return err
	}
	v := &ir.Variable{Name: name, ElemType: t}
	p.mod.globals[name] = v
	p.module.AppendVariable(v)
	p.skipToNewlineBalanced()
	return nil
}

func (p *Parser) scanFunctionHeader() error {
	p.advance() // 'func'
	nameTok := p.peek()
	if nameTok.Kind != token.Global {
		return p.unexpected(nameTok, "a function name")
	}
	p.advance()
	name := sigilName(nameTok)
	if _, exists := p.mod.funcs[name]; exists {
		return newError(RedefinedIdentifier, nameTok.Span, "function %q already defined", name)
	}
	if n, ok := anonymousIndex(name); ok {
		if want := len(p.module.Variables) + len(p.module.Functions); n != want {
			return newError(InvalidFunctionIndex, nameTok.Span, "anonymous function @%d must equal the variable+function count %d so far", n, want)
		}
	}
	if err := p.expectKind(token.Colon); err != nil {
		return err
	}
	args, ret, err := p.parseFuncSignature()
	if err != nil {
		return err
	}
	attrs, decl, err := p.parseFuncTail()
	if err != nil {
		return err
	}
	fn := &ir.Function{Name: name, ArgTypes: args, ReturnType: ret, Attrs: attrs, Decl: decl}
	p.mod.funcs[name] = &funcEntry{fn: fn}
	p.module.AppendFunction(fn)
	if p.at(token.LBrace) {
		p.skipBalanced()
	}
	return nil
}

// parseFuncSignature reads "(" type, ... ")" "->" type.
func (p *Parser) parseFuncSignature() ([]types.Type, types.Type, error) {
	if err := p.expectKind(token.LParen); err != nil {
		return nil, types.Type{}, err
	}
	var args []types.Type
	if !p.at(token.RParen) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, types.Type{}, err
			}
			args = append(args, t)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RParen); err != nil {
		return nil, types.Type{}, err
	}
	if err := p.expectKind(token.Arrow); err != nil {
		return nil, types.Type{}, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, types.Type{}, err
	}
	return args, ret, nil
}

// parseFuncTail reads the optional attribute/declaration-kind suffix after
// a function signature: any number of bare attribute keywords (inline),
// then at most one of "extern" or "adjoint of @primal [source N] arg
// [i,...] keep [i,...] [seedable]".
func (p *Parser) parseFuncTail() (map[ir.Attribute]struct{}, *ir.DeclarationKind, error) {
	var attrs map[ir.Attribute]struct{}
	for p.atIdent("inline") {
		p.advance()
		if attrs == nil {
			attrs = make(map[ir.Attribute]struct{})
		}
		attrs[ir.AttrInline] = struct{}{}
	}
	switch {
	case p.atIdent("extern"):
		p.advance()
		return attrs, &ir.DeclarationKind{Tag: ir.DeclExternal}, nil
	case p.atIdent("adjoint"):
		p.advance()
		if err := p.expectIdent("of"); err != nil {
			return nil, nil, err
		}
		primalTok := p.peek()
		if primalTok.Kind != token.Global {
			return nil, nil, p.unexpected(primalTok, "a primal function name")
		}
		p.advance()
		primalName := sigilName(primalTok)
		primalEntry, ok := p.mod.funcs[primalName]
		if !ok {
			return nil, nil, newError(UndefinedIdentifier, primalTok.Span, "undefined primal function %q", primalName)
		}
		sourceIndex := 0
		if p.atIdent("source") {
			p.advance()
			n, err := p.parseIntLit()
			if err != nil {
				return nil, nil, err
			}
			sourceIndex = int(n)
		}
		if err := p.expectIdent("arg"); err != nil {
			return nil, nil, err
		}
		argIndices, err := p.parseIntList()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expectIdent("keep"); err != nil {
			return nil, nil, err
		}
		keptIndices, err := p.parseIntList()
		if err != nil {
			return nil, nil, err
		}
		seedable := false
		if p.atIdent("seedable") {
			p.advance()
			seedable = true
		}
		return attrs, &ir.DeclarationKind{
			Tag:             ir.DeclAdjoint,
			Primal:          primalEntry.fn,
			SourceIndex:     sourceIndex,
			ArgumentIndices: argIndices,
			KeptIndices:     keptIndices,
			IsSeedable:      seedable,
		}, nil
	}
	return attrs, nil, nil
}

// parseBodies is phase 2: fill in every nominal type's body, every global's
// initializer, and every function's block list.
func (p *Parser) parseBodies() error {
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return nil
		}
		if tok.Kind != token.Ident {
			p.advance()
			continue
		}
		switch tok.Text {
		case "type":
			if err := p.parseAliasBody(); err != nil {
				return err
			}
		case "struct":
			if err := p.parseStructBody(); err != nil {
				return err
			}
		case "enum":
			if err := p.parseEnumBody(); err != nil {
				return err
			}
		case "var":
			if err := p.parseVariableBody(); err != nil {
				return err
			}
		case "func":
			if err := p.parseFunctionBody(); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseAliasBody() error {
	p.advance() // 'type'
	nameTok := p.advance()
	name := sigilName(nameTok)
	entry := p.mod.nominal[name].alias
	if p.at(token.Equals) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return err
		}
		entry.Underlying = &t
	}
	return nil
}

func (p *Parser) parseStructBody() error {
	p.advance() // 'struct'
	nameTok := p.advance()
	name := sigilName(nameTok)
	entry := p.mod.nominal[name].strct
	if err := p.expectKind(token.LBrace); err != nil {
		return err
	}
	var fields []ir.StructField
	if !p.at(token.RBrace) {
		for {
			fname, err := p.expectField()
			if err != nil {
				return err
			}
			if err := p.expectKind(token.Colon); err != nil {
				return err
			}
			t, err := p.parseType()
			if err != nil {
				return err
			}
			fields = append(fields, ir.StructField{Name: fname, Type: t})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBrace); err != nil {
		return err
	}
	entry.Fields = fields
	return nil
}

func (p *Parser) parseEnumBody() error {
	p.advance() // 'enum'
	nameTok := p.advance()
	name := sigilName(nameTok)
	entry := p.mod.nominal[name].enm
	if err := p.expectKind(token.LBrace); err != nil {
		return err
	}
	var cases []ir.EnumCase
	if !p.at(token.RBrace) {
		for {
			caseTok := p.peek()
			if caseTok.Kind != token.EnumCase {
				return p.unexpected(caseTok, "an enum case name")
			}
			p.advance()
			caseName := sigilName(caseTok)
			var assoc []types.Type
			if p.at(token.LParen) {
				p.advance()
				if !p.at(token.RParen) {
					for {
						t, err := p.parseType()
						if err != nil {
							return err
						}
						assoc = append(assoc, t)
						if p.at(token.Comma) {
							p.advance()
							continue
						}
						break
					}
				}
				if err := p.expectKind(token.RParen); err != nil {
					return err
				}
			}
			cases = append(cases, ir.EnumCase{Name: caseName, Associated: assoc})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBrace); err != nil {
		return err
	}
	entry.Cases = cases
	return nil
}

func (p *Parser) parseVariableBody() error {
	p.advance() // 'var'
	nameTok := p.advance()
	name := sigilName(nameTok)
	v := p.mod.globals[name]
	if err := p.expectKind(token.Colon); err != nil {
		return err
	}
	if _, err := p.parseType(); err != nil {
		return err
	}
	if p.at(token.Equals) {
		p.advance()
		lit, err := p.parseRawLiteral()
		if err != nil {
			return err
		}
		if lit.Kind == ir.LitTensor && v.ElemType.Kind == types.Array {
			lit.Kind = ir.LitArray
		}
		use := ir.LiteralUse(v.ElemType, lit)
		v.Initial = &use
	}
	return nil
}

func (p *Parser) parseFunctionBody() error {
	p.advance() // 'func'
	nameTok := p.advance()
	name := sigilName(nameTok)
	entry := p.mod.funcs[name]
	fn := entry.fn
	if err := p.expectKind(token.Colon); err != nil {
		return err
	}
	if _, _, err := p.parseFuncSignature(); err != nil {
		return err
	}
	if _, _, err := p.parseFuncTail(); err != nil {
		return err
	}
	if !p.at(token.LBrace) {
		return nil
	}
	p.advance() // '{'

	fsyms := newFuncSymbols(fn)
	if err := p.prescanBlocks(fn, fsyms); err != nil {
		return err
	}
	prevFn := p.fn
	p.fn = fsyms
	for bi, b := range fn.Blocks {
		p.skipNewlines()
		if err := p.consumeBlockHeaderTokens(); err != nil {
			p.fn = prevFn
			return err
		}
		for instPos := 0; instPos < len(b.Instructions); instPos++ {
			p.skipNewlines()
			fsyms.curBlock = bi
			fsyms.curInst = instPos
			if err := p.fillInstruction(b.Instructions[instPos]); err != nil {
				p.fn = prevFn
				return err
			}
		}
	}
	p.fn = prevFn
	p.skipNewlines()
	return p.expectKind(token.RBrace)
}

// prescanBlocks registers every block header in fn's body (names and typed
// arguments), and a placeholder for every instruction statement it contains
// (spec §4.5), before any instruction body is parsed. This lets a branch
// target a block declared later in the function and lets an instruction
// reference a later instruction's anonymous "%<b>.<i>" name -- such a
// reference resolves during parsing, and a use that its definition does not
// dominate is rejected later by the verifier's dominance check.
func (p *Parser) prescanBlocks(fn *ir.Function, fsyms *funcSymbols) error {
	pos0 := p.save()
	defer p.restore(pos0)

	for {
		p.skipNewlines()
		if p.at(token.RBrace) || p.at(token.EOF) {
			return nil
		}
		tok := p.peek()
		if tok.Kind != token.BlockLabel {
			return p.unexpected(tok, "a block label")
		}
		p.advance()
		name := sigilName(tok)
		if n, ok := anonymousIndex(name); ok && n != len(fn.Blocks) {
			return newError(InvalidBasicBlockIndex, tok.Span, "anonymous block '%d must equal the block count %d so far", n, len(fn.Blocks))
		}
		b := &ir.BasicBlock{Name: name}
		if p.at(token.LParen) {
			p.advance()
			if !p.at(token.RParen) {
				for {
					argTok := p.peek()
					if argTok.Kind != token.Temp {
						return p.unexpected(argTok, "a block argument")
					}
					p.advance()
					if err := p.expectKind(token.Colon); err != nil {
						return err
					}
					t, err := p.parseType()
					if err != nil {
						return err
					}
					b.AppendArgument(&ir.Argument{Name: sigilName(argTok), Typ: t})
					if p.at(token.Comma) {
						p.advance()
						continue
					}
					break
				}
			}
			if err := p.expectKind(token.RParen); err != nil {
				return err
			}
		}
		if err := p.expectKind(token.Colon); err != nil {
			return err
		}
		fn.AppendBlock(b)
		bi := len(fn.Blocks) - 1
		fsyms.blocks[name] = &blockEntry{block: b}
		for _, a := range b.Arguments {
			fsyms.defineLocal(a.Name, a)
		}
		if err := p.prescanInstructions(b, bi, fsyms); err != nil {
			return err
		}
	}
}

// prescanInstructions walks block b's statement list, recording a bare
// *ir.Instruction placeholder (name only) for each one without parsing its
// operands. The placeholder's pointer identity is what a forward reference
// captures; parseFunctionBody's second pass fills in the same pointer in
// place once it reaches that statement.
func (p *Parser) prescanInstructions(b *ir.BasicBlock, bi int, fsyms *funcSymbols) error {
	for {
		p.skipNewlines()
		if p.at(token.BlockLabel) || p.at(token.RBrace) || p.at(token.EOF) {
			return nil
		}
		name := ""
		var nameTok token.Token
		if p.at(token.Temp) && p.peekAt(1).Kind == token.Equals {
			nameTok = p.advance()
			p.advance() // '='
			name = sigilName(nameTok)
		}
		instPos := len(b.Instructions)
		inst := &ir.Instruction{Name: name}
		b.AppendInstruction(inst)
		if name != "" {
			if ab, ai, ok := anonymousInstructionIndex(name); ok && (ab != bi || ai != instPos) {
				return newError(InvalidInstructionIndex, nameTok.Span,
					"anonymous instruction %%%s must equal the current block and instruction count %d.%d", name, bi, instPos)
			}
			fsyms.defineLocal(name, inst)
		}
		p.skipToNewlineBalanced()
	}
}

func (p *Parser) consumeBlockHeaderTokens() error {
	tok := p.peek()
	if tok.Kind != token.BlockLabel {
		return p.unexpected(tok, "a block label")
	}
	p.advance()
	if p.at(token.LParen) {
		p.advance()
		if !p.at(token.RParen) {
			for {
				if err := p.expectKind(token.Temp); err != nil {
					return err
				}
				if err := p.expectKind(token.Colon); err != nil {
					return err
				}
				if _, err := p.parseType(); err != nil {
					return err
				}
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		if err := p.expectKind(token.RParen); err != nil {
			return err
		}
	}
	return p.expectKind(token.Colon)
}
