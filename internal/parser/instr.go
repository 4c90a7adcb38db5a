package parser

import (
	"strconv"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/token"
	"github.com/dan-zheng/GPIR/internal/types"
)

func strconvParseInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

// fillInstruction reads one instruction statement -- an optional "%name ="
// binding, a mnemonic, and the mnemonic's operand grammar -- and fills its
// Op/Kind/Typ/Span into target, an instruction placeholder already attached
// to its block by prescanInstructions. target.Name was recorded by that
// prescan and is left untouched here.
func (p *Parser) fillInstruction(target *ir.Instruction) error {
	start := p.span()
	name := ""
	if p.at(token.Temp) && p.peekAt(1).Kind == token.Equals {
		name = sigilName(p.advance())
		p.advance() // '='
	}
	mnemonic := p.peek()
	if mnemonic.Kind != token.Ident {
		return p.unexpected(mnemonic, "an instruction mnemonic")
	}
	p.advance()

	op, kind, err := p.parseInstructionBody(mnemonic)
	if err != nil {
		return err
	}

	resultType, inferErr := ir.Infer(op, kind, &p.module.Nominal, p.registry)
	if inferErr != nil {
		return newError(InvalidOperands, start, "%s", inferErr.Error())
	}
	if resultType.IsVoid() && name != "" {
		return newError(CannotNameVoidValue, start, "%q produces no value and cannot be named", mnemonic.Text)
	}

	target.Op = op
	target.Kind = kind
	target.Typ = resultType
	target.Span = start.Cover(p.span())
	return nil
}

func (p *Parser) parseInstructionBody(mnemonic token.Token) (ir.Opcode, ir.InstructionKind, error) {
	text := mnemonic.Text
	if op, ok := numericUnaryNames[text]; ok {
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpNumericUnary, ir.InstructionKind{NumericUnary: ir.NumericUnaryInst{Op: op, Value: v}}, nil
	}
	if op, ok := numericBinaryNames[text]; ok {
		lhs, rhs, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpNumericBinary, ir.InstructionKind{NumericBinary: ir.NumericBinaryInst{Op: op, LHS: lhs, RHS: rhs}}, nil
	}
	if op, ok := booleanBinaryNames[text]; ok {
		lhs, rhs, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpBooleanBinary, ir.InstructionKind{BooleanBinary: ir.BooleanBinaryInst{Op: op, LHS: lhs, RHS: rhs}}, nil
	}
	if op, ok := compareNames[text]; ok {
		lhs, rhs, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpCompare, ir.InstructionKind{Compare: ir.CompareInst{Op: op, LHS: lhs, RHS: rhs}}, nil
	}

	switch text {
	case "literal":
		lit, err := p.parseRawLiteral()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectKind(token.Colon); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if lit.Kind == ir.LitTensor && t.Kind == types.Array {
			lit.Kind = ir.LitArray
		}
		return ir.OpLiteral, ir.InstructionKind{Literal: ir.LiteralInst{Type: t, Value: lit}}, nil

	case "not":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpNot, ir.InstructionKind{Not: ir.NotInst{Value: v}}, nil

	case "dot":
		lhs, rhs, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpDot, ir.InstructionKind{Dot: ir.DotInst{LHS: lhs, RHS: rhs}}, nil

	case "concatenate":
		vals, err := p.parseUseList(token.LBracket, token.RBracket)
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("axis"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		axis, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpConcatenate, ir.InstructionKind{Concatenate: ir.ConcatenateInst{Values: vals, Axis: int(axis)}}, nil

	case "transpose":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpTranspose, ir.InstructionKind{Transpose: ir.TransposeInst{Value: v}}, nil

	case "reverse":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("dims"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		dims, err := p.parseIntList()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpReverse, ir.InstructionKind{Reverse: ir.ReverseInst{Value: v, Dims: dims}}, nil

	case "slice":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("range"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		start, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		count, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpSlice, ir.InstructionKind{Slice: ir.SliceInst{Value: v, Range: ir.RangeSpec{Start: start, Count: count}}}, nil

	case "random":
		dims, dt, err := p.parseInlineShape()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		lo, hi, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpRandom, ir.InstructionKind{Random: ir.RandomInst{Shape: shape.New(dims...), DataType: dt, Low: lo, High: hi}}, nil

	case "select":
		then, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectKind(token.Comma); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		els, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectKind(token.Comma); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		by, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpSelect, ir.InstructionKind{Select: ir.SelectInst{Then: then, Else: els, By: by}}, nil

	case "reduce":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		comb, err := p.parseCombinator()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("initial"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		initial, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("dims"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		dims, err := p.parseIntList()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpReduce, ir.InstructionKind{Reduce: ir.ReduceInst{Combinator: comb, Value: v, Initial: initial, Dims: dims}}, nil

	case "scan":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		comb, err := p.parseCombinator()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("dims"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		dims, err := p.parseIntList()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpScan, ir.InstructionKind{Scan: ir.ScanInst{Combinator: comb, Value: v, Dims: dims}}, nil

	case "reduce_window":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		comb, err := p.parseCombinator()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("initial"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		initial, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("window"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		window, err := p.parseInt64List()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("strides"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		strides, err := p.parseInt64List()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("padding"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		pad, err := p.parsePaddingList()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpReduceWindow, ir.InstructionKind{ReduceWindow: ir.ReduceWindowInst{
			Combinator: comb, Value: v, Initial: initial, WindowDims: window, Strides: strides, Padding: pad,
		}}, nil

	case "convolve":
		lhs, kernel, err := p.parseTwoUses()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("strides"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		strides, err := p.parseInt64List()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("padding"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		pad, err := p.parsePaddingList()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("lhs_dilation"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		lhsDil, err := p.parseInt64List()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("rhs_dilation"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		rhsDil, err := p.parseInt64List()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("groups"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		groups, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpConvolve, ir.InstructionKind{Convolve: ir.ConvolveInst{
			LHS: lhs, Kernel: kernel, Strides: strides, Padding: pad,
			LhsDilation: lhsDil, RhsDilation: rhsDil, Groups: groups,
		}}, nil

	case "rank":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpRank, ir.InstructionKind{Rank: ir.RankInst{Value: v}}, nil

	case "shape":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpShapeOf, ir.InstructionKind{ShapeOf: ir.ShapeOfInst{Value: v}}, nil

	case "unit_count":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpUnitCount, ir.InstructionKind{UnitCount: ir.UnitCountInst{Value: v}}, nil

	case "pad_shape":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("at"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		at, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpPadShape, ir.InstructionKind{PadShape: ir.PadShapeInst{Value: v, At: int(at)}}, nil

	case "squeeze_shape":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("at"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		at, err := p.parseIntLit()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpSqueezeShape, ir.InstructionKind{SqueezeShape: ir.SqueezeShapeInst{Value: v, At: int(at)}}, nil

	case "shape_cast":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("to"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if t.Kind != types.Tensor {
			return 0, ir.InstructionKind{}, newError(TypeMismatch, mnemonic.Span, "shape_cast target must be a tensor type")
		}
		return ir.OpShapeCast, ir.InstructionKind{ShapeCast: ir.ShapeCastInst{Value: v, Target: t.Shape}}, nil

	case "bit_cast":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("to"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpBitCast, ir.InstructionKind{BitCast: ir.BitCastInst{Value: v, Target: t}}, nil

	case "data_type_cast":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("to"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		dt, err := p.parseDataType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpDataTypeCast, ir.InstructionKind{DataTypeCast: ir.DataTypeCastInst{Value: v, Target: dt}}, nil

	case "extract":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("keys"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		keys, err := p.parseElementKeys()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpExtract, ir.InstructionKind{Extract: ir.ExtractInst{From: v, Keys: keys}}, nil

	case "insert":
		src, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("into"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		to, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("keys"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		keys, err := p.parseElementKeys()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpInsert, ir.InstructionKind{Insert: ir.InsertInst{Src: src, To: to, Keys: keys}}, nil

	case "apply":
		callee, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		args, err := p.parseUseList(token.LParen, token.RParen)
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpApply, ir.InstructionKind{Apply: ir.ApplyInst{Callee: callee, Args: args}}, nil

	case "allocate_stack":
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("count"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		count, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpAllocateStack, ir.InstructionKind{AllocateStack: ir.AllocateStackInst{ElemType: t, Count: count}}, nil

	case "allocate_heap":
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("count"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		count, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpAllocateHeap, ir.InstructionKind{AllocateHeap: ir.AllocateHeapInst{ElemType: t, Count: count}}, nil

	case "allocate_box":
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpAllocateBox, ir.InstructionKind{AllocateBox: ir.AllocateBoxInst{ElemType: t}}, nil

	case "project_box":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpProjectBox, ir.InstructionKind{ProjectBox: ir.ProjectBoxInst{Value: v}}, nil

	case "load":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpLoad, ir.InstructionKind{Load: ir.LoadInst{Pointer: v}}, nil

	case "store":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("into"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		ptr, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpStore, ir.InstructionKind{Store: ir.StoreInst{Value: v, Pointer: ptr}}, nil

	case "element_pointer":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("keys"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		keys, err := p.parseElementKeys()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpElementPointer, ir.InstructionKind{ElementPointer: ir.ElementPointerInst{Pointer: v, Keys: keys}}, nil

	case "copy":
		from, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("to"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		to, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("count"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		count, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpCopy, ir.InstructionKind{Copy: ir.CopyInst{From: from, To: to, Count: count}}, nil

	case "create_stack":
		return ir.OpCreateStack, ir.InstructionKind{}, nil

	case "destroy_stack":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpDestroyStack, ir.InstructionKind{DestroyStack: ir.DestroyStackInst{Stack: v}}, nil

	case "push":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("onto"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		stack, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpPush, ir.InstructionKind{Push: ir.PushInst{Value: v, Stack: stack}}, nil

	case "pop":
		t, err := p.parseType()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("from"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		stack, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpPop, ir.InstructionKind{Pop: ir.PopInst{ElemType: t, Stack: stack}}, nil

	case "retain":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpRetain, ir.InstructionKind{Retain: ir.RetainInst{Value: v}}, nil

	case "release":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpRelease, ir.InstructionKind{Release: ir.ReleaseInst{Value: v}}, nil

	case "deallocate":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpDeallocate, ir.InstructionKind{Deallocate: ir.DeallocateInst{Value: v}}, nil

	case "branch":
		target, args, err := p.parseBranchTarget()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpBranch, ir.InstructionKind{Branch: ir.BranchInst{Target: target, Args: args}}, nil

	case "conditional":
		cond, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("then"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		thenB, thenArgs, err := p.parseBranchTarget()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("else"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		elseB, elseArgs, err := p.parseBranchTarget()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpConditional, ir.InstructionKind{Conditional: ir.ConditionalInst{
			Cond: cond, Then: thenB, ThenArgs: thenArgs, Else: elseB, ElseArgs: elseArgs,
		}}, nil

	case "branch_enum":
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		if err := p.expectIdent("cases"); err != nil {
			return 0, ir.InstructionKind{}, err
		}
		cases, err := p.parseBranchEnumCases()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpBranchEnum, ir.InstructionKind{BranchEnum: ir.BranchEnumInst{Value: v, Cases: cases}}, nil

	case "return":
		if p.at(token.Newline) || p.at(token.EOF) {
			return ir.OpReturn, ir.InstructionKind{Return: ir.ReturnInst{HasValue: false}}, nil
		}
		v, err := p.parseUse()
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpReturn, ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: v}}, nil

	case "trap":
		return ir.OpTrap, ir.InstructionKind{}, nil

	case "builtin":
		nameTok := p.peek()
		if nameTok.Kind != token.StringLit {
			return 0, ir.InstructionKind{}, p.unexpected(nameTok, "a builtin name string")
		}
		p.advance()
		args, err := p.parseUseList(token.LParen, token.RParen)
		if err != nil {
			return 0, ir.InstructionKind{}, err
		}
		return ir.OpBuiltin, ir.InstructionKind{Builtin: ir.BuiltinInst{Name: nameTok.Text, Args: args}}, nil
	}

	return 0, ir.InstructionKind{}, newError(UnexpectedIdentifierKind, mnemonic.Span, "unknown instruction mnemonic %q", text)
}

func (p *Parser) parseTwoUses() (ir.Use, ir.Use, error) {
	a, err := p.parseUse()
	if err != nil {
		return ir.Use{}, ir.Use{}, err
	}
	if err := p.expectKind(token.Comma); err != nil {
		return ir.Use{}, ir.Use{}, err
	}
	b, err := p.parseUse()
	if err != nil {
		return ir.Use{}, ir.Use{}, err
	}
	return a, b, nil
}

func (p *Parser) expectIdent(text string) error {
	if !p.atIdent(text) {
		return p.unexpected(p.peek(), "'"+text+"'")
	}
	p.advance()
	return nil
}

func (p *Parser) parseIntLit() (int64, error) {
	tok := p.peek()
	if tok.Kind != token.IntLit {
		return 0, p.unexpected(tok, "an integer")
	}
	p.advance()
	return parseInt64Text(tok)
}

func parseInt64Text(tok token.Token) (int64, error) {
	n, err := strconvParseInt(tok.Text)
	if err != nil {
		return 0, newError(UnexpectedToken, tok.Span, "invalid integer %q", tok.Text)
	}
	return n, nil
}

func (p *Parser) parseIntList() ([]int, error) {
	if err := p.expectKind(token.LBracket); err != nil {
		return nil, err
	}
	var out []int
	if !p.at(token.RBracket) {
		for {
			n, err := p.parseIntLit()
			if err != nil {
				return nil, err
			}
			out = append(out, int(n))
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBracket); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseInt64List() ([]int64, error) {
	ints, err := p.parseIntList()
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(ints))
	for i, n := range ints {
		out[i] = int64(n)
	}
	return out, nil
}

func (p *Parser) parsePaddingList() ([]shape.Padding, error) {
	if err := p.expectKind(token.LBracket); err != nil {
		return nil, err
	}
	var out []shape.Padding
	if !p.at(token.RBracket) {
		for {
			if err := p.expectKind(token.LParen); err != nil {
				return nil, err
			}
			lo, err := p.parseIntLit()
			if err != nil {
				return nil, err
			}
			hi, err := p.parseIntLit()
			if err != nil {
				return nil, err
			}
			if err := p.expectKind(token.RParen); err != nil {
				return nil, err
			}
			out = append(out, shape.Padding{Low: lo, High: hi})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBracket); err != nil {
		return nil, err
	}
	return out, nil
}

// parseInlineShape reads "( dim ' x ' dim ... ' x ' dtype )", the random
// instruction's inline shape+dtype spec.
func (p *Parser) parseInlineShape() ([]int64, dtype.DataType, error) {
	if err := p.expectKind(token.LParen); err != nil {
		return nil, dtype.DataType{}, err
	}
	var dims []int64
	for {
		tok := p.peek()
		if tok.Kind != token.IntLit {
			return nil, dtype.DataType{}, p.unexpected(tok, "a dimension size")
		}
		p.advance()
		n, err := parseInt64Text(tok)
		if err != nil {
			return nil, dtype.DataType{}, err
		}
		dims = append(dims, n)
		if !p.atIdent("x") {
			break
		}
		if next := p.peekAt(1); next.Kind != token.IntLit {
			break
		}
		p.advance()
	}
	if err := p.expectXSeparator(); err != nil {
		return nil, dtype.DataType{}, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return nil, dtype.DataType{}, err
	}
	if err := p.expectKind(token.RParen); err != nil {
		return nil, dtype.DataType{}, err
	}
	return dims, dt, nil
}

func (p *Parser) parseElementKeys() ([]types.ElementKey, error) {
	if err := p.expectKind(token.LBracket); err != nil {
		return nil, err
	}
	var out []types.ElementKey
	if !p.at(token.RBracket) {
		for {
			k, err := p.parseElementKey()
			if err != nil {
				return nil, err
			}
			out = append(out, k)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBracket); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseElementKey() (types.ElementKey, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		n, err := parseInt64Text(tok)
		if err != nil {
			return types.ElementKey{}, err
		}
		return types.Index(int(n)), nil
	case token.Field:
		p.advance()
		return types.Name(sigilName(tok)), nil
	case token.Ident:
		if tok.Text == "value" {
			p.advance()
			u, err := p.parseUse()
			if err != nil {
				return types.ElementKey{}, err
			}
			return types.Value(u.Type()), nil
		}
	}
	return types.ElementKey{}, p.unexpected(tok, "an element key")
}

func (p *Parser) parseCombinator() (ir.ReductionCombinator, error) {
	if err := p.expectIdent("combinator"); err != nil {
		return ir.ReductionCombinator{}, err
	}
	tok := p.peek()
	if tok.Kind != token.Ident {
		return ir.ReductionCombinator{}, p.unexpected(tok, "a reduction combinator")
	}
	if tok.Text == "function" {
		p.advance()
		f, err := p.parseUse()
		if err != nil {
			return ir.ReductionCombinator{}, err
		}
		return ir.ReductionCombinator{Kind: ir.CombinatorFunction, Function: f}, nil
	}
	if tok.Text == "builtin" {
		p.advance()
		nameTok := p.peek()
		if nameTok.Kind != token.StringLit {
			return ir.ReductionCombinator{}, p.unexpected(nameTok, "a builtin name string")
		}
		p.advance()
		return ir.ReductionCombinator{Kind: ir.CombinatorNumericBuiltin, Builtin: nameTok.Text}, nil
	}
	if op, ok := booleanBinaryNames[tok.Text]; ok {
		p.advance()
		return ir.ReductionCombinator{Kind: ir.CombinatorBoolean, Boolean: op}, nil
	}
	if op, ok := numericBinaryNames[tok.Text]; ok {
		p.advance()
		return ir.ReductionCombinator{Kind: ir.CombinatorNumeric, Numeric: op}, nil
	}
	return ir.ReductionCombinator{}, newError(InvalidReductionCombinator, tok.Span, "invalid reduction combinator %q", tok.Text)
}

// parseBranchTarget reads "'label(use, use, ...)" with the argument list
// optional when the target takes no arguments.
func (p *Parser) parseBranchTarget() (*ir.BasicBlock, []ir.Use, error) {
	tok := p.peek()
	if tok.Kind != token.BlockLabel {
		return nil, nil, p.unexpected(tok, "a block label")
	}
	p.advance()
	entry, ok := p.fn.blocks[sigilName(tok)]
	if !ok {
		return nil, nil, newError(UndefinedIdentifier, tok.Span, "undefined block %q", tok.Text)
	}
	var args []ir.Use
	if p.at(token.LParen) {
		var err error
		args, err = p.parseUseList(token.LParen, token.RParen)
		if err != nil {
			return nil, nil, err
		}
	}
	return entry.block, args, nil
}

func (p *Parser) parseBranchEnumCases() ([]ir.BranchEnumCase, error) {
	if err := p.expectKind(token.LBracket); err != nil {
		return nil, err
	}
	var out []ir.BranchEnumCase
	if !p.at(token.RBracket) {
		for {
			nameTok := p.peek()
			if nameTok.Kind != token.EnumCase {
				return nil, p.unexpected(nameTok, "an enum case name")
			}
			p.advance()
			if err := p.expectKind(token.Colon); err != nil {
				return nil, err
			}
			target, _, err := p.parseBranchTarget()
			if err != nil {
				return nil, err
			}
			out = append(out, ir.BranchEnumCase{CaseName: sigilName(nameTok), Target: target})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKind(token.RBracket); err != nil {
		return nil, err
	}
	return out, nil
}
