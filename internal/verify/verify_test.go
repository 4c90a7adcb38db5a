package verify

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

type emptyRegistry struct{}

func (emptyRegistry) Intrinsic(string) (ir.Intrinsic, bool) { return nil, false }

func i32() types.Type { return types.ScalarOf(dtype.Int(32)) }

func litInst(name string, v int64) *ir.Instruction {
	return &ir.Instruction{
		Name: name, Op: ir.OpLiteral, Typ: i32(),
		Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: v}}}},
	}
}

func retVal(v ir.Use) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType, Kind: ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: v}}}
}

func retVoid() *ir.Instruction {
	return &ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType, Kind: ir.InstructionKind{Return: ir.ReturnInst{}}}
}

// buildGoodFunction builds a minimal, fully valid single-block function.
func buildGoodFunction() *ir.Function {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	one := litInst("one", 1)
	b.AppendInstruction(one)
	b.AppendInstruction(retVal(one.Use()))
	return f
}

func moduleOf(f *ir.Function) *ir.Module {
	m := &ir.Module{Name: "m"}
	m.AppendFunction(f)
	return m
}

func expectKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a verification error, got nil")
	}
	ve, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T, want *verify.Error", err)
	}
	if ve.Kind != want {
		t.Errorf("error kind = %v, want %v (message: %s)", ve.Kind, want, ve.Message)
	}
}

func TestVerifyAcceptsWellFormedFunction(t *testing.T) {
	if err := Verify(moduleOf(buildGoodFunction()), emptyRegistry{}); err != nil {
		t.Fatalf("unexpected verification error: %v", err)
	}
}

func TestVerifyUseBeforeDef(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	one := litInst("one", 1)
	ret := retVal(one.Use())
	// Appended out of order: the use (ret) precedes its definition (one).
	b.AppendInstruction(ret)
	b.AppendInstruction(one)

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, UseBeforeDef)
}

func TestVerifyReturnTypeMismatch(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.ScalarOf(dtype.Bool)}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	one := litInst("one", 1)
	b.AppendInstruction(one)
	b.AppendInstruction(retVal(one.Use()))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, ReturnTypeMismatch)
}

func TestVerifyReturnTypeMismatchVoidVsNonVoid(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	b.AppendInstruction(retVoid())

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, ReturnTypeMismatch)
}

func TestVerifyMissingTerminator(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	b.AppendInstruction(litInst("one", 1))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, MissingTerminator)
}

func TestVerifyMissingTerminatorEmptyBlock(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, MissingTerminator)
}

func TestVerifyTerminatorNotLast(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	one := litInst("one", 1)
	b.AppendInstruction(one)
	b.AppendInstruction(retVal(one.Use()))
	b.AppendInstruction(litInst("two", 2))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, TerminatorNotLast)
}

func TestVerifyDuplicateNameInBlock(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	a := litInst("dup", 1)
	c := litInst("dup", 2)
	b.AppendInstruction(a)
	b.AppendInstruction(c)
	b.AppendInstruction(retVal(c.Use()))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, DuplicateNameInBlock)
}

func TestVerifyDuplicateGlobalName(t *testing.T) {
	f1 := &ir.Function{Name: "dup", ReturnType: types.VoidType}
	f1.AppendBlock(&ir.BasicBlock{Name: "entry"})
	f1.Blocks[0].AppendInstruction(retVoid())
	f2 := &ir.Function{Name: "dup", ReturnType: types.VoidType}
	f2.AppendBlock(&ir.BasicBlock{Name: "entry"})
	f2.Blocks[0].AppendInstruction(retVoid())

	m := &ir.Module{Name: "m"}
	m.AppendFunction(f1)
	m.AppendFunction(f2)

	err := Verify(m, emptyRegistry{})
	expectKind(t, err, DuplicateGlobalName)
}

func TestVerifyMultipleEntryPoints(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	entry := &ir.BasicBlock{Name: "entry"}
	orphan := &ir.BasicBlock{Name: "orphan"}
	f.AppendBlock(entry)
	f.AppendBlock(orphan)
	entry.AppendInstruction(retVoid())
	orphan.AppendInstruction(retVoid())

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, MultipleEntryPoints)
}

func TestVerifyDeclarationWithBlocks(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType, Decl: &ir.DeclarationKind{Tag: ir.DeclExternal}}
	f.AppendBlock(&ir.BasicBlock{Name: "entry"})
	f.Blocks[0].AppendInstruction(retVoid())

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, DeclarationWithBlocks)
}

func TestVerifyEntryArgumentMismatch(t *testing.T) {
	f := &ir.Function{Name: "f", ArgTypes: []types.Type{i32()}, ReturnType: types.VoidType}
	entry := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(entry)
	entry.AppendInstruction(retVoid())

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, EntryArgumentMismatch)
}

func TestVerifyNamedVoidInstruction(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	named := &ir.Instruction{Name: "bad", Op: ir.OpBranch, Typ: types.VoidType, Kind: ir.InstructionKind{Branch: ir.BranchInst{Target: b}}}
	b.AppendInstruction(named)

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, NamedVoidInstruction)
}

func TestVerifyNestedAggregateLiteral(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	agg := ir.LiteralUse(i32(), ir.Literal{Kind: ir.LitTuple, Elements: []ir.Use{
		ir.LiteralUse(i32(), ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 1}}),
	}})
	unary := &ir.Instruction{Op: ir.OpNumericUnary, Typ: i32(), Kind: ir.InstructionKind{NumericUnary: ir.NumericUnaryInst{Value: agg}}}
	b.AppendInstruction(unary)
	b.AppendInstruction(retVal(unary.Use()))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, NestedAggregateLiteral)
}

func TestVerifyIntrinsicNotRegistered(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	call := &ir.Instruction{Op: ir.OpBuiltin, Typ: i32(), Kind: ir.InstructionKind{Builtin: ir.BuiltinInst{Name: "unknown_intrinsic"}}}
	b.AppendInstruction(call)
	b.AppendInstruction(retVal(call.Use()))

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, IntrinsicNotRegistered)
}

func TestVerifyConditionalArgumentMismatch(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	entry := &ir.BasicBlock{Name: "entry"}
	thenB := &ir.BasicBlock{Name: "then"}
	thenB.AppendArgument(&ir.Argument{Name: "x", Typ: i32()})
	elseB := &ir.BasicBlock{Name: "else"}
	f.AppendBlock(entry)
	f.AppendBlock(thenB)
	f.AppendBlock(elseB)
	thenB.AppendInstruction(retVoid())
	elseB.AppendInstruction(retVoid())

	cond := ir.LiteralUse(types.ScalarOf(dtype.Bool), ir.Literal{Kind: ir.LitBool, Bool: true})
	branch := &ir.Instruction{
		Op: ir.OpConditional, Typ: types.VoidType,
		Kind: ir.InstructionKind{Conditional: ir.ConditionalInst{Cond: cond, Then: thenB, Else: elseB}},
	}
	entry.AppendInstruction(branch)

	err := Verify(moduleOf(f), emptyRegistry{})
	expectKind(t, err, ConditionalArgumentMismatch)
}

func TestVerifyAdjointSignatureMismatch(t *testing.T) {
	primal := &ir.Function{
		Name: "primal", ArgTypes: []types.Type{i32(), i32()}, ReturnType: i32(),
		Decl: &ir.DeclarationKind{Tag: ir.DeclExternal},
	}
	adjoint := &ir.Function{
		Name:       "dprimal",
		ArgTypes:   []types.Type{i32()}, // wrong: should keep both args per KeptIndices below
		ReturnType: i32(),
		Decl: &ir.DeclarationKind{
			Tag:             ir.DeclAdjoint,
			Primal:          primal,
			ArgumentIndices: []int{0},
			KeptIndices:     []int{0, 1},
		},
	}
	m := &ir.Module{Name: "m"}
	m.AppendFunction(primal)
	m.AppendFunction(adjoint)

	err := Verify(m, emptyRegistry{})
	expectKind(t, err, AdjointSignatureMismatch)
}

func TestVerifyDuplicateTypeName(t *testing.T) {
	m := &ir.Module{Name: "m"}
	m.Nominal.NewStruct("Point", nil)
	m.Nominal.NewAlias("Point", nil)

	err := Verify(m, emptyRegistry{})
	expectKind(t, err, DuplicateTypeName)
}

func TestVerifyVariableAfterFunction(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	f.AppendBlock(&ir.BasicBlock{Name: "entry"})
	f.Blocks[0].AppendInstruction(retVoid())

	m := &ir.Module{Name: "m"}
	m.AppendFunction(f)
	m.AppendVariable(&ir.Variable{Name: "late", ElemType: i32()})

	err := Verify(m, emptyRegistry{})
	expectKind(t, err, VariableAfterFunction)
}
