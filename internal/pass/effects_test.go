package pass

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

func TestSideEffectAnalysisPureFunction(t *testing.T) {
	f, _, add := buildAddFunction("f")
	m := &ir.Module{}
	m.AppendFunction(f)
	mgr := NewManager(m)

	se := SideEffectAnalysis(mgr, m)
	if se.Of(add) != EffectNone {
		t.Fatalf("a pure add instruction should have EffectNone")
	}
	ret := f.Blocks[0].Terminator()
	if se.Of(ret) != EffectSome {
		t.Fatalf("a terminator should always report EffectSome")
	}
}

func TestSideEffectAnalysisStorePropagatesThroughApply(t *testing.T) {
	// g stores into a pointer argument, so calling g has a side effect.
	ptrType := types.PointerTo(i32())
	g := &ir.Function{Name: "g", ArgTypes: []types.Type{ptrType}, ReturnType: types.VoidType}
	gb := &ir.BasicBlock{Name: "entry"}
	ptrArg := &ir.Argument{Name: "p", Typ: ptrType}
	gb.AppendArgument(ptrArg)
	g.AppendBlock(gb)
	store := &ir.Instruction{
		Op:  ir.OpStore,
		Typ: types.VoidType,
		Kind: ir.InstructionKind{Store: ir.StoreInst{
			Value:   ir.LiteralUse(i32(), ir.Literal{Kind: ir.LitScalar}),
			Pointer: ptrArg.Use(),
		}},
	}
	gb.AppendInstruction(store)
	gb.AppendInstruction(&ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType})

	// f calls g through apply; f itself has no direct side-effecting opcode.
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	fb := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(fb)
	nullPtr := ir.LiteralUse(ptrType, ir.Literal{Kind: ir.LitNull})
	apply := &ir.Instruction{
		Op:  ir.OpApply,
		Typ: types.VoidType,
		Kind: ir.InstructionKind{Apply: ir.ApplyInst{Callee: g.Use(), Args: []ir.Use{nullPtr}}},
	}
	fb.AppendInstruction(apply)
	fb.AppendInstruction(&ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType})

	m := &ir.Module{}
	m.AppendFunction(g)
	m.AppendFunction(f)
	mgr := NewManager(m)

	se := SideEffectAnalysis(mgr, m)
	if se.Of(apply) != EffectSome {
		t.Fatalf("apply of a side-effecting function should report EffectSome")
	}
}

func TestSideEffectAnalysisDeclarationAssumedEffectful(t *testing.T) {
	decl := &ir.Function{Name: "extern_fn", ReturnType: types.VoidType, Decl: &ir.DeclarationKind{Tag: ir.DeclExternal}}
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	fb := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(fb)
	apply := &ir.Instruction{
		Op:   ir.OpApply,
		Typ:  types.VoidType,
		Kind: ir.InstructionKind{Apply: ir.ApplyInst{Callee: decl.Use()}},
	}
	fb.AppendInstruction(apply)
	fb.AppendInstruction(&ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType})

	m := &ir.Module{}
	m.AppendFunction(decl)
	m.AppendFunction(f)
	mgr := NewManager(m)

	se := SideEffectAnalysis(mgr, m)
	if se.Of(apply) != EffectSome {
		t.Fatalf("a call to a declaration (no known body) should be assumed effectful")
	}
}
