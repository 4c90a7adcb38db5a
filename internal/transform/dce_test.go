package transform

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/pass"
	"github.com/dan-zheng/GPIR/internal/types"
)

func i32() types.Type { return types.ScalarOf(dtype.Int(32)) }

func scalarLit(v int64) ir.Literal {
	return ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: v}}
}

// buildDeadLiteralFunction mirrors the end-to-end dead-code scenario: a
// function returning its first literal while a second, unused literal sits
// alongside it in the same block.
func buildDeadLiteralFunction() (*ir.Function, *ir.Instruction) {
	f := &ir.Function{Name: "bar", ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)

	keep := &ir.Instruction{Op: ir.OpLiteral, Typ: i32(), Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: scalarLit(1)}}}
	dead := &ir.Instruction{Op: ir.OpLiteral, Typ: i32(), Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: scalarLit(2)}}}
	b.AppendInstruction(keep)
	b.AppendInstruction(dead)
	b.AppendInstruction(&ir.Instruction{
		Op: ir.OpReturn, Typ: types.VoidType,
		Kind: ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: keep.Use()}},
	})
	return f, dead
}

func TestDeadCodeEliminationRemovesUnreferencedLiteral(t *testing.T) {
	f, dead := buildDeadLiteralFunction()
	m := &ir.Module{}
	m.AppendFunction(f)
	mgr := pass.NewManager(m)
	moduleMgr := pass.NewManager(m)
	effects := pass.SideEffectAnalysis(moduleMgr, m)

	fnMgr := pass.NewManager(f)
	changed := transform_DeadCodeElimination(f, fnMgr, effects)
	_ = mgr
	if !changed {
		t.Fatalf("DeadCodeElimination should report changed=true when it removes an instruction")
	}
	if dead.Parent != nil {
		t.Fatalf("the dead literal should have been removed from its block")
	}
	if len(f.Blocks[0].Instructions) != 2 {
		t.Fatalf("expected 2 remaining instructions (keep + return), got %d", len(f.Blocks[0].Instructions))
	}
}

func TestDeadCodeEliminationIsIdempotent(t *testing.T) {
	f, _ := buildDeadLiteralFunction()
	m := &ir.Module{}
	m.AppendFunction(f)
	moduleMgr := pass.NewManager(m)
	effects := pass.SideEffectAnalysis(moduleMgr, m)

	fnMgr := pass.NewManager(f)
	transform_DeadCodeElimination(f, fnMgr, effects)

	effects2 := pass.SideEffectAnalysis(moduleMgr, m)
	changed := transform_DeadCodeElimination(f, fnMgr, effects2)
	if changed {
		t.Fatalf("a second DeadCodeElimination run over already-clean IR should report changed=false")
	}
}

func TestDeadCodeEliminationNeverRemovesTerminatorOrEffectfulInstruction(t *testing.T) {
	ptrType := types.PointerTo(i32())
	f := &ir.Function{Name: "f", ArgTypes: []types.Type{ptrType}, ReturnType: types.VoidType}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)
	ptrArg := &ir.Argument{Name: "p", Typ: ptrType}
	b.AppendArgument(ptrArg)

	store := &ir.Instruction{
		Op: ir.OpStore, Typ: types.VoidType,
		Kind: ir.InstructionKind{Store: ir.StoreInst{
			Value:   ir.LiteralUse(i32(), scalarLit(0)),
			Pointer: ptrArg.Use(),
		}},
	}
	b.AppendInstruction(store)
	ret := &ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType}
	b.AppendInstruction(ret)

	m := &ir.Module{}
	m.AppendFunction(f)
	moduleMgr := pass.NewManager(m)
	effects := pass.SideEffectAnalysis(moduleMgr, m)
	fnMgr := pass.NewManager(f)

	changed := transform_DeadCodeElimination(f, fnMgr, effects)
	if changed {
		t.Fatalf("DeadCodeElimination should not remove a side-effecting store or the terminator")
	}
	if store.Parent == nil || ret.Parent == nil {
		t.Fatalf("store and return must both survive")
	}
}

func transform_DeadCodeElimination(f *ir.Function, fnMgr *pass.Manager, effects *pass.SideEffects) bool {
	return DeadCodeElimination(f, fnMgr, effects)
}
