package transform

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

// TestCloneFunctionStructure checks spec §8 property 7: a clone has the
// same block/instruction shape as the original, reachable under a fresh
// name, with every internal reference rewired to point into the clone.
func TestCloneFunctionStructure(t *testing.T) {
	m := &ir.Module{}
	f := &ir.Function{Name: "f", ArgTypes: []types.Type{i32()}, ReturnType: i32()}
	m.AppendFunction(f)

	entry := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(entry)
	entry.AppendArgument(&ir.Argument{Name: "x", Typ: i32()})

	lit := &ir.Instruction{
		Name: "one", Op: ir.OpLiteral, Typ: i32(),
		Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 1}}}},
	}
	entry.AppendInstruction(lit)
	add := &ir.Instruction{
		Name: "sum", Op: ir.OpNumericBinary, Typ: i32(),
		Kind: ir.InstructionKind{NumericBinary: ir.NumericBinaryInst{Op: ir.BinaryAdd, LHS: entry.Arguments[0].Use(), RHS: lit.Use()}},
	}
	entry.AppendInstruction(add)
	entry.AppendInstruction(&ir.Instruction{
		Op: ir.OpReturn, Typ: types.VoidType,
		Kind: ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: add.Use()}},
	})

	clone := CloneFunction(f, m)

	if clone.Name == f.Name {
		t.Fatalf("clone must have a fresh name, got %q", clone.Name)
	}
	if len(clone.Blocks) != len(f.Blocks) {
		t.Fatalf("clone blocks = %d, want %d", len(clone.Blocks), len(f.Blocks))
	}
	cEntry := clone.Blocks[0]
	if len(cEntry.Instructions) != len(entry.Instructions) {
		t.Fatalf("clone instructions = %d, want %d", len(cEntry.Instructions), len(entry.Instructions))
	}

	cAdd := cEntry.Instructions[1]
	lhs := cAdd.Kind.NumericBinary.LHS
	if lhs.Def != cEntry.Arguments[0] {
		t.Error("clone's add LHS must reference the clone's own argument, not the original")
	}
	rhs := cAdd.Kind.NumericBinary.RHS
	if rhs.Def != cEntry.Instructions[0] {
		t.Error("clone's add RHS must reference the clone's own literal instruction")
	}

	cRet := cEntry.Instructions[2]
	if cRet.Kind.Return.Value.Def != cAdd {
		t.Error("clone's return must reference the clone's own add instruction")
	}

	// Mutating the clone's operand payload must not alias the original's.
	if &clone.Blocks[0].Instructions[0].Kind == &f.Blocks[0].Instructions[0].Kind {
		t.Error("clone instructions must not share Kind storage with the original")
	}
}

// TestCloneFunctionSelfRecursive checks that a self-recursive apply (one
// whose callee use is f itself) is rewired to reference the clone.
func TestCloneFunctionSelfRecursive(t *testing.T) {
	m := &ir.Module{}
	f := &ir.Function{Name: "fact", ArgTypes: []types.Type{i32()}, ReturnType: i32()}
	m.AppendFunction(f)

	entry := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(entry)
	entry.AppendArgument(&ir.Argument{Name: "n", Typ: i32()})

	call := &ir.Instruction{
		Name: "rec", Op: ir.OpApply, Typ: i32(),
		Kind: ir.InstructionKind{Apply: ir.ApplyInst{Callee: f.Use(), Args: []ir.Use{entry.Arguments[0].Use()}}},
	}
	entry.AppendInstruction(call)
	entry.AppendInstruction(&ir.Instruction{
		Op: ir.OpReturn, Typ: types.VoidType,
		Kind: ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: call.Use()}},
	})

	clone := CloneFunction(f, m)
	cCall := clone.Blocks[0].Instructions[0]
	if cCall.Kind.Apply.Callee.Def != clone {
		t.Error("a self-recursive call must be rewired to reference the clone, not the original function")
	}
}

// TestCloneFunctionBranchRewiring checks that a branch within the cloned
// function targets the clone's own blocks.
func TestCloneFunctionBranchRewiring(t *testing.T) {
	m := &ir.Module{}
	f := &ir.Function{Name: "g", ReturnType: types.VoidType}
	m.AppendFunction(f)

	entry := &ir.BasicBlock{Name: "entry"}
	exit := &ir.BasicBlock{Name: "exit"}
	f.AppendBlock(entry)
	f.AppendBlock(exit)
	entry.AppendInstruction(&ir.Instruction{
		Op: ir.OpBranch, Typ: types.VoidType,
		Kind: ir.InstructionKind{Branch: ir.BranchInst{Target: exit}},
	})
	exit.AppendInstruction(&ir.Instruction{Op: ir.OpReturn, Typ: types.VoidType, Kind: ir.InstructionKind{Return: ir.ReturnInst{}}})

	clone := CloneFunction(f, m)
	branch := clone.Blocks[0].Instructions[0]
	if branch.Kind.Branch.Target != clone.Blocks[1] {
		t.Error("a branch in the clone must target the clone's own block, not the original's")
	}
}
