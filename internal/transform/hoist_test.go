package transform

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

func branchWithArgs(target *ir.BasicBlock, args ...ir.Use) *ir.Instruction {
	return &ir.Instruction{
		Op:   ir.OpBranch,
		Typ:  types.VoidType,
		Kind: ir.InstructionKind{Branch: ir.BranchInst{Target: target, Args: args}},
	}
}

// TestHoistPredecessorsMirrorsArguments checks spec §4.7's predecessor-
// hoisting transform: the new block mirrors target's arguments and branches
// unconditionally to it, forwarding them.
func TestHoistPredecessorsMirrorsArguments(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	target := &ir.BasicBlock{Name: "join"}
	target.AppendArgument(&ir.Argument{Name: "v", Typ: i32()})
	f.AppendBlock(target)

	p1 := &ir.BasicBlock{Name: "p1"}
	p2 := &ir.BasicBlock{Name: "p2"}
	f.AppendBlock(p1)
	f.AppendBlock(p2)

	one := &ir.Instruction{Op: ir.OpLiteral, Typ: i32(), Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 1}}}}}
	p1.AppendInstruction(one)
	p1.AppendInstruction(branchWithArgs(target, one.Use()))
	two := &ir.Instruction{Op: ir.OpLiteral, Typ: i32(), Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: i32(), Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 2}}}}}
	p2.AppendInstruction(two)
	p2.AppendInstruction(branchWithArgs(target, two.Use()))

	before := len(f.Blocks)
	n := HoistPredecessors(f, target, []*ir.BasicBlock{p1, p2}, 1)

	if len(f.Blocks) != before+1 {
		t.Fatalf("block count = %d, want %d", len(f.Blocks), before+1)
	}
	if f.Blocks[1] != n {
		t.Fatalf("hoisted block must be inserted at the requested position")
	}
	if len(n.Arguments) != len(target.Arguments) {
		t.Fatalf("hoisted block arguments = %d, want %d", len(n.Arguments), len(target.Arguments))
	}
	if n.Arguments[0].Typ.Kind != target.Arguments[0].Typ.Kind {
		t.Error("hoisted argument type must mirror target's argument type")
	}

	term := n.Terminator()
	if term == nil || term.Op != ir.OpBranch {
		t.Fatal("hoisted block must end in an unconditional branch")
	}
	if term.Kind.Branch.Target != target {
		t.Error("hoisted block must branch to target")
	}
	if len(term.Kind.Branch.Args) != 1 || term.Kind.Branch.Args[0].Def != n.Arguments[0] {
		t.Error("hoisted block's branch must forward its own arguments to target")
	}

	p1Term := p1.Terminator()
	if p1Term.Kind.Branch.Target != n {
		t.Error("p1's terminator must be rewritten to target the hoisted block")
	}
	p2Term := p2.Terminator()
	if p2Term.Kind.Branch.Target != n {
		t.Error("p2's terminator must be rewritten to target the hoisted block")
	}
}

// TestHoistPredecessorsNoArguments checks a target with no block arguments
// still gets a valid mirrored stub with no predecessor left untouched.
func TestHoistPredecessorsNoArguments(t *testing.T) {
	f := &ir.Function{Name: "f", ReturnType: types.VoidType}
	target := &ir.BasicBlock{Name: "join"}
	f.AppendBlock(target)
	p1 := &ir.BasicBlock{Name: "p1"}
	f.AppendBlock(p1)
	p1.AppendInstruction(branchWithArgs(target))

	n := HoistPredecessors(f, target, []*ir.BasicBlock{p1}, 1)
	if len(n.Arguments) != 0 {
		t.Fatalf("hoisted block arguments = %d, want 0", len(n.Arguments))
	}
	term := n.Terminator()
	if term == nil || term.Kind.Branch.Target != target || len(term.Kind.Branch.Args) != 0 {
		t.Error("hoisted block with no arguments must branch to target with no args")
	}
	if p1.Terminator().Kind.Branch.Target != n {
		t.Error("p1 must be rewritten to target the hoisted block")
	}
}
