package transform

import (
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

// HoistPredecessors creates a new block N mirroring target's arguments,
// inserts it into f at position, emits an unconditional branch from N to
// target forwarding N's own arguments, and rewrites every block in preds
// to branch to N in place of target, per spec §4.7. N's block name and
// argument names come from f's own name allocator. Returns N.
func HoistPredecessors(f *ir.Function, target *ir.BasicBlock, preds []*ir.BasicBlock, position int) *ir.BasicBlock {
	names := f.Names()
	n := &ir.BasicBlock{Name: names.Fresh(target.Name + "_hoist")}
	args := make([]ir.Use, len(target.Arguments))
	for i, ta := range target.Arguments {
		na := &ir.Argument{Name: names.Fresh(ta.Name), Typ: ta.Typ}
		n.AppendArgument(na)
		args[i] = na.Use()
	}
	f.InsertBlock(position, n)

	n.AppendInstruction(&ir.Instruction{
		Op:  ir.OpBranch,
		Typ: types.VoidType,
		Kind: ir.InstructionKind{
			Branch: ir.BranchInst{Target: target, Args: args},
		},
	})

	for _, p := range preds {
		if p == n {
			continue
		}
		for _, inst := range p.Instructions {
			ir.SubstituteBranches(inst.Op, &inst.Kind, target, n)
		}
	}
	return n
}
