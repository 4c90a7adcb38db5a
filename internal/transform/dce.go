// Package transform implements the representative rewrites of spec §4.7,
// built entirely on top of ir.Operands/ir.Substitute/ir.SubstituteBranches
// and the internal/pass analyses rather than hand-rolled per-opcode
// traversals, mirroring how the teacher's own mir transforms stay generic
// over instruction kind.
package transform

import (
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/pass"
)

// DeadCodeElimination removes every instruction in f with no remaining
// users and a "none" side-effect summary, re-examining each removed
// instruction's operand producers in case the removal made them dead in
// turn. fnMgr must be a *pass.Manager bound to f (used to seed the initial
// dataflow graph); effects is the enclosing module's SideEffectAnalysis
// result. Reports whether anything was removed.
func DeadCodeElimination(f *ir.Function, fnMgr *pass.Manager, effects *pass.SideEffects) bool {
	dfg := pass.DataFlowGraphAnalysis(fnMgr, f)

	users := make(map[ir.Definition]int)
	var worklist []*ir.Instruction
	for _, b := range f.Blocks {
		for _, a := range b.Arguments {
			users[a] = len(dfg.Users(a))
		}
		for _, inst := range b.Instructions {
			users[inst] = len(dfg.Users(inst))
			worklist = append(worklist, inst)
		}
	}

	changed := false
	for len(worklist) > 0 {
		inst := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if inst.Parent == nil {
			continue // already removed by an earlier iteration
		}
		if inst.Op.IsTerminator() {
			continue
		}
		if users[inst] > 0 {
			continue
		}
		if effects.Of(inst) != pass.EffectNone {
			continue
		}

		operands := ir.Operands(inst.Op, &inst.Kind)
		b := inst.Parent
		b.RemoveInstruction(inst.Index)
		changed = true

		for _, u := range operands {
			if u.IsLiteral || u.Def == nil {
				continue
			}
			users[u.Def]--
			if producer, ok := u.Def.(*ir.Instruction); ok {
				worklist = append(worklist, producer)
			}
		}
	}
	return changed
}
