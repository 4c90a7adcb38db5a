package pass

import "github.com/dan-zheng/GPIR/internal/ir"

// Effect classifies an instruction's observable side effect, per spec
// §4.6's SideEffectAnalysis: "none" means the instruction may be discarded
// by dead code elimination if it has no users.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectSome
)

// SideEffects is the whole-module instruction -> Effect summary of spec
// §4.6, including the fixed-point propagation through apply instructions:
// a call through a function with side effects is itself side-effecting
// even though OpApply does not itself write memory.
type SideEffects struct {
	summary map[*ir.Instruction]Effect
}

// Of returns inst's effect summary, EffectNone if inst is unknown to this
// analysis (e.g. belongs to a different module snapshot).
func (s *SideEffects) Of(inst *ir.Instruction) Effect {
	return s.summary[inst]
}

// SideEffectAnalysis returns m's SideEffects summary, computing and caching
// it through mgr (which must be bound to m) if stale.
func SideEffectAnalysis(mgr *Manager, m *ir.Module) *SideEffects {
	return mgr.GetAnalysis(IdentitySideEffects, func() any {
		return computeSideEffects(m)
	}).(*SideEffects)
}

func computeSideEffects(m *ir.Module) *SideEffects {
	effectful := make(map[*ir.Function]bool)
	for changed := true; changed; {
		changed = false
		for _, f := range m.Functions {
			if effectful[f] {
				continue
			}
			if functionHasEffect(f, effectful) {
				effectful[f] = true
				changed = true
			}
		}
	}

	se := &SideEffects{summary: make(map[*ir.Instruction]Effect)}
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, inst := range b.Instructions {
				se.summary[inst] = instructionEffect(inst, effectful)
			}
		}
	}
	return se
}

// functionHasEffect reports whether calling f can observably affect memory,
// ignoring f's own terminator -- every function ends in one, so counting it
// here would make every call effectful and defeat the analysis.
func functionHasEffect(f *ir.Function, effectful map[*ir.Function]bool) bool {
	if f.IsDeclaration() {
		return true
	}
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if ir.MustWriteToMemory(inst.Op) {
				return true
			}
			if inst.Op == ir.OpApply && calleeEffectful(inst.Kind.Apply.Callee, effectful) {
				return true
			}
		}
	}
	return false
}

func instructionEffect(inst *ir.Instruction, effectful map[*ir.Function]bool) Effect {
	if ir.MustWriteToMemory(inst.Op) || inst.Op.IsTerminator() {
		return EffectSome
	}
	if inst.Op == ir.OpApply && calleeEffectful(inst.Kind.Apply.Callee, effectful) {
		return EffectSome
	}
	return EffectNone
}

// calleeEffectful reports whether an apply's callee use may carry side
// effects. An indirect callee (not a statically known Function, e.g. a
// higher-order argument) is assumed effectful, since there is nothing to
// look up.
func calleeEffectful(callee ir.Use, effectful map[*ir.Function]bool) bool {
	if callee.IsLiteral {
		return true
	}
	fn, ok := callee.Def.(*ir.Function)
	if !ok {
		return true
	}
	return fn.IsDeclaration() || effectful[fn]
}
