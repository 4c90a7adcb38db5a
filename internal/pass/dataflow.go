package pass

import "github.com/dan-zheng/GPIR/internal/ir"

// DataFlowGraph is the per-function users map of spec §4.6: for every
// Definition produced inside f (an argument or instruction), the ordered
// list of instructions that reference it as an operand. It is derived
// purely from ir.Operands, the single source of dataflow edges, so it never
// drifts out of sync with a new instruction kind the way a hand-maintained
// users list would.
type DataFlowGraph struct {
	users map[ir.Definition][]*ir.Instruction
}

// Users returns the instructions that use def as an operand, or nil.
func (g *DataFlowGraph) Users(def ir.Definition) []*ir.Instruction {
	return g.users[def]
}

// HasUsers reports whether def has at least one user.
func (g *DataFlowGraph) HasUsers(def ir.Definition) bool {
	return len(g.users[def]) > 0
}

// DataFlowGraphAnalysis returns f's DataFlowGraph, computing and caching it
// through mgr if it is not already current for f's version.
func DataFlowGraphAnalysis(mgr *Manager, f *ir.Function) *DataFlowGraph {
	return mgr.GetAnalysis(IdentityDataFlowGraph, func() any {
		return computeDataFlowGraph(f)
	}).(*DataFlowGraph)
}

func computeDataFlowGraph(f *ir.Function) *DataFlowGraph {
	g := &DataFlowGraph{users: make(map[ir.Definition][]*ir.Instruction)}
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			for _, u := range ir.Operands(inst.Op, &inst.Kind) {
				if u.IsLiteral || u.Def == nil {
					continue
				}
				g.users[u.Def] = append(g.users[u.Def], inst)
			}
		}
	}
	return g
}
