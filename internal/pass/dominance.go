package pass

import (
	"github.com/dan-zheng/GPIR/internal/domtree"
	"github.com/dan-zheng/GPIR/internal/ir"
)

// DominanceAnalysis returns f's dominator tree, computing and caching it
// through mgr (which must be bound to f) if stale. It is the same
// domtree.Dominance the verifier builds for its own use-before-def check;
// a caller holding a Manager gets this cached copy instead of rebuilding it.
func DominanceAnalysis(mgr *Manager, f *ir.Function) *domtree.Dominance {
	return mgr.GetAnalysis(IdentityDominance, func() any {
		return domtree.BuildDominance(f)
	}).(*domtree.Dominance)
}
