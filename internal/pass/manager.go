// Package pass implements the analysis/transform framework of spec §4.6:
// a per-container PassManager that memoises analyses keyed by pass identity
// and invalidates them against the container's monotonic Version(), plus the
// concrete analyses (DataFlowGraphAnalysis, SideEffectAnalysis,
// DominanceAnalysis) built on top of it.
package pass

// Identity names a registered analysis, used as the PassManager's cache key.
type Identity string

const (
	IdentityDataFlowGraph Identity = "dataflow-graph"
	IdentitySideEffects   Identity = "side-effects"
	IdentityDominance     Identity = "dominance"
)

// Container is anything the manager can key a cache entry's freshness on:
// *ir.Function and *ir.Module both satisfy it.
type Container interface {
	Version() uint64
}

type entry struct {
	version uint64
	result  any
}

// Manager memoises analysis results for one container, invalidating an
// entry whenever the container's version has advanced since it was computed
// (spec §9's "mutation invalidates cached analyses" rule). It is not safe
// for concurrent use, matching the rest of this package's single-threaded
// contract.
type Manager struct {
	container Container
	cache     map[Identity]entry
	trace     []TraceEvent
}

// TraceEvent records one GetAnalysis call, for pipeline diagnostics.
type TraceEvent struct {
	Pass    Identity
	Version uint64
	Hit     bool
}

// NewManager returns a cache bound to container.
func NewManager(container Container) *Manager {
	return &Manager{container: container, cache: make(map[Identity]entry)}
}

// GetAnalysis returns the cached result for id if it is still valid for the
// container's current version, otherwise it calls compute, caches, and
// returns the fresh result.
func (m *Manager) GetAnalysis(id Identity, compute func() any) any {
	v := m.container.Version()
	if e, ok := m.cache[id]; ok && e.version == v {
		m.trace = append(m.trace, TraceEvent{Pass: id, Version: v, Hit: true})
		return e.result
	}
	result := compute()
	m.cache[id] = entry{version: v, result: result}
	m.trace = append(m.trace, TraceEvent{Pass: id, Version: v, Hit: false})
	return result
}

// Invalidate drops a cached entry outright, forcing recomputation on the
// next GetAnalysis call regardless of version.
func (m *Manager) Invalidate(id Identity) {
	delete(m.cache, id)
}

// Trace returns the sequence of GetAnalysis calls made so far, oldest first.
func (m *Manager) Trace() []TraceEvent {
	return m.trace
}
