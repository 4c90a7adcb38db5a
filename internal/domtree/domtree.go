package domtree

import "github.com/dan-zheng/GPIR/internal/ir"

// Dominance is a function's dominator tree (spec §4.6 DominanceAnalysis),
// computed with the standard iterative reverse-postorder algorithm (Cooper,
// Harvey & Kennedy, "A Simple, Fast Dominance Algorithm"): stable, requires
// no recursion, and converges in O(blocks * predecessors) iterations over
// a reducible CFG.
type Dominance struct {
	order   []*ir.BasicBlock // reverse postorder, order[0] == entry
	rpoNum  map[*ir.BasicBlock]int
	idom    map[*ir.BasicBlock]*ir.BasicBlock
	preds   map[*ir.BasicBlock][]*ir.BasicBlock
}

// BuildDominance computes the dominance tree of f, rooted at its entry
// block. Unreachable blocks have no entry in idom and are reported as
// not Contains.
func BuildDominance(f *ir.Function) *Dominance {
	d := &Dominance{
		rpoNum: make(map[*ir.BasicBlock]int),
		idom:   make(map[*ir.BasicBlock]*ir.BasicBlock),
		preds:  make(map[*ir.BasicBlock][]*ir.BasicBlock),
	}
	entry := f.Entry()
	if entry == nil {
		return d
	}
	for _, b := range f.Blocks {
		for _, s := range successors(b) {
			d.preds[s] = append(d.preds[s], b)
		}
	}

	visited := map[*ir.BasicBlock]bool{}
	var postorder []*ir.BasicBlock
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range successors(b) {
			visit(s)
		}
		postorder = append(postorder, b)
	}
	visit(entry)

	d.order = make([]*ir.BasicBlock, len(postorder))
	for i, b := range postorder {
		d.order[len(postorder)-1-i] = b
	}
	for i, b := range d.order {
		d.rpoNum[b] = i
	}

	d.idom[entry] = entry
	changed := true
	for changed {
		changed = false
		for _, b := range d.order[1:] {
			var newIdom *ir.BasicBlock
			for _, p := range d.preds[b] {
				if d.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if newIdom != nil && d.idom[b] != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	delete(d.idom, entry) // entry's "idom" of itself is not a proper dominator
	d.idom[entry] = nil
	return d
}

func (d *Dominance) intersect(a, b *ir.BasicBlock) *ir.BasicBlock {
	for a != b {
		for d.rpoNum[a] > d.rpoNum[b] {
			a = d.idom[a]
		}
		for d.rpoNum[b] > d.rpoNum[a] {
			b = d.idom[b]
		}
	}
	return a
}

func successors(b *ir.BasicBlock) []*ir.BasicBlock {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	switch term.Op {
	case ir.OpBranch:
		if term.Kind.Branch.Target != nil {
			return []*ir.BasicBlock{term.Kind.Branch.Target}
		}
	case ir.OpConditional:
		var out []*ir.BasicBlock
		if term.Kind.Conditional.Then != nil {
			out = append(out, term.Kind.Conditional.Then)
		}
		if term.Kind.Conditional.Else != nil {
			out = append(out, term.Kind.Conditional.Else)
		}
		return out
	case ir.OpBranchEnum:
		var out []*ir.BasicBlock
		for _, c := range term.Kind.BranchEnum.Cases {
			if c.Target != nil {
				out = append(out, c.Target)
			}
		}
		return out
	}
	return nil
}

// HasPredecessors reports whether any block branches to b.
func (d *Dominance) HasPredecessors(b *ir.BasicBlock) bool {
	return len(d.preds[b]) > 0
}

// Contains reports whether b is reachable from the entry block.
func (d *Dominance) Contains(b *ir.BasicBlock) bool {
	_, ok := d.idom[b]
	return ok
}

// Dominates reports whether a dominates b (including a == b).
func (d *Dominance) Dominates(a, b *ir.BasicBlock) bool {
	if !d.Contains(a) || !d.Contains(b) {
		return false
	}
	for cur := b; ; {
		if cur == a {
			return true
		}
		next := d.idom[cur]
		if next == nil || next == cur {
			return cur == a
		}
		cur = next
	}
}

// ProperlyDominates reports whether a definition at (defBlock, defIndex)
// properly dominates the use position (userBlock, userIndex), per spec
// §4.4: a block argument
// dominates every instruction in its own block; an instruction dominates
// later instructions in its own block, and every instruction in any block
// its own block strictly dominates.
func (d *Dominance) ProperlyDominates(defBlock *ir.BasicBlock, defIsArgument bool, defIndex int, userBlock *ir.BasicBlock, userIndex int) bool {
	if defBlock == userBlock {
		if defIsArgument {
			return true
		}
		return defIndex < userIndex
	}
	return d.Dominates(defBlock, userBlock)
}
