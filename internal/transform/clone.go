package transform

import (
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

// CloneFunction produces a deep structural copy of f under a fresh,
// module-unique name, appends it to m, and returns it, per spec §4.7:
// every block and instruction is duplicated, every operand use is rewired
// through an old-to-new definition map, every branch target is rewired
// through an old-to-new block map, and a self-recursive call (one whose
// callee use is f itself) is rewired to reference the clone rather than f.
// Block, argument, and instruction names are kept as in f: each function
// owns an independent name scope, so only the clone's own function name
// needs to be fresh.
func CloneFunction(f *ir.Function, m *ir.Module) *ir.Function {
	clone := &ir.Function{
		Name:       m.Names().Fresh(f.Name),
		ArgTypes:   append([]types.Type(nil), f.ArgTypes...),
		ReturnType: f.ReturnType,
		Decl:       f.Decl,
	}
	for attr := range f.Attrs {
		clone.AddAttribute(attr)
	}

	blocks := make(map[*ir.BasicBlock]*ir.BasicBlock, len(f.Blocks))
	defs := make(map[ir.Definition]ir.Definition)
	defs[f] = clone

	for _, b := range f.Blocks {
		nb := &ir.BasicBlock{Name: b.Name, Span: b.Span}
		for _, a := range b.Arguments {
			na := &ir.Argument{Name: a.Name, Typ: a.Typ}
			nb.AppendArgument(na)
			defs[a] = na
		}
		clone.AppendBlock(nb)
		blocks[b] = nb
	}

	for _, b := range f.Blocks {
		nb := blocks[b]
		for _, inst := range b.Instructions {
			ninst := &ir.Instruction{
				Name: inst.Name,
				Op:   inst.Op,
				Kind: ir.CloneKind(inst.Op, inst.Kind),
				Typ:  inst.Typ,
				Span: inst.Span,
			}
			nb.AppendInstruction(ninst)
			defs[inst] = ninst
		}
	}

	for _, b := range f.Blocks {
		nb := blocks[b]
		for j, inst := range b.Instructions {
			ninst := nb.Instructions[j]
			for _, u := range ir.Operands(inst.Op, &inst.Kind) {
				if u.IsLiteral || u.Def == nil {
					continue
				}
				mapped, ok := defs[u.Def]
				if !ok {
					continue
				}
				ir.Substitute(ninst.Op, &ninst.Kind, ir.DefUse(mapped), u)
			}
			for old, new := range blocks {
				ir.SubstituteBranches(ninst.Op, &ninst.Kind, old, new)
			}
		}
	}
	return clone
}
