package ir

import "github.com/dan-zheng/GPIR/internal/source"

// BasicBlock is an ordered sequence of arguments and instructions (spec
// §3): arguments and instructions have unique names within the block,
// exactly one terminator positioned last, and a back-reference to the
// owning function.
type BasicBlock struct {
	Name         string
	Arguments    []*Argument
	Instructions []*Instruction
	Parent       *Function
	Index        int // position within Parent.Blocks
	Span         source.Span
}

// AppendArgument appends a new argument owned by b, fixing up its back-
// reference and index.
func (b *BasicBlock) AppendArgument(a *Argument) {
	a.Parent = b
	a.Index = len(b.Arguments)
	b.Arguments = append(b.Arguments, a)
}

// AppendInstruction appends a new instruction owned by b, fixing up its
// back-reference and index, and bumps b's owning function's version so
// pass-manager caches are invalidated.
func (b *BasicBlock) AppendInstruction(inst *Instruction) {
	inst.Parent = b
	inst.Index = len(b.Instructions)
	b.Instructions = append(b.Instructions, inst)
	b.touch()
}

// InsertInstruction inserts inst at position i, reindexing everything after
// it.
func (b *BasicBlock) InsertInstruction(i int, inst *Instruction) {
	inst.Parent = b
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[i+1:], b.Instructions[i:])
	b.Instructions[i] = inst
	b.reindexInstructions()
	b.touch()
}

// RemoveInstruction removes the instruction at position i. Removal
// invalidates every cached analysis of the enclosing function (spec §3's
// lifecycle rule); the caller must not retain stale references to the
// removed instruction.
func (b *BasicBlock) RemoveInstruction(i int) *Instruction {
	removed := b.Instructions[i]
	b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
	b.reindexInstructions()
	removed.Parent = nil
	b.touch()
	return removed
}

func (b *BasicBlock) reindexInstructions() {
	for idx, inst := range b.Instructions {
		inst.Index = idx
	}
}

func (b *BasicBlock) touch() {
	if b.Parent != nil {
		b.Parent.Touch()
	}
}

// Terminator returns the block's last instruction if it is a terminator
// opcode, or nil if the block has no instructions or does not yet end in
// one.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.Op.IsTerminator() {
		return nil
	}
	return last
}

// HasLocalName reports whether name is used by any argument or
// instruction in b (used to enforce spec §3's per-block name uniqueness).
func (b *BasicBlock) HasLocalName(name string) bool {
	if name == "" {
		return false
	}
	for _, a := range b.Arguments {
		if a.Name == name {
			return true
		}
	}
	for _, inst := range b.Instructions {
		if inst.Name == name {
			return true
		}
	}
	return false
}
