package ir

import (
	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/types"
)

// Attribute is a function-level flag (spec §3), e.g. inline.
type Attribute string

const (
	AttrInline Attribute = "inline"
)

// DeclarationKindTag tags the DeclarationKind variant of spec §3.
type DeclarationKindTag uint8

const (
	DeclNone DeclarationKindTag = iota
	DeclExternal
	DeclAdjoint
)

// DeclarationKind is set on a Function that is a declaration (no blocks):
// either an opaque external symbol, or an adjoint derived from a primal
// function per a differentiation configuration (spec §3, §4.4).
type DeclarationKind struct {
	Tag DeclarationKindTag

	// Adjoint fields.
	Primal          *Function
	SourceIndex     int
	ArgumentIndices []int
	KeptIndices     []int
	IsSeedable      bool
}

// Function is a named (or anonymous) callable (spec §3): argument types,
// a return type, an attribute set, an optional DeclarationKind, and an
// ordered block sequence. A Function is a declaration iff its block
// sequence is empty and DeclarationKind is set; otherwise it is a
// definition.
type Function struct {
	Name       string
	ArgTypes   []types.Type
	ReturnType types.Type
	Attrs      map[Attribute]struct{}
	Decl       *DeclarationKind
	Blocks     []*BasicBlock
	Parent     *Module
	Index      int // position within Parent.Functions
	Span       source.Span

	version uint64
	names   *NameAllocator
}

// IsDeclaration reports whether f has no body.
func (f *Function) IsDeclaration() bool { return len(f.Blocks) == 0 }

// IsDefinition reports whether f has a body.
func (f *Function) IsDefinition() bool { return len(f.Blocks) > 0 }

// HasAttribute reports whether attr is set on f.
func (f *Function) HasAttribute(attr Attribute) bool {
	if f.Attrs == nil {
		return false
	}
	_, ok := f.Attrs[attr]
	return ok
}

// AddAttribute sets attr on f.
func (f *Function) AddAttribute(attr Attribute) {
	if f.Attrs == nil {
		f.Attrs = make(map[Attribute]struct{})
	}
	f.Attrs[attr] = struct{}{}
}

// Entry returns the function's entry block (the first block), or nil for a
// declaration.
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// AppendBlock appends a new block owned by f.
func (f *Function) AppendBlock(b *BasicBlock) {
	b.Parent = f
	b.Index = len(f.Blocks)
	f.Blocks = append(f.Blocks, b)
	f.Touch()
}

// InsertBlock inserts b at position i, reindexing every block after it.
func (f *Function) InsertBlock(i int, b *BasicBlock) {
	b.Parent = f
	f.Blocks = append(f.Blocks, nil)
	copy(f.Blocks[i+1:], f.Blocks[i:])
	f.Blocks[i] = b
	f.reindexBlocks()
	f.Touch()
}

// RemoveBlock removes the block at position i.
func (f *Function) RemoveBlock(i int) *BasicBlock {
	removed := f.Blocks[i]
	f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
	f.reindexBlocks()
	removed.Parent = nil
	f.Touch()
	return removed
}

func (f *Function) reindexBlocks() {
	for idx, b := range f.Blocks {
		b.Index = idx
	}
}

// Version returns the function's monotonic mutation counter, used by the
// pass manager to invalidate cached analyses (spec §9).
func (f *Function) Version() uint64 { return f.version }

// Touch bumps f's version and propagates to its owning module, per spec
// §3's rule that removal/mutation invalidates cached analyses transitively.
func (f *Function) Touch() {
	f.version++
	if f.Parent != nil {
		f.Parent.Touch()
	}
}

// Names returns f's fresh-name allocator (spec §4.7), creating it lazily.
func (f *Function) Names() *NameAllocator {
	if f.names == nil {
		f.names = NewNameAllocator()
		for _, b := range f.Blocks {
			if b.Name != "" {
				f.names.Reserve(b.Name)
			}
			for _, a := range b.Arguments {
				if a.Name != "" {
					f.names.Reserve(a.Name)
				}
			}
			for _, inst := range b.Instructions {
				if inst.Name != "" {
					f.names.Reserve(inst.Name)
				}
			}
		}
	}
	return f.names
}
