package ir

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/types"
)

// Instruction is one IR operation (spec §3): an optional name, an
// InstructionKind payload selected by Op, and a back-reference to its
// owning block. A void-kind instruction must be unnamed; otherwise it may
// be named or referenced anonymously as "<bb-index>.<inst-index>".
type Instruction struct {
	Name   string
	Op     Opcode
	Kind   InstructionKind
	Parent *BasicBlock
	Index  int // position within Parent.Instructions
	Span   source.Span

	// Typ caches the inferred type (spec §4.2); it is computed once by the
	// builder at construction time and is immutable thereafter -- an
	// instruction's operand types never change without producing a new
	// instruction, so no invalidation hook is needed here (contrast with
	// pass-level analysis caching in the pass package, which is keyed off
	// container mutation, not instruction mutation).
	Typ types.Type
}

func (i *Instruction) DefinitionKind() DefinitionKind { return DefInstruction }
func (i *Instruction) Type() types.Type               { return i.Typ }
func (i *Instruction) defName() string                { return i.Name }

// Use returns a definition-kind Use referencing this instruction.
func (i *Instruction) Use() Use { return DefUse(i) }

// IsNamed reports whether the instruction has an explicit name.
func (i *Instruction) IsNamed() bool { return i.Name != "" }

// AnonymousName renders the instruction's anonymous reference form
// "%<bb-index>.<inst-index>" per spec §4.5. It is meaningless if the
// instruction is named or not yet attached to a block.
func (i *Instruction) AnonymousName() string {
	if i.Parent == nil {
		return fmt.Sprintf("%%?.%d", i.Index)
	}
	return fmt.Sprintf("%%%d.%d", i.Parent.Index, i.Index)
}

// AnonymousName renders an argument's anonymous reference form
// "%<bb-index>^<arg-index>" per spec §4.5.
func (a *Argument) AnonymousName() string {
	if a.Parent == nil {
		return fmt.Sprintf("%%?^%d", a.Index)
	}
	return fmt.Sprintf("%%%d^%d", a.Parent.Index, a.Index)
}

// Function implements Definition so that a Use can reference a module-level
// function by value (e.g. an apply instruction's callee, or a higher-order
// argument), per spec §3's Definition variant.
func (f *Function) DefinitionKind() DefinitionKind { return DefFunction }
func (f *Function) Type() types.Type {
	return types.FunctionOf(append([]types.Type(nil), f.ArgTypes...), f.ReturnType)
}
func (f *Function) defName() string { return f.Name }

// Use returns a definition-kind Use referencing this function by value.
func (f *Function) Use() Use { return DefUse(f) }
