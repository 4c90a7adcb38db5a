package ir

import "github.com/dan-zheng/GPIR/internal/types"

// Variable is a module-level global (spec §3): addressable storage of a
// declared element type. Its Use form is definition(variable(self)) and,
// mirroring LLVM's @global, its Type is a pointer to the element type --
// globals are always accessed through load/store/elementPointer, never
// referenced by value directly.
type Variable struct {
	Name     string
	ElemType types.Type
	Initial  *Use // optional initializer literal
	Index    int  // position within Module.Variables
}

func (v *Variable) DefinitionKind() DefinitionKind { return DefVariable }
func (v *Variable) Type() types.Type               { return types.PointerTo(v.ElemType) }
func (v *Variable) defName() string                { return v.Name }
