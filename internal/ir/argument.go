package ir

import "github.com/dan-zheng/GPIR/internal/types"

// Argument is a basic-block parameter (spec §3's "basic block argument",
// the SSA-phi equivalent of this IR). It is owned by its parent block; its
// Use form is definition(argument(self)).
type Argument struct {
	Name   string
	Typ    types.Type
	Parent *BasicBlock
	Index  int // position within Parent.Arguments
}

func (a *Argument) DefinitionKind() DefinitionKind { return DefArgument }
func (a *Argument) Type() types.Type               { return a.Typ }
func (a *Argument) defName() string                { return a.Name }

// Use returns a definition-kind Use referencing this argument.
func (a *Argument) Use() Use { return DefUse(a) }
