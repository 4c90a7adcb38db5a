package ir

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/types"
)

// NewInstruction builds an instruction of the given opcode and kind payload,
// inferring (and caching) its result type. Callers (the parser, transforms)
// are responsible for appending the returned instruction to a block.
func NewInstruction(name string, op Opcode, kind InstructionKind, span source.Span, resolver types.Resolver, registry IntrinsicRegistry) (*Instruction, error) {
	t, err := Infer(op, kind, resolver, registry)
	if err != nil {
		return nil, err
	}
	if t.IsVoid() && name != "" {
		return nil, fmt.Errorf("void-typed instruction %q must be unnamed", name)
	}
	return &Instruction{Name: name, Op: op, Kind: kind, Typ: t, Span: span}, nil
}

// MustNewInstruction is NewInstruction for callers (transforms cloning
// already-verified IR) that know construction cannot fail.
func MustNewInstruction(name string, op Opcode, kind InstructionKind, span source.Span, resolver types.Resolver, registry IntrinsicRegistry) *Instruction {
	inst, err := NewInstruction(name, op, kind, span, resolver, registry)
	if err != nil {
		panic(err)
	}
	return inst
}
