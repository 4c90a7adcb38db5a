package ir

import "github.com/dan-zheng/GPIR/internal/types"

// Intrinsic is an externally-registered builtin operation (spec §6's
// Intrinsic Registry collaborator): a name-keyed result-type function over
// its argument uses.
type Intrinsic interface {
	// Opcode is the intrinsic's string key, used by the verifier's
	// round-trip check (spec §4.4: a looked-up intrinsic must round-trip
	// through the registry by this key).
	Opcode() string
	// ResultType computes the instruction's result type given its argument
	// uses, or types.InvalidType if args are not well-formed for this
	// intrinsic.
	ResultType(args []Use) types.Type
}

// IntrinsicRegistry looks up an Intrinsic by its textual opcode name (spec
// §6). The registry's internal population is orthogonal to this library;
// it is injected wherever type inference or verification needs to resolve
// a builtin instruction or numericBuiltin reduction combinator, per spec
// §9's "avoid hidden singletons" design note.
type IntrinsicRegistry interface {
	Intrinsic(named string) (Intrinsic, bool)
}
