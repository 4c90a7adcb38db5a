// Package types implements the Type variant of spec §3/§4.1: void, bool,
// tensor, tuple, function, array, pointer, box, nominal struct/enum, alias,
// stack, and invalid, plus canonicalisation, structural equality,
// element-type lookup by key path, and conformance.
//
// Nominal types (struct, enum, alias) are referenced by shared identity,
// not value, per spec §9: a Type of Kind Struct/Enum/Alias carries a
// NominalHandle, a stable index into a module-owned table, rather than an
// embedded copy of the field/case list. This mirrors the teacher's
// types.Interner, which hands out stable TypeIDs for nominal descriptors
// rather than inlining them everywhere they are referenced.
package types

import (
	"fmt"
	"strings"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/shape"
)

// Kind tags the Type variant.
type Kind uint8

const (
	Invalid Kind = iota
	Void
	Bool
	Tensor
	Tuple
	Function
	Array
	Pointer
	Box
	Struct
	Enum
	Alias
	Stack
)

// NominalHandle indexes a module-owned table of struct/enum/alias
// descriptors. Handles count up from 0 within each table; NoHandle refers
// to no nominal type.
type NominalHandle int32

// NoHandle is the sentinel for an absent nominal handle.
const NoHandle NominalHandle = -1

// Type is the tagged variant over every IR type former.
type Type struct {
	Kind Kind

	// Tensor
	Shape    shape.TensorShape
	DataType dtype.DataType

	// Tuple
	Elements []Type

	// Function
	Args   []Type
	Result *Type

	// Array / Pointer / Box: Elem is the element type; Length applies to
	// Array only.
	Elem   *Type
	Length int64

	// Struct / Enum / Alias
	Nominal NominalHandle
}

// VoidType is the singular void type.
var VoidType = Type{Kind: Void}

// BoolType is the singular scalar bool type (not to be confused with a
// tensor of bool dtype, which is TensorOf(scalarShape, dtype.Bool)).
var BoolType = Type{Kind: Bool}

// InvalidType marks a type that failed to resolve.
var InvalidType = Type{Kind: Invalid}

// TensorOf constructs a tensor type of the given shape and element dtype.
func TensorOf(s shape.TensorShape, dt dtype.DataType) Type {
	return Type{Kind: Tensor, Shape: s, DataType: dt}
}

// ScalarOf constructs a rank-0 tensor type, the "scalar" type used
// pervasively by literal and reduction instructions.
func ScalarOf(dt dtype.DataType) Type {
	return TensorOf(shape.TensorShape{}, dt)
}

// TupleOf constructs a tuple type.
func TupleOf(elems ...Type) Type { return Type{Kind: Tuple, Elements: elems} }

// FunctionOf constructs a function type.
func FunctionOf(args []Type, result Type) Type {
	r := result
	return Type{Kind: Function, Args: args, Result: &r}
}

// ArrayOf constructs a fixed-length array type.
func ArrayOf(length int64, elem Type) Type {
	e := elem
	return Type{Kind: Array, Length: length, Elem: &e}
}

// PointerTo constructs a pointer type.
func PointerTo(elem Type) Type {
	e := elem
	return Type{Kind: Pointer, Elem: &e}
}

// BoxOf constructs a box type.
func BoxOf(elem Type) Type {
	e := elem
	return Type{Kind: Box, Elem: &e}
}

// StructOf constructs a nominal struct type referencing handle.
func StructOf(handle NominalHandle) Type { return Type{Kind: Struct, Nominal: handle} }

// EnumOf constructs a nominal enum type referencing handle.
func EnumOf(handle NominalHandle) Type { return Type{Kind: Enum, Nominal: handle} }

// AliasOf constructs an alias type referencing handle.
func AliasOf(handle NominalHandle) Type { return Type{Kind: Alias, Nominal: handle} }

// StackType is the singular opaque runtime-stack type.
var StackType = Type{Kind: Stack}

// IsVoid reports whether t is the void type.
func (t Type) IsVoid() bool { return t.Kind == Void }

// IsScalar reports whether t is a tensor of rank 0.
func (t Type) IsScalar() bool { return t.Kind == Tensor && t.Shape.Rank() == 0 }

// TensorType extracts (shape, dtype) if t is a tensor, else ok is false.
func (t Type) TensorType() (shape.TensorShape, dtype.DataType, bool) {
	if t.Kind != Tensor {
		return shape.TensorShape{}, dtype.DataType{}, false
	}
	return t.Shape, t.DataType, true
}

func (t Type) String() string {
	switch t.Kind {
	case Invalid:
		return "<invalid>"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Tensor:
		if t.Shape.Rank() == 0 {
			return t.DataType.String()
		}
		return fmt.Sprintf("tensor<%s x %s>", strings.TrimSuffix(strings.TrimPrefix(t.Shape.String(), "["), "]"), t.DataType)
	case Tuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Function:
		parts := make([]string, len(t.Args))
		for i, e := range t.Args {
			parts[i] = e.String()
		}
		ret := "void"
		if t.Result != nil {
			ret = t.Result.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + ret
	case Array:
		return fmt.Sprintf("[%d x %s]", t.Length, t.Elem.String())
	case Pointer:
		return "*" + t.Elem.String()
	case Box:
		return "box<" + t.Elem.String() + ">"
	case Struct:
		return fmt.Sprintf("$struct(%d)", t.Nominal)
	case Enum:
		return fmt.Sprintf("$enum(%d)", t.Nominal)
	case Alias:
		return fmt.Sprintf("$alias(%d)", t.Nominal)
	case Stack:
		return "stack"
	default:
		return "<unknown-type>"
	}
}
