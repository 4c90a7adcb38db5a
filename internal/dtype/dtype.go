// Package dtype implements the scalar data-type algebra of spec §4.1: a
// tagged variant over bool, fixed-width integers, and IEEE floats, with the
// predicates the type system and instruction-inference rules consume.
package dtype

import "fmt"

// Kind tags the variant.
type Kind uint8

const (
	InvalidKind Kind = iota
	BoolKind
	IntKind
	FloatKind
)

// FloatWidth enumerates the supported IEEE float precisions.
type FloatWidth uint8

const (
	Half FloatWidth = iota
	Single
	Double
)

func (w FloatWidth) Bits() int {
	switch w {
	case Half:
		return 16
	case Single:
		return 32
	case Double:
		return 64
	default:
		return 0
	}
}

// DataType is the tagged variant: bool | int(width) | float(width).
type DataType struct {
	Kind       Kind
	IntWidth   int
	FloatWidth FloatWidth
}

// Bool is the canonical boolean data type.
var Bool = DataType{Kind: BoolKind}

// Int constructs a signed integer data type of the given bit width.
func Int(width int) DataType { return DataType{Kind: IntKind, IntWidth: width} }

// Float constructs a floating-point data type of the given precision.
func Float(width FloatWidth) DataType { return DataType{Kind: FloatKind, FloatWidth: width} }

// IsNumeric reports whether d is an integer or float data type.
func (d DataType) IsNumeric() bool { return d.Kind == IntKind || d.Kind == FloatKind }

// IsBool reports whether d is the boolean data type.
func (d DataType) IsBool() bool { return d.Kind == BoolKind }

// IsValid reports whether d is a recognized, fully specified data type.
func (d DataType) IsValid() bool {
	switch d.Kind {
	case BoolKind:
		return true
	case IntKind:
		return d.IntWidth > 0
	case FloatKind:
		return d.FloatWidth == Half || d.FloatWidth == Single || d.FloatWidth == Double
	default:
		return false
	}
}

// Equal reports structural equality between two data types.
func (d DataType) Equal(other DataType) bool {
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case IntKind:
		return d.IntWidth == other.IntWidth
	case FloatKind:
		return d.FloatWidth == other.FloatWidth
	default:
		return true
	}
}

// CanCast reports whether a value of d can be cast (via a dataTypeCast
// instruction) to target. Any numeric-to-numeric or bool-to-numeric
// conversion is permitted; bool only casts to/from bool and numerics.
func (d DataType) CanCast(target DataType) bool {
	if !d.IsValid() || !target.IsValid() {
		return false
	}
	if d.Equal(target) {
		return true
	}
	if d.IsNumeric() && target.IsNumeric() {
		return true
	}
	if d.IsBool() && target.IsNumeric() {
		return true
	}
	if d.IsNumeric() && target.IsBool() {
		return true
	}
	return false
}

func (d DataType) String() string {
	switch d.Kind {
	case BoolKind:
		return "bool"
	case IntKind:
		return fmt.Sprintf("i%d", d.IntWidth)
	case FloatKind:
		switch d.FloatWidth {
		case Half:
			return "f16"
		case Single:
			return "f32"
		case Double:
			return "f64"
		}
	}
	return "<invalid-dtype>"
}
