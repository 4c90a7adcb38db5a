package ir

import "github.com/dan-zheng/GPIR/internal/types"

// DefinitionKind tags the Definition variant of spec §3.
type DefinitionKind uint8

const (
	DefArgument DefinitionKind = iota
	DefInstruction
	DefVariable
	DefFunction
)

// Definition is anything a Use may reference by non-owning pointer:
// an Argument, Instruction, Variable, or Function.
type Definition interface {
	DefinitionKind() DefinitionKind
	Type() types.Type
	defName() string
}

// Use is the tagged variant over literal(Type, Literal) and
// definition(Definition) of spec §3.
type Use struct {
	IsLiteral bool
	LitType   types.Type
	Lit       Literal
	Def       Definition
}

// LiteralUse constructs a literal-kind Use.
func LiteralUse(t types.Type, lit Literal) Use {
	return Use{IsLiteral: true, LitType: t, Lit: lit}
}

// DefUse constructs a definition-kind Use.
func DefUse(d Definition) Use {
	return Use{Def: d}
}

// Type returns the Use's type: the literal's type, or the definition's
// type.
func (u Use) Type() types.Type {
	if u.IsLiteral {
		return u.LitType
	}
	if u.Def == nil {
		return types.InvalidType
	}
	return u.Def.Type()
}

// Equal reports structural equality between two uses.
func (u Use) Equal(other Use) bool {
	if u.IsLiteral != other.IsLiteral {
		return false
	}
	if u.IsLiteral {
		return types.Equal(u.LitType, other.LitType) && u.Lit.Equal(other.Lit)
	}
	return u.Def == other.Def
}

// IsValid reports whether the use has either a literal or a non-nil
// definition.
func (u Use) IsValid() bool {
	return u.IsLiteral || u.Def != nil
}

// LiteralKind tags the Literal variant of spec §3.
type LiteralKind uint8

const (
	LitUndefined LiteralKind = iota
	LitZero
	LitNull
	LitBool
	LitScalar
	LitTensor
	LitTuple
	LitArray
	LitStruct
	LitEnumCase
)

// NumericValue holds a scalar numeric literal payload.
type NumericValue struct {
	IsFloat bool
	Int     int64
	Float   float64
}

// NamedUse pairs a struct field name with its literal value.
type NamedUse struct {
	Name  string
	Value Use
}

// Literal is the tagged variant over undefined, zero, null, bool,
// scalar(numeric), tensor/tuple/array(list of Use), struct(ordered
// (name,Use) list), enumCase(name, list of Use). Aggregate literals may
// nest further Uses, per spec §3.
type Literal struct {
	Kind LiteralKind

	Bool   bool
	Scalar NumericValue

	Elements []Use // tensor | tuple | array

	Fields []NamedUse // struct

	CaseName string // enumCase
	CaseArgs []Use  // enumCase
}

// IsAggregate reports whether the literal nests further Uses.
func (l Literal) IsAggregate() bool {
	switch l.Kind {
	case LitTensor, LitTuple, LitArray, LitStruct, LitEnumCase:
		return true
	default:
		return false
	}
}

// Equal reports structural equality between two literals.
func (l Literal) Equal(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case LitUndefined, LitZero, LitNull:
		return true
	case LitBool:
		return l.Bool == other.Bool
	case LitScalar:
		return l.Scalar == other.Scalar
	case LitTensor, LitTuple, LitArray:
		if len(l.Elements) != len(other.Elements) {
			return false
		}
		for i := range l.Elements {
			if !l.Elements[i].Equal(other.Elements[i]) {
				return false
			}
		}
		return true
	case LitStruct:
		if len(l.Fields) != len(other.Fields) {
			return false
		}
		for i := range l.Fields {
			if l.Fields[i].Name != other.Fields[i].Name || !l.Fields[i].Value.Equal(other.Fields[i].Value) {
				return false
			}
		}
		return true
	case LitEnumCase:
		if l.CaseName != other.CaseName || len(l.CaseArgs) != len(other.CaseArgs) {
			return false
		}
		for i := range l.CaseArgs {
			if !l.CaseArgs[i].Equal(other.CaseArgs[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
