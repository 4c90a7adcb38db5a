package ir

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/dan-zheng/GPIR/internal/types"
)

// nominalHandle narrows an arena length to a types.NominalHandle, panicking
// on overflow rather than silently wrapping, mirroring the teacher's
// symbols.Scopes.New arena-allocation pattern.
func nominalHandle(n int) types.NominalHandle {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("nominal table overflow: %w", err))
	}
	return types.NominalHandle(v)
}

// TypeAlias is a named type alias (spec §3): an optional underlying type,
// nil meaning opaque (used for forward-declared or abstract aliases).
type TypeAlias struct {
	Name       string
	Underlying *types.Type
	Handle     types.NominalHandle
}

// IsOpaque reports whether the alias has no underlying type.
func (a *TypeAlias) IsOpaque() bool { return a.Underlying == nil }

// StructField pairs a field name with its declared type.
type StructField struct {
	Name string
	Type types.Type
}

// StructType is a nominal struct descriptor (spec §3): an ordered
// (field-name, Type) list with unique field names.
type StructType struct {
	Name   string
	Fields []StructField
	Handle types.NominalHandle
}

// Field looks up a field by name, returning (type, true) or (zero, false).
func (s *StructType) Field(name string) (types.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return types.Type{}, false
}

// EnumCase pairs a case name with its ordered associated-type list.
type EnumCase struct {
	Name      string
	Associated []types.Type
}

// EnumType is a nominal enum descriptor (spec §3): an ordered
// (case-name, associated-types) list with unique case names.
type EnumType struct {
	Name   string
	Cases  []EnumCase
	Handle types.NominalHandle
}

// Case looks up a case by name, returning (associated types, true) or
// (nil, false).
func (e *EnumType) Case(name string) ([]types.Type, bool) {
	for _, c := range e.Cases {
		if c.Name == name {
			return c.Associated, true
		}
	}
	return nil, false
}

// NominalTable is the module-owned table of struct/enum/alias descriptors
// referenced by shared identity via types.NominalHandle, per spec §9. It
// implements types.Resolver so Type methods can see through an alias or
// look up a struct field without embedding the nominal table inline.
type NominalTable struct {
	aliases []*TypeAlias
	structs []*StructType
	enums   []*EnumType
}

// NewAlias declares a new alias and returns its handle.
func (t *NominalTable) NewAlias(name string, underlying *types.Type) *TypeAlias {
	a := &TypeAlias{Name: name, Underlying: underlying, Handle: nominalHandle(len(t.aliases))}
	t.aliases = append(t.aliases, a)
	return a
}

// NewStruct declares a new struct and returns it.
func (t *NominalTable) NewStruct(name string, fields []StructField) *StructType {
	s := &StructType{Name: name, Fields: fields, Handle: nominalHandle(len(t.structs))}
	t.structs = append(t.structs, s)
	return s
}

// NewEnum declares a new enum and returns it.
func (t *NominalTable) NewEnum(name string, cases []EnumCase) *EnumType {
	e := &EnumType{Name: name, Cases: cases, Handle: nominalHandle(len(t.enums))}
	t.enums = append(t.enums, e)
	return e
}

// Aliases, Structs, Enums expose the tables in insertion order.
func (t *NominalTable) Aliases() []*TypeAlias { return t.aliases }
func (t *NominalTable) Structs() []*StructType { return t.structs }
func (t *NominalTable) Enums() []*EnumType     { return t.enums }

func (t *NominalTable) Alias(h types.NominalHandle) *TypeAlias {
	if h < 0 || int(h) >= len(t.aliases) {
		return nil
	}
	return t.aliases[h]
}

func (t *NominalTable) Struct(h types.NominalHandle) *StructType {
	if h < 0 || int(h) >= len(t.structs) {
		return nil
	}
	return t.structs[h]
}

func (t *NominalTable) Enum(h types.NominalHandle) *EnumType {
	if h < 0 || int(h) >= len(t.enums) {
		return nil
	}
	return t.enums[h]
}

// AliasUnderlying implements types.Resolver.
func (t *NominalTable) AliasUnderlying(h types.NominalHandle) (types.Type, bool) {
	a := t.Alias(h)
	if a == nil || a.Underlying == nil {
		return types.Type{}, false
	}
	return *a.Underlying, true
}

// StructField implements types.Resolver.
func (t *NominalTable) StructField(h types.NominalHandle, name string) (types.Type, bool) {
	s := t.Struct(h)
	if s == nil {
		return types.Type{}, false
	}
	return s.Field(name)
}

// EnumCase implements types.Resolver.
func (t *NominalTable) EnumCase(h types.NominalHandle, name string) ([]types.Type, bool) {
	e := t.Enum(h)
	if e == nil {
		return nil, false
	}
	return e.Case(name)
}
