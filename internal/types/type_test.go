package types

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/shape"
)

// stubResolver is a minimal Resolver fixture for alias/struct/enum lookups.
type stubResolver struct {
	aliases     map[NominalHandle]Type
	structs     map[NominalHandle]map[string]Type
	enums       map[NominalHandle]map[string][]Type
}

func (r stubResolver) AliasUnderlying(h NominalHandle) (Type, bool) {
	t, ok := r.aliases[h]
	return t, ok
}

func (r stubResolver) StructField(h NominalHandle, name string) (Type, bool) {
	fields, ok := r.structs[h]
	if !ok {
		return Type{}, false
	}
	t, ok := fields[name]
	return t, ok
}

func (r stubResolver) EnumCase(h NominalHandle, name string) ([]Type, bool) {
	cases, ok := r.enums[h]
	if !ok {
		return nil, false
	}
	t, ok := cases[name]
	return t, ok
}

func TestEqualScalarAndTensor(t *testing.T) {
	a := ScalarOf(dtype.Int(32))
	b := ScalarOf(dtype.Int(32))
	if !Equal(a, b) {
		t.Fatalf("identical scalar types should be equal")
	}
	c := TensorOf(shape.New(2, 3), dtype.Int(32))
	if Equal(a, c) {
		t.Fatalf("scalar and non-scalar tensor types should not be equal")
	}
}

func TestEqualNominalByHandle(t *testing.T) {
	a := StructOf(NominalHandle(0))
	b := StructOf(NominalHandle(0))
	c := StructOf(NominalHandle(1))
	if !Equal(a, b) {
		t.Fatalf("structs with the same handle should be equal")
	}
	if Equal(a, c) {
		t.Fatalf("structs with different handles should not be equal")
	}
}

func TestUnaliased(t *testing.T) {
	r := stubResolver{aliases: map[NominalHandle]Type{
		0: ScalarOf(dtype.Float(dtype.Single)),
	}}
	resolved := Unaliased(r, AliasOf(0))
	if !Equal(resolved, ScalarOf(dtype.Float(dtype.Single))) {
		t.Fatalf("Unaliased did not resolve to the underlying type, got %s", resolved)
	}
	opaque := Unaliased(r, AliasOf(1))
	if opaque.Kind != Alias || opaque.Nominal != 1 {
		t.Fatalf("Unaliased should return an opaque alias unchanged, got %s", opaque)
	}
}

func TestElementTypeTupleAndTensor(t *testing.T) {
	tup := TupleOf(ScalarOf(dtype.Bool), ScalarOf(dtype.Int(64)))
	got, ok := ElementType(nil, tup, []ElementKey{Index(1)})
	if !ok || !Equal(got, ScalarOf(dtype.Int(64))) {
		t.Fatalf("ElementType(tuple, index 1) = %s, %v", got, ok)
	}

	tensor := TensorOf(shape.New(2, 3), dtype.Float(dtype.Single))
	got, ok = ElementType(nil, tensor, []ElementKey{Index(0)})
	if !ok || !Equal(got, TensorOf(shape.New(3), dtype.Float(dtype.Single))) {
		t.Fatalf("ElementType(tensor, index 0) = %s, %v", got, ok)
	}

	if _, ok := ElementType(nil, tup, []ElementKey{Index(5)}); ok {
		t.Fatalf("ElementType should reject an out-of-range tuple index")
	}
}

func TestElementTypeStructField(t *testing.T) {
	r := stubResolver{structs: map[NominalHandle]map[string]Type{
		0: {"x": ScalarOf(dtype.Int(32))},
	}}
	got, ok := ElementType(r, StructOf(0), []ElementKey{Name("x")})
	if !ok || !Equal(got, ScalarOf(dtype.Int(32))) {
		t.Fatalf("ElementType(struct, name x) = %s, %v", got, ok)
	}
	if _, ok := ElementType(r, StructOf(0), []ElementKey{Name("missing")}); ok {
		t.Fatalf("ElementType should reject an unknown field name")
	}
}

func TestConformsThroughAlias(t *testing.T) {
	r := stubResolver{aliases: map[NominalHandle]Type{
		0: ScalarOf(dtype.Int(32)),
	}}
	if !Conforms(r, AliasOf(0), ScalarOf(dtype.Int(32))) {
		t.Fatalf("alias should conform to its underlying type")
	}
}

func TestIsValid(t *testing.T) {
	r := stubResolver{aliases: map[NominalHandle]Type{}}
	if !IsValid(r, ScalarOf(dtype.Int(32)), false) {
		t.Fatalf("a valid scalar type should report valid")
	}
	if IsValid(r, FunctionOf(nil, Type{}), false) {
		t.Fatalf("a function type with an invalid result should report invalid")
	}
	if IsValid(r, AliasOf(7), false) {
		t.Fatalf("an opaque alias should be invalid when allowOpaque is false")
	}
	if !IsValid(r, AliasOf(7), true) {
		t.Fatalf("an opaque alias should be valid when allowOpaque is true")
	}
}
