package types

// ElementKeyKind tags an ElementKey variant.
type ElementKeyKind uint8

const (
	KeyIndex ElementKeyKind = iota
	KeyName
	KeyValue
)

// ElementKey is one step of an element-type lookup path (spec §4.1):
// index i (tuple/tensor/array), name s (struct), or value (tensor/array,
// with an int-typed dynamic index). For the Value variant only the
// resolved type of the indexing value is needed, not the value itself, so
// callers in the ir package pass the Use's Type rather than the Use -
// avoiding a dependency from this package back onto ir.
type ElementKey struct {
	Kind      ElementKeyKind
	Index     int
	Name      string
	ValueType Type
}

// Index constructs an index-kind key.
func Index(i int) ElementKey { return ElementKey{Kind: KeyIndex, Index: i} }

// Name constructs a name-kind key.
func Name(s string) ElementKey { return ElementKey{Kind: KeyName, Name: s} }

// Value constructs a value-kind key from the indexing value's type.
func Value(t Type) ElementKey { return ElementKey{Kind: KeyValue, ValueType: t} }

// ElementType resolves the type of the element reached by following keys
// from t, per spec §4.1. It returns (zero, false) if the path is
// ill-formed for t's shape.
func ElementType(r Resolver, t Type, keys []ElementKey) (Type, bool) {
	cur := t
	for _, k := range keys {
		next, ok := elementStep(r, cur, k)
		if !ok {
			return Type{}, false
		}
		cur = next
	}
	return cur, true
}

func elementStep(r Resolver, t Type, k ElementKey) (Type, bool) {
	switch k.Kind {
	case KeyIndex:
		switch t.Kind {
		case Tuple:
			if k.Index < 0 || k.Index >= len(t.Elements) {
				return Type{}, false
			}
			return t.Elements[k.Index], true
		case Tensor:
			if t.Shape.Rank() == 0 {
				return Type{}, false
			}
			return TensorOf(t.Shape.DroppingLeadingDimension(), t.DataType), true
		case Array:
			return *t.Elem, true
		default:
			return Type{}, false
		}
	case KeyName:
		un := Unaliased(r, t)
		if un.Kind != Struct {
			return Type{}, false
		}
		return r.StructField(un.Nominal, k.Name)
	case KeyValue:
		if !k.ValueType.IsScalar() || !k.ValueType.DataType.IsNumeric() {
			return Type{}, false
		}
		switch t.Kind {
		case Tensor:
			if t.Shape.Rank() == 0 {
				return Type{}, false
			}
			return TensorOf(t.Shape.DroppingLeadingDimension(), t.DataType), true
		case Array:
			return *t.Elem, true
		default:
			return Type{}, false
		}
	default:
		return Type{}, false
	}
}
