package ir

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/types"
)

func TestCloneKindDoesNotAliasSliceBackingArrays(t *testing.T) {
	arg0 := LiteralUse(types.ScalarOf(dtype.Int(32)), scalarLit(1))
	kind := InstructionKind{Concatenate: ConcatenateInst{Values: []Use{arg0}, Axis: 0}}

	cloned := CloneKind(OpConcatenate, kind)
	cloned.Concatenate.Values[0] = LiteralUse(types.ScalarOf(dtype.Int(32)), scalarLit(99))

	if !kind.Concatenate.Values[0].Equal(arg0) {
		t.Fatalf("CloneKind aliased the original Concatenate.Values backing array")
	}
}

func TestCloneKindClonesNestedAggregateLiteral(t *testing.T) {
	inner := LiteralUse(types.ScalarOf(dtype.Int(32)), scalarLit(1))
	agg := Literal{Kind: LitTensor, Elements: []Use{inner}}
	kind := InstructionKind{Literal: LiteralInst{Value: agg}}

	cloned := CloneKind(OpLiteral, kind)
	cloned.Literal.Value.Elements[0] = LiteralUse(types.ScalarOf(dtype.Int(32)), scalarLit(2))

	if !kind.Literal.Value.Elements[0].Equal(inner) {
		t.Fatalf("CloneKind aliased the original literal's nested elements")
	}
}

func TestCloneKindClonesReduceCombinatorFunction(t *testing.T) {
	f := &Function{Name: "combine"}
	kind := InstructionKind{Reduce: ReduceInst{
		Combinator: ReductionCombinator{Kind: CombinatorFunction, Function: f.Use()},
		Dims:       []int{0},
	}}
	cloned := CloneKind(OpReduce, kind)
	cloned.Reduce.Dims[0] = 5
	if kind.Reduce.Dims[0] != 0 {
		t.Fatalf("CloneKind aliased the original Reduce.Dims backing array")
	}
	if !cloned.Reduce.Combinator.Function.Equal(f.Use()) {
		t.Fatalf("CloneKind should preserve the combinator's function reference")
	}
}

func TestCloneKindLeavesScalarFieldsUnaffected(t *testing.T) {
	kind := InstructionKind{NumericBinary: NumericBinaryInst{Op: BinaryAdd}}
	cloned := CloneKind(OpNumericBinary, kind)
	if cloned.NumericBinary.Op != BinaryAdd {
		t.Fatalf("CloneKind should preserve non-slice fields")
	}
}
