package transform

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/types"
)

func vecI32(dims ...int64) types.Type { return types.TensorOf(shape.New(dims...), dtype.Int(32)) }

// TestLiteralBroadcastingPromotionInlineLiteral exercises spec §8 property
// 6 / scenario S3: an embedded scalar literal declared at a wider tensor
// shape gets rewritten to its scalar type, with the instruction's own type
// unchanged.
func TestLiteralBroadcastingPromotionInlineLiteral(t *testing.T) {
	vec := vecI32(4)
	wideScalar := ir.LiteralUse(vec, ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 1}})
	other := &ir.Instruction{Op: ir.OpLiteral, Typ: vec, Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: vec, Value: ir.Literal{Kind: ir.LitTensor}}}}

	add := &ir.Instruction{
		Op: ir.OpNumericBinary, Typ: vec,
		Kind: ir.InstructionKind{NumericBinary: ir.NumericBinaryInst{Op: ir.BinaryAdd, LHS: wideScalar, RHS: other.Use()}},
	}
	b := &ir.BasicBlock{Name: "entry"}
	b.AppendInstruction(other)
	b.AppendInstruction(add)

	changed := LiteralBroadcastingPromotion(b)
	if !changed {
		t.Fatal("expected the wide scalar literal to be promoted")
	}
	lhs := add.Kind.NumericBinary.LHS
	if !lhs.Type().IsScalar() {
		t.Errorf("promoted operand must have scalar (rank-0) type, got %v", lhs.Type())
	}
	if add.Typ.Kind != vec.Kind {
		t.Error("the instruction's own inferred type must not change")
	}
}

// TestLiteralBroadcastingPromotionViaLiteralInstruction checks the operand
// referencing a separate `literal` instruction (not embedded inline).
func TestLiteralBroadcastingPromotionViaLiteralInstruction(t *testing.T) {
	vec := vecI32(3)
	scalarLit := &ir.Instruction{
		Op: ir.OpLiteral, Typ: vec,
		Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: vec, Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 5}}}},
	}
	tensorLit := &ir.Instruction{Op: ir.OpLiteral, Typ: vec, Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: vec, Value: ir.Literal{Kind: ir.LitTensor}}}}
	cmp := &ir.Instruction{
		Op: ir.OpCompare, Typ: types.ScalarOf(dtype.Bool),
		Kind: ir.InstructionKind{Compare: ir.CompareInst{LHS: scalarLit.Use(), RHS: tensorLit.Use()}},
	}

	b := &ir.BasicBlock{Name: "entry"}
	b.AppendInstruction(scalarLit)
	b.AppendInstruction(tensorLit)
	b.AppendInstruction(cmp)

	changed := LiteralBroadcastingPromotion(b)
	if !changed {
		t.Fatal("expected the scalar-valued literal instruction's use to be promoted")
	}
	if !cmp.Kind.Compare.LHS.IsLiteral {
		t.Error("promoted operand must become an inline literal use")
	}
}

// TestLiteralBroadcastingPromotionNoOp checks that an already-scalar
// operand, or a genuinely aggregate one, is left untouched.
func TestLiteralBroadcastingPromotionNoOp(t *testing.T) {
	scalar := types.ScalarOf(dtype.Int(32))
	a := ir.LiteralUse(scalar, ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: 1}})
	vec := vecI32(4)
	bb := &ir.Instruction{Op: ir.OpLiteral, Typ: vec, Kind: ir.InstructionKind{Literal: ir.LiteralInst{Type: vec, Value: ir.Literal{Kind: ir.LitTensor}}}}
	add := &ir.Instruction{
		Op: ir.OpNumericBinary, Typ: vec,
		Kind: ir.InstructionKind{NumericBinary: ir.NumericBinaryInst{Op: ir.BinaryAdd, LHS: a, RHS: bb.Use()}},
	}
	block := &ir.BasicBlock{Name: "entry"}
	block.AppendInstruction(bb)
	block.AppendInstruction(add)

	if LiteralBroadcastingPromotion(block) {
		t.Error("an operand already at scalar type must not be reported as changed")
	}
}
