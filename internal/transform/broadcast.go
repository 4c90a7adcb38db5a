package transform

import (
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

// LiteralBroadcastingPromotion rewrites every broadcastable instruction
// (numericBinary, booleanBinary, compare) in b whose operand is a scalar
// literal value declared at a broader tensor shape -- whether embedded
// directly or held by a separate literal instruction -- to a scalar-typed
// literal carrying the same value. The instruction's own inferred type is
// unchanged: broadcasting a rank-0 operand against the other side always
// yields the other side's shape, which is what the wider declared shape
// already equalled. Reports whether anything changed.
func LiteralBroadcastingPromotion(b *ir.BasicBlock) bool {
	changed := false
	for _, inst := range b.Instructions {
		switch inst.Op {
		case ir.OpNumericBinary:
			changed = promoteOperand(&inst.Kind.NumericBinary.LHS) || changed
			changed = promoteOperand(&inst.Kind.NumericBinary.RHS) || changed
		case ir.OpBooleanBinary:
			changed = promoteOperand(&inst.Kind.BooleanBinary.LHS) || changed
			changed = promoteOperand(&inst.Kind.BooleanBinary.RHS) || changed
		case ir.OpCompare:
			changed = promoteOperand(&inst.Kind.Compare.LHS) || changed
			changed = promoteOperand(&inst.Kind.Compare.RHS) || changed
		}
	}
	return changed
}

// promoteOperand rewrites *u in place if it carries a scalar literal value
// at a non-scalar declared tensor shape, returning whether it did.
func promoteOperand(u *ir.Use) bool {
	lit, ok := scalarLiteralOf(*u)
	if !ok {
		return false
	}
	sh, dt, isTensor := u.Type().TensorType()
	if !isTensor || sh.Rank() == 0 {
		return false
	}
	*u = ir.LiteralUse(types.ScalarOf(dt), lit)
	return true
}

// scalarLiteralOf extracts the scalar literal value carried by u, whether
// u embeds the literal directly or references a `literal` instruction
// whose value is scalar-kind.
func scalarLiteralOf(u ir.Use) (ir.Literal, bool) {
	if u.IsLiteral {
		return u.Lit, isScalarLiteralKind(u.Lit.Kind)
	}
	if d, ok := u.Def.(*ir.Instruction); ok && d.Op == ir.OpLiteral {
		lit := d.Kind.Literal.Value
		return lit, isScalarLiteralKind(lit.Kind)
	}
	return ir.Literal{}, false
}

func isScalarLiteralKind(k ir.LiteralKind) bool {
	switch k {
	case ir.LitScalar, ir.LitBool:
		return true
	default:
		return false
	}
}
