package pass

import (
	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/types"
)

func i32() types.Type { return types.ScalarOf(dtype.Int(32)) }

func litInst(name string, v int64) *ir.Instruction {
	return &ir.Instruction{
		Name: name,
		Op:   ir.OpLiteral,
		Typ:  i32(),
		Kind: ir.InstructionKind{Literal: ir.LiteralInst{
			Type:  i32(),
			Value: ir.Literal{Kind: ir.LitScalar, Scalar: ir.NumericValue{Int: v}},
		}},
	}
}

func addInst(name string, lhs, rhs ir.Use) *ir.Instruction {
	return &ir.Instruction{
		Name: name,
		Op:   ir.OpNumericBinary,
		Typ:  i32(),
		Kind: ir.InstructionKind{NumericBinary: ir.NumericBinaryInst{Op: ir.BinaryAdd, LHS: lhs, RHS: rhs}},
	}
}

func retInst(v ir.Use) *ir.Instruction {
	return &ir.Instruction{
		Op:   ir.OpReturn,
		Typ:  types.VoidType,
		Kind: ir.InstructionKind{Return: ir.ReturnInst{HasValue: true, Value: v}},
	}
}

// buildAddFunction builds a single-block function: %a = literal 1; %b = add
// %a, %a; return %b.
func buildAddFunction(name string) (*ir.Function, *ir.Instruction, *ir.Instruction) {
	f := &ir.Function{Name: name, ReturnType: i32()}
	b := &ir.BasicBlock{Name: "entry"}
	f.AppendBlock(b)

	a := litInst("a", 1)
	b.AppendInstruction(a)
	add := addInst("b", a.Use(), a.Use())
	b.AppendInstruction(add)
	b.AppendInstruction(retInst(add.Use()))
	return f, a, add
}
