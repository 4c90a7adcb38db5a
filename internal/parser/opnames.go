package parser

import "github.com/dan-zheng/GPIR/internal/ir"

var numericUnaryNames = map[string]ir.NumericUnaryOp{
	"neg": ir.UnaryNeg, "abs": ir.UnaryAbs, "exp": ir.UnaryExp, "log": ir.UnaryLog,
	"sqrt": ir.UnarySqrt, "sin": ir.UnarySin, "cos": ir.UnaryCos, "tanh": ir.UnaryTanh,
}

var numericBinaryNames = map[string]ir.NumericBinaryOp{
	"add": ir.BinaryAdd, "sub": ir.BinarySub, "mul": ir.BinaryMul, "div": ir.BinaryDiv,
	"mod": ir.BinaryMod, "pow": ir.BinaryPow, "max": ir.BinaryMax, "min": ir.BinaryMin,
}

var booleanBinaryNames = map[string]ir.BooleanBinaryOp{
	"and": ir.BoolAnd, "or": ir.BoolOr, "xor": ir.BoolXor,
}

var compareNames = map[string]ir.CompareOp{
	"eq": ir.CmpEq, "ne": ir.CmpNe, "lt": ir.CmpLt, "le": ir.CmpLe, "gt": ir.CmpGt, "ge": ir.CmpGe,
}

func reverseMnemonic[K comparable](m map[string]K) map[K]string {
	out := make(map[K]string, len(m))
	for name, op := range m {
		out[op] = name
	}
	return out
}

var (
	numericUnaryMnemonics  = reverseMnemonic(numericUnaryNames)
	numericBinaryMnemonics = reverseMnemonic(numericBinaryNames)
	booleanBinaryMnemonics = reverseMnemonic(booleanBinaryNames)
	compareMnemonics       = reverseMnemonic(compareNames)
)
