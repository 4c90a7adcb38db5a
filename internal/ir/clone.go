package ir

import (
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/types"
)

// CloneKind returns a copy of kind with every slice-typed field backed by
// a fresh array, so that mutating the copy (e.g. via Substitute or
// SubstituteBranches, both of which write through slice indices) never
// aliases the instruction kind was copied from. Used by function cloning;
// every other caller that only reads kind can use the zero-cost plain
// struct copy instead.
func CloneKind(op Opcode, kind InstructionKind) InstructionKind {
	out := kind
	out.Literal.Value = cloneLiteral(kind.Literal.Value)
	switch op {
	case OpConcatenate:
		out.Concatenate.Values = append([]Use(nil), kind.Concatenate.Values...)
	case OpReverse:
		out.Reverse.Dims = append([]int(nil), kind.Reverse.Dims...)
	case OpReduce:
		out.Reduce.Dims = append([]int(nil), kind.Reduce.Dims...)
		out.Reduce.Combinator = cloneCombinator(kind.Reduce.Combinator)
	case OpScan:
		out.Scan.Dims = append([]int(nil), kind.Scan.Dims...)
		out.Scan.Combinator = cloneCombinator(kind.Scan.Combinator)
	case OpReduceWindow:
		out.ReduceWindow.WindowDims = append([]int64(nil), kind.ReduceWindow.WindowDims...)
		out.ReduceWindow.Strides = append([]int64(nil), kind.ReduceWindow.Strides...)
		out.ReduceWindow.Padding = append([]shape.Padding(nil), kind.ReduceWindow.Padding...)
		out.ReduceWindow.Combinator = cloneCombinator(kind.ReduceWindow.Combinator)
	case OpConvolve:
		out.Convolve.Strides = append([]int64(nil), kind.Convolve.Strides...)
		out.Convolve.Padding = append([]shape.Padding(nil), kind.Convolve.Padding...)
		out.Convolve.LhsDilation = append([]int64(nil), kind.Convolve.LhsDilation...)
		out.Convolve.RhsDilation = append([]int64(nil), kind.Convolve.RhsDilation...)
	case OpExtract:
		out.Extract.Keys = append([]types.ElementKey(nil), kind.Extract.Keys...)
	case OpInsert:
		out.Insert.Keys = append([]types.ElementKey(nil), kind.Insert.Keys...)
	case OpApply:
		out.Apply.Args = append([]Use(nil), kind.Apply.Args...)
	case OpElementPointer:
		out.ElementPointer.Keys = append([]types.ElementKey(nil), kind.ElementPointer.Keys...)
	case OpBranch:
		out.Branch.Args = append([]Use(nil), kind.Branch.Args...)
	case OpConditional:
		out.Conditional.ThenArgs = append([]Use(nil), kind.Conditional.ThenArgs...)
		out.Conditional.ElseArgs = append([]Use(nil), kind.Conditional.ElseArgs...)
	case OpBranchEnum:
		out.BranchEnum.Cases = append([]BranchEnumCase(nil), kind.BranchEnum.Cases...)
	case OpBuiltin:
		out.Builtin.Args = append([]Use(nil), kind.Builtin.Args...)
	}
	return out
}

func cloneCombinator(c ReductionCombinator) ReductionCombinator {
	if c.Kind == CombinatorFunction {
		c.Function = cloneUse(c.Function)
	}
	return c
}

func cloneLiteral(lit Literal) Literal {
	out := lit
	switch lit.Kind {
	case LitTensor, LitTuple, LitArray:
		out.Elements = make([]Use, len(lit.Elements))
		for i, u := range lit.Elements {
			out.Elements[i] = cloneUse(u)
		}
	case LitStruct:
		out.Fields = make([]NamedUse, len(lit.Fields))
		for i, f := range lit.Fields {
			out.Fields[i] = NamedUse{Name: f.Name, Value: cloneUse(f.Value)}
		}
	case LitEnumCase:
		out.CaseArgs = make([]Use, len(lit.CaseArgs))
		for i, u := range lit.CaseArgs {
			out.CaseArgs[i] = cloneUse(u)
		}
	}
	return out
}

func cloneUse(u Use) Use {
	if u.IsLiteral {
		u.Lit = cloneLiteral(u.Lit)
	}
	return u
}
