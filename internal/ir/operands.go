package ir

// Operands enumerates every Use referenced by an instruction's kind payload,
// including Uses nested inside aggregate literals, per spec §4.3. This is
// the sole source of dataflow edges: DataFlowGraphAnalysis, the verifier's
// dominance check, and DCE's worklist all derive "who does this instruction
// use" purely from this function rather than hand-maintained per-kind lists.
func Operands(op Opcode, kind *InstructionKind) []Use {
	var out []Use
	appendLiteral(&out, kind.Literal.Value)
	switch op {
	case OpNumericUnary:
		out = append(out, kind.NumericUnary.Value)
	case OpNumericBinary:
		out = append(out, kind.NumericBinary.LHS, kind.NumericBinary.RHS)
	case OpBooleanBinary:
		out = append(out, kind.BooleanBinary.LHS, kind.BooleanBinary.RHS)
	case OpCompare:
		out = append(out, kind.Compare.LHS, kind.Compare.RHS)
	case OpNot:
		out = append(out, kind.Not.Value)
	case OpDot:
		out = append(out, kind.Dot.LHS, kind.Dot.RHS)
	case OpConcatenate:
		out = append(out, kind.Concatenate.Values...)
	case OpTranspose:
		out = append(out, kind.Transpose.Value)
	case OpReverse:
		out = append(out, kind.Reverse.Value)
	case OpSlice:
		out = append(out, kind.Slice.Value)
	case OpRandom:
		out = append(out, kind.Random.Low, kind.Random.High)
	case OpSelect:
		out = append(out, kind.Select.Then, kind.Select.Else, kind.Select.By)
	case OpReduce:
		appendCombinator(&out, kind.Reduce.Combinator)
		out = append(out, kind.Reduce.Value, kind.Reduce.Initial)
	case OpScan:
		appendCombinator(&out, kind.Scan.Combinator)
		out = append(out, kind.Scan.Value)
	case OpReduceWindow:
		appendCombinator(&out, kind.ReduceWindow.Combinator)
		out = append(out, kind.ReduceWindow.Value, kind.ReduceWindow.Initial)
	case OpConvolve:
		out = append(out, kind.Convolve.LHS, kind.Convolve.Kernel)
	case OpRank:
		out = append(out, kind.Rank.Value)
	case OpShapeOf:
		out = append(out, kind.ShapeOf.Value)
	case OpUnitCount:
		out = append(out, kind.UnitCount.Value)
	case OpPadShape:
		out = append(out, kind.PadShape.Value)
	case OpSqueezeShape:
		out = append(out, kind.SqueezeShape.Value)
	case OpShapeCast:
		out = append(out, kind.ShapeCast.Value)
	case OpBitCast:
		out = append(out, kind.BitCast.Value)
	case OpDataTypeCast:
		out = append(out, kind.DataTypeCast.Value)
	case OpExtract:
		out = append(out, kind.Extract.From)
	case OpInsert:
		out = append(out, kind.Insert.Src, kind.Insert.To)
	case OpApply:
		out = append(out, kind.Apply.Callee)
		out = append(out, kind.Apply.Args...)
	case OpAllocateStack:
		out = append(out, kind.AllocateStack.Count)
	case OpAllocateHeap:
		out = append(out, kind.AllocateHeap.Count)
	case OpAllocateBox:
		// no operands
	case OpProjectBox:
		out = append(out, kind.ProjectBox.Value)
	case OpLoad:
		out = append(out, kind.Load.Pointer)
	case OpStore:
		out = append(out, kind.Store.Value, kind.Store.Pointer)
	case OpElementPointer:
		out = append(out, kind.ElementPointer.Pointer)
	case OpCopy:
		out = append(out, kind.Copy.From, kind.Copy.To, kind.Copy.Count)
	case OpCreateStack:
		// no operands
	case OpDestroyStack:
		out = append(out, kind.DestroyStack.Stack)
	case OpPush:
		out = append(out, kind.Push.Value, kind.Push.Stack)
	case OpPop:
		out = append(out, kind.Pop.Stack)
	case OpRetain:
		out = append(out, kind.Retain.Value)
	case OpRelease:
		out = append(out, kind.Release.Value)
	case OpDeallocate:
		out = append(out, kind.Deallocate.Value)
	case OpBranch:
		out = append(out, kind.Branch.Args...)
	case OpConditional:
		out = append(out, kind.Conditional.Cond)
		out = append(out, kind.Conditional.ThenArgs...)
		out = append(out, kind.Conditional.ElseArgs...)
	case OpBranchEnum:
		out = append(out, kind.BranchEnum.Value)
	case OpReturn:
		if kind.Return.HasValue {
			out = append(out, kind.Return.Value)
		}
	case OpTrap, OpLiteral:
		// no additional operands
	case OpBuiltin:
		out = append(out, kind.Builtin.Args...)
	}
	return out
}

func appendCombinator(out *[]Use, c ReductionCombinator) {
	if c.Kind == CombinatorFunction {
		*out = append(*out, c.Function)
	}
}

func appendLiteral(out *[]Use, lit Literal) {
	switch lit.Kind {
	case LitTensor, LitTuple, LitArray:
		for _, u := range lit.Elements {
			*out = append(*out, u)
			if u.IsLiteral {
				appendLiteral(out, u.Lit)
			}
		}
	case LitStruct:
		for _, f := range lit.Fields {
			*out = append(*out, f.Value)
			if f.Value.IsLiteral {
				appendLiteral(out, f.Value.Lit)
			}
		}
	case LitEnumCase:
		for _, u := range lit.CaseArgs {
			*out = append(*out, u)
			if u.IsLiteral {
				appendLiteral(out, u.Lit)
			}
		}
	}
}

// Substitute replaces every occurrence of oldUse with newUse within kind's
// operand positions (including inside nested aggregate literals), per spec
// §4.3. It is purely local to this one instruction and preserves every
// non-matching position unchanged.
func Substitute(op Opcode, kind *InstructionKind, newUse, oldUse Use) {
	substUse := func(u *Use) {
		if u.Equal(oldUse) {
			*u = newUse
		}
	}
	substLit(&kind.Literal.Value, newUse, oldUse)
	switch op {
	case OpNumericUnary:
		substUse(&kind.NumericUnary.Value)
	case OpNumericBinary:
		substUse(&kind.NumericBinary.LHS)
		substUse(&kind.NumericBinary.RHS)
	case OpBooleanBinary:
		substUse(&kind.BooleanBinary.LHS)
		substUse(&kind.BooleanBinary.RHS)
	case OpCompare:
		substUse(&kind.Compare.LHS)
		substUse(&kind.Compare.RHS)
	case OpNot:
		substUse(&kind.Not.Value)
	case OpDot:
		substUse(&kind.Dot.LHS)
		substUse(&kind.Dot.RHS)
	case OpConcatenate:
		for i := range kind.Concatenate.Values {
			substUse(&kind.Concatenate.Values[i])
		}
	case OpTranspose:
		substUse(&kind.Transpose.Value)
	case OpReverse:
		substUse(&kind.Reverse.Value)
	case OpSlice:
		substUse(&kind.Slice.Value)
	case OpRandom:
		substUse(&kind.Random.Low)
		substUse(&kind.Random.High)
	case OpSelect:
		substUse(&kind.Select.Then)
		substUse(&kind.Select.Else)
		substUse(&kind.Select.By)
	case OpReduce:
		substCombinator(&kind.Reduce.Combinator, newUse, oldUse)
		substUse(&kind.Reduce.Value)
		substUse(&kind.Reduce.Initial)
	case OpScan:
		substCombinator(&kind.Scan.Combinator, newUse, oldUse)
		substUse(&kind.Scan.Value)
	case OpReduceWindow:
		substCombinator(&kind.ReduceWindow.Combinator, newUse, oldUse)
		substUse(&kind.ReduceWindow.Value)
		substUse(&kind.ReduceWindow.Initial)
	case OpConvolve:
		substUse(&kind.Convolve.LHS)
		substUse(&kind.Convolve.Kernel)
	case OpRank:
		substUse(&kind.Rank.Value)
	case OpShapeOf:
		substUse(&kind.ShapeOf.Value)
	case OpUnitCount:
		substUse(&kind.UnitCount.Value)
	case OpPadShape:
		substUse(&kind.PadShape.Value)
	case OpSqueezeShape:
		substUse(&kind.SqueezeShape.Value)
	case OpShapeCast:
		substUse(&kind.ShapeCast.Value)
	case OpBitCast:
		substUse(&kind.BitCast.Value)
	case OpDataTypeCast:
		substUse(&kind.DataTypeCast.Value)
	case OpExtract:
		substUse(&kind.Extract.From)
	case OpInsert:
		substUse(&kind.Insert.Src)
		substUse(&kind.Insert.To)
	case OpApply:
		substUse(&kind.Apply.Callee)
		for i := range kind.Apply.Args {
			substUse(&kind.Apply.Args[i])
		}
	case OpAllocateStack:
		substUse(&kind.AllocateStack.Count)
	case OpAllocateHeap:
		substUse(&kind.AllocateHeap.Count)
	case OpProjectBox:
		substUse(&kind.ProjectBox.Value)
	case OpLoad:
		substUse(&kind.Load.Pointer)
	case OpStore:
		substUse(&kind.Store.Value)
		substUse(&kind.Store.Pointer)
	case OpElementPointer:
		substUse(&kind.ElementPointer.Pointer)
	case OpCopy:
		substUse(&kind.Copy.From)
		substUse(&kind.Copy.To)
		substUse(&kind.Copy.Count)
	case OpDestroyStack:
		substUse(&kind.DestroyStack.Stack)
	case OpPush:
		substUse(&kind.Push.Value)
		substUse(&kind.Push.Stack)
	case OpPop:
		substUse(&kind.Pop.Stack)
	case OpRetain:
		substUse(&kind.Retain.Value)
	case OpRelease:
		substUse(&kind.Release.Value)
	case OpDeallocate:
		substUse(&kind.Deallocate.Value)
	case OpBranch:
		for i := range kind.Branch.Args {
			substUse(&kind.Branch.Args[i])
		}
	case OpConditional:
		substUse(&kind.Conditional.Cond)
		for i := range kind.Conditional.ThenArgs {
			substUse(&kind.Conditional.ThenArgs[i])
		}
		for i := range kind.Conditional.ElseArgs {
			substUse(&kind.Conditional.ElseArgs[i])
		}
	case OpBranchEnum:
		substUse(&kind.BranchEnum.Value)
	case OpReturn:
		if kind.Return.HasValue {
			substUse(&kind.Return.Value)
		}
	case OpBuiltin:
		for i := range kind.Builtin.Args {
			substUse(&kind.Builtin.Args[i])
		}
	}
}

func substCombinator(c *ReductionCombinator, newUse, oldUse Use) {
	if c.Kind == CombinatorFunction && c.Function.Equal(oldUse) {
		c.Function = newUse
	}
}

func substLit(lit *Literal, newUse, oldUse Use) {
	switch lit.Kind {
	case LitTensor, LitTuple, LitArray:
		for i := range lit.Elements {
			if lit.Elements[i].Equal(oldUse) {
				lit.Elements[i] = newUse
			} else if lit.Elements[i].IsLiteral {
				substLit(&lit.Elements[i].Lit, newUse, oldUse)
			}
		}
	case LitStruct:
		for i := range lit.Fields {
			if lit.Fields[i].Value.Equal(oldUse) {
				lit.Fields[i].Value = newUse
			} else if lit.Fields[i].Value.IsLiteral {
				substLit(&lit.Fields[i].Value.Lit, newUse, oldUse)
			}
		}
	case LitEnumCase:
		for i := range lit.CaseArgs {
			if lit.CaseArgs[i].Equal(oldUse) {
				lit.CaseArgs[i] = newUse
			} else if lit.CaseArgs[i].IsLiteral {
				substLit(&lit.CaseArgs[i].Lit, newUse, oldUse)
			}
		}
	}
}

// SubstituteBranches replaces every reference to oldBlock with newBlock
// within a branch, conditional or branch_enum instruction's destinations,
// per spec §4.3. Other instruction kinds are unaffected.
func SubstituteBranches(op Opcode, kind *InstructionKind, oldBlock, newBlock *BasicBlock) {
	switch op {
	case OpBranch:
		if kind.Branch.Target == oldBlock {
			kind.Branch.Target = newBlock
		}
	case OpConditional:
		if kind.Conditional.Then == oldBlock {
			kind.Conditional.Then = newBlock
		}
		if kind.Conditional.Else == oldBlock {
			kind.Conditional.Else = newBlock
		}
	case OpBranchEnum:
		for i := range kind.BranchEnum.Cases {
			if kind.BranchEnum.Cases[i].Target == oldBlock {
				kind.BranchEnum.Cases[i].Target = newBlock
			}
		}
	}
}
