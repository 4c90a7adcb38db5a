package ir

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/types"
)

// InferError describes why type inference for an instruction failed. It
// carries enough detail for callers (the builder, the verifier) to wrap it
// into their own error taxonomy; this package has no error taxonomy of its
// own (spec §7 assigns that to parser/verify).
type InferError struct {
	Reason string
}

func (e *InferError) Error() string { return e.Reason }

func fail(format string, args ...any) (types.Type, error) {
	return types.InvalidType, &InferError{Reason: fmt.Sprintf(format, args...)}
}

// Infer derives the result type of an instruction from its kind, per spec
// §4.2. It returns types.InvalidType and a descriptive error if the kind's
// operands are not well-formed. resolver sees through aliases/structs for
// extract/insert/elementPointer; registry resolves builtin instructions and
// numericBuiltin reduction combinators.
func Infer(op Opcode, kind InstructionKind, resolver types.Resolver, registry IntrinsicRegistry) (types.Type, error) {
	switch op {
	case OpLiteral:
		return kind.Literal.Type, nil

	case OpNumericUnary:
		return inferTensorUnary(kind.NumericUnary.Value)

	case OpNumericBinary:
		return inferNumericBinary(kind.NumericBinary.LHS, kind.NumericBinary.RHS)

	case OpBooleanBinary:
		return inferBooleanBinary(kind.BooleanBinary.LHS, kind.BooleanBinary.RHS)

	case OpCompare:
		return inferCompare(kind.Compare.LHS, kind.Compare.RHS)

	case OpNot:
		return inferNot(kind.Not.Value)

	case OpDot:
		return inferDot(kind.Dot.LHS, kind.Dot.RHS)

	case OpConcatenate:
		return inferConcatenate(kind.Concatenate.Values, kind.Concatenate.Axis)

	case OpTranspose:
		return inferTranspose(kind.Transpose.Value)

	case OpReverse:
		return inferReverse(kind.Reverse.Value, kind.Reverse.Dims)

	case OpSlice:
		return inferSlice(kind.Slice.Value, kind.Slice.Range)

	case OpRandom:
		return inferRandom(kind.Random.Shape, kind.Random.DataType, kind.Random.Low, kind.Random.High)

	case OpSelect:
		return inferSelect(kind.Select.Then, kind.Select.Else, kind.Select.By)

	case OpReduce:
		return inferReduce(kind.Reduce, resolver, registry)

	case OpScan:
		return inferScan(kind.Scan, resolver, registry)

	case OpReduceWindow:
		return inferReduceWindow(kind.ReduceWindow, resolver, registry)

	case OpConvolve:
		return inferConvolve(kind.Convolve)

	case OpRank:
		return orInvalid(types.ScalarOf(dtype.Int(64)), requireTensor(kind.Rank.Value))

	case OpShapeOf:
		t, _, ok := kind.ShapeOf.Value.Type().TensorType()
		if !ok {
			return fail("shape: operand is not a tensor")
		}
		return types.TensorOf(shape.New(int64(t.Rank())), dtype.Int(64)), nil

	case OpUnitCount:
		return orInvalid(types.ScalarOf(dtype.Int(64)), requireTensor(kind.UnitCount.Value))

	case OpPadShape:
		return inferPadShape(kind.PadShape.Value, kind.PadShape.At)

	case OpSqueezeShape:
		return inferSqueezeShape(kind.SqueezeShape.Value, kind.SqueezeShape.At)

	case OpShapeCast:
		return inferShapeCast(kind.ShapeCast.Value, kind.ShapeCast.Target)

	case OpBitCast:
		return kind.BitCast.Target, nil

	case OpDataTypeCast:
		return inferDataTypeCast(kind.DataTypeCast.Value, kind.DataTypeCast.Target)

	case OpExtract:
		t, ok := types.ElementType(resolver, kind.Extract.From.Type(), kind.Extract.Keys)
		if !ok {
			return fail("extract: key path is not well-formed for %s", kind.Extract.From.Type())
		}
		return t, nil

	case OpInsert:
		return inferInsert(kind.Insert, resolver)

	case OpApply:
		return inferApply(kind.Apply.Callee, kind.Apply.Args)

	case OpAllocateStack:
		return inferAllocateStack(kind.AllocateStack.ElemType, kind.AllocateStack.Count)

	case OpAllocateHeap:
		return inferAllocateHeap(kind.AllocateHeap.ElemType, kind.AllocateHeap.Count)

	case OpAllocateBox:
		return types.BoxOf(kind.AllocateBox.ElemType), nil

	case OpProjectBox:
		return inferProjectBox(kind.ProjectBox.Value)

	case OpLoad:
		return inferLoad(kind.Load.Pointer)

	case OpStore:
		return inferStore(kind.Store.Value, kind.Store.Pointer)

	case OpElementPointer:
		return inferElementPointer(kind.ElementPointer.Pointer, kind.ElementPointer.Keys, resolver)

	case OpCopy:
		return inferCopy(kind.Copy)

	case OpCreateStack:
		return types.StackType, nil

	case OpDestroyStack:
		return orInvalid(types.VoidType, requireKind(kind.DestroyStack.Stack.Type(), types.Stack, "destroy_stack"))

	case OpPush:
		return orInvalid(types.VoidType, requireKind(kind.Push.Stack.Type(), types.Stack, "push"))

	case OpPop:
		if err := requireKind(kind.Pop.Stack.Type(), types.Stack, "pop"); err != nil {
			return types.InvalidType, err
		}
		return kind.Pop.ElemType, nil

	case OpRetain:
		return orInvalid(types.VoidType, requireKind(kind.Retain.Value.Type(), types.Box, "retain"))

	case OpRelease:
		return orInvalid(types.VoidType, requireKind(kind.Release.Value.Type(), types.Box, "release"))

	case OpDeallocate:
		t := kind.Deallocate.Value.Type()
		if t.Kind != types.Pointer && t.Kind != types.Box {
			return fail("deallocate: operand must be pointer or box, got %s", t)
		}
		return types.VoidType, nil

	case OpBranch, OpConditional, OpBranchEnum, OpReturn, OpTrap:
		return types.VoidType, nil

	case OpBuiltin:
		return inferBuiltin(kind.Builtin.Name, kind.Builtin.Args, registry)

	default:
		return fail("unknown opcode %v", op)
	}
}

// orInvalid returns (t, nil) when err is nil, else (types.InvalidType, err).
func orInvalid(t types.Type, err error) (types.Type, error) {
	if err != nil {
		return types.InvalidType, err
	}
	return t, nil
}

func requireTensor(u Use) error {
	if _, _, ok := u.Type().TensorType(); !ok {
		return &InferError{Reason: fmt.Sprintf("expected tensor operand, got %s", u.Type())}
	}
	return nil
}

func requireKind(t types.Type, k types.Kind, op string) error {
	if t.Kind != k {
		return &InferError{Reason: fmt.Sprintf("%s: expected kind %v, got %s", op, k, t)}
	}
	return nil
}

func inferTensorUnary(v Use) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("numeric_unary: operand must be tensor, got %s", v.Type())
	}
	return types.TensorOf(s, dt), nil
}

func inferNumericBinary(a, b Use) (types.Type, error) {
	return inferBroadcastBinary(a, b, func(dt dtype.DataType) bool { return dt.IsNumeric() }, "numeric_binary")
}

func inferBooleanBinary(a, b Use) (types.Type, error) {
	return inferBroadcastBinary(a, b, func(dt dtype.DataType) bool { return dt.IsBool() }, "boolean_binary")
}

func inferBroadcastBinary(a, b Use, accept func(dtype.DataType) bool, opName string) (types.Type, error) {
	sa, dta, ok := a.Type().TensorType()
	if !ok {
		return fail("%s: lhs must be tensor, got %s", opName, a.Type())
	}
	sb, dtb, ok := b.Type().TensorType()
	if !ok {
		return fail("%s: rhs must be tensor, got %s", opName, b.Type())
	}
	if !dta.Equal(dtb) {
		return fail("%s: dtype mismatch %s vs %s", opName, dta, dtb)
	}
	if !accept(dta) {
		return fail("%s: dtype %s not accepted", opName, dta)
	}
	out, ok := sa.Broadcast(sb)
	if !ok {
		return fail("%s: shapes %s and %s are not broadcast-compatible", opName, sa, sb)
	}
	return types.TensorOf(out, dta), nil
}

func inferCompare(a, b Use) (types.Type, error) {
	sa, dta, ok := a.Type().TensorType()
	if !ok {
		return fail("compare: lhs must be tensor, got %s", a.Type())
	}
	sb, dtb, ok := b.Type().TensorType()
	if !ok {
		return fail("compare: rhs must be tensor, got %s", b.Type())
	}
	if !dta.Equal(dtb) {
		return fail("compare: dtype mismatch %s vs %s", dta, dtb)
	}
	if !dta.IsNumeric() {
		return fail("compare: dtype %s is not numeric", dta)
	}
	out, ok := sa.Broadcast(sb)
	if !ok {
		return fail("compare: shapes %s and %s are not broadcast-compatible", sa, sb)
	}
	return types.TensorOf(out, dtype.Bool), nil
}

func inferNot(v Use) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("not: operand must be tensor, got %s", v.Type())
	}
	if !dt.IsBool() {
		return fail("not: operand dtype must be bool, got %s", dt)
	}
	return types.TensorOf(s, dt), nil
}

func inferDot(a, b Use) (types.Type, error) {
	sa, dta, ok := a.Type().TensorType()
	if !ok {
		return fail("dot: lhs must be tensor, got %s", a.Type())
	}
	sb, dtb, ok := b.Type().TensorType()
	if !ok {
		return fail("dot: rhs must be tensor, got %s", b.Type())
	}
	if !dta.Equal(dtb) {
		return fail("dot: dtype mismatch %s vs %s", dta, dtb)
	}
	if out, ok := sa.MatrixMultiplied(sb); ok {
		return types.TensorOf(out, dta), nil
	}
	if sa.IsVector() && sb.IsVector() && sa.Equal(sb) {
		return types.ScalarOf(dta), nil
	}
	return fail("dot: shapes %s and %s admit neither a matrix product nor an identical-vector inner product", sa, sb)
}

func inferConcatenate(values []Use, axis int) (types.Type, error) {
	if len(values) == 0 {
		return fail("concatenate: no operands")
	}
	cur, dt, ok := values[0].Type().TensorType()
	if !ok {
		return fail("concatenate: operand 0 must be tensor, got %s", values[0].Type())
	}
	if axis < 0 || axis >= cur.Rank() {
		return fail("concatenate: axis %d out of range for rank %d", axis, cur.Rank())
	}
	for i := 1; i < len(values); i++ {
		s, d, ok := values[i].Type().TensorType()
		if !ok {
			return fail("concatenate: operand %d must be tensor, got %s", i, values[i].Type())
		}
		if !d.Equal(dt) {
			return fail("concatenate: dtype mismatch at operand %d: %s vs %s", i, d, dt)
		}
		next, ok := cur.Concatenating(s, axis)
		if !ok {
			return fail("concatenate: shapes %s and %s are not concatenable along axis %d", cur, s, axis)
		}
		cur = next
	}
	return types.TensorOf(cur, dt), nil
}

func inferTranspose(v Use) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("transpose: operand must be tensor, got %s", v.Type())
	}
	return types.TensorOf(s.Transpose(), dt), nil
}

func inferReverse(v Use, dims []int) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("reverse: operand must be tensor, got %s", v.Type())
	}
	seen := make(map[int]struct{}, len(dims))
	for _, d := range dims {
		if d < 0 || d >= s.Rank() {
			return fail("reverse: dimension %d out of range for rank %d", d, s.Rank())
		}
		if _, dup := seen[d]; dup {
			return fail("reverse: duplicate dimension %d", d)
		}
		seen[d] = struct{}{}
	}
	return types.TensorOf(s, dt), nil
}

func inferSlice(v Use, r RangeSpec) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("slice: operand must be tensor, got %s", v.Type())
	}
	if s.Rank() == 0 {
		return fail("slice: operand is a scalar")
	}
	if r.Start < 0 || r.Count < 0 || r.Start+r.Count > s.Dims[0] {
		return fail("slice: range [%d,%d) not contained in leading dimension %d", r.Start, r.Start+r.Count, s.Dims[0])
	}
	out := append([]int64(nil), s.Dims...)
	out[0] = r.Count
	return types.TensorOf(shape.TensorShape{Dims: out}, dt), nil
}

func inferRandom(s shape.TensorShape, dt dtype.DataType, lo, hi Use) (types.Type, error) {
	loS, loDT, ok := lo.Type().TensorType()
	if !ok || !loS.IsScalar() {
		return fail("random: low bound must be a scalar numeric, got %s", lo.Type())
	}
	hiS, hiDT, ok := hi.Type().TensorType()
	if !ok || !hiS.IsScalar() {
		return fail("random: high bound must be a scalar numeric, got %s", hi.Type())
	}
	if !loDT.Equal(dt) || !hiDT.Equal(dt) {
		return fail("random: bound dtypes %s/%s must match result dtype %s", loDT, hiDT, dt)
	}
	if !dt.IsNumeric() {
		return fail("random: dtype %s is not numeric", dt)
	}
	return types.TensorOf(s, dt), nil
}

func inferSelect(thenV, elseV, by Use) (types.Type, error) {
	st, dtt, ok := thenV.Type().TensorType()
	if !ok {
		return fail("select: then-operand must be tensor, got %s", thenV.Type())
	}
	se, dte, ok := elseV.Type().TensorType()
	if !ok {
		return fail("select: else-operand must be tensor, got %s", elseV.Type())
	}
	if !dtt.Equal(dte) {
		return fail("select: then/else dtype mismatch %s vs %s", dtt, dte)
	}
	sb, dtb, ok := by.Type().TensorType()
	if !ok || !dtb.IsBool() {
		return fail("select: flags operand must be a bool tensor, got %s", by.Type())
	}
	out, ok := st.Broadcast(se)
	if !ok {
		return fail("select: then/else shapes %s and %s not broadcast-compatible", st, se)
	}
	out, ok = out.Broadcast(sb)
	if !ok {
		return fail("select: result shape %s and flags shape %s not broadcast-compatible", out, sb)
	}
	return types.TensorOf(out, dtt), nil
}

func checkCombinator(c ReductionCombinator, dt dtype.DataType, registry IntrinsicRegistry) error {
	switch c.Kind {
	case CombinatorFunction:
		ft := c.Function.Type()
		if ft.Kind != types.Function || len(ft.Args) != 1 {
			return &InferError{Reason: "reduction combinator function must take exactly one tensor argument"}
		}
		if ft.Result == nil || !ft.Result.IsScalar() || !ft.Result.DataType.Equal(dt) {
			return &InferError{Reason: fmt.Sprintf("reduction combinator function must return scalar %s", dt)}
		}
		return nil
	case CombinatorBoolean:
		if !dt.IsBool() {
			return &InferError{Reason: "boolean reduction combinator requires a bool-dtype operand"}
		}
		return nil
	case CombinatorNumeric:
		if !dt.IsNumeric() {
			return &InferError{Reason: "numeric reduction combinator requires a numeric-dtype operand"}
		}
		return nil
	case CombinatorNumericBuiltin:
		if !dt.IsNumeric() {
			return &InferError{Reason: "numeric-builtin reduction combinator requires a numeric-dtype operand"}
		}
		if registry == nil {
			return &InferError{Reason: "numeric-builtin reduction combinator requires an intrinsic registry"}
		}
		if _, ok := registry.Intrinsic(c.Builtin); !ok {
			return &InferError{Reason: fmt.Sprintf("undefined intrinsic %q in reduction combinator", c.Builtin)}
		}
		return nil
	default:
		return &InferError{Reason: "invalid reduction combinator"}
	}
}

func inferReduce(k ReduceInst, resolver types.Resolver, registry IntrinsicRegistry) (types.Type, error) {
	s, dt, ok := k.Value.Type().TensorType()
	if !ok {
		return fail("reduce: operand must be tensor, got %s", k.Value.Type())
	}
	initS, initDT, ok := k.Initial.Type().TensorType()
	if !ok || !initS.IsScalar() || !initDT.Equal(dt) {
		return fail("reduce: initial value must be a scalar of dtype %s", dt)
	}
	if err := checkCombinator(k.Combinator, dt, registry); err != nil {
		return types.InvalidType, err
	}
	dims := make(map[int]struct{}, len(k.Dims))
	for _, d := range k.Dims {
		if d < 0 || d >= s.Rank() {
			return fail("reduce: dimension %d out of range for rank %d", d, s.Rank())
		}
		dims[d] = struct{}{}
	}
	return types.TensorOf(s.DroppingDimensions(dims), dt), nil
}

func inferScan(k ScanInst, resolver types.Resolver, registry IntrinsicRegistry) (types.Type, error) {
	s, dt, ok := k.Value.Type().TensorType()
	if !ok {
		return fail("scan: operand must be tensor, got %s", k.Value.Type())
	}
	if err := checkCombinator(k.Combinator, dt, registry); err != nil {
		return types.InvalidType, err
	}
	for _, d := range k.Dims {
		if d < 0 || d >= s.Rank() {
			return fail("scan: dimension %d out of range for rank %d", d, s.Rank())
		}
	}
	return types.TensorOf(s, dt), nil
}

func inferReduceWindow(k ReduceWindowInst, resolver types.Resolver, registry IntrinsicRegistry) (types.Type, error) {
	s, dt, ok := k.Value.Type().TensorType()
	if !ok {
		return fail("reduce_window: operand must be tensor, got %s", k.Value.Type())
	}
	initS, initDT, ok := k.Initial.Type().TensorType()
	if !ok || !initS.IsScalar() || !initDT.Equal(dt) {
		return fail("reduce_window: initial value must be a scalar of dtype %s", dt)
	}
	if err := checkCombinator(k.Combinator, dt, registry); err != nil {
		return types.InvalidType, err
	}
	rank := s.Rank()
	if len(k.WindowDims) != rank {
		return fail("reduce_window: window-dims count %d must equal rank %d", len(k.WindowDims), rank)
	}
	strides := k.Strides
	if strides == nil {
		strides = onesI64(rank)
	}
	if len(strides) != rank {
		return fail("reduce_window: strides count %d must equal rank %d", len(strides), rank)
	}
	for i, st := range strides {
		if st < 1 {
			return fail("reduce_window: stride[%d] must be >= 1, got %d", i, st)
		}
	}
	padding := k.Padding
	if padding == nil {
		padding = make([]shape.Padding, rank)
	}
	if len(padding) != rank {
		return fail("reduce_window: padding count %d must equal rank %d", len(padding), rank)
	}
	out := make([]int64, rank)
	for i := 0; i < rank; i++ {
		padded := padding[i].Low + s.Dims[i] + padding[i].High
		if k.WindowDims[i] > padded {
			out[i] = 0
			continue
		}
		out[i] = (padded-k.WindowDims[i])/strides[i] + 1
	}
	return types.TensorOf(shape.TensorShape{Dims: out}, dt), nil
}

func onesI64(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func inferConvolve(k ConvolveInst) (types.Type, error) {
	lhsS, lhsDT, ok := k.LHS.Type().TensorType()
	if !ok {
		return fail("convolve: lhs must be tensor, got %s", k.LHS.Type())
	}
	kerS, kerDT, ok := k.Kernel.Type().TensorType()
	if !ok {
		return fail("convolve: kernel must be tensor, got %s", k.Kernel.Type())
	}
	if !lhsDT.Equal(kerDT) {
		return fail("convolve: dtype mismatch %s vs %s", lhsDT, kerDT)
	}
	out, err := shape.ConvolveOutput(lhsS, kerS, shape.ConvolveConfig{
		Strides: k.Strides, Padding: k.Padding, LhsDilation: k.LhsDilation, RhsDilation: k.RhsDilation, Groups: k.Groups,
	})
	if err != nil {
		return fail("convolve: %v", err)
	}
	return types.TensorOf(out, lhsDT), nil
}

func inferPadShape(v Use, at int) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("pad_shape: operand must be tensor, got %s", v.Type())
	}
	if at < 0 || at > s.Rank() {
		return fail("pad_shape: position %d out of range for rank %d", at, s.Rank())
	}
	return types.TensorOf(s.PaddingDimension(at), dt), nil
}

func inferSqueezeShape(v Use, at int) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("squeeze_shape: operand must be tensor, got %s", v.Type())
	}
	if at < 0 || at >= s.Rank() {
		return fail("squeeze_shape: position %d out of range for rank %d", at, s.Rank())
	}
	if s.Dims[at] != 1 {
		return fail("squeeze_shape: dimension %d has size %d, not 1", at, s.Dims[at])
	}
	return types.TensorOf(s.DroppingDimension(at), dt), nil
}

func inferShapeCast(v Use, target shape.TensorShape) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("shape_cast: operand must be tensor, got %s", v.Type())
	}
	if s.ContiguousSize() != target.ContiguousSize() {
		return fail("shape_cast: contiguous size mismatch %d vs %d", s.ContiguousSize(), target.ContiguousSize())
	}
	return types.TensorOf(target, dt), nil
}

func inferDataTypeCast(v Use, target dtype.DataType) (types.Type, error) {
	s, dt, ok := v.Type().TensorType()
	if !ok {
		return fail("data_type_cast: operand must be tensor, got %s", v.Type())
	}
	if !dt.CanCast(target) {
		return fail("data_type_cast: cannot cast %s to %s", dt, target)
	}
	return types.TensorOf(s, target), nil
}

func inferInsert(k InsertInst, resolver types.Resolver) (types.Type, error) {
	elemT, ok := types.ElementType(resolver, k.To.Type(), k.Keys)
	if !ok {
		return fail("insert: key path is not well-formed for %s", k.To.Type())
	}
	if !types.Equal(elemT, k.Src.Type()) {
		return fail("insert: source type %s does not match element type %s at key path", k.Src.Type(), elemT)
	}
	return k.To.Type(), nil
}

func inferApply(callee Use, args []Use) (types.Type, error) {
	ft := callee.Type()
	if ft.Kind == types.Pointer && ft.Elem != nil {
		ft = *ft.Elem
	}
	if ft.Kind != types.Function {
		return fail("apply: callee is not a function or pointer-to-function, got %s", callee.Type())
	}
	if len(ft.Args) != len(args) {
		return fail("apply: expected %d arguments, got %d", len(ft.Args), len(args))
	}
	for i, a := range args {
		if !types.Equal(ft.Args[i], a.Type()) {
			return fail("apply: argument %d type %s does not match parameter type %s", i, a.Type(), ft.Args[i])
		}
	}
	if ft.Result == nil {
		return types.VoidType, nil
	}
	return *ft.Result, nil
}

func inferAllocateStack(elem types.Type, count Use) (types.Type, error) {
	s, dt, ok := count.Type().TensorType()
	if !ok || !s.IsScalar() || !dt.Equal(dtype.Int(64)) {
		return fail("allocate_stack: count must be a scalar i64, got %s", count.Type())
	}
	return types.PointerTo(elem), nil
}

func inferAllocateHeap(elem types.Type, count Use) (types.Type, error) {
	s, dt, ok := count.Type().TensorType()
	if !ok || !s.IsScalar() || !dt.Equal(dtype.Int(64)) {
		return fail("allocate_heap: count must be a scalar i64, got %s", count.Type())
	}
	return types.PointerTo(elem), nil
}

func inferProjectBox(v Use) (types.Type, error) {
	t := v.Type()
	if t.Kind != types.Box {
		return fail("project_box: operand must be box, got %s", t)
	}
	return types.PointerTo(*t.Elem), nil
}

func inferLoad(p Use) (types.Type, error) {
	t := p.Type()
	if t.Kind != types.Pointer {
		return fail("load: operand must be pointer, got %s", t)
	}
	return *t.Elem, nil
}

func inferStore(v, p Use) (types.Type, error) {
	t := p.Type()
	if t.Kind != types.Pointer {
		return fail("store: destination must be pointer, got %s", t)
	}
	if !types.Equal(*t.Elem, v.Type()) {
		return fail("store: value type %s does not match pointee type %s", v.Type(), *t.Elem)
	}
	return types.VoidType, nil
}

func inferElementPointer(p Use, keys []types.ElementKey, resolver types.Resolver) (types.Type, error) {
	t := p.Type()
	if t.Kind != types.Pointer {
		return fail("element_pointer: operand must be pointer, got %s", t)
	}
	elemT, ok := types.ElementType(resolver, *t.Elem, keys)
	if !ok {
		return fail("element_pointer: key path is not well-formed for %s", *t.Elem)
	}
	return types.PointerTo(elemT), nil
}

func inferCopy(k CopyInst) (types.Type, error) {
	fromElem, fromOK := addressableElem(k.From.Type())
	toElem, toOK := addressableElem(k.To.Type())
	if !fromOK || !toOK {
		return fail("copy: operands must be pointer or box, got %s and %s", k.From.Type(), k.To.Type())
	}
	if !types.Equal(fromElem, toElem) {
		return fail("copy: element type mismatch %s vs %s", fromElem, toElem)
	}
	cs, cdt, ok := k.Count.Type().TensorType()
	if !ok || !cs.IsScalar() || !cdt.Equal(dtype.Int(64)) {
		return fail("copy: count must be a scalar i64, got %s", k.Count.Type())
	}
	if k.From.Type().Kind == types.Box || k.To.Type().Kind == types.Box {
		if !k.Count.IsLiteral || k.Count.Lit.Kind != LitScalar || k.Count.Lit.Scalar.Int != 1 {
			return fail("copy: box-to-box copy requires a literal count of 1")
		}
	}
	return types.VoidType, nil
}

func addressableElem(t types.Type) (types.Type, bool) {
	if (t.Kind == types.Pointer || t.Kind == types.Box) && t.Elem != nil {
		return *t.Elem, true
	}
	return types.Type{}, false
}

func inferBuiltin(name string, args []Use, registry IntrinsicRegistry) (types.Type, error) {
	if registry == nil {
		return fail("builtin %q: no intrinsic registry configured", name)
	}
	intr, ok := registry.Intrinsic(name)
	if !ok {
		return fail("builtin %q: undefined intrinsic", name)
	}
	if intr.Opcode() != name {
		return fail("builtin %q: intrinsic does not round-trip through the registry (got %q)", name, intr.Opcode())
	}
	t := intr.ResultType(args)
	if t.Kind == types.Invalid {
		return fail("builtin %q: intrinsic rejected its arguments", name)
	}
	return t, nil
}
