package verify

import (
	"regexp"
	"strings"

	"github.com/dan-zheng/GPIR/internal/domtree"
	"github.com/dan-zheng/GPIR/internal/ir"
	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/types"
)

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// anonymousRE matches the parser's anonymous names: "N" for a block,
// variable or function, "B.I" for an instruction and "B^A" for an argument.
var anonymousRE = regexp.MustCompile(`^[0-9]+([.^][0-9]+)?$`)

// Verify checks a module against every structural and typing invariant of
// spec §4.4. It is all-or-nothing per spec §7: the first violation found
// is returned and verification stops.
func Verify(m *ir.Module, registry ir.IntrinsicRegistry) error {
	v := &verifier{module: m, registry: registry}
	return v.verifyModule()
}

type verifier struct {
	module   *ir.Module
	registry ir.IntrinsicRegistry
}

func (v *verifier) verifyModule() error {
	seenTypes := map[string]bool{}
	for _, a := range v.module.Nominal.Aliases() {
		if err := v.checkName(a.Name, InvalidIdentifierName, a); err != nil {
			return err
		}
		if seenTypes[a.Name] {
			return newError(DuplicateTypeName, a, zero(), "duplicate type name %q", a.Name)
		}
		seenTypes[a.Name] = true
	}
	for _, s := range v.module.Nominal.Structs() {
		if err := v.checkName(s.Name, InvalidIdentifierName, s); err != nil {
			return err
		}
		if seenTypes[s.Name] {
			return newError(DuplicateTypeName, s, zero(), "duplicate type name %q", s.Name)
		}
		seenTypes[s.Name] = true
		fieldNames := map[string]bool{}
		for _, f := range s.Fields {
			if fieldNames[f.Name] {
				return newError(DuplicateNameInBlock, s, zero(), "struct %q has duplicate field %q", s.Name, f.Name)
			}
			fieldNames[f.Name] = true
		}
	}
	for _, e := range v.module.Nominal.Enums() {
		if err := v.checkName(e.Name, InvalidIdentifierName, e); err != nil {
			return err
		}
		if seenTypes[e.Name] {
			return newError(DuplicateTypeName, e, zero(), "duplicate type name %q", e.Name)
		}
		seenTypes[e.Name] = true
		caseNames := map[string]bool{}
		for _, c := range e.Cases {
			if caseNames[c.Name] {
				return newError(EnumCaseInvalid, e, zero(), "enum %q has duplicate case %q", e.Name, c.Name)
			}
			caseNames[c.Name] = true
		}
	}

	if v.module.HasVariableAfterFunction() {
		return newError(VariableAfterFunction, v.module, zero(), "a variable was declared after a function in module %q", v.module.Name)
	}

	seenGlobals := map[string]bool{}
	for _, fn := range v.module.Functions {
		if fn.Name != "" {
			if err := v.checkName(fn.Name, InvalidIdentifierName, fn); err != nil {
				return err
			}
			if seenGlobals[fn.Name] {
				return newError(DuplicateGlobalName, fn, zero(), "duplicate global name %q", fn.Name)
			}
			seenGlobals[fn.Name] = true
		}
	}
	for _, gv := range v.module.Variables {
		if gv.Name != "" {
			if err := v.checkName(gv.Name, InvalidIdentifierName, gv); err != nil {
				return err
			}
			if seenGlobals[gv.Name] {
				return newError(DuplicateGlobalName, gv, zero(), "duplicate global name %q", gv.Name)
			}
			seenGlobals[gv.Name] = true
		}
	}

	for _, fn := range v.module.Functions {
		if err := v.verifyFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) checkName(name string, kind ErrorKind, node any) error {
	if name == "" || anonymousRE.MatchString(name) {
		return nil
	}
	if !identifierRE.MatchString(name) {
		return newError(kind, node, zero(), "identifier %q does not match the naming grammar", name)
	}
	return nil
}

func (v *verifier) verifyFunction(f *ir.Function) error {
	if f.Decl != nil || f.IsDeclaration() {
		if len(f.Blocks) != 0 {
			return newError(DeclarationWithBlocks, f, f.Span, "declaration %q has blocks", f.Name)
		}
		return v.verifyDeclarationSignature(f)
	}

	entry := f.Entry()
	if entry == nil {
		return newError(MissingTerminator, f, f.Span, "function %q has no entry block", f.Name)
	}
	if len(entry.Arguments) != len(f.ArgTypes) {
		return newError(EntryArgumentMismatch, entry, entry.Span, "function %q entry block has %d arguments, expected %d", f.Name, len(entry.Arguments), len(f.ArgTypes))
	}
	for i, a := range entry.Arguments {
		if !types.Equal(a.Typ, f.ArgTypes[i]) {
			return newError(EntryArgumentMismatch, entry, entry.Span, "function %q entry argument %d has type %s, expected %s", f.Name, i, a.Typ, f.ArgTypes[i])
		}
	}

	dom := domtree.BuildDominance(f)

	for i, b := range f.Blocks {
		if b.Parent != f {
			return newError(WrongParentFunction, b, b.Span, "block has wrong parent function")
		}
		// Only the designated entry block (index 0) may have zero
		// predecessors; any other unreached-by-branch block is a second,
		// disconnected root into the CFG that the single-entry dominance
		// algorithm cannot account for, per spec §4.4.
		if i > 0 && !dom.HasPredecessors(b) {
			return newError(MultipleEntryPoints, b, b.Span, "block %q has no predecessors but is not the function's entry block", b.Name)
		}
		if err := v.verifyBlock(f, b, dom); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) verifyDeclarationSignature(f *ir.Function) error {
	if f.Decl == nil {
		return nil
	}
	switch f.Decl.Tag {
	case ir.DeclExternal:
		return nil
	case ir.DeclAdjoint:
		expected, err := adjointSignature(f.Decl)
		if err != nil {
			return newError(AdjointSignatureMismatch, f, f.Span, "%s", err.Error())
		}
		actual := types.FunctionOf(append([]types.Type(nil), f.ArgTypes...), f.ReturnType)
		if !types.Equal(expected, actual) {
			return newError(AdjointSignatureMismatch, f, f.Span, "adjoint %q has signature %s, expected %s derived from primal %q", f.Name, actual, expected, f.Decl.Primal.Name)
		}
	}
	return nil
}

// adjointSignature synthesises the expected adjoint type from the primal
// function and its differentiation configuration, per spec §4.4/§9: the
// adjoint takes the kept primal arguments, followed by a seed of the
// primal's (selected) result type when the configuration is seedable, and
// returns a tuple of cotangents for the differentiated arguments (a single
// cotangent is returned on its own, not wrapped in a tuple).
func adjointSignature(decl *ir.DeclarationKind) (types.Type, error) {
	primal := decl.Primal
	args := make([]types.Type, 0, len(decl.KeptIndices)+1)
	for _, i := range decl.KeptIndices {
		if i < 0 || i >= len(primal.ArgTypes) {
			return types.InvalidType, &InferIndexError{What: "kept index", Index: i}
		}
		args = append(args, primal.ArgTypes[i])
	}
	seedType := primal.ReturnType
	if primal.ReturnType.Kind == types.Tuple {
		if decl.SourceIndex < 0 || decl.SourceIndex >= len(primal.ReturnType.Elements) {
			return types.InvalidType, &InferIndexError{What: "source index", Index: decl.SourceIndex}
		}
		seedType = primal.ReturnType.Elements[decl.SourceIndex]
	} else if decl.SourceIndex != 0 {
		return types.InvalidType, &InferIndexError{What: "source index", Index: decl.SourceIndex}
	}
	if decl.IsSeedable {
		args = append(args, seedType)
	}
	cotangents := make([]types.Type, 0, len(decl.ArgumentIndices))
	for _, i := range decl.ArgumentIndices {
		if i < 0 || i >= len(primal.ArgTypes) {
			return types.InvalidType, &InferIndexError{What: "argument index", Index: i}
		}
		cotangents = append(cotangents, primal.ArgTypes[i])
	}
	ret := types.TupleOf(cotangents...)
	if len(cotangents) == 1 {
		ret = cotangents[0]
	}
	return types.FunctionOf(args, ret), nil
}

// InferIndexError reports an out-of-range adjoint configuration index.
type InferIndexError struct {
	What  string
	Index int
}

func (e *InferIndexError) Error() string {
	return "adjoint " + e.What + " out of range: " + itoa(e.Index)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (v *verifier) verifyBlock(f *ir.Function, b *ir.BasicBlock, dom *domtree.Dominance) error {
	names := map[string]bool{}
	for _, a := range b.Arguments {
		if a.Name != "" {
			if err := v.checkName(a.Name, InvalidIdentifierName, a); err != nil {
				return err
			}
			if names[a.Name] {
				return newError(DuplicateNameInBlock, a, zero(), "duplicate name %q in block", a.Name)
			}
			names[a.Name] = true
		}
		if a.Parent != b {
			return newError(WrongParentBlock, a, zero(), "argument has wrong parent block")
		}
	}

	if len(b.Instructions) == 0 {
		return newError(MissingTerminator, b, b.Span, "block %q has no terminator", b.Name)
	}
	for i, inst := range b.Instructions {
		if inst.Parent != b {
			return newError(WrongParentBlock, inst, inst.Span, "instruction has wrong parent block")
		}
		if inst.Name != "" {
			if err := v.checkName(inst.Name, InvalidIdentifierName, inst); err != nil {
				return err
			}
			if names[inst.Name] {
				return newError(DuplicateNameInBlock, inst, inst.Span, "duplicate name %q in block", inst.Name)
			}
			names[inst.Name] = true
		}
		if inst.Typ.IsVoid() && inst.Name != "" {
			return newError(NamedVoidInstruction, inst, inst.Span, "void-typed instruction %q must be unnamed", inst.Name)
		}
		if err := v.verifyInstruction(f, b, inst, dom); err != nil {
			return err
		}
		isTerm := inst.Op.IsTerminator()
		if isTerm && i != len(b.Instructions)-1 {
			return newError(TerminatorNotLast, inst, inst.Span, "terminator is not the last instruction in the block")
		}
		if !isTerm && i == len(b.Instructions)-1 {
			return newError(MissingTerminator, b, b.Span, "block %q does not end in a terminator", b.Name)
		}
	}
	return nil
}

func (v *verifier) verifyInstruction(f *ir.Function, b *ir.BasicBlock, inst *ir.Instruction, dom *domtree.Dominance) error {
	for _, u := range ir.Operands(inst.Op, &inst.Kind) {
		if u.IsLiteral {
			// A literal instruction's own payload may nest aggregates
			// arbitrarily (that is the point of a tensor/tuple/array/struct
			// literal); the prohibition in spec §4.4 applies to every other
			// instruction taking an aggregate literal directly as an operand.
			if inst.Op != ir.OpLiteral {
				if err := checkNotAggregateOutsideLiteral(u.Lit, inst); err != nil {
					return err
				}
			}
			continue
		}
		if err := v.verifyUse(f, b, inst, u, dom); err != nil {
			return err
		}
	}

	if inst.Op == ir.OpReturn {
		if inst.Kind.Return.HasValue {
			if !types.Equal(inst.Kind.Return.Value.Type(), f.ReturnType) {
				return newError(ReturnTypeMismatch, inst, inst.Span, "return value has type %s, expected %s", inst.Kind.Return.Value.Type(), f.ReturnType)
			}
		} else if !f.ReturnType.IsVoid() {
			return newError(ReturnTypeMismatch, inst, inst.Span, "return has no value, expected %s", f.ReturnType)
		}
	}

	if inst.Op == ir.OpConditional {
		cond := inst.Kind.Conditional
		if cond.Then != nil {
			if err := checkBranchArgs(cond.Then, cond.ThenArgs, inst); err != nil {
				return err
			}
		}
		if cond.Else != nil {
			if err := checkBranchArgs(cond.Else, cond.ElseArgs, inst); err != nil {
				return err
			}
		}
	}
	if inst.Op == ir.OpBranch {
		br := inst.Kind.Branch
		if br.Target != nil {
			if err := checkBranchArgs(br.Target, br.Args, inst); err != nil {
				return err
			}
		}
	}

	if inst.Op == ir.OpBuiltin {
		intr, ok := v.registry.Intrinsic(inst.Kind.Builtin.Name)
		if !ok {
			return newError(IntrinsicNotRegistered, inst, inst.Span, "intrinsic %q is not registered", inst.Kind.Builtin.Name)
		}
		if intr.Opcode() != inst.Kind.Builtin.Name {
			return newError(IntrinsicRoundTripMismatch, inst, inst.Span, "intrinsic %q does not round-trip through the registry (got %q)", inst.Kind.Builtin.Name, intr.Opcode())
		}
	}

	recomputed, err := ir.Infer(inst.Op, inst.Kind, &v.module.Nominal, v.registry)
	if err != nil {
		return newError(classify(inst.Op, err), inst, inst.Span, "%s", err.Error())
	}
	if !types.Equal(recomputed, inst.Typ) {
		return newError(TypeMismatch, inst, inst.Span, "instruction cached type %s disagrees with recomputed type %s", inst.Typ, recomputed)
	}
	return nil
}

func checkBranchArgs(target *ir.BasicBlock, args []ir.Use, inst *ir.Instruction) error {
	if len(target.Arguments) != len(args) {
		return newError(ConditionalArgumentMismatch, inst, inst.Span, "branch to %q passes %d arguments, expected %d", target.Name, len(args), len(target.Arguments))
	}
	for i, bbArg := range target.Arguments {
		if !types.Equal(bbArg.Typ, args[i].Type()) {
			return newError(ConditionalArgumentMismatch, inst, inst.Span, "branch argument %d has type %s, expected %s", i, args[i].Type(), bbArg.Typ)
		}
	}
	return nil
}

func checkNotAggregateOutsideLiteral(lit ir.Literal, inst *ir.Instruction) error {
	if lit.IsAggregate() {
		return newError(NestedAggregateLiteral, inst, inst.Span, "aggregate literal used directly as an operand outside a literal instruction")
	}
	return nil
}

func (v *verifier) verifyUse(f *ir.Function, b *ir.BasicBlock, inst *ir.Instruction, u ir.Use, dom *domtree.Dominance) error {
	def := u.Def
	if def == nil {
		return nil
	}
	switch d := def.(type) {
	case *ir.Function, *ir.Variable:
		return nil
	case *ir.Argument:
		if d.Parent == nil || d.Parent.Parent != f {
			return newError(UseFromDifferentFunction, inst, inst.Span, "use references an argument from a different function")
		}
		if d.Parent.Parent != f {
			return newError(UseFromDifferentFunction, inst, inst.Span, "dangling argument use")
		}
		if !dom.ProperlyDominates(d.Parent, true, d.Index, b, inst.Index) {
			return newError(UndominatedUse, inst, inst.Span, "use of argument %s is not dominated by its definition", d.Name)
		}
		return nil
	case *ir.Instruction:
		if d.Parent == nil {
			return newError(DanglingUse, inst, inst.Span, "use references an instruction removed from its block")
		}
		if d.Parent.Parent != f {
			return newError(UseFromDifferentFunction, inst, inst.Span, "use references an instruction from a different function")
		}
		if !dom.ProperlyDominates(d.Parent, false, d.Index, b, inst.Index) {
			return newError(UseBeforeDef, inst, inst.Span, "use of %s is not properly dominated by its definition", defDisplayName(d))
		}
		return nil
	default:
		return newError(DanglingUse, inst, inst.Span, "use references an unknown definition kind")
	}
}

func defDisplayName(i *ir.Instruction) string {
	if i.Name != "" {
		return i.Name
	}
	return i.AnonymousName()
}

func classify(op ir.Opcode, err error) ErrorKind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "dtype"):
		return DataTypeMismatch
	case strings.Contains(msg, "broadcast") || strings.Contains(msg, "shape"):
		return ShapeIncompatible
	case strings.Contains(msg, "must be tensor"):
		return NotATensor
	case strings.Contains(msg, "not numeric"):
		return NotNumeric
	case strings.Contains(msg, "must be bool") || strings.Contains(msg, "is not bool"):
		return NotBool
	case op == ir.OpConvolve:
		return ConvolutionPrecondition
	case strings.Contains(msg, "rank"):
		return RankMismatch
	default:
		return TypeMismatch
	}
}

func zero() source.Span { return source.Span{} }
