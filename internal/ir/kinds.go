package ir

import (
	"github.com/dan-zheng/GPIR/internal/dtype"
	"github.com/dan-zheng/GPIR/internal/shape"
	"github.com/dan-zheng/GPIR/internal/types"
)

// RangeSpec describes a slice instruction's half-open element range along
// the leading dimension.
type RangeSpec struct {
	Start int64
	Count int64
}

// BranchEnumCase pairs an enum case name with the block to jump to.
type BranchEnumCase struct {
	CaseName string
	Target   *BasicBlock
}

// Per-opcode instruction payloads. Exactly one field of InstructionKind is
// meaningful for a given Instruction, selected by Instruction.Op -- the
// same tagged-union-by-struct-of-structs shape as the teacher's mir.Instr.
type (
	LiteralInst struct {
		Type  types.Type
		Value Literal
	}
	NumericUnaryInst struct {
		Op    NumericUnaryOp
		Value Use
	}
	NumericBinaryInst struct {
		Op  NumericBinaryOp
		LHS Use
		RHS Use
	}
	BooleanBinaryInst struct {
		Op  BooleanBinaryOp
		LHS Use
		RHS Use
	}
	CompareInst struct {
		Op  CompareOp
		LHS Use
		RHS Use
	}
	NotInst struct {
		Value Use
	}
	DotInst struct {
		LHS Use
		RHS Use
	}
	ConcatenateInst struct {
		Values []Use
		Axis   int
	}
	TransposeInst struct {
		Value Use
	}
	ReverseInst struct {
		Value Use
		Dims  []int
	}
	SliceInst struct {
		Value Use
		Range RangeSpec
	}
	RandomInst struct {
		Shape    shape.TensorShape
		DataType dtype.DataType
		Low      Use
		High     Use
	}
	SelectInst struct {
		Then Use
		Else Use
		By   Use
	}
	ReduceInst struct {
		Combinator ReductionCombinator
		Value      Use
		Initial    Use
		Dims       []int
	}
	ScanInst struct {
		Combinator ReductionCombinator
		Value      Use
		Dims       []int
	}
	ReduceWindowInst struct {
		Combinator ReductionCombinator
		Value      Use
		Initial    Use
		WindowDims []int64
		Strides    []int64
		Padding    []shape.Padding
	}
	ConvolveInst struct {
		LHS         Use
		Kernel      Use
		Strides     []int64
		Padding     []shape.Padding
		LhsDilation []int64
		RhsDilation []int64
		Groups      int64
	}
	RankInst struct {
		Value Use
	}
	ShapeOfInst struct {
		Value Use
	}
	UnitCountInst struct {
		Value Use
	}
	PadShapeInst struct {
		Value Use
		At    int
	}
	SqueezeShapeInst struct {
		Value Use
		At    int
	}
	ShapeCastInst struct {
		Value  Use
		Target shape.TensorShape
	}
	BitCastInst struct {
		Value  Use
		Target types.Type
	}
	DataTypeCastInst struct {
		Value  Use
		Target dtype.DataType
	}
	ExtractInst struct {
		From Use
		Keys []types.ElementKey
	}
	InsertInst struct {
		Src  Use
		To   Use
		Keys []types.ElementKey
	}
	ApplyInst struct {
		Callee Use
		Args   []Use
	}
	AllocateStackInst struct {
		ElemType types.Type
		Count    Use
	}
	AllocateHeapInst struct {
		ElemType types.Type
		Count    Use
	}
	AllocateBoxInst struct {
		ElemType types.Type
	}
	ProjectBoxInst struct {
		Value Use
	}
	LoadInst struct {
		Pointer Use
	}
	StoreInst struct {
		Value   Use
		Pointer Use
	}
	ElementPointerInst struct {
		Pointer Use
		Keys    []types.ElementKey
	}
	CopyInst struct {
		From  Use
		To    Use
		Count Use
	}
	CreateStackInst struct{}
	DestroyStackInst struct {
		Stack Use
	}
	PushInst struct {
		Value Use
		Stack Use
	}
	PopInst struct {
		ElemType types.Type
		Stack    Use
	}
	RetainInst struct {
		Value Use
	}
	ReleaseInst struct {
		Value Use
	}
	DeallocateInst struct {
		Value Use
	}
	BranchInst struct {
		Target *BasicBlock
		Args   []Use
	}
	ConditionalInst struct {
		Cond     Use
		Then     *BasicBlock
		ThenArgs []Use
		Else     *BasicBlock
		ElseArgs []Use
	}
	BranchEnumInst struct {
		Value Use
		Cases []BranchEnumCase
	}
	ReturnInst struct {
		HasValue bool
		Value    Use
	}
	TrapInst  struct{}
	BuiltinInst struct {
		Name string
		Args []Use
	}
)

// InstructionKind holds the payload for every opcode; Instruction.Op
// selects which field is meaningful.
type InstructionKind struct {
	Literal         LiteralInst
	NumericUnary    NumericUnaryInst
	NumericBinary   NumericBinaryInst
	BooleanBinary   BooleanBinaryInst
	Compare         CompareInst
	Not             NotInst
	Dot             DotInst
	Concatenate     ConcatenateInst
	Transpose       TransposeInst
	Reverse         ReverseInst
	Slice           SliceInst
	Random          RandomInst
	Select          SelectInst
	Reduce          ReduceInst
	Scan            ScanInst
	ReduceWindow    ReduceWindowInst
	Convolve        ConvolveInst
	Rank            RankInst
	ShapeOf         ShapeOfInst
	UnitCount       UnitCountInst
	PadShape        PadShapeInst
	SqueezeShape    SqueezeShapeInst
	ShapeCast       ShapeCastInst
	BitCast         BitCastInst
	DataTypeCast    DataTypeCastInst
	Extract         ExtractInst
	Insert          InsertInst
	Apply           ApplyInst
	AllocateStack   AllocateStackInst
	AllocateHeap    AllocateHeapInst
	AllocateBox     AllocateBoxInst
	ProjectBox      ProjectBoxInst
	Load            LoadInst
	Store           StoreInst
	ElementPointer  ElementPointerInst
	Copy            CopyInst
	CreateStack     CreateStackInst
	DestroyStack    DestroyStackInst
	Push            PushInst
	Pop             PopInst
	Retain          RetainInst
	Release         ReleaseInst
	Deallocate      DeallocateInst
	Branch          BranchInst
	Conditional     ConditionalInst
	BranchEnum      BranchEnumInst
	Return          ReturnInst
	Trap            TrapInst
	Builtin         BuiltinInst
}
