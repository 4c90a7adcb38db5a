package ir

// Opcode tags the ~55-member InstructionKind variant of spec §4.2. Each
// value names exactly one textual-grammar opcode keyword.
type Opcode uint8

const (
	OpLiteral Opcode = iota
	OpNumericUnary
	OpNumericBinary
	OpBooleanBinary
	OpCompare
	OpNot
	OpDot
	OpConcatenate
	OpTranspose
	OpReverse
	OpSlice
	OpRandom
	OpSelect
	OpReduce
	OpScan
	OpReduceWindow
	OpConvolve
	OpRank
	OpShapeOf
	OpUnitCount
	OpPadShape
	OpSqueezeShape
	OpShapeCast
	OpBitCast
	OpDataTypeCast
	OpExtract
	OpInsert
	OpApply
	OpAllocateStack
	OpAllocateHeap
	OpAllocateBox
	OpProjectBox
	OpLoad
	OpStore
	OpElementPointer
	OpCopy
	OpCreateStack
	OpDestroyStack
	OpPush
	OpPop
	OpRetain
	OpRelease
	OpDeallocate
	OpBranch
	OpConditional
	OpBranchEnum
	OpReturn
	OpTrap
	OpBuiltin
)

var opcodeNames = map[Opcode]string{
	OpLiteral:        "literal",
	OpNumericUnary:   "numeric_unary",
	OpNumericBinary:  "numeric_binary",
	OpBooleanBinary:  "boolean_binary",
	OpCompare:        "compare",
	OpNot:            "not",
	OpDot:            "dot",
	OpConcatenate:    "concatenate",
	OpTranspose:      "transpose",
	OpReverse:        "reverse",
	OpSlice:          "slice",
	OpRandom:         "random",
	OpSelect:         "select",
	OpReduce:         "reduce",
	OpScan:           "scan",
	OpReduceWindow:   "reduce_window",
	OpConvolve:       "convolve",
	OpRank:           "rank",
	OpShapeOf:        "shape",
	OpUnitCount:      "unit_count",
	OpPadShape:       "pad_shape",
	OpSqueezeShape:   "squeeze_shape",
	OpShapeCast:      "shape_cast",
	OpBitCast:        "bit_cast",
	OpDataTypeCast:   "data_type_cast",
	OpExtract:        "extract",
	OpInsert:         "insert",
	OpApply:          "apply",
	OpAllocateStack:  "allocate_stack",
	OpAllocateHeap:   "allocate_heap",
	OpAllocateBox:    "allocate_box",
	OpProjectBox:     "project_box",
	OpLoad:           "load",
	OpStore:          "store",
	OpElementPointer: "element_pointer",
	OpCopy:           "copy",
	OpCreateStack:    "create_stack",
	OpDestroyStack:   "destroy_stack",
	OpPush:           "push",
	OpPop:            "pop",
	OpRetain:         "retain",
	OpRelease:        "release",
	OpDeallocate:     "deallocate",
	OpBranch:         "branch",
	OpConditional:    "conditional",
	OpBranchEnum:     "branch_enum",
	OpReturn:         "return",
	OpTrap:           "trap",
	OpBuiltin:        "builtin",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "<unknown-opcode>"
}

var opcodeByName map[string]Opcode

func init() {
	opcodeByName = make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		opcodeByName[name] = op
	}
}

// OpcodeByName looks up an Opcode by its textual grammar spelling.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// IsTerminator reports whether op ends a basic block (spec §3 GLOSSARY).
func (o Opcode) IsTerminator() bool {
	switch o {
	case OpBranch, OpConditional, OpBranchEnum, OpReturn, OpTrap:
		return true
	default:
		return false
	}
}
