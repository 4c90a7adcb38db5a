package ir

// MustWriteToMemory reports whether an instruction of opcode op always
// writes to memory, per spec §4.2/§4.6's SideEffectAnalysis rule: an
// instruction has effect "none" iff its kind does not write memory, is not
// a terminator, and does not invoke a function with side effects (the
// apply case is handled by the caller, which has the callee's summary).
func MustWriteToMemory(op Opcode) bool {
	switch op {
	case OpStore, OpCopy, OpPush, OpPop, OpRetain, OpRelease, OpDeallocate,
		OpDestroyStack, OpAllocateHeap, OpAllocateBox, OpAllocateStack:
		return true
	default:
		return false
	}
}
