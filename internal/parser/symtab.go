package parser

import "github.com/dan-zheng/GPIR/internal/ir"

// nominalKind tags which of the module's three nominal tables a name was
// registered in during phase 1, so phase 2 can resolve a "$Name" reference
// to a handle before the name's body (fields/cases/underlying) is parsed.
type nominalKind uint8

const (
	nominalAlias nominalKind = iota
	nominalStruct
	nominalEnum
)

// nominalEntry is what phase 1 records for a forward-declared nominal name.
type nominalEntry struct {
	kind nominalKind
	// exactly one of these is non-nil, matching kind.
	alias  *ir.TypeAlias
	strct  *ir.StructType
	enm    *ir.EnumType
}

// funcEntry is what phase 1 records for a function prototype: the *ir.Function
// shell (name, arg/return types, attrs, decl kind) is fully built by phase 1;
// phase 2 appends blocks to it if it turns out to be a definition.
type funcEntry struct {
	fn *ir.Function
}

// moduleSymbols is the module-wide symbol table built by phase 1 (spec
// §4.5): nominal type names, global variable names, and function
// prototypes, all resolvable before any body is parsed.
type moduleSymbols struct {
	nominal map[string]*nominalEntry
	globals map[string]*ir.Variable
	funcs   map[string]*funcEntry
}

func newModuleSymbols() *moduleSymbols {
	return &moduleSymbols{
		nominal: make(map[string]*nominalEntry),
		globals: make(map[string]*ir.Variable),
		funcs:   make(map[string]*funcEntry),
	}
}

// blockEntry is what the per-function block prescan records: the
// *ir.BasicBlock shell (name, argument types/names) is built ahead of
// instruction parsing so a branch can target a block declared later in the
// function.
type blockEntry struct {
	block *ir.BasicBlock
}

// funcSymbols is the per-function symbol table active while parsing one
// function's body: local value names (arguments and instructions, which
// share one namespace per spec §3) plus the block prototypes prescanned for
// this function.
type funcSymbols struct {
	fn      *ir.Function
	blocks  map[string]*blockEntry
	locals  map[string]ir.Definition
	curName string // "<fn>.<block>" label used for anonymous-name diagnostics

	// curBlock/curInst track the (block, instruction) position currently
	// being filled in by parseFunctionBody's second pass. A local resolved
	// to an instruction at or after this position was prescanned as a
	// placeholder (spec §4.5's forward %<b>.<i> reference) and has no type
	// yet, so parseUse must not type-check its annotation against it.
	curBlock int
	curInst  int
}

func newFuncSymbols(fn *ir.Function) *funcSymbols {
	return &funcSymbols{
		fn:     fn,
		blocks: make(map[string]*blockEntry),
		locals: make(map[string]ir.Definition),
	}
}

func (s *funcSymbols) defineLocal(name string, def ir.Definition) {
	if name == "" {
		return
	}
	s.locals[name] = def
}

// isPendingInstruction reports whether def is an instruction placeholder
// that the body-filling pass has not reached yet: it was registered by the
// prescan at a (block, index) position at or after the one currently being
// filled, so its Kind/Typ are still zero values.
func (s *funcSymbols) isPendingInstruction(def ir.Definition) bool {
	inst, ok := def.(*ir.Instruction)
	if !ok || inst.Parent == nil {
		return false
	}
	bi := inst.Parent.Index
	if bi > s.curBlock {
		return true
	}
	return bi == s.curBlock && inst.Index >= s.curInst
}
