package ir

// Stage tags a module's optimisation stage (spec §3).
type Stage uint8

const (
	StageRaw Stage = iota
	StageOptimizable
)

func (s Stage) String() string {
	if s == StageOptimizable {
		return "optimizable"
	}
	return "raw"
}

// Module is the top-level IR container (spec §3): an ordered sequence of
// Function, an ordered sequence of Variable, and the module-wide nominal
// type table. Variables must precede functions in source order; identifier
// names are unique within each of {types, globals}.
type Module struct {
	Name      string
	Stage     Stage
	Functions []*Function
	Variables []*Variable
	Nominal   NominalTable

	funcNames *NameAllocator
	version   uint64

	sawFunction           bool
	variableAfterFunction bool
}

// NewModule creates an empty module.
func NewModule(name string, stage Stage) *Module {
	return &Module{Name: name, Stage: stage}
}

// AppendVariable appends a new module-level variable. A variable appended
// after any function has been appended trips the spec §3 "variables must
// precede functions in source order" invariant, recorded for the verifier
// via HasVariableAfterFunction rather than rejected here outright, since
// the parser is the primary enforcement point (spec §7).
func (m *Module) AppendVariable(v *Variable) {
	v.Index = len(m.Variables)
	m.Variables = append(m.Variables, v)
	if m.sawFunction {
		m.variableAfterFunction = true
	}
	m.Touch()
}

// AppendFunction appends a new function owned by m.
func (m *Module) AppendFunction(f *Function) {
	f.Parent = m
	f.Index = len(m.Functions)
	m.Functions = append(m.Functions, f)
	m.sawFunction = true
	m.Touch()
}

// HasVariableAfterFunction reports whether any variable was appended after
// the first function, per spec §3's source-order invariant.
func (m *Module) HasVariableAfterFunction() bool { return m.variableAfterFunction }

// FindFunction looks up a function by name, or nil.
func (m *Module) FindFunction(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindVariable looks up a variable by name, or nil.
func (m *Module) FindVariable(name string) *Variable {
	for _, v := range m.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Version returns the module's monotonic mutation counter (spec §9).
func (m *Module) Version() uint64 { return m.version }

// Touch bumps m's own version; called transitively by Function.Touch so
// that a mutation anywhere in the module invalidates module-scoped
// analyses (e.g. SideEffectAnalysis) even though it was triggered by a
// function-local edit.
func (m *Module) Touch() { m.version++ }

// Names returns the module-wide function-name allocator (spec §4.7),
// creating it lazily.
func (m *Module) Names() *NameAllocator {
	if m.funcNames == nil {
		m.funcNames = NewNameAllocator()
		for _, f := range m.Functions {
			if f.Name != "" {
				m.funcNames.Reserve(f.Name)
			}
		}
	}
	return m.funcNames
}
