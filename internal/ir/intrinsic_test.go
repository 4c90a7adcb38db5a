package ir

import "github.com/dan-zheng/GPIR/internal/types"

// fakeIntrinsic is a minimal Intrinsic fixture: it reports a fixed result
// type regardless of arguments, except it rejects a call with no arguments.
type fakeIntrinsic struct {
	name   string
	result types.Type
}

func (f fakeIntrinsic) Opcode() string { return f.name }

func (f fakeIntrinsic) ResultType(args []Use) types.Type {
	if len(args) == 0 {
		return types.InvalidType
	}
	return f.result
}

// fakeRegistry is a minimal IntrinsicRegistry fixture, map-backed.
type fakeRegistry struct {
	intrinsics map[string]Intrinsic
}

func newFakeRegistry(intrinsics ...fakeIntrinsic) *fakeRegistry {
	r := &fakeRegistry{intrinsics: make(map[string]Intrinsic, len(intrinsics))}
	for _, i := range intrinsics {
		r.intrinsics[i.name] = i
	}
	return r
}

func (r *fakeRegistry) Intrinsic(name string) (Intrinsic, bool) {
	i, ok := r.intrinsics[name]
	return i, ok
}
