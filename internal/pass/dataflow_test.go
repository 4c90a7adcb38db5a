package pass

import "testing"

func TestDataFlowGraphTracksUsers(t *testing.T) {
	f, a, add := buildAddFunction("f")
	mgr := NewManager(f)

	dfg := DataFlowGraphAnalysis(mgr, f)
	users := dfg.Users(a)
	if len(users) != 2 {
		t.Fatalf("literal %%a used twice by add should report 2 users, got %d", len(users))
	}
	if users[0] != add || users[1] != add {
		t.Fatalf("DataFlowGraph.Users(%%a) = %v, want [add, add]", users)
	}
	if !dfg.HasUsers(a) {
		t.Fatalf("HasUsers(%%a) should be true")
	}
	if !dfg.HasUsers(add) {
		t.Fatalf("HasUsers(%%b) should be true: the return instruction consumes it")
	}
}

func TestDataFlowGraphInvalidatesOnFunctionMutation(t *testing.T) {
	f, a, _ := buildAddFunction("f")
	mgr := NewManager(f)

	first := DataFlowGraphAnalysis(mgr, f)
	f.Touch()
	second := DataFlowGraphAnalysis(mgr, f)
	if first == second {
		t.Fatalf("DataFlowGraphAnalysis should recompute after Touch")
	}
	if len(second.Users(a)) != 2 {
		t.Fatalf("recomputed graph should still report 2 users for %%a")
	}
}
