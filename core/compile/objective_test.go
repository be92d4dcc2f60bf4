package compile

import (
	"fmt"
	"testing"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
)

// setBucket forces the cycle decomposition and bucket indicators of one
// task to the values implied by its start step.
func setBucket(t *testing.T, res *Result, assign map[milp.VarID]float64, name string, start, kLo, kHi int) {
	t.Helper()
	kv := start / 32
	assign[varByName(t, res.Model, "cycle("+name+")")] = float64(kv)
	assign[varByName(t, res.Model, "phase("+name+")")] = float64(start % 32)
	for k := kLo; k <= kHi; k++ {
		below, above := 0.0, 0.0
		if kv <= k {
			below = 1
		}
		if kv >= k {
			above = 1
		}
		assign[varByName(t, res.Model, fmt.Sprintf("below(%s:k%d)", name, k))] = below
		assign[varByName(t, res.Model, fmt.Sprintf("above(%s:k%d)", name, k))] = above
		assign[varByName(t, res.Model, fmt.Sprintf("inbucket(%s:k%d)", name, k))] = below * above
	}
}

func TestPeakBusy_CountsBucketLoad(t *testing.T) {
	cfg := testConfig()
	cfg.Objective = ObjectivePeakBusy
	in := &model.Instance{Arrivals: []model.Arrival{
		{Train: "A1", At: 0},
		{Train: "A2", At: 0},
	}}
	res := buildWith(t, cfg, in)

	if !res.Table.HasPeakBusy {
		t.Fatalf("peak variable missing from the table")
	}
	// Horizon of 96 steps, zero offset: buckets 0 through 4.
	kLo, kHi := 0, 4

	assign := map[milp.VarID]float64{}
	assign[varByName(t, res.Model, "order(DEB:arrival.3.A1|arrival.3.A2)")] = 1
	// A1 works the night bucket, A2 the one after 08:00.
	setArrivalTasks(res, assign, "A1", 0, 1, 4)
	setArrivalTasks(res, assign, "A2", 32, 33, 36)
	for idx, start := range map[int]int{1: 0, 2: 1, 3: 4} {
		setBucket(t, res, assign, fmt.Sprintf("arrival.%d.A1", idx), start, kLo, kHi)
	}
	for idx, start := range map[int]int{1: 32, 2: 33, 3: 36} {
		setBucket(t, res, assign, fmt.Sprintf("arrival.%d.A2", idx), start, kLo, kHi)
	}

	// Three tasks land in each of buckets 0 and 1.
	assign[res.Table.PeakBusy] = 3
	if vs := res.Model.Check(assign); len(vs) != 0 {
		t.Fatalf("peak of three rejected: %v", vs)
	}

	assign[res.Table.PeakBusy] = 2
	vs := res.Model.Check(assign)
	if !hasViolation(vs, "peak(k0)") || !hasViolation(vs, "peak(k1)") {
		t.Fatalf("expected peak violations in both buckets, got %v", vs)
	}
}

func TestPeakBusy_DecompositionIsExact(t *testing.T) {
	cfg := testConfig()
	cfg.Objective = ObjectivePeakBusy
	in := &model.Instance{Arrivals: []model.Arrival{{Train: "A1", At: 0}}}
	res := buildWith(t, cfg, in)

	assign := map[milp.VarID]float64{}
	setArrivalTasks(res, assign, "A1", 0, 1, 4)
	for idx, start := range map[int]int{1: 0, 2: 1, 3: 4} {
		setBucket(t, res, assign, fmt.Sprintf("arrival.%d.A1", idx), start, 0, 4)
	}
	assign[res.Table.PeakBusy] = 3

	// A phase claiming step 40 breaks start = phase + 32*cycle.
	assign[varByName(t, res.Model, "phase(arrival.3.A1)")] = 8
	if vs := res.Model.Check(assign); !hasViolation(vs, "decomp(arrival.3.A1)") {
		t.Fatalf("expected decomposition violation, got %v", vs)
	}
}

func TestPeakBusy_ObjectiveTargetsPeak(t *testing.T) {
	cfg := testConfig()
	cfg.Objective = ObjectivePeakBusy
	in := &model.Instance{Arrivals: []model.Arrival{{Train: "A1", At: 0}}}
	res := buildWith(t, cfg, in)

	obj := res.Model.Objective()
	if obj == nil || obj.Direction != milp.Minimize {
		t.Fatalf("expected minimizing objective, got %+v", obj)
	}
	if len(obj.Expr.Terms) != 1 || obj.Expr.Terms[0].Var != res.Table.PeakBusy {
		t.Fatalf("objective does not target the peak variable")
	}
}
