package compile

import (
	"testing"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
)

// One hump closure Monday 02:00-03:00 splits the week into three reachable
// gaps once the weekly replay appends next Monday's copy.
func TestWindows_HumpClosure(t *testing.T) {
	in := &model.Instance{
		Arrivals: []model.Arrival{{Train: "A1", At: 0}},
		MachineClosures: map[model.MachineCode][]model.Closure{
			model.MachineHump: {{Day: 1, Start: 120, End: 180}},
		},
	}
	res := buildWith(t, testConfig(), in)

	c0 := varByName(t, res.Model, "win(machine:DEB:arrival.3.A1).case0")
	c1 := varByName(t, res.Model, "win(machine:DEB:arrival.3.A1).case1")
	varByName(t, res.Model, "win(machine:DEB:arrival.3.A1).case2")

	assign := map[milp.VarID]float64{
		arrivalStart(res, "A1", 1): 0,
		arrivalStart(res, "A1", 2): 1,
		arrivalStart(res, "A1", 3): 4,
		c0:                         1,
	}
	// Hump pass 01:00-01:15, fully before the closure.
	if vs := res.Model.Check(assign); len(vs) != 0 {
		t.Fatalf("pre-closure placement rejected: %v", vs)
	}

	// Hump pass starting 03:00, in the gap after the closure.
	assign[arrivalStart(res, "A1", 3)] = 12
	assign[c0] = 0
	assign[c1] = 1
	if vs := res.Model.Check(assign); len(vs) != 0 {
		t.Fatalf("post-closure placement rejected: %v", vs)
	}

	// Hump pass at 02:00 collides with the closure under the first case.
	assign[arrivalStart(res, "A1", 3)] = 8
	assign[c0] = 1
	assign[c1] = 0
	if vs := res.Model.Check(assign); !hasViolation(vs, "win(machine:DEB:arrival.3.A1).case0.ub") {
		t.Fatalf("expected closure violation, got %v", vs)
	}

	// Exactly one case must be selected.
	assign[arrivalStart(res, "A1", 3)] = 4
	assign[c0] = 0
	if vs := res.Model.Check(assign); !hasViolation(vs, "win(machine:DEB:arrival.3.A1).onehot") {
		t.Fatalf("expected one-hot violation, got %v", vs)
	}
}

func TestWindows_YardClosureBindsEveryTask(t *testing.T) {
	in := &model.Instance{
		Arrivals: []model.Arrival{{Train: "A1", At: 0}},
		YardClosures: map[model.YardCode][]model.Closure{
			model.YardReception: {{Day: 1, Start: 0, End: 60}},
		},
	}
	res := buildWith(t, testConfig(), in)

	// All three arrival tasks run in the reception yard, so each gets its
	// own one-hot row.
	for _, name := range []string{
		"win(yard:REC:arrival.1.A1).onehot",
		"win(yard:REC:arrival.2.A1).onehot",
		"win(yard:REC:arrival.3.A1).onehot",
	} {
		if !hasConstraint(res.Model, name) {
			t.Fatalf("missing constraint %s", name)
		}
	}
}
