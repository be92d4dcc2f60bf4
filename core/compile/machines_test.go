package compile

import (
	"testing"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
)

func TestMachines_HumpExclusion(t *testing.T) {
	in := &model.Instance{Arrivals: []model.Arrival{
		{Train: "A1", At: 0},
		{Train: "A2", At: 0},
	}}
	res := buildWith(t, testConfig(), in)
	delta := varByName(t, res.Model, "order(DEB:arrival.3.A1|arrival.3.A2)")

	assign := map[milp.VarID]float64{
		arrivalStart(res, "A1", 1): 0,
		arrivalStart(res, "A1", 2): 1,
		arrivalStart(res, "A1", 3): 4,
		arrivalStart(res, "A2", 1): 0,
		arrivalStart(res, "A2", 2): 1,
		arrivalStart(res, "A2", 3): 5,
		delta:                      1,
	}
	// A2 enters the hump exactly when A1 leaves it.
	if vs := res.Model.Check(assign); len(vs) != 0 {
		t.Fatalf("back-to-back hump passes rejected: %v", vs)
	}

	// Same hump step for both trains: infeasible under either ordering.
	assign[arrivalStart(res, "A2", 3)] = 4
	if vs := res.Model.Check(assign); !hasViolation(vs, "excl(DEB:arrival.3.A1->arrival.3.A2)") {
		t.Fatalf("expected forward exclusion violation, got %v", vs)
	}
	assign[delta] = 0
	if vs := res.Model.Check(assign); !hasViolation(vs, "excl(DEB:arrival.3.A2->arrival.3.A1)") {
		t.Fatalf("expected reverse exclusion violation, got %v", vs)
	}
}

func TestMachines_PairCount(t *testing.T) {
	in := &model.Instance{Arrivals: []model.Arrival{
		{Train: "A1", At: 0},
		{Train: "A2", At: 0},
		{Train: "A3", At: 0},
	}}
	res := buildWith(t, testConfig(), in)

	// Three hump passes give three unordered pairs, one binary each.
	pairs := 0
	for _, v := range res.Model.Vars() {
		if v.Kind == milp.Binary {
			pairs++
		}
	}
	if pairs != 3 {
		t.Fatalf("expected 3 ordering binaries, got %d", pairs)
	}
}
