package simplex

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/yardworks/shunter/core/milp"
)

func newSolver(t *testing.T) *Solver {
	t.Helper()
	var cfg Config
	cfg.SetDefaults()
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new solver: %v", err)
	}
	return s
}

func TestSolve_MinimizeSimple(t *testing.T) {
	m := milp.NewModel()
	x := m.AddVar(milp.Integer, 0, 10, "x")
	m.AddConstr("floor", milp.Sum(milp.T(x, 1)), milp.GE, 3)
	m.SetObjective(milp.Sum(milp.T(x, 1)), milp.Minimize)

	sol, err := newSolver(t).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != milp.StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if sol.Int(x) != 3 {
		t.Fatalf("expected x=3, got %g", sol.Value(x))
	}
	if math.Abs(sol.Objective-3) > 1e-6 {
		t.Fatalf("expected objective 3, got %g", sol.Objective)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	m := milp.NewModel()
	x := m.AddVar(milp.Continuous, 0, 10, "x")
	m.AddConstr("low", milp.Sum(milp.T(x, 1)), milp.LE, 1)
	m.AddConstr("high", milp.Sum(milp.T(x, 1)), milp.GE, 2)

	_, err := newSolver(t).Solve(context.Background(), m)
	if !errors.Is(err, milp.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestSolve_AndLinkLowered(t *testing.T) {
	m := milp.NewModel()
	a := m.AddBinary("a")
	b := m.AddBinary("b")
	r := m.AddBinary("r")
	m.AddConstr("a.on", milp.Sum(milp.T(a, 1)), milp.GE, 1)
	m.AddConstr("b.on", milp.Sum(milp.T(b, 1)), milp.GE, 1)
	m.AddAnd("r.and", r, a, b)
	m.SetObjective(milp.Sum(milp.T(r, 1)), milp.Minimize)

	sol, err := newSolver(t).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	// Without the lowered conjunction rows the minimum would be r=0.
	if sol.Int(r) != 1 {
		t.Fatalf("expected r=1, got %g", sol.Value(r))
	}
	if sol.Status != milp.StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
}

func TestSolve_FractionalIsFeasible(t *testing.T) {
	m := milp.NewModel()
	y := m.AddBinary("y")
	m.AddConstr("half", milp.Sum(milp.T(y, 2)), milp.EQ, 1)

	sol, err := newSolver(t).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != milp.StatusFeasible {
		t.Fatalf("expected feasible for fractional binary, got %s", sol.Status)
	}
	if math.Abs(sol.Value(y)-0.5) > 1e-6 {
		t.Fatalf("expected y=0.5, got %g", sol.Value(y))
	}
}

func TestSolve_EngineErrorSurfaces(t *testing.T) {
	old := lpSolve
	lpSolve = func(system, float64) (float64, []float64, error) { return 0, nil, errors.New("boom") }
	defer func() { lpSolve = old }()

	m := milp.NewModel()
	x := m.AddVar(milp.Continuous, 0, 1, "x")
	m.AddConstr("any", milp.Sum(milp.T(x, 1)), milp.GE, 0)

	_, err := newSolver(t).Solve(context.Background(), m)
	if err == nil || errors.Is(err, milp.ErrInfeasible) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}

func TestSolve_ContextCanceled(t *testing.T) {
	m := milp.NewModel()
	x := m.AddVar(milp.Continuous, 0, 1, "x")
	m.AddConstr("any", milp.Sum(milp.T(x, 1)), milp.GE, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newSolver(t).Solve(ctx, m); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestSolve_EmptyModel(t *testing.T) {
	sol, err := newSolver(t).Solve(context.Background(), milp.NewModel())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != milp.StatusOptimal {
		t.Fatalf("expected optimal for empty model, got %s", sol.Status)
	}
}

func TestNew_ValidatesConfig(t *testing.T) {
	if _, err := New(Config{Tolerance: -1}, nil); err == nil {
		t.Fatalf("expected tolerance rejection")
	}
}
