package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/logger"
	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/simplex"
)

// RunScenario pushes one scenario through the production pipeline: compile
// the instance, solve the relaxation, extract the schedule, and compare
// against the expected outcome.
func RunScenario(t *testing.T, sc *Scenario) {
	cfg := compile.Config{Objective: sc.Objective}
	cfg.SetDefaults()
	builder, err := compile.NewBuilder(cfg, model.DefaultCatalog(), logger.Nop{}, progress.Nop{})
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	res, err := builder.Build(&sc.Instance)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var scfg simplex.Config
	scfg.SetDefaults()
	solver, err := simplex.New(scfg, logger.Nop{})
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	sol, err := solver.Solve(context.Background(), res.Model)
	if sc.Expected.Infeasible {
		if !errors.Is(err, milp.ErrInfeasible) {
			t.Fatalf("scenario %s: expected infeasible, got %v", sc.Name, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: solve: %v", sc.Name, err)
	}

	sched := compile.Extract(sol, res)
	if got := len(sched.Tasks); got != sc.Expected.Tasks {
		t.Errorf("scenario %s: expected %d task placements, got %d", sc.Name, sc.Expected.Tasks, got)
	}
	if sched.RunID != res.RunID {
		t.Errorf("scenario %s: run id not carried into schedule", sc.Name)
	}
}
