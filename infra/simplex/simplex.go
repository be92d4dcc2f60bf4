// Package simplex solves compiled models with gonum's simplex method on
// the LP relaxation: integer kinds become bounds, logical links become
// their exact linear rows. Fully integral results come back optimal;
// fractional ones are flagged feasible so callers can decide.
package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/yardworks/shunter/core/logger"
	"github.com/yardworks/shunter/core/milp"
)

// intTol decides whether a relaxed value counts as integral.
const intTol = 1e-6

// Config tunes the simplex run.
type Config struct {
	// Tolerance is the pivot tolerance handed to the simplex method.
	Tolerance float64 `json:"tolerance"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Tolerance == 0 {
		c.Tolerance = 1e-7
	}
}

// Validate checks numeric sanity.
func (c Config) Validate() error {
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return fmt.Errorf("tolerance %g outside (0, 1)", c.Tolerance)
	}
	return nil
}

// Solver implements milp.Solver on gonum/optimize/convex/lp.
type Solver struct {
	cfg Config
	log logger.Logger
}

// New returns a configured solver. A nil logger falls back to a no-op.
func New(cfg Config, log logger.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simplex config: %w", err)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Solver{cfg: cfg, log: log}, nil
}

// system is the general-form LP assembled from a model:
// minimize c'x subject to Gx <= h and Ax = b.
type system struct {
	n int
	c []float64
	g *mat.Dense
	h []float64
	a *mat.Dense
	b []float64
}

// Solve assembles the relaxation and runs the simplex method.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*milp.Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.NumVars() == 0 {
		return milp.NewSolution(milp.StatusOptimal, 0, nil), nil
	}

	start := time.Now()
	sys := assemble(m)
	_, xhat, err := lpSolve(sys, s.cfg.Tolerance)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return nil, milp.ErrInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return nil, milp.ErrUnbounded
		default:
			return nil, fmt.Errorf("simplex: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, integral := recoverValues(m, xhat)
	status := milp.StatusOptimal
	if !integral {
		status = milp.StatusFeasible
	}
	objective := 0.0
	if obj := m.Objective(); obj != nil {
		objective = milp.Eval(obj.Expr, assignmentOf(values))
	}
	s.log.Debugw("simplex done", map[string]any{
		"vars":        m.NumVars(),
		"constraints": m.NumConstrs(),
		"status":      status.String(),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return milp.NewSolution(status, objective, values), nil
}

// solveLP converts the general form to standard form and runs the simplex
// method.
func solveLP(sys system, tol float64) (float64, []float64, error) {
	cStd, aStd, bStd := lp.Convert(sys.c, sys.g, sys.h, sys.a, sys.b)
	return lp.Simplex(cStd, aStd, bStd, tol, nil)
}

// lpSolve points to the function used to solve the LP. It can be overridden
// in tests to simulate solver failures.
var lpSolve = solveLP

// assemble lowers the model into general form. Variable bounds and GE rows
// become inequalities, logical links their exact linear rows.
func assemble(m *milp.Model) system {
	n := m.NumVars()
	sys := system{n: n, c: make([]float64, n)}
	if obj := m.Objective(); obj != nil {
		sign := 1.0
		if obj.Direction == milp.Maximize {
			sign = -1
		}
		for _, t := range obj.Expr.Terms {
			sys.c[t.Var] += sign * t.Coef
		}
	}

	var ineq []milp.Constraint
	var eq []milp.Constraint
	push := func(c milp.Constraint) {
		switch c.Sense {
		case milp.EQ:
			eq = append(eq, c)
		default:
			ineq = append(ineq, c)
		}
	}
	for _, c := range m.Constraints() {
		push(c)
	}
	for _, l := range m.Ands() {
		for _, c := range milp.AndRows(l) {
			push(c)
		}
	}

	rows := len(ineq) + 2*n
	sys.g = mat.NewDense(rows, n, nil)
	sys.h = make([]float64, rows)
	for i, c := range ineq {
		sign := 1.0
		if c.Sense == milp.GE {
			sign = -1
		}
		for _, t := range c.Terms {
			sys.g.Set(i, int(t.Var), sys.g.At(i, int(t.Var))+sign*t.Coef)
		}
		sys.h[i] = sign * c.RHS
	}
	for j, v := range m.Vars() {
		up := len(ineq) + 2*j
		sys.g.Set(up, j, 1)
		sys.h[up] = v.UB
		sys.g.Set(up+1, j, -1)
		sys.h[up+1] = -v.LB
	}

	if len(eq) > 0 {
		sys.a = mat.NewDense(len(eq), n, nil)
		sys.b = make([]float64, len(eq))
		for i, c := range eq {
			for _, t := range c.Terms {
				sys.a.Set(i, int(t.Var), sys.a.At(i, int(t.Var))+t.Coef)
			}
			sys.b[i] = c.RHS
		}
	}
	return sys
}

// recoverValues maps the standard-form vector back onto model variables:
// x = xp - xn, clamped into declared bounds. It also reports whether every
// non-continuous variable came out integral.
func recoverValues(m *milp.Model, xhat []float64) ([]float64, bool) {
	n := m.NumVars()
	values := make([]float64, n)
	integral := true
	for i, v := range m.Vars() {
		x := xhat[i] - xhat[n+i]
		if x < v.LB {
			x = v.LB
		}
		if x > v.UB {
			x = v.UB
		}
		if v.Kind != milp.Continuous && math.Abs(x-math.Round(x)) > intTol {
			integral = false
		}
		values[i] = x
	}
	return values, integral
}

func assignmentOf(values []float64) map[milp.VarID]float64 {
	out := make(map[milp.VarID]float64, len(values))
	for i, v := range values {
		out[milp.VarID(i)] = v
	}
	return out
}
