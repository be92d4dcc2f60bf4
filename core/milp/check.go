package milp

import (
	"fmt"
	"math"
)

// checkTol absorbs float noise when evaluating assignments.
const checkTol = 1e-6

// Violation names one rule an assignment breaks.
type Violation struct {
	Name   string
	Detail string
}

func (v Violation) String() string { return v.Name + ": " + v.Detail }

// Eval computes the value of e under assign; absent variables count as zero.
func Eval(e Expr, assign map[VarID]float64) float64 {
	total := e.Offset
	for _, t := range e.Terms {
		total += t.Coef * assign[t.Var]
	}
	return total
}

// Check evaluates a full assignment against the model and returns every
// violated rule: variable bounds, integrality, linear rows and logical
// links. An empty result means the assignment satisfies the model.
func (m *Model) Check(assign map[VarID]float64) []Violation {
	var out []Violation

	for _, v := range m.vars {
		x := assign[v.ID]
		if x < v.LB-checkTol || x > v.UB+checkTol {
			out = append(out, Violation{
				Name:   v.Name,
				Detail: fmt.Sprintf("value %g outside [%g, %g]", x, v.LB, v.UB),
			})
		}
		if v.Kind != Continuous && math.Abs(x-math.Round(x)) > checkTol {
			out = append(out, Violation{
				Name:   v.Name,
				Detail: fmt.Sprintf("value %g not integral", x),
			})
		}
	}

	for _, c := range m.constrs {
		lhs := Eval(Expr{Terms: c.Terms}, assign)
		ok := false
		switch c.Sense {
		case LE:
			ok = lhs <= c.RHS+checkTol
		case GE:
			ok = lhs >= c.RHS-checkTol
		case EQ:
			ok = math.Abs(lhs-c.RHS) <= checkTol
		}
		if !ok {
			out = append(out, Violation{
				Name:   c.Name,
				Detail: fmt.Sprintf("lhs %g violates %s %g", lhs, c.Sense, c.RHS),
			})
		}
	}

	for _, a := range m.ands {
		want := 1.0
		for _, op := range a.Operands {
			if assign[op] < 0.5 {
				want = 0
			}
		}
		if math.Abs(assign[a.Result]-want) > checkTol {
			out = append(out, Violation{
				Name:   a.Name,
				Detail: fmt.Sprintf("result %g, conjunction is %g", assign[a.Result], want),
			})
		}
	}
	return out
}
