// Package milp holds the linear-model representation built by the compiler:
// typed variables, linear constraints, logical-AND links and one objective.
// The package is pure data plus introspection; solving happens behind the
// Solver interface so the optimization engine stays swappable.
package milp

import "fmt"

// VarKind is the domain of a decision variable.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// VarID is the handle returned by AddVar.
type VarID int

// Var is one declared decision variable.
type Var struct {
	ID   VarID
	Name string
	Kind VarKind
	LB   float64
	UB   float64
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  VarID
	Coef float64
}

// Expr is a linear expression: a sum of terms plus a constant offset.
type Expr struct {
	Terms  []Term
	Offset float64
}

// T builds a single term.
func T(v VarID, coef float64) Term { return Term{Var: v, Coef: coef} }

// Sum builds an expression from terms.
func Sum(terms ...Term) Expr { return Expr{Terms: terms} }

// Plus returns a copy of e with more terms appended.
func (e Expr) Plus(terms ...Term) Expr {
	out := Expr{Terms: make([]Term, 0, len(e.Terms)+len(terms)), Offset: e.Offset}
	out.Terms = append(out.Terms, e.Terms...)
	out.Terms = append(out.Terms, terms...)
	return out
}

// Shift returns a copy of e with the constant offset moved by c.
func (e Expr) Shift(c float64) Expr {
	e.Offset += c
	return e
}

// Scale returns e multiplied by k.
func (e Expr) Scale(k float64) Expr {
	out := Expr{Terms: make([]Term, len(e.Terms)), Offset: e.Offset * k}
	for i, t := range e.Terms {
		out.Terms[i] = Term{Var: t.Var, Coef: t.Coef * k}
	}
	return out
}

// Sense is the comparison of a linear constraint.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Constraint is one linear row. The expression offset is folded into RHS at
// declaration time, so Terms carry only variable coefficients.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// AndLink ties a binary result to the conjunction of binary operands.
type AndLink struct {
	Name     string
	Result   VarID
	Operands []VarID
}

// Direction of the objective.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Objective is the optional linear objective.
type Objective struct {
	Expr      Expr
	Direction Direction
}

// Model is the constraint network under construction. Declaration order is
// part of the model: two builds over identical input produce identical
// variable ids, rows and fingerprints.
type Model struct {
	vars    []Var
	constrs []Constraint
	ands    []AndLink
	obj     *Objective
}

// NewModel returns an empty model.
func NewModel() *Model { return &Model{} }

// AddVar declares a variable and returns its handle.
func (m *Model) AddVar(kind VarKind, lb, ub float64, name string) VarID {
	id := VarID(len(m.vars))
	m.vars = append(m.vars, Var{ID: id, Name: name, Kind: kind, LB: lb, UB: ub})
	return id
}

// AddBinary declares a 0/1 variable.
func (m *Model) AddBinary(name string) VarID {
	return m.AddVar(Binary, 0, 1, name)
}

// AddConstr declares a linear constraint. The expression offset is folded
// into the right-hand side.
func (m *Model) AddConstr(name string, e Expr, s Sense, rhs float64) {
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	m.constrs = append(m.constrs, Constraint{Name: name, Terms: terms, Sense: s, RHS: rhs - e.Offset})
}

// AddAnd links result to the conjunction of operands.
func (m *Model) AddAnd(name string, result VarID, operands ...VarID) {
	ops := make([]VarID, len(operands))
	copy(ops, operands)
	m.ands = append(m.ands, AndLink{Name: name, Result: result, Operands: ops})
}

// SetObjective installs the objective, replacing any previous one.
func (m *Model) SetObjective(e Expr, dir Direction) {
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	m.obj = &Objective{Expr: Expr{Terms: terms, Offset: e.Offset}, Direction: dir}
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstrs returns the number of linear rows.
func (m *Model) NumConstrs() int { return len(m.constrs) }

// NumAnds returns the number of logical-AND links.
func (m *Model) NumAnds() int { return len(m.ands) }

// Var returns the declaration of id.
func (m *Model) Var(id VarID) (Var, bool) {
	if int(id) < 0 || int(id) >= len(m.vars) {
		return Var{}, false
	}
	return m.vars[id], true
}

// Vars exposes the declared variables in declaration order. Read-only.
func (m *Model) Vars() []Var { return m.vars }

// Constraints exposes the linear rows in declaration order. Read-only.
func (m *Model) Constraints() []Constraint { return m.constrs }

// Ands exposes the logical links in declaration order. Read-only.
func (m *Model) Ands() []AndLink { return m.ands }

// Objective returns the installed objective, nil when unset.
func (m *Model) Objective() *Objective { return m.obj }

// AndRows lowers a logical link to its exact linear form over binaries:
// result below every operand, result above their sum minus (n-1).
func AndRows(l AndLink) []Constraint {
	out := make([]Constraint, 0, len(l.Operands)+1)
	for i, op := range l.Operands {
		out = append(out, Constraint{
			Name:  fmt.Sprintf("%s.le%d", l.Name, i+1),
			Terms: []Term{{Var: l.Result, Coef: 1}, {Var: op, Coef: -1}},
			Sense: LE,
			RHS:   0,
		})
	}
	low := Constraint{
		Name:  l.Name + ".ge",
		Terms: make([]Term, 0, len(l.Operands)+1),
		Sense: GE,
		RHS:   1 - float64(len(l.Operands)),
	}
	low.Terms = append(low.Terms, Term{Var: l.Result, Coef: 1})
	for _, op := range l.Operands {
		low.Terms = append(low.Terms, Term{Var: op, Coef: -1})
	}
	return append(out, low)
}

// Validate checks referential integrity and bounds before solving.
func (m *Model) Validate() error {
	for _, v := range m.vars {
		if v.LB > v.UB {
			return fmt.Errorf("variable %s: bounds [%g, %g] inverted", v.Name, v.LB, v.UB)
		}
		if v.Kind == Binary && (v.LB < 0 || v.UB > 1) {
			return fmt.Errorf("variable %s: binary bounds [%g, %g]", v.Name, v.LB, v.UB)
		}
	}
	known := func(id VarID) bool { return int(id) >= 0 && int(id) < len(m.vars) }
	for _, c := range m.constrs {
		if len(c.Terms) == 0 {
			return fmt.Errorf("constraint %s has no terms", c.Name)
		}
		for _, t := range c.Terms {
			if !known(t.Var) {
				return fmt.Errorf("constraint %s references unknown variable %d", c.Name, t.Var)
			}
		}
	}
	for _, a := range m.ands {
		if len(a.Operands) == 0 {
			return fmt.Errorf("and link %s has no operands", a.Name)
		}
		ids := append([]VarID{a.Result}, a.Operands...)
		for _, id := range ids {
			if !known(id) {
				return fmt.Errorf("and link %s references unknown variable %d", a.Name, id)
			}
			if m.vars[id].Kind != Binary {
				return fmt.Errorf("and link %s: variable %s is not binary", a.Name, m.vars[id].Name)
			}
		}
	}
	if m.obj != nil {
		for _, t := range m.obj.Expr.Terms {
			if !known(t.Var) {
				return fmt.Errorf("objective references unknown variable %d", t.Var)
			}
		}
	}
	return nil
}
