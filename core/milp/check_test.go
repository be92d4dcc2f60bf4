package milp

import (
	"strings"
	"testing"
)

func TestCheckAcceptsFeasibleAssignment(t *testing.T) {
	m := NewModel()
	x := m.AddVar(Integer, 0, 100, "x")
	y := m.AddVar(Integer, 0, 100, "y")
	m.AddConstr("order", Sum(T(x, 1), T(y, -1)), LE, -10)
	got := m.Check(map[VarID]float64{x: 5, y: 20})
	if len(got) != 0 {
		t.Fatalf("expected clean check, got %v", got)
	}
}

func TestCheckReportsViolatedRow(t *testing.T) {
	m := NewModel()
	x := m.AddVar(Integer, 0, 100, "x")
	y := m.AddVar(Integer, 0, 100, "y")
	m.AddConstr("order", Sum(T(x, 1), T(y, -1)), LE, -10)
	got := m.Check(map[VarID]float64{x: 50, y: 20})
	if len(got) != 1 || got[0].Name != "order" {
		t.Fatalf("expected order violation, got %v", got)
	}
	if !strings.Contains(got[0].Detail, "<=") {
		t.Fatalf("detail should show the sense: %s", got[0].Detail)
	}
}

func TestCheckBoundsAndIntegrality(t *testing.T) {
	m := NewModel()
	x := m.AddVar(Integer, 0, 10, "x")
	got := m.Check(map[VarID]float64{x: 11})
	if len(got) != 1 {
		t.Fatalf("expected bound violation, got %v", got)
	}
	got = m.Check(map[VarID]float64{x: 4.5})
	if len(got) != 1 || !strings.Contains(got[0].Detail, "integral") {
		t.Fatalf("expected integrality violation, got %v", got)
	}
}

func TestCheckAndLink(t *testing.T) {
	m := NewModel()
	r := m.AddBinary("r")
	a := m.AddBinary("a")
	b := m.AddBinary("b")
	m.AddAnd("conj", r, a, b)

	if got := m.Check(map[VarID]float64{r: 1, a: 1, b: 1}); len(got) != 0 {
		t.Fatalf("true conjunction rejected: %v", got)
	}
	got := m.Check(map[VarID]float64{r: 1, a: 1, b: 0})
	if len(got) != 1 || got[0].Name != "conj" {
		t.Fatalf("expected conj violation, got %v", got)
	}
	if got := m.Check(map[VarID]float64{r: 0, a: 1, b: 1}); len(got) != 1 {
		t.Fatalf("result stuck low should violate, got %v", got)
	}
}

func TestEvalCountsMissingAsZero(t *testing.T) {
	e := Sum(T(3, 2)).Shift(1)
	if got := Eval(e, map[VarID]float64{}); got != 1 {
		t.Fatalf("got %g", got)
	}
}
