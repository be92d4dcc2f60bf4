package milp

import (
	"context"
	"errors"
	"math"
)

// Engine outcome sentinels, surfaced unchanged by Solver implementations.
var (
	ErrInfeasible = errors.New("model infeasible")
	ErrUnbounded  = errors.New("model unbounded")
)

// Status classifies a solve outcome.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Solver is the narrow boundary to an optimization engine. Implementations
// must honor ctx cancellation and return ErrInfeasible / ErrUnbounded
// verbatim when the engine reports those outcomes.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}

// Solution carries engine results back into the model's variable space.
type Solution struct {
	Status    Status
	Objective float64

	values []float64
}

// NewSolution wraps raw engine values indexed by VarID.
func NewSolution(status Status, objective float64, values []float64) *Solution {
	return &Solution{Status: status, Objective: objective, values: values}
}

// Value returns the solved value of id, zero for unknown ids.
func (s *Solution) Value(id VarID) float64 {
	if s == nil || int(id) < 0 || int(id) >= len(s.values) {
		return 0
	}
	return s.values[id]
}

// Int returns the solved value of id rounded to the nearest integer.
func (s *Solution) Int(id VarID) int { return int(math.Round(s.Value(id))) }

// Assignment copies the solution into the map form used by Model.Check.
func (s *Solution) Assignment() map[VarID]float64 {
	out := make(map[VarID]float64, len(s.values))
	for i, v := range s.values {
		out[VarID(i)] = v
	}
	return out
}
