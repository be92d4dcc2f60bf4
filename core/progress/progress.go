// Package progress defines the observer contract for compiler and solver
// telemetry. Stages report what they added to the model, solves report
// their outcome; sinks decide what to do with the events. Backends live
// under infra/progress and register themselves through the factory.
package progress

import (
	"errors"
	"time"
)

// StageEvent reports one compiler stage completed.
type StageEvent struct {
	RunID   string
	Stage   string
	Vars    int
	Constrs int
	Ands    int
	Elapsed time.Duration
}

// SolveEvent reports the outcome of one solver call.
type SolveEvent struct {
	RunID     string
	Engine    string
	Status    string
	Objective float64
	Elapsed   time.Duration
}

// Observer records compilation and solve progress.
type Observer interface {
	RecordStage(ev StageEvent) error
	RecordSolve(ev SolveEvent) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordStage(StageEvent) error { return nil }
func (Nop) RecordSolve(SolveEvent) error { return nil }

// Multi fans events out to several observers and joins their errors.
type Multi struct {
	obs []Observer
}

// NewMulti combines observers into one.
func NewMulti(obs ...Observer) *Multi { return &Multi{obs: obs} }

func (m *Multi) RecordStage(ev StageEvent) error {
	var errs []error
	for _, o := range m.obs {
		if err := o.RecordStage(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) RecordSolve(ev SolveEvent) error {
	var errs []error
	for _, o := range m.obs {
		if err := o.RecordSolve(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
