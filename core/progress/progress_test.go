package progress

import (
	"errors"
	"testing"
	"time"
)

type recording struct {
	stages []StageEvent
	solves []SolveEvent
	err    error
}

func (r *recording) RecordStage(ev StageEvent) error {
	r.stages = append(r.stages, ev)
	return r.err
}

func (r *recording) RecordSolve(ev SolveEvent) error {
	r.solves = append(r.solves, ev)
	return r.err
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recording{}, &recording{}
	m := NewMulti(a, b)
	ev := StageEvent{RunID: "r1", Stage: "timing", Vars: 7, Elapsed: time.Millisecond}
	if err := m.RecordStage(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.stages) != 1 || len(b.stages) != 1 || a.stages[0].Vars != 7 {
		t.Fatalf("events not fanned out")
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	bad := &recording{err: errors.New("sink down")}
	ok := &recording{}
	m := NewMulti(bad, ok)
	if err := m.RecordSolve(SolveEvent{Status: "optimal"}); err == nil {
		t.Fatalf("expected joined error")
	}
	if len(ok.solves) != 1 {
		t.Fatalf("healthy sink should still receive the event")
	}
}

func TestFactory(t *testing.T) {
	if err := Register("test-sink", func(conf map[string]any) (Observer, error) {
		var c struct {
			Label string `json:"label"`
		}
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Label == "" {
			return nil, errors.New("label required")
		}
		return &recording{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	o, err := New([]SinkConfig{{Type: "test-sink", Conf: map[string]any{"label": "x"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := o.(*recording); !ok {
		t.Fatalf("expected recording sink, got %T", o)
	}

	if _, err := New([]SinkConfig{{Type: "missing"}}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := New([]SinkConfig{{Type: "test-sink"}}); err == nil {
		t.Fatalf("expected error from factory validation")
	}
}

func TestNewDefaultsToNop(t *testing.T) {
	o, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := o.(Nop); !ok {
		t.Fatalf("expected Nop got %T", o)
	}
}
