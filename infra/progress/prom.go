package progress

import (
	"github.com/prometheus/client_golang/prometheus"

	coreprogress "github.com/yardworks/shunter/core/progress"
)

// PromSink records compile and solve progress in Prometheus metrics.
type PromSink struct {
	stages    *prometheus.CounterVec
	stageTime *prometheus.HistogramVec
	solves    *prometheus.CounterVec
	solveTime prometheus.Histogram
	objective prometheus.Gauge
}

// NewPromSink registers progress metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coreprogress.Observer, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coreprogress.Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "compile_stages_total",
		Help: "Total number of completed compile stages",
	}, []string{"stage"})
	stageTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compile_stage_duration_seconds",
		Help:    "Time spent in each compile stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_events_total",
		Help: "Total number of solver calls by outcome",
	}, []string{"engine", "status"})
	solveTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solve_duration_seconds",
		Help:    "Wall time of solver calls",
		Buckets: prometheus.DefBuckets,
	})
	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solve_objective",
		Help: "Objective value of the last solve",
	})

	if err := reg.Register(stages); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stages = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(stageTime); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stageTime = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solveTime); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solveTime = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(objective); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			objective = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		stages:    stages,
		stageTime: stageTime,
		solves:    solves,
		solveTime: solveTime,
		objective: objective,
	}, nil
}

// RecordStage counts the stage and observes its duration.
func (s *PromSink) RecordStage(ev coreprogress.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Inc()
	s.stageTime.WithLabelValues(ev.Stage).Observe(ev.Elapsed.Seconds())
	return nil
}

// RecordSolve counts the outcome and keeps the last objective value.
func (s *PromSink) RecordSolve(ev coreprogress.SolveEvent) error {
	s.solves.WithLabelValues(ev.Engine, ev.Status).Inc()
	s.solveTime.Observe(ev.Elapsed.Seconds())
	s.objective.Set(ev.Objective)
	return nil
}
