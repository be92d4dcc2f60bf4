package compile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yardworks/shunter/core/logger"
	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/core/roster"
	"github.com/yardworks/shunter/core/timetable"
)

// TaskKey addresses one task start variable.
type TaskKey struct {
	Side  model.Side
	Index int
	Train model.TrainID
}

// PresenceKey addresses one yard occupancy indicator.
type PresenceKey struct {
	Yard  model.YardCode
	Train model.TrainID
	Step  int
}

// CycleKey addresses one roster cycle.
type CycleKey struct {
	Roster model.RosterID
	Cycle  int
}

// AssignKey addresses one crew assignment boolean.
type AssignKey struct {
	Side   model.Side
	Index  int
	Train  model.TrainID
	Roster model.RosterID
	Cycle  int
	Slot   int
}

// VarTable indexes the typed variables of a compiled model so results can
// be read back without string parsing.
type VarTable struct {
	TaskStart  map[TaskKey]milp.VarID
	Presence   map[PresenceKey]milp.VarID
	FirstWagon map[model.TrainID]milp.VarID
	Agents     map[CycleKey]milp.VarID
	Assign     map[AssignKey]milp.VarID
	CycleIndex map[TaskKey]milp.VarID

	// PeakBusy is the auxiliary objective variable, valid only when
	// HasPeakBusy is set.
	PeakBusy    milp.VarID
	HasPeakBusy bool
}

func newVarTable() *VarTable {
	return &VarTable{
		TaskStart:  map[TaskKey]milp.VarID{},
		Presence:   map[PresenceKey]milp.VarID{},
		FirstWagon: map[model.TrainID]milp.VarID{},
		Agents:     map[CycleKey]milp.VarID{},
		Assign:     map[AssignKey]milp.VarID{},
		CycleIndex: map[TaskKey]milp.VarID{},
	}
}

// Horizon captures the time frame the model is sized for.
type Horizon struct {
	// End is the last scheduled departure.
	End timetable.Minutes
	// Steps is the upper bound of task start variables, in task steps.
	Steps int
	// M is the big-M constant, strictly above any feasible time span.
	M float64
}

// marginFloor is the smallest big-M margin that keeps every relaxed row
// vacuous: one shift length for crew slots reaching past the horizon, or
// the longest task duration plus one step, whichever is larger.
func marginFloor(cat model.Catalog) int {
	need := timetable.ShiftMinutes
	for _, side := range []model.Side{model.SideArrival, model.SideDeparture} {
		for _, ts := range cat.Tasks(side) {
			if d := int(ts.Duration) + timetable.TaskStep; d > need {
				need = d
			}
		}
	}
	return need
}

// horizonOf sizes the frame from the instance and the configured margin.
func horizonOf(in *model.Instance, cfg Config) Horizon {
	end := in.LastDeparture()
	steps := timetable.StepCeil(end + timetable.Minutes(cfg.BigMMarginMinutes))
	maxSpan := float64(timetable.StepMinutes(steps))
	return Horizon{
		End:   end,
		Steps: steps,
		M:     maxSpan + float64(cfg.BigMMarginMinutes),
	}
}

// extendTo is how far weekly closures are replayed.
func (h Horizon) extendTo() timetable.Minutes {
	return timetable.StepMinutes(h.Steps)
}

// Result is one compiled model with its read-back table.
type Result struct {
	RunID   string
	Model   *milp.Model
	Table   *VarTable
	Horizon Horizon
	Catalog model.Catalog
}

// Builder compiles instances into constraint models. It is safe to reuse
// for several instances; each build owns its own model.
type Builder struct {
	cfg Config
	cat model.Catalog
	log logger.Logger
	obs progress.Observer
}

// NewBuilder validates the configuration and catalog once. Nil logger or
// observer fall back to no-ops.
func NewBuilder(cfg Config, cat model.Catalog, log logger.Logger, obs progress.Observer) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("compile config: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if need := marginFloor(cat); cfg.BigMMarginMinutes < need {
		return nil, fmt.Errorf("big-M margin %d minutes too small for this catalog, need at least %d", cfg.BigMMarginMinutes, need)
	}
	if log == nil {
		log = logger.Nop{}
	}
	if obs == nil {
		obs = progress.Nop{}
	}
	return &Builder{cfg: cfg, cat: cat, log: log, obs: obs}, nil
}

// Build compiles the instance into a constraint model. Stages run in fixed
// dependency order; the run is deterministic for identical input.
func (b *Builder) Build(in *model.Instance) (*Result, error) {
	if err := in.Validate(b.cat); err != nil {
		return nil, err
	}
	hz := horizonOf(in, b.cfg)
	if hz.M <= float64(timetable.StepMinutes(hz.Steps)) {
		return nil, fmt.Errorf("big-M %g does not exceed the horizon span %d", hz.M, timetable.StepMinutes(hz.Steps))
	}

	runID := uuid.NewString()
	bd := &build{
		cfg:        b.cfg,
		cat:        b.cat,
		in:         in,
		hz:         hz,
		m:          milp.NewModel(),
		tbl:        newVarTable(),
		arrivals:   in.SortedArrivals(),
		departures: in.SortedDepartures(),
	}

	stages := []struct {
		name string
		fn   func() error
	}{
		{"timing", bd.timing},
		{"machines", bd.machines},
		{"windows", bd.windows},
		{"capacity", bd.capacity},
		{"succession", bd.succession},
		{"crew", bd.crew},
		{"objective", bd.objective},
	}
	for _, st := range stages {
		v0, c0, a0 := bd.m.NumVars(), bd.m.NumConstrs(), bd.m.NumAnds()
		t0 := time.Now()
		if err := st.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		ev := progress.StageEvent{
			RunID:   runID,
			Stage:   st.name,
			Vars:    bd.m.NumVars() - v0,
			Constrs: bd.m.NumConstrs() - c0,
			Ands:    bd.m.NumAnds() - a0,
			Elapsed: time.Since(t0),
		}
		if err := b.obs.RecordStage(ev); err != nil {
			b.log.Warnf("progress sink: %v", err)
		}
		b.log.Debugw("stage done", map[string]any{
			"stage":       st.name,
			"vars":        ev.Vars,
			"constraints": ev.Constrs,
		})
	}
	if err := bd.m.Validate(); err != nil {
		return nil, fmt.Errorf("compiled model inconsistent: %w", err)
	}
	b.log.Infof("model built: %d variables, %d constraints, %d logical links",
		bd.m.NumVars(), bd.m.NumConstrs(), bd.m.NumAnds())
	return &Result{
		RunID:   runID,
		Model:   bd.m,
		Table:   bd.tbl,
		Horizon: hz,
		Catalog: b.cat,
	}, nil
}

// build carries the per-run state shared by the stage methods.
type build struct {
	cfg        Config
	cat        model.Catalog
	in         *model.Instance
	hz         Horizon
	m          *milp.Model
	tbl        *VarTable
	arrivals   []model.Arrival
	departures []model.Departure
	cycles     map[model.RosterID][]roster.Cycle
}

// taskInstance is one concrete task of one train.
type taskInstance struct {
	side  model.Side
	spec  model.TaskSpec
	train model.TrainID
}

func (ti taskInstance) name() string {
	return fmt.Sprintf("%s.%d.%s", ti.side, ti.spec.Index, ti.train)
}

func (ti taskInstance) key() TaskKey {
	return TaskKey{Side: ti.side, Index: ti.spec.Index, Train: ti.train}
}

// instances lists one side's tasks across its trains, train-major, in
// deterministic order.
func (b *build) instances(side model.Side) []taskInstance {
	var out []taskInstance
	if side == model.SideArrival {
		for _, a := range b.arrivals {
			for _, ts := range b.cat.Arrival {
				out = append(out, taskInstance{side: side, spec: ts, train: a.Train})
			}
		}
		return out
	}
	for _, d := range b.departures {
		for _, ts := range b.cat.Departure {
			out = append(out, taskInstance{side: side, spec: ts, train: d.Train})
		}
	}
	return out
}

// start returns the start variable of a task instance.
func (b *build) start(ti taskInstance) milp.VarID {
	return b.tbl.TaskStart[ti.key()]
}

// firstWagon returns the first-wagon variable of a departure, creating it
// on first use. Both the capacity and succession stages reference it.
func (b *build) firstWagon(train model.TrainID) milp.VarID {
	if v, ok := b.tbl.FirstWagon[train]; ok {
		return v
	}
	v := b.m.AddVar(milp.Integer, 0, float64(b.hz.Steps), fmt.Sprintf("fw(%s)", train))
	b.tbl.FirstWagon[train] = v
	return v
}
