package compile

import (
	"sort"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

// TaskTime is one solved task placement.
type TaskTime struct {
	Side  model.Side        `json:"side"`
	Index int               `json:"task"`
	Train model.TrainID     `json:"train"`
	Start timetable.Minutes `json:"start"`
	End   timetable.Minutes `json:"end"`
}

// YardLoad is the solved occupancy of one yard at one step.
type YardLoad struct {
	Yard  model.YardCode `json:"yard"`
	Step  int            `json:"step"`
	Count int            `json:"count"`
}

// CrewCycle is the solved staffing of one roster cycle.
type CrewCycle struct {
	Roster        model.RosterID `json:"roster"`
	Cycle         int            `json:"cycle"`
	Agents        int            `json:"agents"`
	AssignedSlots int            `json:"assigned_slots"`
}

// Schedule is the write-back view of a solved model, ready for export.
type Schedule struct {
	RunID      string                              `json:"run_id"`
	Status     string                              `json:"status"`
	Objective  float64                             `json:"objective"`
	Tasks      []TaskTime                          `json:"tasks"`
	Occupancy  []YardLoad                          `json:"occupancy,omitempty"`
	Crew       []CrewCycle                         `json:"crew,omitempty"`
	FirstWagon map[model.TrainID]timetable.Minutes `json:"first_wagon,omitempty"`
	// PeakBusy is meaningful only under the peak-busy objective; -1
	// otherwise.
	PeakBusy int `json:"peak_busy"`
}

// Extract reads solver values back through the variable table into a
// Schedule. The caller decides beforehand whether the solution status
// warrants extraction.
func Extract(sol *milp.Solution, res *Result) *Schedule {
	out := &Schedule{
		RunID:      res.RunID,
		Status:     sol.Status.String(),
		Objective:  sol.Objective,
		FirstWagon: map[model.TrainID]timetable.Minutes{},
		PeakBusy:   -1,
	}

	keys := make([]TaskKey, 0, len(res.Table.TaskStart))
	for k := range res.Table.TaskStart {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		if a.Train != b.Train {
			return a.Train < b.Train
		}
		return a.Index < b.Index
	})
	for _, k := range keys {
		spec, err := res.Catalog.Task(k.Side, k.Index)
		if err != nil {
			continue
		}
		start := timetable.StepMinutes(sol.Int(res.Table.TaskStart[k]))
		out.Tasks = append(out.Tasks, TaskTime{
			Side:  k.Side,
			Index: k.Index,
			Train: k.Train,
			Start: start,
			End:   start + spec.Duration,
		})
	}

	type yardStep struct {
		yard model.YardCode
		step int
	}
	counts := map[yardStep]int{}
	for k, v := range res.Table.Presence {
		if sol.Int(v) == 1 {
			counts[yardStep{k.Yard, k.Step}]++
		}
	}
	cells := make([]yardStep, 0, len(counts))
	for c := range counts {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].yard != cells[j].yard {
			return cells[i].yard < cells[j].yard
		}
		return cells[i].step < cells[j].step
	})
	for _, c := range cells {
		out.Occupancy = append(out.Occupancy, YardLoad{Yard: c.yard, Step: c.step, Count: counts[c]})
	}

	for train, v := range res.Table.FirstWagon {
		out.FirstWagon[train] = timetable.StepMinutes(sol.Int(v))
	}

	slots := map[CycleKey]int{}
	for k, v := range res.Table.Assign {
		if sol.Int(v) == 1 {
			slots[CycleKey{Roster: k.Roster, Cycle: k.Cycle}]++
		}
	}
	crewKeys := make([]CycleKey, 0, len(res.Table.Agents))
	for k := range res.Table.Agents {
		crewKeys = append(crewKeys, k)
	}
	sort.Slice(crewKeys, func(i, j int) bool {
		if crewKeys[i].Roster != crewKeys[j].Roster {
			return crewKeys[i].Roster < crewKeys[j].Roster
		}
		return crewKeys[i].Cycle < crewKeys[j].Cycle
	})
	for _, k := range crewKeys {
		out.Crew = append(out.Crew, CrewCycle{
			Roster:        k.Roster,
			Cycle:         k.Cycle,
			Agents:        sol.Int(res.Table.Agents[k]),
			AssignedSlots: slots[k],
		})
	}

	if res.Table.HasPeakBusy {
		out.PeakBusy = sol.Int(res.Table.PeakBusy)
	}
	return out
}
