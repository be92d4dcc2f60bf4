package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

// windows keeps every task clear of its resources' busy intervals. Machine
// closures bind the machine's own tasks; yard closures bind every task
// executed in that yard. Closures are weekly patterns, replayed across the
// horizon and flattened to boundary lists before encoding.
func (b *build) windows() error {
	for _, code := range b.cat.Machines() {
		bounds := b.boundaries(b.in.MachineClosures[code])
		if len(bounds) == 0 {
			continue
		}
		for _, ti := range b.machineInstances(code) {
			if err := b.confine("machine:"+string(code), ti, bounds); err != nil {
				return err
			}
		}
	}
	for _, yard := range b.cat.Yards() {
		bounds := b.boundaries(b.in.YardClosures[yard])
		if len(bounds) == 0 {
			continue
		}
		for _, ti := range b.yardInstances(yard) {
			if err := b.confine("yard:"+string(yard), ti, bounds); err != nil {
				return err
			}
		}
	}
	return nil
}

// boundaries turns weekly closures into the sorted, merged boundary list
// covering the whole horizon.
func (b *build) boundaries(closures []model.Closure) []timetable.Minutes {
	if len(closures) == 0 {
		return nil
	}
	week := make([]timetable.Window, len(closures))
	for i, c := range closures {
		week[i] = c.Window()
	}
	return timetable.Boundaries(timetable.ExtendWeekly(week, b.hz.extendTo()))
}

// yardInstances lists every task instance executed in the yard.
func (b *build) yardInstances(yard model.YardCode) []taskInstance {
	var out []taskInstance
	for _, side := range []model.Side{model.SideArrival, model.SideDeparture} {
		for _, ti := range b.instances(side) {
			if ti.spec.Yard == yard {
				out = append(out, ti)
			}
		}
	}
	return out
}

// confine emits the one-hot closure encoding for a single task instance:
// one case indicator per open gap (before the first busy interval, between
// any two, after the last), each gating big-M bounds that keep the whole
// task inside the gap, and exactly one case active.
func (b *build) confine(resource string, ti taskInstance, bounds []timetable.Minutes) error {
	if len(bounds)%2 != 0 {
		return fmt.Errorf("%s: odd boundary list (%d entries)", resource, len(bounds))
	}
	v := b.start(ti)
	dur := float64(ti.spec.Duration)
	base := fmt.Sprintf("win(%s:%s)", resource, ti.name())

	deltas := make([]milp.VarID, 0, len(bounds)/2+1)
	addCase := func() milp.VarID {
		d := b.m.AddBinary(fmt.Sprintf("%s.case%d", base, len(deltas)))
		deltas = append(deltas, d)
		return d
	}
	// Row-local relaxation constants instead of the global big-M: the
	// replayed closure list overshoots the horizon by up to a week, so its
	// boundary values can exceed any horizon-sized constant.
	lb := func(d milp.VarID, at timetable.Minutes) {
		// 15t >= at when the case is active, vacuous otherwise since
		// starts are non-negative.
		b.m.AddConstr(fmt.Sprintf("%s.case%d.lb", base, len(deltas)-1),
			milp.Sum(milp.T(v, step), milp.T(d, -float64(at))),
			milp.GE, 0)
	}
	ub := func(d milp.VarID, at timetable.Minutes) {
		// 15t + dur <= at when the case is active. The constant spans the
		// horizon plus the task itself, so it is vacuous otherwise.
		u := float64(timetable.StepMinutes(b.hz.Steps)) + dur
		b.m.AddConstr(fmt.Sprintf("%s.case%d.ub", base, len(deltas)-1),
			milp.Sum(milp.T(v, step), milp.T(d, u)),
			milp.LE, u+float64(at)-dur)
	}

	ub(addCase(), bounds[0])
	for i := 1; 2*i < len(bounds); i++ {
		d := addCase()
		lb(d, bounds[2*i-1])
		ub(d, bounds[2*i])
	}
	lb(addCase(), bounds[len(bounds)-1])

	terms := make([]milp.Term, len(deltas))
	for i, d := range deltas {
		terms[i] = milp.T(d, 1)
	}
	b.m.AddConstr(base+".onehot", milp.Sum(terms...), milp.EQ, 1)
	return nil
}
