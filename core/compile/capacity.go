package compile

import (
	"fmt"
	"sort"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

// presenceWindow is one train's occupancy interval in one yard: linear
// expressions for its start and end, plus the static step range the train
// can possibly occupy.
type presenceWindow struct {
	train model.TrainID
	start milp.Expr
	end   milp.Expr
	lo    int
	hi    int
}

// capacity derives a presence indicator per (yard, train, step) and caps
// the per-step sum with the yard's track count. Presence is the
// conjunction of two sandwiched booleans: the step is at or after the
// window start, and at or before its end. Only steps inside each train's
// statically reachable range get variables.
func (b *build) capacity() error {
	for _, yard := range b.cat.Yards() {
		tracks, ok := b.in.Tracks[yard]
		if !ok {
			continue
		}
		wins := b.presenceWindows(yard)
		perStep := map[int][]milp.Term{}
		for _, w := range wins {
			for s := w.lo; s <= w.hi; s++ {
				p := b.presence(yard, w, s)
				perStep[s] = append(perStep[s], milp.T(p, 1))
			}
		}
		steps := make([]int, 0, len(perStep))
		for s := range perStep {
			steps = append(steps, s)
		}
		sort.Ints(steps)
		for _, s := range steps {
			b.m.AddConstr(
				fmt.Sprintf("cap(%s:%d)", yard, s),
				milp.Sum(perStep[s]...),
				milp.LE, float64(tracks),
			)
		}
	}
	return nil
}

// presence declares the two half-open booleans and their conjunction for
// one (yard, train, step).
func (b *build) presence(yard model.YardCode, w presenceWindow, s int) milp.VarID {
	m, eps := b.hz.M, b.cfg.Epsilon
	at := float64(timetable.StepMinutes(s))
	base := fmt.Sprintf("%s.%s.s%d", yard, w.train, s)

	after := b.m.AddBinary("after(" + base + ")")
	// after=1 forces start <= 15s, after=0 forces 15s <= start-eps.
	b.m.AddConstr("after("+base+").on", w.start.Plus(milp.T(after, m)), milp.LE, m+at)
	b.m.AddConstr("after("+base+").off", w.start.Plus(milp.T(after, m)), milp.GE, at+eps)

	before := b.m.AddBinary("before(" + base + ")")
	// before=1 forces 15s <= end, before=0 forces end <= 15s-eps.
	b.m.AddConstr("before("+base+").on", w.end.Plus(milp.T(before, -m)), milp.GE, at-m)
	b.m.AddConstr("before("+base+").off", w.end.Plus(milp.T(before, -m)), milp.LE, at-eps)

	pres := b.m.AddBinary("pres(" + base + ")")
	b.m.AddAnd("pres("+base+").and", pres, after, before)
	b.tbl.Presence[PresenceKey{Yard: yard, Train: w.train, Step: s}] = pres
	return pres
}

// yardRoles reads the reception, formation and departure yards off the
// catalog.
func (b *build) yardRoles() (rec, frm, dep model.YardCode) {
	rec = b.cat.Arrival[len(b.cat.Arrival)-1].Yard
	frm = b.cat.Departure[0].Yard
	dep = b.cat.Departure[len(b.cat.Departure)-1].Yard
	return rec, frm, dep
}

// releaseIndex is the position (0-based) of the last departure task still
// executed in the formation yard: the pull-out move. Its start opens the
// departure-yard window and its end closes the formation-yard one.
func (b *build) releaseIndex() int {
	_, frm, _ := b.yardRoles()
	idx := 0
	for i, ts := range b.cat.Departure {
		if ts.Yard == frm {
			idx = i
		}
	}
	return idx
}

// presenceWindows builds the occupancy windows of every train that can
// stand in the yard, with provable static step ranges.
func (b *build) presenceWindows(yard model.YardCode) []presenceWindow {
	rec, frm, dep := b.yardRoles()
	var out []presenceWindow
	if yard == rec {
		for _, a := range b.arrivals {
			out = append(out, b.receptionWindow(a))
		}
	}
	if yard == frm {
		for _, d := range b.departures {
			out = append(out, b.formationWindow(d))
		}
	}
	if yard == dep && dep != frm {
		for _, d := range b.departures {
			out = append(out, b.departureWindow(d))
		}
	}
	return out
}

// receptionWindow: from the physical arrival until the end of the last
// arrival task.
func (b *build) receptionWindow(a model.Arrival) presenceWindow {
	last := b.cat.Arrival[len(b.cat.Arrival)-1]
	tLast := b.tbl.TaskStart[TaskKey{Side: model.SideArrival, Index: last.Index, Train: a.Train}]

	latest := timetable.StepMinutes(b.hz.Steps)
	depTotal := b.sideDuration(model.SideDeparture)
	for _, d := range b.fedDepartures(a.Train) {
		if end := d.At - depTotal; end < latest {
			latest = end
		}
	}
	return presenceWindow{
		train: a.Train,
		start: milp.Sum().Shift(float64(a.At)),
		end:   milp.Sum(milp.T(tLast, step)).Shift(float64(last.Duration)),
		lo:    b.clampStep(timetable.StepCeil(a.At) - b.cfg.StepSlack),
		hi:    b.clampStep(timetable.StepFloor(latest) + b.cfg.StepSlack),
	}
}

// formationWindow: from the first wagon cut until the end of the release
// move.
func (b *build) formationWindow(d model.Departure) presenceWindow {
	rel := b.cat.Departure[b.releaseIndex()]
	tRel := b.tbl.TaskStart[TaskKey{Side: model.SideDeparture, Index: rel.Index, Train: d.Train}]
	fw := b.firstWagon(d.Train)

	arrPrefix := b.sideDuration(model.SideArrival) - b.cat.Arrival[len(b.cat.Arrival)-1].Duration
	earliest := b.earliestFeeding(d.Train) + arrPrefix
	tailAfter := b.durationAfter(b.releaseIndex())
	return presenceWindow{
		train: d.Train,
		start: milp.Sum(milp.T(fw, step)),
		end:   milp.Sum(milp.T(tRel, step)).Shift(float64(rel.Duration)),
		lo:    b.clampStep(timetable.StepCeil(earliest) - b.cfg.StepSlack),
		hi:    b.clampStep(timetable.StepFloor(d.At-tailAfter) + b.cfg.StepSlack),
	}
}

// departureWindow: from the start of the release move until the scheduled
// departure.
func (b *build) departureWindow(d model.Departure) presenceWindow {
	rel := b.cat.Departure[b.releaseIndex()]
	tRel := b.tbl.TaskStart[TaskKey{Side: model.SideDeparture, Index: rel.Index, Train: d.Train}]

	depPrefix := timetable.Minutes(0)
	for _, ts := range b.cat.Departure[:b.releaseIndex()] {
		depPrefix += ts.Duration
	}
	earliest := b.earliestFeeding(d.Train) + b.sideDuration(model.SideArrival) + depPrefix
	return presenceWindow{
		train: d.Train,
		start: milp.Sum(milp.T(tRel, step)),
		end:   milp.Sum().Shift(float64(d.At)),
		lo:    b.clampStep(timetable.StepCeil(earliest) - b.cfg.StepSlack),
		hi:    b.clampStep(timetable.StepFloor(d.At) + b.cfg.StepSlack),
	}
}

// sideDuration sums the side's task durations.
func (b *build) sideDuration(side model.Side) timetable.Minutes {
	var total timetable.Minutes
	for _, ts := range b.cat.Tasks(side) {
		total += ts.Duration
	}
	return total
}

// durationAfter sums departure durations strictly after the 0-based index.
func (b *build) durationAfter(idx int) timetable.Minutes {
	var total timetable.Minutes
	for _, ts := range b.cat.Departure[idx+1:] {
		total += ts.Duration
	}
	return total
}

// fedDepartures lists the departures consuming wagons of the arrival.
func (b *build) fedDepartures(train model.TrainID) []model.Departure {
	var out []model.Departure
	for _, d := range b.departures {
		for _, a := range b.in.Correspondences.Feeding(d.Train) {
			if a == train {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// earliestFeeding is the earliest arrival instant over the departure's
// correspondence set.
func (b *build) earliestFeeding(train model.TrainID) timetable.Minutes {
	first := timetable.StepMinutes(b.hz.Steps)
	for _, id := range b.in.Correspondences.Feeding(train) {
		if a, ok := b.in.Arrival(id); ok && a.At < first {
			first = a.At
		}
	}
	return first
}

func (b *build) clampStep(s int) int {
	if s < 0 {
		return 0
	}
	if s > b.hz.Steps {
		return b.hz.Steps
	}
	return s
}
