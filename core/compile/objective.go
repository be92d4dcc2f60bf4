package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

// objective installs the configured variant. Both are linear over already
// declared variables.
func (b *build) objective() error {
	switch b.cfg.Objective {
	case ObjectiveNone:
		return nil
	case ObjectiveCrewSize:
		return b.crewSize()
	case ObjectivePeakBusy:
		return b.peakBusy()
	default:
		return fmt.Errorf("unknown objective %q", b.cfg.Objective)
	}
}

// crewSize minimizes the total hired agents across every roster cycle.
func (b *build) crewSize() error {
	if len(b.in.Rosters) == 0 {
		return fmt.Errorf("objective %s needs at least one roster", ObjectiveCrewSize)
	}
	var terms []milp.Term
	for _, r := range b.in.Rosters {
		for _, c := range b.cycles[r.ID] {
			terms = append(terms, milp.T(b.tbl.Agents[CycleKey{Roster: r.ID, Cycle: c.Index}], 1))
		}
	}
	b.m.SetObjective(milp.Sum(terms...), milp.Minimize)
	return nil
}

// peakBusy minimizes the peak number of tasks landing in the same 8h
// bucket. Each task start is decomposed as offset + phase + 32*cycle with
// phase in [0, 31]; per bucket, an equality indicator (the conjunction of
// "at or below" and "at or above") counts the tasks whose cycle index
// matches, and a single auxiliary variable dominates every count.
func (b *build) peakBusy() error {
	offset := b.cfg.CycleOffsetSteps
	kLo := 0
	if offset > 0 {
		// With a non-zero anchor the first partial bucket sits below it.
		kLo = -1
	}
	kHi := (b.hz.Steps-offset)/timetable.ShiftSteps + 1
	mk := float64(kHi-kLo) + 2

	insts := append(b.instances(model.SideArrival), b.instances(model.SideDeparture)...)
	for _, ti := range insts {
		tv := b.start(ti)
		kv := b.m.AddVar(milp.Integer, float64(kLo), float64(kHi), "cycle("+ti.name()+")")
		hat := b.m.AddVar(milp.Integer, 0, float64(timetable.ShiftSteps-1), "phase("+ti.name()+")")
		b.m.AddConstr("decomp("+ti.name()+")",
			milp.Sum(milp.T(tv, 1), milp.T(hat, -1), milp.T(kv, -float64(timetable.ShiftSteps))),
			milp.EQ, float64(offset))
		b.tbl.CycleIndex[ti.key()] = kv
	}

	peak := b.m.AddVar(milp.Integer, 0, float64(len(insts)), "peakbusy")
	b.tbl.PeakBusy = peak
	b.tbl.HasPeakBusy = true

	for k := kLo; k <= kHi; k++ {
		terms := make([]milp.Term, 0, len(insts)+1)
		for _, ti := range insts {
			kv := b.tbl.CycleIndex[ti.key()]
			kf := float64(k)

			below := b.m.AddBinary(fmt.Sprintf("below(%s:k%d)", ti.name(), k))
			b.m.AddConstr(fmt.Sprintf("below(%s:k%d).on", ti.name(), k),
				milp.Sum(milp.T(kv, 1), milp.T(below, mk)), milp.LE, kf+mk)
			b.m.AddConstr(fmt.Sprintf("below(%s:k%d).off", ti.name(), k),
				milp.Sum(milp.T(kv, 1), milp.T(below, mk)), milp.GE, kf+1)

			above := b.m.AddBinary(fmt.Sprintf("above(%s:k%d)", ti.name(), k))
			b.m.AddConstr(fmt.Sprintf("above(%s:k%d).on", ti.name(), k),
				milp.Sum(milp.T(kv, 1), milp.T(above, -mk)), milp.GE, kf-mk)
			b.m.AddConstr(fmt.Sprintf("above(%s:k%d).off", ti.name(), k),
				milp.Sum(milp.T(kv, 1), milp.T(above, -mk)), milp.LE, kf-1)

			in := b.m.AddBinary(fmt.Sprintf("inbucket(%s:k%d)", ti.name(), k))
			b.m.AddAnd(fmt.Sprintf("inbucket(%s:k%d).and", ti.name(), k), in, below, above)
			terms = append(terms, milp.T(in, 1))
		}
		terms = append(terms, milp.T(peak, -1))
		b.m.AddConstr(fmt.Sprintf("peak(k%d)", k), milp.Sum(terms...), milp.LE, 0)
	}
	b.m.SetObjective(milp.Sum(milp.T(peak, 1)), milp.Minimize)
	return nil
}
