package compile

import (
	"fmt"
	"sort"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/roster"
	"github.com/yardworks/shunter/core/timetable"
)

// crew assigns roster cycles to task minutes on the 5-minute grid.
// Assignment booleans exist only for rosters competent for the task's yard
// and slots inside the cycle's 8h shift. Constraints, in dependency order:
// coverage, per-slot non-saturation against the cycle's agent count,
// coherence with the task's active window and the shift window, and the
// per-day headcount cap.
func (b *build) crew() error {
	if len(b.in.Rosters) == 0 {
		return nil
	}
	b.cycles = roster.ExpandAll(b.in.Rosters, b.hz.extendTo())

	for _, r := range b.in.Rosters {
		for _, c := range b.cycles[r.ID] {
			v := b.m.AddVar(milp.Integer, 0, float64(r.MaxAgents),
				fmt.Sprintf("agents(%s.%d)", r.ID, c.Index))
			b.tbl.Agents[CycleKey{Roster: r.ID, Cycle: c.Index}] = v
		}
	}

	saturation := map[CycleKey]map[int][]milp.Term{}
	for _, side := range []model.Side{model.SideArrival, model.SideDeparture} {
		for _, ti := range b.instances(side) {
			if err := b.assignTask(ti, saturation); err != nil {
				return err
			}
		}
	}

	for _, r := range b.in.Rosters {
		for _, c := range b.cycles[r.ID] {
			ck := CycleKey{Roster: r.ID, Cycle: c.Index}
			perSlot := saturation[ck]
			slots := make([]int, 0, len(perSlot))
			for s := range perSlot {
				slots = append(slots, s)
			}
			sort.Ints(slots)
			agents := b.tbl.Agents[ck]
			for _, s := range slots {
				terms := append(perSlot[s], milp.T(agents, -1))
				b.m.AddConstr(
					fmt.Sprintf("sat(%s.%d:s%d)", r.ID, c.Index, s),
					milp.Sum(terms...),
					milp.LE, 0,
				)
			}
		}
	}

	for _, r := range b.in.Rosters {
		groups := roster.DayGroups(b.cycles[r.ID])
		days := make([]int, 0, len(groups))
		for d := range groups {
			days = append(days, d)
		}
		sort.Ints(days)
		for _, day := range days {
			terms := make([]milp.Term, 0, len(groups[day]))
			for _, idx := range groups[day] {
				terms = append(terms, milp.T(b.tbl.Agents[CycleKey{Roster: r.ID, Cycle: idx}], 1))
			}
			b.m.AddConstr(
				fmt.Sprintf("head(%s:d%d)", r.ID, day),
				milp.Sum(terms...),
				milp.LE, float64(r.MaxAgents),
			)
		}
	}
	return nil
}

// assignTask declares the assignment booleans of one task instance with
// their coherence rows, the coverage row, and feeds the saturation index.
func (b *build) assignTask(ti taskInstance, saturation map[CycleKey]map[int][]milp.Term) error {
	dur := ti.spec.Duration
	if dur%timetable.CrewSlot != 0 {
		return fmt.Errorf("task %s: duration %d not a multiple of the crew slot", ti.name(), dur)
	}
	eligible := b.competentRosters(ti.spec.Yard)
	if len(eligible) == 0 {
		return fmt.Errorf("task %s at yard %s: no competent roster", ti.name(), ti.spec.Yard)
	}

	m, eps := b.hz.M, b.cfg.Epsilon
	tv := b.start(ti)
	durF := float64(dur)
	var cover []milp.Term

	for _, r := range eligible {
		for _, c := range b.cycles[r.ID] {
			ck := CycleKey{Roster: r.ID, Cycle: c.Index}
			first, last := c.SlotRange()
			for slot := first; slot <= last; slot++ {
				name := fmt.Sprintf("who(%s:%s.%d:s%d)", ti.name(), r.ID, c.Index, slot)
				who := b.m.AddBinary(name)
				b.tbl.Assign[AssignKey{
					Side: ti.side, Index: ti.spec.Index, Train: ti.train,
					Roster: r.ID, Cycle: c.Index, Slot: slot,
				}] = who

				at := float64(timetable.SlotMinutes(slot))
				shift := float64(c.Start)

				// Slot at or after the task start: 15t <= 5s + M(1-who).
				b.m.AddConstr(name+".in",
					milp.Sum(milp.T(tv, step), milp.T(who, m)),
					milp.LE, m+at)
				// Slot before the task end: 5s <= 15t + dur + eps + M(1-who).
				b.m.AddConstr(name+".out",
					milp.Sum(milp.T(tv, -step), milp.T(who, m)),
					milp.LE, m+durF+eps-at)
				// The whole task sits inside this cycle's shift.
				b.m.AddConstr(name+".sha",
					milp.Sum(milp.T(tv, -step), milp.T(who, m)),
					milp.LE, m-shift)
				b.m.AddConstr(name+".shb",
					milp.Sum(milp.T(tv, step), milp.T(who, m)),
					milp.LE, m+shift+float64(timetable.ShiftMinutes)-durF)

				cover = append(cover, milp.T(who, 1))
				if saturation[ck] == nil {
					saturation[ck] = map[int][]milp.Term{}
				}
				saturation[ck][slot] = append(saturation[ck][slot], milp.T(who, 1))
			}
		}
	}

	if len(cover) == 0 {
		return fmt.Errorf("task %s: no roster cycle inside the horizon can staff it", ti.name())
	}
	b.m.AddConstr(
		"cover("+ti.name()+")",
		milp.Sum(cover...),
		milp.GE, float64(int(dur)/timetable.CrewSlot),
	)
	return nil
}

// competentRosters filters rosters by yard competency, in instance order.
func (b *build) competentRosters(yard model.YardCode) []model.Roster {
	var out []model.Roster
	for _, r := range b.in.Rosters {
		if r.Competent(yard) {
			out = append(out, r)
		}
	}
	return out
}
