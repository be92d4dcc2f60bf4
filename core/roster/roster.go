// Package roster expands crew rosters into concrete shift cycles over the
// planning horizon. A roster describes a weekly pattern; a cycle is one
// actual 8h shift an agent count can be hired for.
package roster

import (
	"sort"

	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

// Cycle is one concrete shift of a roster.
type Cycle struct {
	Roster model.RosterID
	// Index is the cycle's position in the roster's expansion order.
	Index int
	// Start of the shift in minutes since the reference Monday.
	Start timetable.Minutes
	// Day is the 1-based absolute day the shift starts on.
	Day int
}

// End returns the end of the 8h shift.
func (c Cycle) End() timetable.Minutes { return c.Start + timetable.ShiftMinutes }

// SlotRange returns the inclusive range of 5-minute slots fully inside the
// shift.
func (c Cycle) SlotRange() (first, last int) {
	first = timetable.SlotCeil(c.Start)
	last = timetable.SlotFloor(c.End() - timetable.CrewSlot)
	return first, last
}

// Expand generates the cycles of r across every week whose Monday falls at
// or before horizonEnd, keeping the shifts that begin inside the horizon.
// Order is deterministic: week, then weekday, then start time.
func Expand(r model.Roster, horizonEnd timetable.Minutes) []Cycle {
	days := append([]int(nil), r.Days...)
	sort.Ints(days)
	starts := append([]int(nil), r.Starts...)
	sort.Ints(starts)

	var out []Cycle
	for week := 0; timetable.Minutes(week*timetable.MinutesPerWeek) <= horizonEnd; week++ {
		base := timetable.Minutes(week * timetable.MinutesPerWeek)
		for _, day := range days {
			for _, s := range starts {
				start := base + timetable.At(day, 0, 0) + timetable.Minutes(s)
				if start > horizonEnd {
					continue
				}
				out = append(out, Cycle{
					Roster: r.ID,
					Index:  len(out),
					Start:  start,
					Day:    start.Day(),
				})
			}
		}
	}
	return out
}

// ExpandAll expands every roster, keyed by id, in instance order.
func ExpandAll(rosters []model.Roster, horizonEnd timetable.Minutes) map[model.RosterID][]Cycle {
	out := make(map[model.RosterID][]Cycle, len(rosters))
	for _, r := range rosters {
		out[r.ID] = Expand(r, horizonEnd)
	}
	return out
}

// DayGroups partitions cycle indexes by start day, for daily headcount
// caps. Keys are absolute day numbers.
func DayGroups(cycles []Cycle) map[int][]int {
	out := map[int][]int{}
	for i, c := range cycles {
		out[c.Day] = append(out[c.Day], i)
	}
	return out
}
