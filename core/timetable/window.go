package timetable

import (
	"fmt"
	"sort"
)

// Window is a closed busy interval [Start, End] during which a resource is
// unavailable.
type Window struct {
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// Validate checks interval ordering.
func (w Window) Validate() error {
	if w.End < w.Start {
		return fmt.Errorf("window end %d before start %d", w.End, w.Start)
	}
	return nil
}

// Contains reports whether m falls inside the closed interval.
func (w Window) Contains(m Minutes) bool { return m >= w.Start && m <= w.End }

// Normalize sorts windows by start and fuses overlapping or touching
// intervals, so the result is disjoint and ascending. Empty input stays nil.
func Normalize(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	sorted := make([]Window, len(ws))
	copy(sorted, ws)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	out := sorted[:1]
	for _, w := range sorted[1:] {
		last := &out[len(out)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

// ExtendWeekly replays a weekly pattern of busy windows over following weeks
// until the last produced window ends past horizon. The input describes the
// first week only.
func ExtendWeekly(week []Window, horizon Minutes) []Window {
	if len(week) == 0 {
		return nil
	}
	base := Normalize(week)
	var out []Window
	for k := 0; ; k++ {
		shift := Minutes(k * MinutesPerWeek)
		for _, w := range base {
			out = append(out, Window{Start: w.Start + shift, End: w.End + shift})
		}
		if out[len(out)-1].End > horizon {
			break
		}
	}
	return out
}

// Boundaries flattens disjoint windows into their sorted boundary list,
// dropping consecutive duplicate values so that back-to-back windows merge
// into one. The result always has even length: pairs of (start, end).
func Boundaries(ws []Window) []Minutes {
	norm := Normalize(ws)
	flat := make([]Minutes, 0, 2*len(norm))
	for _, w := range norm {
		flat = append(flat, w.Start, w.End)
	}
	out := flat[:0]
	for i := 0; i < len(flat); {
		if i+1 < len(flat) && flat[i] == flat[i+1] {
			i += 2
			continue
		}
		out = append(out, flat[i])
		i++
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
