// Package timetable handles the calendar arithmetic of a yard plan: every
// instant is an integer number of minutes counted from the reference Monday
// 00:00 of the studied week. Task timing uses a 15-minute grid, crew
// assignment a 5-minute grid.
package timetable

import "time"

// Minutes is a time offset in minutes since the reference Monday 00:00.
type Minutes int

const (
	MinutesPerDay  = 24 * 60
	MinutesPerWeek = 7 * MinutesPerDay

	// TaskStep is the discretization of task start times.
	TaskStep = 15
	// CrewSlot is the discretization of crew assignment slots.
	CrewSlot = 5

	// ShiftMinutes is the fixed length of a crew shift.
	ShiftMinutes = 8 * 60
	// ShiftSlots is a shift expressed in crew slots.
	ShiftSlots = ShiftMinutes / CrewSlot
	// ShiftSteps is a shift expressed in task steps.
	ShiftSteps = ShiftMinutes / TaskStep
)

// ReferenceMonday returns Monday 00:00 of the week containing t.
func ReferenceMonday(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -back)
}

// Since converts a wall-clock time to minutes elapsed from ref.
func Since(ref, t time.Time) Minutes {
	return Minutes(t.Sub(ref) / time.Minute)
}

// At returns the offset of day (1 = reference Monday) at hh:mm.
func At(day, hh, mm int) Minutes {
	return Minutes((day-1)*MinutesPerDay + hh*60 + mm)
}

// Day returns the 1-based day index of m (1 = reference Monday).
func (m Minutes) Day() int { return int(m)/MinutesPerDay + 1 }

// Weekday returns the 1-based day of week of m (1 = Monday, 7 = Sunday).
func (m Minutes) Weekday() int { return int(m)%MinutesPerWeek/MinutesPerDay + 1 }

// Clock splits m into its day index and hour/minute of day.
func (m Minutes) Clock() (day, hh, mm int) {
	day = m.Day()
	rest := int(m) % MinutesPerDay
	return day, rest / 60, rest % 60
}

// Time converts m back to a wall-clock time relative to ref.
func (m Minutes) Time(ref time.Time) time.Time {
	return ref.Add(time.Duration(m) * time.Minute)
}

// StepFloor is the last task step starting at or before m.
func StepFloor(m Minutes) int { return int(m) / TaskStep }

// StepCeil is the first task step starting at or after m.
func StepCeil(m Minutes) int { return (int(m) + TaskStep - 1) / TaskStep }

// SlotFloor is the last crew slot starting at or before m.
func SlotFloor(m Minutes) int { return int(m) / CrewSlot }

// SlotCeil is the first crew slot starting at or after m.
func SlotCeil(m Minutes) int { return (int(m) + CrewSlot - 1) / CrewSlot }

// StepMinutes converts a task step index to minutes.
func StepMinutes(step int) Minutes { return Minutes(step * TaskStep) }

// SlotMinutes converts a crew slot index to minutes.
func SlotMinutes(slot int) Minutes { return Minutes(slot * CrewSlot) }
