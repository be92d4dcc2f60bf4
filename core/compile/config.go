package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/timetable"
)

// Objective variants.
const (
	// ObjectiveNone compiles a pure feasibility model.
	ObjectiveNone = "none"
	// ObjectiveCrewSize minimizes the total hired agent count.
	ObjectiveCrewSize = "crew-size"
	// ObjectivePeakBusy minimizes the peak number of tasks sharing one
	// 8h bucket.
	ObjectivePeakBusy = "peak-busy"
)

// Config defines compiler settings.
type Config struct {
	// BigMMarginMinutes is added on top of the horizon when sizing the
	// big-M constant. It must stay positive so M exceeds every feasible
	// time span.
	BigMMarginMinutes int `json:"big_m_margin_minutes"`
	// Epsilon is the margin used to encode strict inequalities in
	// indicator sandwiches.
	Epsilon float64 `json:"epsilon"`
	// Objective selects the variant: crew-size, peak-busy or none.
	Objective string `json:"objective"`
	// CycleOffsetSteps anchors the 8h buckets of the peak-busy
	// objective, in task steps after the reference Monday.
	CycleOffsetSteps int `json:"cycle_offset_steps"`
	// StepSlack widens each train's presence step range on both sides.
	StepSlack int `json:"step_slack"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BigMMarginMinutes == 0 {
		c.BigMMarginMinutes = timetable.MinutesPerDay
	}
	if c.Epsilon == 0 {
		c.Epsilon = 0.1
	}
	if c.Objective == "" {
		c.Objective = ObjectiveCrewSize
	}
}

// Validate checks numeric sanity and the objective name.
func (c Config) Validate() error {
	if c.BigMMarginMinutes < timetable.TaskStep {
		return fmt.Errorf("big-M margin %d minutes is below one task step (%d)", c.BigMMarginMinutes, timetable.TaskStep)
	}
	if c.Epsilon <= 0 || c.Epsilon >= 1 {
		return fmt.Errorf("epsilon %g outside (0, 1)", c.Epsilon)
	}
	switch c.Objective {
	case ObjectiveNone, ObjectiveCrewSize, ObjectivePeakBusy:
	default:
		return fmt.Errorf("unknown objective %q", c.Objective)
	}
	if c.CycleOffsetSteps < 0 || c.CycleOffsetSteps >= timetable.ShiftSteps {
		return fmt.Errorf("cycle offset %d outside 0..%d", c.CycleOffsetSteps, timetable.ShiftSteps-1)
	}
	if c.StepSlack < 0 {
		return fmt.Errorf("step slack %d negative", c.StepSlack)
	}
	return nil
}
