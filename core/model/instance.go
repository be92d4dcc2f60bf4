package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yardworks/shunter/core/timetable"
)

// Validation sentinels. Wrapped errors name the offending entity.
var (
	ErrMissingEntry   = errors.New("missing correspondence entry")
	ErrUnknownTrain   = errors.New("unknown train")
	ErrUnknownYard    = errors.New("unknown yard")
	ErrUnknownMachine = errors.New("unknown machine")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrEmptyInstance  = errors.New("instance has no train movements")
)

// Arrival is an inbound sillon: the train and its arrival time in minutes
// since the reference Monday.
type Arrival struct {
	Train TrainID           `json:"train" yaml:"train"`
	At    timetable.Minutes `json:"at" yaml:"at"`
}

// Departure is an outbound sillon.
type Departure struct {
	Train TrainID           `json:"train" yaml:"train"`
	At    timetable.Minutes `json:"at" yaml:"at"`
}

// Correspondences maps each departure train to the ordered arrival trains
// feeding its wagons.
type Correspondences map[TrainID][]TrainID

// Feeding returns the arrival trains contributing wagons to dep.
func (c Correspondences) Feeding(dep TrainID) []TrainID { return c[dep] }

// Closure is a weekly recurring busy range of a machine or yard: day of
// week (1 = Monday) and a start/end in minutes after midnight.
type Closure struct {
	Day   int `json:"day" yaml:"day"`
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Window places the closure in the first week of the planning frame.
func (c Closure) Window() timetable.Window {
	base := timetable.At(c.Day, 0, 0)
	return timetable.Window{
		Start: base + timetable.Minutes(c.Start),
		End:   base + timetable.Minutes(c.End),
	}
}

// Validate checks day and clock ranges.
func (c Closure) Validate() error {
	if c.Day < 1 || c.Day > 7 {
		return fmt.Errorf("closure day %d outside 1..7", c.Day)
	}
	if c.Start < 0 || c.End > timetable.MinutesPerDay || c.End < c.Start {
		return fmt.Errorf("closure range %d..%d invalid", c.Start, c.End)
	}
	return nil
}

// RosterID identifies a crew roster.
type RosterID string

// Roster describes one crew family: the weekdays it works, the shift start
// times of each working day, the daily hiring cap and the yards its agents
// are competent for.
type Roster struct {
	ID RosterID `json:"id" yaml:"id"`
	// Days of week worked, 1 = Monday .. 7 = Sunday.
	Days []int `json:"days" yaml:"days"`
	// Starts are shift start times in minutes after midnight, one cycle
	// per entry per worked day.
	Starts []int `json:"starts" yaml:"starts"`
	// MaxAgents caps the agents hired on any single day.
	MaxAgents int `json:"max_agents" yaml:"max_agents"`
	// Yards the roster is competent for.
	Yards []YardCode `json:"yards" yaml:"yards"`
}

// Competent reports whether the roster may staff tasks at yard.
func (r Roster) Competent(yard YardCode) bool {
	for _, y := range r.Yards {
		if y == yard {
			return true
		}
	}
	return false
}

// Validate checks day masks, start times and the hiring cap.
func (r Roster) Validate() error {
	if r.ID == "" {
		return errors.New("roster without id")
	}
	if len(r.Days) == 0 {
		return fmt.Errorf("roster %s works no day", r.ID)
	}
	for _, d := range r.Days {
		if d < 1 || d > 7 {
			return fmt.Errorf("roster %s: day %d outside 1..7", r.ID, d)
		}
	}
	if len(r.Starts) == 0 {
		return fmt.Errorf("roster %s has no shift start", r.ID)
	}
	for _, s := range r.Starts {
		if s < 0 || s >= timetable.MinutesPerDay {
			return fmt.Errorf("roster %s: shift start %d outside day", r.ID, s)
		}
	}
	if r.MaxAgents < 0 {
		return fmt.Errorf("roster %s: negative agent cap %d", r.ID, r.MaxAgents)
	}
	if len(r.Yards) == 0 {
		return fmt.Errorf("roster %s has no competency", r.ID)
	}
	return nil
}

// Instance is the full normalized input of one planning run.
type Instance struct {
	Arrivals        []Arrival                 `json:"arrivals" yaml:"arrivals"`
	Departures      []Departure               `json:"departures" yaml:"departures"`
	Correspondences Correspondences           `json:"correspondences" yaml:"correspondences"`
	Tracks          map[YardCode]int          `json:"tracks" yaml:"tracks"`
	MachineClosures map[MachineCode][]Closure `json:"machine_closures,omitempty" yaml:"machine_closures,omitempty"`
	YardClosures    map[YardCode][]Closure    `json:"yard_closures,omitempty" yaml:"yard_closures,omitempty"`
	Rosters         []Roster                  `json:"rosters,omitempty" yaml:"rosters,omitempty"`
}

// Arrival returns the arrival of train, if any.
func (in *Instance) Arrival(train TrainID) (Arrival, bool) {
	for _, a := range in.Arrivals {
		if a.Train == train {
			return a, true
		}
	}
	return Arrival{}, false
}

// Departure returns the departure of train, if any.
func (in *Instance) Departure(train TrainID) (Departure, bool) {
	for _, d := range in.Departures {
		if d.Train == train {
			return d, true
		}
	}
	return Departure{}, false
}

// FirstArrival returns the earliest arrival time.
func (in *Instance) FirstArrival() timetable.Minutes {
	first := timetable.Minutes(0)
	for i, a := range in.Arrivals {
		if i == 0 || a.At < first {
			first = a.At
		}
	}
	return first
}

// LastDeparture returns the latest departure time, the natural end of the
// planning horizon.
func (in *Instance) LastDeparture() timetable.Minutes {
	last := timetable.Minutes(0)
	for _, d := range in.Departures {
		if d.At > last {
			last = d.At
		}
	}
	return last
}

// Validate applies the fail-fast input rules: no duplicate ids, every
// departure covered by a non-empty correspondence over known arrivals,
// closures and rosters referencing only catalog resources. It returns on
// the first violation.
func (in *Instance) Validate(cat Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	if len(in.Arrivals) == 0 && len(in.Departures) == 0 {
		return ErrEmptyInstance
	}

	arr := map[TrainID]bool{}
	for _, a := range in.Arrivals {
		if a.Train == "" {
			return fmt.Errorf("arrival without train id: %w", ErrUnknownTrain)
		}
		if arr[a.Train] {
			return fmt.Errorf("arrival %s: %w", a.Train, ErrDuplicateID)
		}
		arr[a.Train] = true
	}
	dep := map[TrainID]bool{}
	for _, d := range in.Departures {
		if d.Train == "" {
			return fmt.Errorf("departure without train id: %w", ErrUnknownTrain)
		}
		if dep[d.Train] {
			return fmt.Errorf("departure %s: %w", d.Train, ErrDuplicateID)
		}
		dep[d.Train] = true
	}

	for _, d := range in.Departures {
		feeding := in.Correspondences.Feeding(d.Train)
		if len(feeding) == 0 {
			return fmt.Errorf("correspondence for departure %s: %w", d.Train, ErrMissingEntry)
		}
		for _, t := range feeding {
			if !arr[t] {
				return fmt.Errorf("correspondence for departure %s references arrival %s: %w", d.Train, t, ErrUnknownTrain)
			}
		}
	}
	for t := range in.Correspondences {
		if !dep[t] {
			return fmt.Errorf("correspondence entry %s: %w", t, ErrUnknownTrain)
		}
	}

	for yard, n := range in.Tracks {
		if !cat.HasYard(yard) {
			return fmt.Errorf("track count for %s: %w", yard, ErrUnknownYard)
		}
		if n <= 0 {
			return fmt.Errorf("yard %s: track count %d must be positive", yard, n)
		}
	}

	for machine, cs := range in.MachineClosures {
		if !cat.HasMachine(machine) {
			return fmt.Errorf("closures for machine %s: %w", machine, ErrUnknownMachine)
		}
		for _, c := range cs {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("machine %s: %w", machine, err)
			}
		}
	}
	for yard, cs := range in.YardClosures {
		if !cat.HasYard(yard) {
			return fmt.Errorf("closures for yard %s: %w", yard, ErrUnknownYard)
		}
		for _, c := range cs {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("yard %s: %w", yard, err)
			}
		}
	}

	ids := map[RosterID]bool{}
	for _, r := range in.Rosters {
		if err := r.Validate(); err != nil {
			return err
		}
		if ids[r.ID] {
			return fmt.Errorf("roster %s: %w", r.ID, ErrDuplicateID)
		}
		ids[r.ID] = true
		for _, y := range r.Yards {
			if !cat.HasYard(y) {
				return fmt.Errorf("roster %s competency %s: %w", r.ID, y, ErrUnknownYard)
			}
		}
	}
	return nil
}

// SortedDepartures returns departure trains in id order, the deterministic
// iteration order used during compilation.
func (in *Instance) SortedDepartures() []Departure {
	out := make([]Departure, len(in.Departures))
	copy(out, in.Departures)
	sort.Slice(out, func(i, j int) bool { return out[i].Train < out[j].Train })
	return out
}

// SortedArrivals returns arrival trains in id order.
func (in *Instance) SortedArrivals() []Arrival {
	out := make([]Arrival, len(in.Arrivals))
	copy(out, in.Arrivals)
	sort.Slice(out, func(i, j int) bool { return out[i].Train < out[j].Train })
	return out
}
