package model

import (
	"fmt"

	"github.com/yardworks/shunter/core/timetable"
)

// TaskSpec describes one task of a side's fixed sequence.
type TaskSpec struct {
	// Index is the 1-based position in the sequence.
	Index int `json:"index" yaml:"index"`
	// Duration of the task in minutes.
	Duration timetable.Minutes `json:"duration" yaml:"duration"`
	// Machine performing the task, empty for purely manual tasks.
	Machine MachineCode `json:"machine,omitempty" yaml:"machine,omitempty"`
	// Yard where the task is executed.
	Yard YardCode `json:"yard" yaml:"yard"`
}

// Catalog is the static task structure shared by every train of an instance.
type Catalog struct {
	Arrival   []TaskSpec `json:"arrival" yaml:"arrival"`
	Departure []TaskSpec `json:"departure" yaml:"departure"`
}

// DefaultCatalog returns the classic yard process: three arrival tasks
// (preparation, inspection, hump pass) and four departure tasks (formation,
// assembly, release, departure checks).
func DefaultCatalog() Catalog {
	return Catalog{
		Arrival: []TaskSpec{
			{Index: 1, Duration: 15, Yard: YardReception},
			{Index: 2, Duration: 45, Yard: YardReception},
			{Index: 3, Duration: 15, Machine: MachineHump, Yard: YardReception},
		},
		Departure: []TaskSpec{
			{Index: 1, Duration: 15, Machine: MachineForm, Yard: YardFormation},
			{Index: 2, Duration: 150, Yard: YardFormation},
			{Index: 3, Duration: 15, Machine: MachineRelease, Yard: YardFormation},
			{Index: 4, Duration: 20, Yard: YardDeparture},
		},
	}
}

// Tasks returns the task sequence of one side.
func (c Catalog) Tasks(side Side) []TaskSpec {
	if side == SideArrival {
		return c.Arrival
	}
	return c.Departure
}

// Task returns the spec of the given 1-based index on side.
func (c Catalog) Task(side Side, index int) (TaskSpec, error) {
	tasks := c.Tasks(side)
	if index < 1 || index > len(tasks) {
		return TaskSpec{}, fmt.Errorf("%s task %d out of range 1..%d", side, index, len(tasks))
	}
	return tasks[index-1], nil
}

// Machines lists the distinct machine codes in catalog order.
func (c Catalog) Machines() []MachineCode {
	var out []MachineCode
	seen := map[MachineCode]bool{}
	for _, side := range []Side{SideArrival, SideDeparture} {
		for _, t := range c.Tasks(side) {
			if t.Machine != "" && !seen[t.Machine] {
				seen[t.Machine] = true
				out = append(out, t.Machine)
			}
		}
	}
	return out
}

// Yards lists the distinct yard codes in catalog order.
func (c Catalog) Yards() []YardCode {
	var out []YardCode
	seen := map[YardCode]bool{}
	for _, side := range []Side{SideArrival, SideDeparture} {
		for _, t := range c.Tasks(side) {
			if !seen[t.Yard] {
				seen[t.Yard] = true
				out = append(out, t.Yard)
			}
		}
	}
	return out
}

// HasMachine reports whether code appears in the catalog.
func (c Catalog) HasMachine(code MachineCode) bool {
	for _, m := range c.Machines() {
		if m == code {
			return true
		}
	}
	return false
}

// HasYard reports whether code appears in the catalog.
func (c Catalog) HasYard(code YardCode) bool {
	for _, y := range c.Yards() {
		if y == code {
			return true
		}
	}
	return false
}

// Validate checks sequence numbering, durations and codes.
func (c Catalog) Validate() error {
	for _, side := range []Side{SideArrival, SideDeparture} {
		tasks := c.Tasks(side)
		if len(tasks) == 0 {
			return fmt.Errorf("catalog: %s side has no tasks", side)
		}
		for i, t := range tasks {
			if t.Index != i+1 {
				return fmt.Errorf("catalog: %s task at position %d has index %d", side, i+1, t.Index)
			}
			if t.Duration <= 0 {
				return fmt.Errorf("catalog: %s task %d has non-positive duration %d", side, t.Index, t.Duration)
			}
			if t.Yard == "" {
				return fmt.Errorf("catalog: %s task %d has no yard", side, t.Index)
			}
		}
	}
	return nil
}
