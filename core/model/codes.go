// Package model defines the normalized input entities of a yard planning
// problem: train movements, task catalogs, correspondences, closures and
// crew rosters. Values are immutable after construction; solver results are
// written back into separate types.
package model

// TrainID identifies a train movement (one arrival or one departure).
type TrainID string

// YardCode identifies a yard zone. Codes are data; the defaults mirror a
// classic marshalling yard.
type YardCode string

const (
	// YardReception is the receiving yard where arrivals are processed.
	YardReception YardCode = "REC"
	// YardFormation is the classification yard where departures are built.
	YardFormation YardCode = "FOR"
	// YardDeparture is the departure yard.
	YardDeparture YardCode = "DEP"
)

// MachineCode identifies an exclusive machine.
type MachineCode string

const (
	// MachineHump pushes arrival cuts over the hump.
	MachineHump MachineCode = "DEB"
	// MachineForm assembles departure consists.
	MachineForm MachineCode = "FOR"
	// MachineRelease pulls finished consists out to the departure yard.
	MachineRelease MachineCode = "DEG"
)

// Side distinguishes the arrival task sequence from the departure one.
type Side int

const (
	SideArrival Side = iota
	SideDeparture
)

func (s Side) String() string {
	switch s {
	case SideArrival:
		return "arrival"
	case SideDeparture:
		return "departure"
	default:
		return "unknown"
	}
}

// MarshalText renders the side name, keeping exported schedules readable.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
