package model

import (
	"errors"
	"testing"
)

func validInstance() *Instance {
	return &Instance{
		Arrivals:        []Arrival{{Train: "A1", At: 480}, {Train: "A2", At: 600}},
		Departures:      []Departure{{Train: "D1", At: 2880}},
		Correspondences: Correspondences{"D1": {"A1", "A2"}},
		Tracks: map[YardCode]int{
			YardReception: 3,
			YardFormation: 4,
			YardDeparture: 2,
		},
		Rosters: []Roster{{
			ID:        "R1",
			Days:      []int{1, 2, 3, 4, 5},
			Starts:    []int{300, 780},
			MaxAgents: 4,
			Yards:     []YardCode{YardReception},
		}},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validInstance().Validate(DefaultCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingCorrespondence(t *testing.T) {
	in := validInstance()
	delete(in.Correspondences, "D1")
	err := in.Validate(DefaultCatalog())
	if !errors.Is(err, ErrMissingEntry) {
		t.Fatalf("expected ErrMissingEntry got %v", err)
	}
}

func TestValidateDanglingArrival(t *testing.T) {
	in := validInstance()
	in.Correspondences["D1"] = []TrainID{"A1", "GHOST"}
	err := in.Validate(DefaultCatalog())
	if !errors.Is(err, ErrUnknownTrain) {
		t.Fatalf("expected ErrUnknownTrain got %v", err)
	}
}

func TestValidateDuplicateTrain(t *testing.T) {
	in := validInstance()
	in.Arrivals = append(in.Arrivals, Arrival{Train: "A1", At: 700})
	err := in.Validate(DefaultCatalog())
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID got %v", err)
	}
}

func TestValidateUnknownYard(t *testing.T) {
	in := validInstance()
	in.Tracks["XXX"] = 2
	err := in.Validate(DefaultCatalog())
	if !errors.Is(err, ErrUnknownYard) {
		t.Fatalf("expected ErrUnknownYard got %v", err)
	}
}

func TestValidateUnknownMachineClosure(t *testing.T) {
	in := validInstance()
	in.MachineClosures = map[MachineCode][]Closure{
		"NOPE": {{Day: 1, Start: 0, End: 60}},
	}
	err := in.Validate(DefaultCatalog())
	if !errors.Is(err, ErrUnknownMachine) {
		t.Fatalf("expected ErrUnknownMachine got %v", err)
	}
}

func TestValidateClosureRange(t *testing.T) {
	in := validInstance()
	in.YardClosures = map[YardCode][]Closure{
		YardReception: {{Day: 3, Start: 600, End: 300}},
	}
	if err := in.Validate(DefaultCatalog()); err == nil {
		t.Fatalf("expected error for inverted closure range")
	}
}

func TestValidateRosterWithoutDays(t *testing.T) {
	in := validInstance()
	in.Rosters[0].Days = nil
	if err := in.Validate(DefaultCatalog()); err == nil {
		t.Fatalf("expected error for empty day mask")
	}
}

func TestHorizonHelpers(t *testing.T) {
	in := validInstance()
	if got := in.FirstArrival(); got != 480 {
		t.Fatalf("first arrival: got %d", got)
	}
	if got := in.LastDeparture(); got != 2880 {
		t.Fatalf("last departure: got %d", got)
	}
}

func TestClosureWindow(t *testing.T) {
	c := Closure{Day: 2, Start: 360, End: 480}
	w := c.Window()
	if w.Start != 1440+360 || w.End != 1440+480 {
		t.Fatalf("got window %+v", w)
	}
}

func TestRosterCompetent(t *testing.T) {
	r := Roster{ID: "R", Yards: []YardCode{YardFormation, YardDeparture}}
	if !r.Competent(YardFormation) || r.Competent(YardReception) {
		t.Fatalf("competency lookup wrong")
	}
}

func TestSortedMovements(t *testing.T) {
	in := &Instance{
		Arrivals:   []Arrival{{Train: "B"}, {Train: "A"}},
		Departures: []Departure{{Train: "Z"}, {Train: "Y"}},
	}
	if got := in.SortedArrivals(); got[0].Train != "A" || got[1].Train != "B" {
		t.Fatalf("arrivals not sorted: %v", got)
	}
	if got := in.SortedDepartures(); got[0].Train != "Y" {
		t.Fatalf("departures not sorted: %v", got)
	}
}
