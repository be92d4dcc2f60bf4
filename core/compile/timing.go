package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	"github.com/yardworks/shunter/core/timetable"
)

const step = float64(timetable.TaskStep)

// timing declares one integer start variable per task, in 15-minute steps,
// and chains consecutive tasks of each train. The first arrival task waits
// for the physical arrival; the last departure task finishes before the
// scheduled departure. Contradictory bounds are not detected here; they
// surface as solver infeasibility.
func (b *build) timing() error {
	for _, a := range b.arrivals {
		vars := b.declareSequence(model.SideArrival, a.Train)
		b.m.AddConstr(
			fmt.Sprintf("arrive(%s)", a.Train),
			milp.Sum(milp.T(vars[0], step)),
			milp.GE, float64(a.At),
		)
	}
	for _, d := range b.departures {
		vars := b.declareSequence(model.SideDeparture, d.Train)
		last := b.cat.Departure[len(b.cat.Departure)-1]
		b.m.AddConstr(
			fmt.Sprintf("depart(%s)", d.Train),
			milp.Sum(milp.T(vars[len(vars)-1], step)),
			milp.LE, float64(d.At)-float64(last.Duration),
		)
	}
	return nil
}

// declareSequence creates the start variables of one train's task sequence
// and the precedence chain between them.
func (b *build) declareSequence(side model.Side, train model.TrainID) []milp.VarID {
	tasks := b.cat.Tasks(side)
	vars := make([]milp.VarID, len(tasks))
	for i, ts := range tasks {
		v := b.m.AddVar(milp.Integer, 0, float64(b.hz.Steps),
			fmt.Sprintf("start(%s.%d.%s)", side, ts.Index, train))
		b.tbl.TaskStart[TaskKey{Side: side, Index: ts.Index, Train: train}] = v
		vars[i] = v
		if i > 0 {
			prev := tasks[i-1]
			b.m.AddConstr(
				fmt.Sprintf("chain(%s.%d-%d.%s)", side, prev.Index, ts.Index, train),
				milp.Sum(milp.T(vars[i-1], step), milp.T(v, -step)),
				milp.LE, -float64(prev.Duration),
			)
		}
	}
	return vars
}
