package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
)

// succession ties each departure to the arrivals feeding its wagons: the
// first departure task waits for every feeding arrival's final task, and
// the first-wagon variable equals the minimum of those final-task starts
// (below every operand, above one selected operand).
func (b *build) succession() error {
	arrLast := b.cat.Arrival[len(b.cat.Arrival)-1]
	depFirst := b.cat.Departure[0]
	m := b.hz.M

	for _, d := range b.departures {
		feeding := b.in.Correspondences.Feeding(d.Train)
		fw := b.firstWagon(d.Train)
		tDep := b.tbl.TaskStart[TaskKey{Side: model.SideDeparture, Index: depFirst.Index, Train: d.Train}]

		picks := make([]milp.Term, 0, len(feeding))
		for _, id := range feeding {
			tArr := b.tbl.TaskStart[TaskKey{Side: model.SideArrival, Index: arrLast.Index, Train: id}]

			// 15*tDep >= 15*tArr + dur(arrival last)
			b.m.AddConstr(
				fmt.Sprintf("succ(%s->%s)", id, d.Train),
				milp.Sum(milp.T(tDep, step), milp.T(tArr, -step)),
				milp.GE, float64(arrLast.Duration),
			)

			// fw <= tArr, and fw >= tArr when this arrival is selected.
			b.m.AddConstr(
				fmt.Sprintf("fwle(%s:%s)", d.Train, id),
				milp.Sum(milp.T(fw, 1), milp.T(tArr, -1)),
				milp.LE, 0,
			)
			pick := b.m.AddBinary(fmt.Sprintf("fwpick(%s:%s)", d.Train, id))
			b.m.AddConstr(
				fmt.Sprintf("fwge(%s:%s)", d.Train, id),
				milp.Sum(milp.T(fw, 1), milp.T(tArr, -1), milp.T(pick, -m)),
				milp.GE, -m,
			)
			picks = append(picks, milp.T(pick, 1))
		}
		b.m.AddConstr(
			fmt.Sprintf("fwone(%s)", d.Train),
			milp.Sum(picks...),
			milp.EQ, 1,
		)
	}
	return nil
}
