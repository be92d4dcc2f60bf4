package compile

import (
	"fmt"

	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
)

// machines enforces mutual exclusion on single-capacity machines: for each
// unordered pair of task instances sharing a machine, one binary decides
// the ordering and two big-M rows make exactly one ordering hold.
func (b *build) machines() error {
	for _, code := range b.cat.Machines() {
		inst := b.machineInstances(code)
		for i := 0; i < len(inst); i++ {
			for j := i + 1; j < len(inst); j++ {
				b.exclude(code, inst[i], inst[j])
			}
		}
	}
	return nil
}

// machineInstances lists every task instance executed on the machine, in
// catalog then train order.
func (b *build) machineInstances(code model.MachineCode) []taskInstance {
	var out []taskInstance
	for _, side := range []model.Side{model.SideArrival, model.SideDeparture} {
		for _, ti := range b.instances(side) {
			if ti.spec.Machine == code {
				out = append(out, ti)
			}
		}
	}
	return out
}

// exclude emits the disjunction for one pair. With delta = 1 the first
// instance finishes before the second starts, with delta = 0 the reverse.
func (b *build) exclude(code model.MachineCode, first, second taskInstance) {
	m := b.hz.M
	delta := b.m.AddBinary(fmt.Sprintf("order(%s:%s|%s)", code, first.name(), second.name()))
	ta, tb := b.start(first), b.start(second)

	// 15*ta + dur(a) <= 15*tb + (1-delta)*M
	b.m.AddConstr(
		fmt.Sprintf("excl(%s:%s->%s)", code, first.name(), second.name()),
		milp.Sum(milp.T(ta, step), milp.T(tb, -step), milp.T(delta, m)),
		milp.LE, m-float64(first.spec.Duration),
	)
	// 15*tb + dur(b) <= 15*ta + delta*M
	b.m.AddConstr(
		fmt.Sprintf("excl(%s:%s->%s)", code, second.name(), first.name()),
		milp.Sum(milp.T(tb, step), milp.T(ta, -step), milp.T(delta, -m)),
		milp.LE, -float64(second.spec.Duration),
	)
}
