package milp

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fingerprint returns an order-stable hash over every declared variable,
// row, link and the objective. Two builds of the same input must agree.
func (m *Model) Fingerprint() string {
	h := fnv.New64a()
	writeInt(h, len(m.vars))
	for _, v := range m.vars {
		writeString(h, v.Name)
		writeInt(h, int(v.Kind))
		writeFloat(h, v.LB)
		writeFloat(h, v.UB)
	}
	writeInt(h, len(m.constrs))
	for _, c := range m.constrs {
		writeString(h, c.Name)
		writeInt(h, int(c.Sense))
		writeFloat(h, c.RHS)
		writeInt(h, len(c.Terms))
		for _, t := range c.Terms {
			writeInt(h, int(t.Var))
			writeFloat(h, t.Coef)
		}
	}
	writeInt(h, len(m.ands))
	for _, a := range m.ands {
		writeString(h, a.Name)
		writeInt(h, int(a.Result))
		writeInt(h, len(a.Operands))
		for _, op := range a.Operands {
			writeInt(h, int(op))
		}
	}
	if m.obj == nil {
		writeInt(h, 0)
	} else {
		writeInt(h, 1+int(m.obj.Direction))
		writeFloat(h, m.obj.Expr.Offset)
		writeInt(h, len(m.obj.Expr.Terms))
		for _, t := range m.obj.Expr.Terms {
			writeInt(h, int(t.Var))
			writeFloat(h, t.Coef)
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Dense materializes the coefficient matrix and right-hand side of the
// linear rows, in declaration order. Senses come from Constraints. Useful
// for engine-independent equality checks between two builds.
func (m *Model) Dense() (*mat.Dense, []float64) {
	if len(m.constrs) == 0 || len(m.vars) == 0 {
		return nil, nil
	}
	a := mat.NewDense(len(m.constrs), len(m.vars), nil)
	rhs := make([]float64, len(m.constrs))
	for i, c := range m.constrs {
		for _, t := range c.Terms {
			a.Set(i, int(t.Var), a.At(i, int(t.Var))+t.Coef)
		}
		rhs[i] = c.RHS
	}
	return a, rhs
}

func writeInt(h hash.Hash64, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	h.Write(buf[:])
}

func writeFloat(h hash.Hash64, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	h.Write(buf[:])
}

func writeString(h hash.Hash64, s string) {
	writeInt(h, len(s))
	h.Write([]byte(s))
}
