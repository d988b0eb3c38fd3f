package formula

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolverCheckSatUnsat(t *testing.T) {
	s, err := NewSolver()
	require.NoError(t, err)

	vt := NewVarTable()
	x := vt.VarAt("x", 1)

	s.Assert(Eq(VarRef(x), BVConst(1)))
	sat, model, err := s.Check(context.Background())
	require.NoError(t, err)
	require.True(t, sat)
	require.True(t, model.Bool(x))

	s.Push()
	s.Assert(Eq(VarRef(x), BVConst(0)))
	sat, _, err = s.Check(context.Background())
	require.NoError(t, err)
	require.False(t, sat, "x==1 and x==0 together must be UNSAT")
	s.Pop()

	// After Pop, the contradictory assumption is gone.
	sat, _, err = s.Check(context.Background())
	require.NoError(t, err)
	require.True(t, sat)
}

func TestSolverBitVectorDomain(t *testing.T) {
	s, err := NewSolver()
	require.NoError(t, err)

	vt := NewVarTable()
	x := vt.VarAt("x", 3) // 0..7

	sat, model, err := s.Check(context.Background(), Eq(VarRef(x), BVConst(6)))
	require.NoError(t, err)
	require.True(t, sat)
	require.EqualValues(t, 6, model.BV(x))

	sat, _, err = s.Check(context.Background(), Eq(VarRef(x), BVConst(9)))
	require.NoError(t, err)
	require.False(t, sat, "9 is outside a 3-bit domain")
}

func TestSolverIteAndOr(t *testing.T) {
	s, err := NewSolver()
	require.NoError(t, err)

	vt := NewVarTable()
	cond := vt.VarAt("cond", 1)
	then := vt.VarAt("then", 1)
	els := vt.VarAt("els", 1)

	f := Ite(Eq(VarRef(cond), BVConst(1)), Eq(VarRef(then), BVConst(1)), Eq(VarRef(els), BVConst(1)))
	sat, model, err := s.Check(context.Background(), f, Eq(VarRef(cond), BVConst(0)))
	require.NoError(t, err)
	require.True(t, sat)
	require.True(t, model.Bool(els))
}
