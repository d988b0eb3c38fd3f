package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
)

func TestNewBuildsPrimeMapOverStateVarsAndInputs(t *testing.T) {
	vt := formula.NewVarTable()
	v := vt.VarAt("v", 1)
	in := vt.VarAt("in", 1)
	vp := vt.VarAt("v_prime", 1)
	inp := vt.VarAt("in_prime", 1)

	i := cube.New(0)
	i.AddLiteral(cube.Eq(v, 0))
	tr := cube.New(0)
	p := cube.New(0)

	ts := New([]*formula.Var{v}, []*formula.Var{in}, []*formula.Var{vp}, []*formula.Var{inp}, i, tr, p)

	require.Contains(t, ts.PrimeMap, v.ID)
	require.Contains(t, ts.PrimeMap, in.ID)
	assert.Equal(t, formula.VarRef(vp), ts.PrimeMap[v.ID])
	assert.Equal(t, formula.VarRef(inp), ts.PrimeMap[in.ID])
}

func TestVarsAndPrimedVarsPreserveStateThenInputOrder(t *testing.T) {
	vt := formula.NewVarTable()
	v0 := vt.VarAt("v0", 1)
	v1 := vt.VarAt("v1", 1)
	in := vt.VarAt("in", 1)
	v0p := vt.VarAt("v0_prime", 1)
	v1p := vt.VarAt("v1_prime", 1)
	inp := vt.VarAt("in_prime", 1)

	i := cube.New(0)
	tr := cube.New(0)
	p := cube.New(0)
	ts := New([]*formula.Var{v0, v1}, []*formula.Var{in}, []*formula.Var{v0p, v1p}, []*formula.Var{inp}, i, tr, p)

	assert.Equal(t, []*formula.Var{v0, v1, in}, ts.Vars())
	assert.Equal(t, []*formula.Var{v0p, v1p, inp}, ts.PrimedVars())
}

func TestVarsReturnsAFreshSliceEachCall(t *testing.T) {
	vt := formula.NewVarTable()
	v := vt.VarAt("v", 1)
	vp := vt.VarAt("v_prime", 1)
	i, tr, p := cube.New(0), cube.New(0), cube.New(0)
	ts := New([]*formula.Var{v}, nil, []*formula.Var{vp}, nil, i, tr, p)

	vars := ts.Vars()
	vars[0] = nil
	assert.NotNil(t, ts.Vars()[0], "mutating a returned slice must not corrupt the TransitionSystem")
}
