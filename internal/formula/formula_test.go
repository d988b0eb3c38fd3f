package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteReplacesOnlyTargetedVar(t *testing.T) {
	vt := NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)
	xPrime := vt.VarAt("x'", 1)

	f := And(Eq(VarRef(x), BVConst(1)), Eq(VarRef(y), BVConst(0)))
	sub := Substitution{x.ID: VarRef(xPrime)}
	out := Substitute(f, sub)

	free := FreeVars(out)
	require.Contains(t, free, xPrime.ID)
	require.Contains(t, free, y.ID)
	assert.NotContains(t, free, x.ID)
}

func TestFreeVarsTraversesIte(t *testing.T) {
	vt := NewVarTable()
	a := vt.VarAt("a", 1)
	b := vt.VarAt("b", 1)
	c := vt.VarAt("c", 1)

	f := Ite(VarRef(a), VarRef(b), VarRef(c))
	free := FreeVars(f)
	assert.Len(t, free, 3)
}

func TestVarTableMemoizesByName(t *testing.T) {
	vt := NewVarTable()
	a1 := vt.VarAt("v_3", 1)
	a2 := vt.VarAt("v_3", 1)
	assert.Same(t, a1, a2)
	assert.Equal(t, a1, vt.Lookup("v_3"))
	assert.Len(t, vt.All(), 1)
}

func TestVarMaxWidth(t *testing.T) {
	vt := NewVarTable()
	bit := vt.VarAt("bit", 1)
	bv := vt.VarAt("bv", 5)
	assert.EqualValues(t, 1, bit.Max())
	assert.EqualValues(t, 31, bv.Max())
}

func TestSubstituteRewritesPlusAndLtOperands(t *testing.T) {
	vt := NewVarTable()
	x := vt.VarAt("x", 5)
	xPrime := vt.VarAt("x_prime", 5)

	f := And(Eq(VarRef(xPrime), Plus(VarRef(x), BVConst(1))), Lt(VarRef(x), BVConst(6)))
	sub := Substitution{x.ID: VarRef(xPrime)}
	out := Substitute(f, sub)

	free := FreeVars(out)
	assert.NotContains(t, free, x.ID)
	assert.Contains(t, free, xPrime.ID)
}
