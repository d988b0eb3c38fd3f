package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
)

func TestCloneRoundTripsCompile(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)

	c := New(0)
	c.AddLiteral(Eq(x, 1))

	clone := c.Clone()
	assert.Equal(t, formula.Canonical(c.Compile()), formula.Canonical(clone.Compile()))
}

func TestEqualIgnoresLiteralOrder(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)

	a := New(0)
	a.AddConjuncts([]Literal{Eq(x, 1), Eq(y, 0)})

	b := New(0)
	b.AddConjuncts([]Literal{Eq(y, 0), Eq(x, 1)})

	assert.True(t, a.Equal(b))
}

func TestCompilePanicsOnCacheCorruption(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	c := New(0)
	c.AddLiteral(Eq(x, 1))
	c.Compile()
	c.cacheVersion = c.literalVersion + 1

	assert.Panics(t, func() { c.Compile() })
}

func TestDropReplacesLiteralWithTautologyAtSameIndex(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)

	c := New(0)
	c.AddConjuncts([]Literal{Eq(x, 1), Eq(y, 0)})

	dropped := c.Drop(0)
	require.Equal(t, 2, dropped.Len())
	assert.False(t, dropped.Literals()[0].IsVarConst())
	assert.True(t, dropped.Literals()[1].IsVarConst())
	// original is untouched
	assert.True(t, c.Literals()[0].IsVarConst())
}

func TestDifferenceIsSetMinus(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)
	z := vt.VarAt("z", 1)

	a := New(1)
	a.AddConjuncts([]Literal{Eq(x, 1), Eq(y, 0), Eq(z, 1)})

	b := New(2)
	b.AddConjuncts([]Literal{Eq(x, 1)})

	diff := a.Difference(b)
	require.Len(t, diff, 2)
}

func TestProjectDropsUnmatchedLiterals(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)

	c := New(0)
	c.AddConjuncts([]Literal{Eq(x, 1), Eq(y, 0)})

	dropped := c.Project(formula.Model{x.ID: 1})
	assert.True(t, dropped)
	assert.True(t, c.Literals()[0].IsVarConst())
	assert.False(t, c.Literals()[1].IsVarConst())
}

func TestStripInputsRemovesInputLiterals(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	i0 := vt.VarAt("i0", 1)

	c := New(0)
	c.AddConjuncts([]Literal{Eq(x, 1), Eq(i0, 0)})
	c.StripInputs([]*formula.Var{i0})

	require.Equal(t, 1, c.Len())
	assert.Equal(t, x, c.Literals()[0].Var)
}

func TestStripInputsPanicsOnNonVarConstLiteral(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	c := New(0)
	c.AddLiteral(Sub(formula.Or(formula.VarRef(x), formula.Const(false))))

	assert.Panics(t, func() { c.StripInputs(nil) })
}

func TestAddModelExcludesInputsWhenDropped(t *testing.T) {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	i0 := vt.VarAt("i0", 1)

	model := formula.Model{x.ID: 1, i0.ID: 0}
	c := New(3)
	c.AddModel([]*formula.Var{x}, []*formula.Var{i0}, model, true)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, x, c.Literals()[0].Var)
}
