package pdr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/testsystems"
)

func TestBadCubeBaseFindsNoViolationOnSwapper(t *testing.T) {
	e := New(testsystems.Swapper())
	c, err := e.badCube(context.Background(), true)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestBadCubeBasePassesOnShifterUnsafe(t *testing.T) {
	// I leaves v0 free, so I∧¬P alone is UNSAT (the violation only shows
	// up after rotation) — the base check should still pass cleanly.
	e := New(testsystems.ShifterUnsafe())
	c, err := e.badCube(context.Background(), true)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestIsInductiveOnSwapperProperty(t *testing.T) {
	ts := testsystems.Swapper()
	e := New(ts)
	// P itself ("x, y, or z is true") is preserved by the rotation, so
	// it is inductive on its own — unlike F0, which pins the single
	// state (x=1,y=0,z=0) the rotation immediately leaves.
	inv, err := e.isInductive(context.Background(), ts.P)
	require.NoError(t, err)
	assert.True(t, inv)

	inv0, err := e.isInductive(context.Background(), e.frames[0])
	require.NoError(t, err)
	assert.False(t, inv0, "F0 pins a single state the swap transition leaves, so it is not itself inductive")
}

func TestAppendNewFrameClonesPostAtNextIndex(t *testing.T) {
	e := New(testsystems.Swapper())
	require.Len(t, e.frames, 1)
	e.appendNewFrame()
	require.Len(t, e.frames, 2)
	assert.Equal(t, 1, e.frames[1].T)
}
