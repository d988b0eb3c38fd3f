// Package system defines TransitionSystem (spec.md §3): the immutable,
// post-construction-read-only bundle the AIG front-end hands to either
// engine.
package system

import (
	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
)

// TransitionSystem bundles the shared vocabulary and the three cubes
// (I, T, P) both engines operate on. Every field is set once at
// construction and never mutated afterward — engines only ever read it.
type TransitionSystem struct {
	StateVars       []*formula.Var
	Inputs          []*formula.Var
	PrimedStateVars []*formula.Var
	PrimedInputs    []*formula.Var

	// PrimeMap sends Vars()[i] to PrimedVars()[i], for use when a
	// constraint over the unprimed vocabulary needs restating over the
	// next-step (primed) one. It has no entries for the reverse direction.
	PrimeMap formula.Substitution

	I *cube.Cube // initial-state predicate, over the unprimed vocabulary
	T *cube.Cube // transition relation, mentions primed state vars too
	P *cube.Cube // safety property, over the unprimed vocabulary
}

// New builds a TransitionSystem and its PrimeMap from the given
// vocabulary and cubes. stateVars/inputs and primedStateVars/primedInputs
// must be parallel (same length, same order).
func New(
	stateVars, inputs, primedStateVars, primedInputs []*formula.Var,
	i, t, p *cube.Cube,
) *TransitionSystem {
	vars := append(append([]*formula.Var{}, stateVars...), inputs...)
	primed := append(append([]*formula.Var{}, primedStateVars...), primedInputs...)

	primeMap := formula.Substitution{}
	for idx, v := range vars {
		primeMap[v.ID] = formula.VarRef(primed[idx])
	}

	return &TransitionSystem{
		StateVars:       stateVars,
		Inputs:          inputs,
		PrimedStateVars: primedStateVars,
		PrimedInputs:    primedInputs,
		PrimeMap:        primeMap,
		I:               i,
		T:               t,
		P:               p,
	}
}

// Vars returns state variables ∪ inputs, in the fixed order used
// throughout both engines (spec.md §3's "vars").
func (ts *TransitionSystem) Vars() []*formula.Var {
	return append(append([]*formula.Var{}, ts.StateVars...), ts.Inputs...)
}

// PrimedVars returns the parallel next-step vocabulary, PrimedVars()[i]
// being the next-step value of Vars()[i].
func (ts *TransitionSystem) PrimedVars() []*formula.Var {
	return append(append([]*formula.Var{}, ts.PrimedStateVars...), ts.PrimedInputs...)
}
