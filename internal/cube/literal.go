// Package cube implements the Cube (spec.md §4.1): a conjunction of
// literals tagged with a frame index, the unit of state in both the BMC
// and PDR engines.
package cube

import "github.com/Sichao-Yang/model-checking-algorithms/internal/formula"

// Literal is an atomic conjunct of a Cube. Most literals produced by the
// engines are the "var == const" shape relied on by AddModel, Project,
// StripInputs and Difference; arbitrary sub-formula literals (Var == nil)
// are also legal per spec.md §3 but opt out of those shape-dependent
// operations.
type Literal struct {
	F     formula.Formula
	Var   *formula.Var
	Const int64
}

// Eq builds a "var == const" literal.
func Eq(v *formula.Var, value int64) Literal {
	return Literal{F: formula.Eq(formula.VarRef(v), formula.BVConst(value)), Var: v, Const: value}
}

// Sub wraps an arbitrary sub-formula as a literal with no var==const
// shape.
func Sub(f formula.Formula) Literal {
	return Literal{F: f}
}

// True is the tautological literal, used by Drop and Project to
// neutralize a literal without shrinking the literal slice (so indices
// stay stable, matching spec.md's Cube.drop contract).
func True() Literal {
	return Literal{F: formula.Const(true)}
}

// IsVarConst reports whether l has the "var == const" shape.
func (l Literal) IsVarConst() bool { return l.Var != nil }

// canonical returns a structural-equality key for l, stable across Cubes
// and independent of rendering context (formula.Canonical renders using
// each Var's numeric ID, not a table born with this particular query).
func (l Literal) canonical() string { return formula.Canonical(l.F) }
