package cube

import (
	"sort"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/errs"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
)

// Cube is a conjunction of literals at frame index T: ⟦C⟧ = ∧ literals.
// The compiled formula is cached and rebuilt lazily, guarded by a
// literal/cache version pair (spec.md §4.1, Design Notes §9): every
// mutation bumps literalVersion, and Compile only rebuilds when
// cacheVersion has fallen behind.
type Cube struct {
	T              int
	literals       []Literal
	literalVersion int
	cacheVersion   int
	compiled       formula.Formula
}

// New returns an empty conjunction at frame t.
func New(t int) *Cube {
	if t < 0 {
		panic(&errs.InvariantViolation{Msg: "cube frame index must be >= 0"})
	}
	return &Cube{T: t}
}

// AddLiteral appends l and invalidates the compiled-formula cache.
func (c *Cube) AddLiteral(l Literal) {
	c.literals = append(c.literals, l)
	c.literalVersion++
}

// AddConjuncts appends every literal in ls.
func (c *Cube) AddConjuncts(ls []Literal) {
	for _, l := range ls {
		c.AddLiteral(l)
	}
}

// Literals returns the cube's literals; callers must not mutate the
// returned slice.
func (c *Cube) Literals() []Literal { return c.literals }

// Len is the number of literals in the cube.
func (c *Cube) Len() int { return len(c.literals) }

// Clone returns an independent copy: same T, an independent literal
// slice, and a fresh cache state (the clone recompiles on first Compile
// rather than sharing the parent's cached formula.Formula value, even
// though sharing would be safe here — independence is the documented
// contract and costs one redundant And() call).
func (c *Cube) Clone() *Cube {
	out := New(c.T)
	out.literals = append([]Literal(nil), c.literals...)
	out.literalVersion = 1
	return out
}

// Compile returns the simplified conjunction of literals, memoized and
// rebuilt only when the literal version has advanced past the cache
// version. A cache version ahead of the literal version can only mean
// memory corruption or a concurrent mutation during Compile, so it
// aborts rather than silently returning a stale formula.
func (c *Cube) Compile() formula.Formula {
	if c.cacheVersion > c.literalVersion {
		panic(&errs.InvariantViolation{Msg: "cube cache version exceeds literal version"})
	}
	if c.compiled == nil || c.cacheVersion < c.literalVersion {
		fs := make([]formula.Formula, len(c.literals))
		for i, l := range c.literals {
			fs[i] = l.F
		}
		c.compiled = formula.And(fs...)
		c.cacheVersion = c.literalVersion
	}
	return c.compiled
}

// Equal is multiset equality over literals, ignoring order (spec.md
// §4.1, §8 "Cube ordering").
func (c *Cube) Equal(other *Cube) bool {
	if len(c.literals) != len(other.literals) {
		return false
	}
	a := canonicalSorted(c.literals)
	b := canonicalSorted(other.literals)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func canonicalSorted(ls []Literal) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.canonical()
	}
	sort.Strings(out)
	return out
}

// AddModel lifts a satisfying assignment into a state cube: it fixes
// each Var in stateVars to its model value, and each Var in inputs too
// unless dropInputs is set. Callers exclude primed variables by simply
// not including them in stateVars/inputs — they are functions of the
// unprimed vocabulary and never belong in a state cube (spec.md §4.1).
func (c *Cube) AddModel(stateVars, inputs []*formula.Var, model formula.Model, dropInputs bool) {
	for _, v := range stateVars {
		c.AddLiteral(Eq(v, model[v.ID]))
	}
	if !dropInputs {
		for _, v := range inputs {
			c.AddLiteral(Eq(v, model[v.ID]))
		}
	}
}

// StripInputs removes every literal whose variable is an input. Every
// literal must already be in var==const shape; a literal that isn't
// indicates a caller built a cube incorrectly.
func (c *Cube) StripInputs(inputs []*formula.Var) {
	isInput := make(map[formula.VarID]bool, len(inputs))
	for _, v := range inputs {
		isInput[v.ID] = true
	}
	kept := c.literals[:0:0]
	for _, l := range c.literals {
		if !l.IsVarConst() {
			panic(&errs.InvariantViolation{Msg: "StripInputs requires var==const literals"})
		}
		if isInput[l.Var.ID] {
			continue
		}
		kept = append(kept, l)
	}
	c.literals = kept
	c.literalVersion++
}

// Project retains only literals whose variable appears in model with a
// matching value; every other literal is replaced in place by the
// tautology True(), so the literal count (and any index into it) is
// unchanged. It reports whether anything was dropped. This is the
// ternary-simulation-style generalization step used during PDR
// predecessor extraction.
func (c *Cube) Project(model formula.Model) bool {
	dropped := false
	for i, l := range c.literals {
		ok := false
		if l.Var != nil {
			if v, present := model[l.Var.ID]; present && v == l.Const {
				ok = true
			}
		}
		if !ok {
			c.literals[i] = True()
			dropped = true
		}
	}
	if dropped {
		c.literalVersion++
	}
	return dropped
}

// Drop returns a new Cube identical to c but with the literal at index i
// replaced by the tautology (spec.md's Known Issues flags the reference
// implementation's delete() as a misspelled set-append; the intended
// behavior — which this implements — is exactly this replacement).
func (c *Cube) Drop(i int) *Cube {
	out := c.Clone()
	out.literals[i] = True()
	out.literalVersion++
	return out
}

// Difference returns literals present in c but absent from other, by
// structural equality (used during PDR frame propagation, spec.md §4.3).
func (c *Cube) Difference(other *Cube) []Literal {
	inOther := make(map[string]bool, len(other.literals))
	for _, l := range other.literals {
		inOther[l.canonical()] = true
	}
	var out []Literal
	for _, l := range c.literals {
		if !inOther[l.canonical()] {
			out = append(out, l)
		}
	}
	return out
}
