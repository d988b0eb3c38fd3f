// Package formula is the Formula Layer (spec.md §4 component 1): an
// interface to an SMT-like solver over Booleans and fixed-width
// bit-vectors, offering conjunction, disjunction, negation, equality,
// less-than, addition, if-then-else, substitution, satisfiability
// checking, and model extraction.
//
// The backend is github.com/ichiban/prolog, the logic-programming engine
// the teacher (rfielding/turducken) wraps for its CTL predicates. A
// bounded-width integer or Boolean variable becomes a Prolog variable
// generated by a recursive between/3 binder; conjunctions of literals
// become Prolog goals; satisfiability is "does the query have a
// solution"; a model is the set of bindings the first solution assigns.
// Nothing here is a SAT/SMT solver in the algorithmic sense — it is a
// generate-and-test enumeration over the variables' declared domains,
// sound and complete for the small, bounded circuits this system
// targets. DESIGN.md records why this stays a Prolog enumerator rather
// than moving to the CNF-level solver vendored elsewhere in the example
// corpus.
package formula

import (
	"fmt"
	"strings"
)

// VarID identifies a formula variable across substitutions and models.
// Handles, not names, are the unit of identity (see Substitution) — the
// name is retained only for rendering and debugging.
type VarID int

// Var is a Boolean or fixed-width bit-vector variable.
type Var struct {
	ID    VarID
	Name  string
	Width int // 1 for Boolean, >1 for a bit-vector
}

// Max returns the variable's largest representable value.
func (v *Var) Max() int64 {
	if v.Width <= 1 {
		return 1
	}
	return int64(1)<<uint(v.Width) - 1
}

// Formula is an immutable Boolean-valued expression tree.
type Formula interface {
	// render writes Prolog goal syntax for this node into b, requesting
	// fresh Prolog variable names for formula Vars via names.
	render(b *strings.Builder, names *nameTable)
	// freeVars collects every Var referenced transitively into out.
	freeVars(out map[VarID]*Var)
}

// nameTable maps a Formula Var to the Prolog variable name used for it
// within a single rendered query; it guarantees the same Var renders to
// the same Prolog variable everywhere in that query (required for the
// generate-and-test encoding to make sense — one generator per Var).
type nameTable struct {
	names map[VarID]string
}

func newNameTable() *nameTable { return &nameTable{names: map[VarID]string{}} }

func (n *nameTable) nameOf(v *Var) string {
	if existing, ok := n.names[v.ID]; ok {
		return existing
	}
	name := fmt.Sprintf("V%d", v.ID)
	n.names[v.ID] = name
	return name
}

// --- leaf nodes ---

type constFormula struct{ value bool }

// Const is the Boolean constant true/false.
func Const(value bool) Formula { return constFormula{value: value} }

func (c constFormula) render(b *strings.Builder, _ *nameTable) {
	if c.value {
		b.WriteString("true")
	} else {
		b.WriteString("fail")
	}
}
func (constFormula) freeVars(map[VarID]*Var) {}

type bvConst struct{ value int64 }

// BVConst is an integer/bit-vector constant.
func BVConst(value int64) Formula { return bvConst{value: value} }

func (c bvConst) render(b *strings.Builder, _ *nameTable) {
	fmt.Fprintf(b, "%d", c.value)
}
func (bvConst) freeVars(map[VarID]*Var) {}

type varRef struct{ v *Var }

// VarRef is a reference to a declared Var.
func VarRef(v *Var) Formula { return varRef{v: v} }

func (r varRef) render(b *strings.Builder, names *nameTable) {
	b.WriteString(names.nameOf(r.v))
}
func (r varRef) freeVars(out map[VarID]*Var) { out[r.v.ID] = r.v }

// --- compound nodes ---

type notFormula struct{ f Formula }

// Not negates f. Rendered as Prolog negation-as-failure (\+); sound here
// because every free variable appearing under a Not is guaranteed ground
// by the solver's generator prelude before the negation is evaluated.
func Not(f Formula) Formula { return notFormula{f: f} }

func (n notFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("\\+ (")
	n.f.render(b, names)
	b.WriteString(")")
}
func (n notFormula) freeVars(out map[VarID]*Var) { n.f.freeVars(out) }

type naryFormula struct {
	op   string // "," for And, ";" for Or
	args []Formula
}

// And is the conjunction of args (true for zero args).
func And(args ...Formula) Formula {
	if len(args) == 0 {
		return Const(true)
	}
	if len(args) == 1 {
		return args[0]
	}
	return naryFormula{op: ",", args: args}
}

// Or is the disjunction of args (false for zero args).
func Or(args ...Formula) Formula {
	if len(args) == 0 {
		return Const(false)
	}
	if len(args) == 1 {
		return args[0]
	}
	return naryFormula{op: ";", args: args}
}

func (n naryFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("(")
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(n.op)
		}
		a.render(b, names)
	}
	b.WriteString(")")
}
func (n naryFormula) freeVars(out map[VarID]*Var) {
	for _, a := range n.args {
		a.freeVars(out)
	}
}

type eqFormula struct{ lhs, rhs Formula }

// Eq is arithmetic/structural equality between two formulas.
func Eq(lhs, rhs Formula) Formula { return eqFormula{lhs: lhs, rhs: rhs} }

func (e eqFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("(")
	e.lhs.render(b, names)
	b.WriteString(" =:= ")
	e.rhs.render(b, names)
	b.WriteString(")")
}
func (e eqFormula) freeVars(out map[VarID]*Var) {
	e.lhs.freeVars(out)
	e.rhs.freeVars(out)
}

type ltFormula struct{ lhs, rhs Formula }

// Lt is arithmetic less-than between two terms; a goal, like Eq.
func Lt(lhs, rhs Formula) Formula { return ltFormula{lhs: lhs, rhs: rhs} }

func (l ltFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("(")
	l.lhs.render(b, names)
	b.WriteString(" < ")
	l.rhs.render(b, names)
	b.WriteString(")")
}
func (l ltFormula) freeVars(out map[VarID]*Var) {
	l.lhs.freeVars(out)
	l.rhs.freeVars(out)
}

type plusFormula struct{ lhs, rhs Formula }

// Plus is arithmetic addition of two terms; like VarRef/BVConst, it is a
// term (valid as an Eq/Lt operand), never a standalone goal.
func Plus(lhs, rhs Formula) Formula { return plusFormula{lhs: lhs, rhs: rhs} }

func (p plusFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("(")
	p.lhs.render(b, names)
	b.WriteString(" + ")
	p.rhs.render(b, names)
	b.WriteString(")")
}
func (p plusFormula) freeVars(out map[VarID]*Var) {
	p.lhs.freeVars(out)
	p.rhs.freeVars(out)
}

type iteFormula struct{ cond, then, els Formula }

// Ite is if-then-else: cond ? then : else.
func Ite(cond, then, els Formula) Formula { return iteFormula{cond: cond, then: then, els: els} }

func (i iteFormula) render(b *strings.Builder, names *nameTable) {
	b.WriteString("(")
	i.cond.render(b, names)
	b.WriteString(" -> ")
	i.then.render(b, names)
	b.WriteString(" ; ")
	i.els.render(b, names)
	b.WriteString(")")
}
func (i iteFormula) freeVars(out map[VarID]*Var) {
	i.cond.freeVars(out)
	i.then.freeVars(out)
	i.els.freeVars(out)
}

// Substitution maps a Var handle to a replacement Formula. Modeling it
// this way (handle to formula, not name to text) is what lets the same
// mechanism implement both the prime map (vars[i] -> primed_vars[i]) and
// arbitrary frame-index renaming without any string rewriting.
type Substitution map[VarID]Formula

// Substitute rewrites f by replacing every VarRef whose Var.ID is a key
// of sub with the corresponding Formula; Vars absent from sub pass
// through unchanged.
func Substitute(f Formula, sub Substitution) Formula {
	switch n := f.(type) {
	case varRef:
		if rep, ok := sub[n.v.ID]; ok {
			return rep
		}
		return n
	case notFormula:
		return notFormula{f: Substitute(n.f, sub)}
	case naryFormula:
		args := make([]Formula, len(n.args))
		for i, a := range n.args {
			args[i] = Substitute(a, sub)
		}
		return naryFormula{op: n.op, args: args}
	case eqFormula:
		return eqFormula{lhs: Substitute(n.lhs, sub), rhs: Substitute(n.rhs, sub)}
	case ltFormula:
		return ltFormula{lhs: Substitute(n.lhs, sub), rhs: Substitute(n.rhs, sub)}
	case plusFormula:
		return plusFormula{lhs: Substitute(n.lhs, sub), rhs: Substitute(n.rhs, sub)}
	case iteFormula:
		return iteFormula{
			cond: Substitute(n.cond, sub),
			then: Substitute(n.then, sub),
			els:  Substitute(n.els, sub),
		}
	default:
		// constFormula, bvConst: no variables to rewrite.
		return f
	}
}

// FreeVars returns every Var transitively referenced by f.
func FreeVars(f Formula) map[VarID]*Var {
	out := map[VarID]*Var{}
	f.freeVars(out)
	return out
}

// renderTop renders f to Prolog goal text using a fresh or shared
// nameTable; used internally by Solver when composing queries.
func renderTop(f Formula, names *nameTable) string {
	var b strings.Builder
	f.render(&b, names)
	return b.String()
}

// Canonical renders f to a string that is equal for two Formulas iff they
// are structurally identical, independent of which nameTable rendered
// them (Var identity is the numeric VarID, and nameOf is a pure function
// of it). Used for structural-equality and set-difference operations
// over literals (Cube.Equal, Cube.Difference) the way the Python
// reference used collections.Counter over z3's own structural equality.
func Canonical(f Formula) string {
	return renderTop(f, newNameTable())
}
