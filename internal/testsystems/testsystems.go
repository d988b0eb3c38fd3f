// Package testsystems builds small hand-wired TransitionSystem values for
// both engines' test suites, the Go-native equivalent of the scenario
// functions original_source/code/test_slv.py generates (three_at_a_time,
// swapper, counter_sat, ...) for exercising BMC and PDR against the same
// fixtures rather than a parsed .aag file. Every scenario below mirrors
// test_slv.py's corresponding function — same widths, same transition
// relation, same expected verdict (spec.md §8's end-to-end table).
package testsystems

import (
	"strconv"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// boolVars declares n Boolean state vars v0..v_{n-1} and their primed
// counterparts in vt.
func boolVars(vt *formula.VarTable, n int) (vars, primed []*formula.Var) {
	vars = make([]*formula.Var, n)
	primed = make([]*formula.Var, n)
	for i := 0; i < n; i++ {
		name := "v" + strconv.Itoa(i)
		vars[i] = vt.VarAt(name, 1)
		primed[i] = vt.VarAt(name+"_prime", 1)
	}
	return vars, primed
}

func isTrue(v *formula.Var) formula.Formula {
	return formula.Eq(formula.VarRef(v), formula.BVConst(1))
}

func orOfVars(vars []*formula.Var) formula.Formula {
	disj := make([]formula.Formula, len(vars))
	for i, v := range vars {
		disj[i] = isTrue(v)
	}
	return formula.Or(disj...)
}

// Swapper is spec.md §8's "swapper" scenario (test_slv.py's swapper()):
// three one-bit state variables that rotate (x'=y, y'=z, z'=x) every
// step, starting at (T, F, F). The safety property "at least one is
// true" is inductive — one variable is always true, only its identity
// rotates — SAFE for both BMC/k-induction and PDR.
func Swapper() *system.TransitionSystem {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 1)
	y := vt.VarAt("y", 1)
	z := vt.VarAt("z", 1)
	xp := vt.VarAt("x_prime", 1)
	yp := vt.VarAt("y_prime", 1)
	zp := vt.VarAt("z_prime", 1)

	i := cube.New(0)
	i.AddLiteral(cube.Eq(x, 1))
	i.AddLiteral(cube.Eq(y, 0))
	i.AddLiteral(cube.Eq(z, 0))

	t := cube.New(0)
	t.AddLiteral(cube.Sub(formula.Eq(formula.VarRef(xp), formula.VarRef(y))))
	t.AddLiteral(cube.Sub(formula.Eq(formula.VarRef(zp), formula.VarRef(x))))
	t.AddLiteral(cube.Sub(formula.Eq(formula.VarRef(yp), formula.VarRef(z))))

	p := cube.New(0)
	p.AddLiteral(cube.Sub(orOfVars([]*formula.Var{x, y, z})))

	return system.New(
		[]*formula.Var{x, y, z}, nil,
		[]*formula.Var{xp, yp, zp}, nil,
		i, t, p,
	)
}

// ringShiftTransition builds T for the `b_i' = b_{i-1 mod n}` ring shift
// register test_slv.py's shifter_unsat/shifter_sat share.
func ringShiftTransition(vars, primed []*formula.Var) *cube.Cube {
	t := cube.New(0)
	n := len(vars)
	for idx := range vars {
		prev := vars[(idx-1+n)%n]
		t.AddLiteral(cube.Sub(formula.Eq(formula.VarRef(primed[idx]), formula.VarRef(prev))))
	}
	return t
}

// ShifterUnsafe is test_slv.py's shifter_unsat(): a 4-bit ring shift
// register, all bits but the LSB pinned False at init (the LSB is left
// free). The property "the MSB stays False" is violated three rotations
// after a free-true LSB — UNSAFE, and avoids the single-state
// degenerate collapse a fully-pinned initial state would produce in PDR
// (spec.md §8 "shifter_unsat").
func ShifterUnsafe() *system.TransitionSystem {
	const size = 4
	vt := formula.NewVarTable()
	vars, primed := boolVars(vt, size)

	i := cube.New(0)
	for idx := 1; idx < size; idx++ {
		i.AddLiteral(cube.Eq(vars[idx], 0))
	}
	// vars[0] is deliberately left unconstrained in I.

	t := ringShiftTransition(vars, primed)

	p := cube.New(0)
	p.AddLiteral(cube.Eq(vars[size-1], 0))

	return system.New(vars, nil, primed, nil, i, t, p)
}

// ShifterSafe is test_slv.py's shifter_sat(): the same 4-bit ring shift
// register, but only the LSB is pinned true at init (every other bit is
// free) and the property is "at least one bit is true" rather than
// "the MSB stays false". A ring shift can never reach all-False from a
// state with any bit true, so this is SAFE — unlike ShifterUnsafe, which
// shares the transition relation but differs in both I and P.
func ShifterSafe() *system.TransitionSystem {
	const size = 4
	vt := formula.NewVarTable()
	vars, primed := boolVars(vt, size)

	i := cube.New(0)
	i.AddLiteral(cube.Eq(vars[0], 1))

	t := ringShiftTransition(vars, primed)

	p := cube.New(0)
	p.AddLiteral(cube.Sub(orOfVars(vars)))

	return system.New(vars, nil, primed, nil, i, t, p)
}

// OneAtATime is test_slv.py's one_at_a_time(): an 8-bit vector
// initialized all-True, where exactly one bit flips per step (the
// transition relation is the disjunction, over every bit position, of
// "that bit flips, every other bit holds" — the disjunction itself is
// what makes the step nondeterministic, no selector input needed). The
// property "at least one bit is true" is violated once all 8 bits have
// been flipped in turn — UNSAFE within 8 steps, matching test_slv.py's
// own description.
func OneAtATime() *system.TransitionSystem {
	const size = 8
	vt := formula.NewVarTable()
	vars, primed := boolVars(vt, size)

	i := cube.New(0)
	for _, v := range vars {
		i.AddLiteral(cube.Eq(v, 1))
	}

	t := cube.New(0)
	t.AddLiteral(cube.Sub(formula.Or(flipOneOf(vars, primed)...)))

	p := cube.New(0)
	p.AddLiteral(cube.Sub(orOfVars(vars)))

	return system.New(vars, nil, primed, nil, i, t, p)
}

// flipOneOf builds, for each bit position, the conjunct "that bit
// flips, every other bit holds".
func flipOneOf(vars, primed []*formula.Var) []formula.Formula {
	moves := make([]formula.Formula, len(vars))
	for flip := range vars {
		conjuncts := make([]formula.Formula, 0, len(vars))
		for idx := range vars {
			same := formula.Eq(formula.VarRef(primed[idx]), formula.VarRef(vars[idx]))
			if idx == flip {
				conjuncts = append(conjuncts, formula.Not(same))
			} else {
				conjuncts = append(conjuncts, same)
			}
		}
		moves[flip] = formula.And(conjuncts...)
	}
	return moves
}

// threeAtATime builds the shared "three_at_a_time" family: size bits,
// all-True init, one move per pivot position 2..size-1 that flips the
// pivot and its two left neighbors (no wrap-around past bit 0) and holds
// every other bit, property
// "at least one bit is true". test_slv.py's three_at_a_time (size 8) is
// SAFE — flipping three neighbors at a time can never clear all 8 bits
// at once — and three_at_a_time_odd (size 9) is UNSAFE, the same
// transition relation over an odd-length vector.
func threeAtATime(size int) *system.TransitionSystem {
	vt := formula.NewVarTable()
	vars, primed := boolVars(vt, size)

	i := cube.New(0)
	for _, v := range vars {
		i.AddLiteral(cube.Eq(v, 1))
	}

	t := cube.New(0)
	moves := make([]formula.Formula, 0, size-2)
	for pivot := 2; pivot < size; pivot++ {
		flipped := map[int]bool{pivot: true, pivot - 1: true, pivot - 2: true}
		conjuncts := make([]formula.Formula, 0, size)
		for idx := range vars {
			same := formula.Eq(formula.VarRef(primed[idx]), formula.VarRef(vars[idx]))
			if flipped[idx] {
				conjuncts = append(conjuncts, formula.Not(same))
			} else {
				conjuncts = append(conjuncts, same)
			}
		}
		moves = append(moves, formula.And(conjuncts...))
	}
	t.AddLiteral(cube.Sub(formula.Or(moves...)))

	p := cube.New(0)
	p.AddLiteral(cube.Sub(orOfVars(vars)))

	return system.New(vars, nil, primed, nil, i, t, p)
}

// ThreeAtATime is test_slv.py's three_at_a_time(): 8 bits, SAFE.
func ThreeAtATime() *system.TransitionSystem { return threeAtATime(8) }

// ThreeAtATimeOdd is test_slv.py's three_at_a_time_odd(): 9 bits,
// UNSAFE — the odd length lets the three-at-a-time moves clear every
// bit in turn.
func ThreeAtATimeOdd() *system.TransitionSystem { return threeAtATime(9) }

// CounterSat is test_slv.py's counter_sat(): a 5-bit counter x,
// initialized to 0, that increments while x<6 and otherwise holds,
// checked against the property x<7. SAFE — x never exceeds 6.
func CounterSat() *system.TransitionSystem {
	vt := formula.NewVarTable()
	x := vt.VarAt("x", 5)
	xp := vt.VarAt("x_prime", 5)

	i := cube.New(0)
	i.AddLiteral(cube.Eq(x, 0))

	t := cube.New(0)
	increment := formula.Eq(formula.VarRef(xp), formula.Plus(formula.VarRef(x), formula.BVConst(1)))
	hold := formula.Eq(formula.VarRef(xp), formula.VarRef(x))
	t.AddLiteral(cube.Sub(formula.Ite(formula.Lt(formula.VarRef(x), formula.BVConst(6)), increment, hold)))

	p := cube.New(0)
	p.AddLiteral(cube.Sub(formula.Lt(formula.VarRef(x), formula.BVConst(7))))

	return system.New([]*formula.Var{x}, nil, []*formula.Var{xp}, nil, i, t, p)
}
