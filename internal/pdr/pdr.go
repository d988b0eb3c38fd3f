// Package pdr implements Property-Directed Reachability (spec.md §4.3):
// a monotone frame sequence F_0 ⊆ F_1 ⊆ ... searched for either a
// counterexample reaching F_0 or a frame that is inductive relative to
// the transition relation.
package pdr

import (
	"context"
	"fmt"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// Engine holds the frame sequence and the shared vocabulary every query
// is built against. Unlike bmc.Engine it keeps no long-lived solver: each
// query's assumption set differs too much frame to frame to make a
// shared assumption stack pay for itself, so every check below opens its
// own formula.Solver (spec.md §5 permits either style).
type Engine struct {
	ts     *system.TransitionSystem
	frames []*cube.Cube
	seq    int
}

// New seeds the frame sequence with F_0 = a clone of ts.I.
func New(ts *system.TransitionSystem) *Engine {
	f0 := ts.I.Clone()
	f0.T = 0
	return &Engine{ts: ts, frames: []*cube.Cube{f0}}
}

// appendNewFrame pushes a clone of P at the next index: a sound
// over-approximation since the property is assumed to hold at any depth
// not yet refuted.
func (e *Engine) appendNewFrame() {
	f := e.ts.P.Clone()
	f.T = len(e.frames)
	e.frames = append(e.frames, f)
}

func (e *Engine) top() *cube.Cube { return e.frames[len(e.frames)-1] }

func (e *Engine) nextSeq() int {
	e.seq++
	return e.seq
}

// badCube implements spec.md's bad_cube(base). base=true checks F_top ∧
// ¬P at the initial frame; base=false checks T ∧ F_top ∧ ¬P' one step
// forward. It returns nil, nil on UNSAT.
func (e *Engine) badCube(ctx context.Context, base bool) (*cube.Cube, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return nil, err
	}
	top := e.top()

	var check formula.Formula
	if base {
		check = formula.And(top.Compile(), formula.Not(e.ts.P.Compile()))
	} else {
		primedNotP := formula.Substitute(formula.Not(e.ts.P.Compile()), e.ts.PrimeMap)
		check = formula.And(e.ts.T.Compile(), top.Compile(), primedNotP)
	}

	sat, model, err := solver.Check(ctx, check)
	if err != nil {
		return nil, fmt.Errorf("pdr: bad_cube(base=%v): %w", base, err)
	}
	if !sat {
		return nil, nil
	}
	c := cube.New(top.T)
	c.AddModel(e.ts.StateVars, e.ts.Inputs, model, true)
	return c, nil
}

// stillReachable reports whether F_{s.T} ∧ s is satisfiable; false means
// s is already blocked at its frame and recursive_block can skip it.
func (e *Engine) stillReachable(ctx context.Context, s *cube.Cube) (bool, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return false, err
	}
	sat, _, err := solver.Check(ctx, e.frames[s.T].Compile(), s.Compile())
	if err != nil {
		return false, fmt.Errorf("pdr: stillReachable: %w", err)
	}
	return sat, nil
}

// predecessorOf asks F_{s.T-1} ∧ T ∧ s' SAT?, the "relative induction"
// query. On SAT it extracts a predecessor state cube at frame s.T-1 from
// the model's current-state projection.
func (e *Engine) predecessorOf(ctx context.Context, s *cube.Cube) (*cube.Cube, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return nil, err
	}
	primedS := formula.Substitute(s.Compile(), e.ts.PrimeMap)
	check := formula.And(e.frames[s.T-1].Compile(), e.ts.T.Compile(), primedS)

	sat, model, err := solver.Check(ctx, check)
	if err != nil {
		return nil, fmt.Errorf("pdr: predecessor_of: %w", err)
	}
	if !sat {
		return nil, nil
	}
	c := cube.New(s.T - 1)
	c.AddModel(e.ts.StateVars, e.ts.Inputs, model, true)
	return c, nil
}

// isInductive checks T ∧ f ∧ ¬f' UNSAT; if so f is an inductive invariant
// implying P by construction of the frame sequence.
func (e *Engine) isInductive(ctx context.Context, f *cube.Cube) (bool, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return false, err
	}
	primedF := formula.Substitute(f.Compile(), e.ts.PrimeMap)
	check := formula.And(e.ts.T.Compile(), f.Compile(), formula.Not(primedF))

	sat, _, err := solver.Check(ctx, check)
	if err != nil {
		return false, fmt.Errorf("pdr: is_inductive: %w", err)
	}
	return !sat, nil
}

// propagateClauses pushes forward every literal of frames[i] absent from
// frames[i+1] that F_i ∧ T already implies (primed), strengthening
// frames[i+1] without changing what it means (spec.md §4.3 Propagation).
func (e *Engine) propagateClauses(ctx context.Context, i int) error {
	frame, next := e.frames[i], e.frames[i+1]
	diff := frame.Difference(next)
	if len(diff) == 0 {
		return nil
	}

	solver, err := formula.NewSolver()
	if err != nil {
		return err
	}
	solver.Assert(frame.Compile())
	solver.Assert(e.ts.T.Compile())

	for _, lit := range diff {
		solver.Push()
		solver.Assert(formula.Not(formula.Substitute(lit.F, e.ts.PrimeMap)))
		sat, _, err := solver.Check(ctx)
		if err != nil {
			solver.Pop()
			return fmt.Errorf("pdr: propagate_clauses: %w", err)
		}
		if !sat {
			next.AddLiteral(lit)
		}
		solver.Pop()
	}
	return nil
}

// down implements spec.md's down(q): true iff I∧q is UNSAT and
// F_{q.T-1} ∧ T ∧ q' is UNSAT — q neither intersects the initial states
// nor has a predecessor in the previous frame.
func (e *Engine) down(ctx context.Context, q *cube.Cube) (bool, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return false, err
	}
	baseSAT, _, err := solver.Check(ctx, e.ts.I.Compile(), q.Compile())
	if err != nil {
		return false, fmt.Errorf("pdr: down base check: %w", err)
	}
	if baseSAT {
		return false, nil
	}

	primedQ := formula.Substitute(q.Compile(), e.ts.PrimeMap)
	consSAT, _, err := solver.Check(ctx, e.frames[q.T-1].Compile(), e.ts.T.Compile(), primedQ)
	if err != nil {
		return false, fmt.Errorf("pdr: down consecution check: %w", err)
	}
	return !consSAT, nil
}

// mic greedily drops each literal of q in turn, keeping the drop when
// down() still holds for the reduced cube — spec.md's "single-pass
// drop-loop" (iterative refinement, re-scanning after a successful drop,
// is explicitly optional and not implemented here, matching the one-pass
// behavior the reference down() actually executes).
func (e *Engine) mic(ctx context.Context, q *cube.Cube) (*cube.Cube, error) {
	for i := 0; i < q.Len(); i++ {
		candidate := q.Drop(i)
		ok, err := e.down(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			q = candidate
		}
	}
	return q, nil
}
