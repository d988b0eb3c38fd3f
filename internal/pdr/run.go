package pdr

import (
	"container/heap"
	"context"
	"fmt"
	"log"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/errs"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/result"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// maxFrames caps how many frames PDR will open before giving up with
// Unknown. spec.md's reference loops unconditionally; this batch CLI
// needs a termination guarantee the way bmc.Run's kIndMaxSteps does, so
// the cap is an engineering addition over the reference, not a spec
// requirement, and documented as such in DESIGN.md.
const maxFrames = 1000

// Run implements the PDR/IC3 top-level loop of spec.md §4.3.
func Run(ctx context.Context, ts *system.TransitionSystem) (*result.VerificationResult, error) {
	e := New(ts)

	if c, err := e.badCube(ctx, true); err != nil {
		return nil, &errs.SolverError{Query: "pdr base I∧¬P", Err: err}
	} else if c != nil {
		log.Printf("pdr: bad state reachable from initial state")
		return result.MakeUnsafe([]*cube.Cube{c}), nil
	}
	log.Printf("pdr: passed base check, I ⇒ P")
	e.appendNewFrame()

	for len(e.frames) < maxFrames {
		s, err := e.badCube(ctx, false)
		if err != nil {
			return nil, &errs.SolverError{Query: "pdr step T∧F_top∧¬P'", Err: err}
		}
		if s != nil {
			trace, err := e.recursiveBlock(ctx, s)
			if err != nil {
				return nil, err
			}
			if trace != nil {
				log.Printf("pdr: found counterexample after %d frames", len(e.frames))
				return result.MakeUnsafe(trace), nil
			}
			continue
		}

		log.Printf("pdr: adding new frame %d", len(e.frames))
		e.appendNewFrame()
		for i := 0; i < len(e.frames)-1; i++ {
			inv, err := e.isInductive(ctx, e.frames[i])
			if err != nil {
				return nil, &errs.SolverError{Query: fmt.Sprintf("pdr is_inductive(F_%d)", i), Err: err}
			}
			if inv {
				log.Printf("pdr: F_%d is an inductive invariant", i)
				return result.MakeSafe(e.frames[i]), nil
			}
			if err := e.propagateClauses(ctx, i); err != nil {
				return nil, &errs.SolverError{Query: fmt.Sprintf("pdr propagate(%d)", i), Err: err}
			}
		}
	}

	log.Printf("pdr: gave up after %d frames without a verdict", maxFrames)
	return result.MakeUnknown(), nil
}

// recursiveBlock implements spec.md's recursive blocking stage: a
// frame-ascending, FIFO-among-equals priority queue of proof obligations.
// It returns a non-nil trace iff an obligation reached frame 0 (the bad
// state is actually reachable from I); nil, nil means s was fully blocked.
func (e *Engine) recursiveBlock(ctx context.Context, s *cube.Cube) ([]*cube.Cube, error) {
	q := &obligationQueue{}
	heap.Init(q)
	heap.Push(q, &obligation{frame: s.T, seq: e.nextSeq(), cube: s})

	for q.Len() > 0 {
		ob := heap.Pop(q).(*obligation)
		i, c := ob.frame, ob.cube

		if i == 0 {
			heap.Push(q, ob)
			return drainTrace(q), nil
		}

		reachable, err := e.stillReachable(ctx, c)
		if err != nil {
			return nil, &errs.SolverError{Query: "pdr still_reachable", Err: err}
		}
		if !reachable {
			continue
		}

		pred, err := e.predecessorOf(ctx, c)
		if err != nil {
			return nil, &errs.SolverError{Query: "pdr predecessor_of", Err: err}
		}
		if pred != nil {
			heap.Push(q, &obligation{frame: c.T - 1, seq: e.nextSeq(), cube: pred})
			heap.Push(q, &obligation{frame: i, seq: e.nextSeq(), cube: c})
			continue
		}

		generalized, err := e.mic(ctx, c)
		if err != nil {
			return nil, &errs.SolverError{Query: "pdr mic", Err: err}
		}
		clause := cube.Sub(formula.Not(generalized.Compile()))
		for j := 1; j <= i; j++ {
			e.frames[j].AddLiteral(clause)
		}
		if i < len(e.frames)-1 {
			heap.Push(q, &obligation{frame: i + 1, seq: e.nextSeq(), cube: c})
		}
	}
	return nil, nil
}

// drainTrace empties q in ascending (frame, seq) order — the order the
// heap already pops in — collecting the counterexample path from I to
// the original bad state.
func drainTrace(q *obligationQueue) []*cube.Cube {
	trace := make([]*cube.Cube, 0, q.Len())
	for q.Len() > 0 {
		ob := heap.Pop(q).(*obligation)
		trace = append(trace, ob.cube)
	}
	return trace
}
