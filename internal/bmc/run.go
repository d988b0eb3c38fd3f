package bmc

import (
	"context"
	"fmt"
	"log"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/errs"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/result"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// kIndMaxSteps bounds the k-induction side's search when kInd is
// requested; spec.md's Open Questions log (DESIGN.md) records why this
// is an internal constant rather than a CLI-exposed one.
const kIndMaxSteps = 1000

// Run implements the BMC/k-induction algorithm of spec.md §4.2.
func Run(ctx context.Context, ts *system.TransitionSystem, kInd bool, k int) (*result.VerificationResult, error) {
	base, err := New(ts)
	if err != nil {
		return nil, err
	}
	if err := base.Setup(false); err != nil {
		return nil, err
	}

	base.Push()
	base.Add(formula.Not(ts.P.Compile()))
	sat, model, err := base.Check(ctx)
	if err != nil {
		return nil, &errs.SolverError{Query: "base ¬P @ 0", Err: err}
	}
	if sat {
		log.Printf("bmc: bad state reachable from initial state")
		return result.MakeUnsafe(base.Trace(model, base.Cnt())), nil
	}
	base.Pop()

	var kind *Engine
	bound := k
	if kInd {
		kind, err = New(ts)
		if err != nil {
			return nil, err
		}
		if err := kind.Setup(true); err != nil {
			return nil, err
		}
		kind.Add(ts.P.Compile())
		bound = kIndMaxSteps
	}

	for step := 1; step <= bound; step++ {
		if kInd {
			kind.Unroll()
			kind.Push()
			kind.Add(formula.Not(ts.P.Compile()))
			log.Printf("bmc: checking for CEX after %d transitions (k-induction)", step)
			sat, _, err := kind.Check(ctx)
			if err != nil {
				return nil, &errs.SolverError{Query: fmt.Sprintf("k-ind ¬P @ %d", step), Err: err}
			}
			if !sat {
				log.Printf("bmc: inductive invariant found after %d steps", step)
				return result.MakeSafe(ts.P), nil
			}
			kind.Pop()
			// P didn't hold vacuously at this frame either — keep it as a
			// permanent hypothesis for every later frame's induction check
			// (spec.md: P is asserted at every intermediate frame
			// 1..cnt-1, not just reasserted transiently per step).
			kind.Add(ts.P.Compile())
		}

		base.Unroll()
		base.Push()
		base.Add(formula.Not(ts.P.Compile()))
		sat, model, err := base.Check(ctx)
		if err != nil {
			return nil, &errs.SolverError{Query: fmt.Sprintf("base ¬P @ %d", step), Err: err}
		}
		if sat {
			log.Printf("bmc: found CEX after %d steps", step)
			return result.MakeUnsafe(base.Trace(model, base.Cnt())), nil
		}
		base.Pop()
	}

	log.Printf("bmc: invariant could not be proven inductive after %d transitions", bound)
	return result.MakeUnknown(), nil
}
