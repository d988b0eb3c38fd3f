// Package bmc implements the stateful incremental BMC unroller
// (spec.md §4.2): pure bounded model checking and, optionally, its
// k-induction strengthening.
package bmc

import (
	"context"
	"fmt"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// Engine is one unrolling session: its own solver, its own var_at cache,
// and its own unrolling counter, per Design Notes §9 ("becomes per-engine
// state ... not a free function").
type Engine struct {
	ts      *system.TransitionSystem
	solver  *formula.Solver
	vardict *formula.VarTable
	cnt     int
}

// New creates an Engine over ts with a fresh backend and an empty
// var_at cache. Setup must be called before use.
func New(ts *system.TransitionSystem) (*Engine, error) {
	solver, err := formula.NewSolver()
	if err != nil {
		return nil, fmt.Errorf("bmc: %w", err)
	}
	return &Engine{ts: ts, solver: solver, vardict: formula.NewVarTable()}, nil
}

// VarAt resolves name to the same formula.Var every time it is asked
// (spec.md §4.2's "var_at").
func (e *Engine) VarAt(name string, width int) *formula.Var {
	return e.vardict.VarAt(name, width)
}

func frameVarName(v *formula.Var, k int) string {
	return fmt.Sprintf("%s_%d", v.Name, k)
}

// Setup opens a fresh solver. When induction is false, I is asserted
// with every variable substituted by its frame-0 copy; cnt resets to 0
// either way.
func (e *Engine) Setup(induction bool) error {
	solver, err := formula.NewSolver()
	if err != nil {
		return fmt.Errorf("bmc: %w", err)
	}
	e.solver = solver
	e.cnt = 0
	if !induction {
		sub := e.FrameSubstitution(0)
		e.solver.Assert(formula.Substitute(e.ts.I.Compile(), sub))
	}
	return nil
}

// FrameSubstitution is {vars[i] -> v_i_k, primed_vars[i] -> v_i_{k+1}}.
func (e *Engine) FrameSubstitution(k int) formula.Substitution {
	vars := e.ts.Vars()
	primed := e.ts.PrimedVars()
	sub := formula.Substitution{}
	for _, v := range vars {
		sub[v.ID] = formula.VarRef(e.VarAt(frameVarName(v, k), v.Width))
	}
	for i, pv := range primed {
		sub[pv.ID] = formula.VarRef(e.VarAt(frameVarName(vars[i], k+1), vars[i].Width))
	}
	return sub
}

// Unroll asserts T under FrameSubstitution(cnt) and advances cnt.
func (e *Engine) Unroll() {
	sub := e.FrameSubstitution(e.cnt)
	e.solver.Assert(formula.Substitute(e.ts.T.Compile(), sub))
	e.cnt++
}

// Add asserts constraint under FrameSubstitution(cnt) — used to inject
// P or ¬P at the current unrolling frontier.
func (e *Engine) Add(constraint formula.Formula) {
	sub := e.FrameSubstitution(e.cnt)
	e.solver.Assert(formula.Substitute(constraint, sub))
}

// Push/Pop bound a speculative assertion to the immediate query
// (spec.md §5).
func (e *Engine) Push() { e.solver.Push() }
func (e *Engine) Pop()  { e.solver.Pop() }

// Check runs the backend satisfiability query.
func (e *Engine) Check(ctx context.Context) (bool, formula.Model, error) {
	return e.solver.Check(ctx)
}

// Cnt reports how many times Unroll has been called (the current
// unrolling depth).
func (e *Engine) Cnt() int { return e.cnt }

// Trace reads back a counterexample: for every frame 0..upto, the
// assignment of every var the model recorded at that frame's v_i_idx
// name. Variables the solver never created (never referenced at that
// depth) are simply absent from the resulting cube.
func (e *Engine) Trace(model formula.Model, upto int) []*cube.Cube {
	trace := make([]*cube.Cube, 0, upto+1)
	for idx := 0; idx <= upto; idx++ {
		c := cube.New(idx)
		for _, v := range e.ts.Vars() {
			fv := e.vardict.Lookup(frameVarName(v, idx))
			if fv == nil {
				continue
			}
			if val, ok := model[fv.ID]; ok {
				c.AddLiteral(cube.Eq(fv, val))
			}
		}
		trace = append(trace, c)
	}
	return trace
}
