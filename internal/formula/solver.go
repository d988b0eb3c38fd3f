package formula

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/ichiban/prolog"
)

// prelude is executed once per Solver. It defines between/3 the way a
// Prolog textbook does (ichiban/prolog's zero-builtin interpreter has no
// list or arithmetic-range library loaded, the same reason the teacher's
// pkg/prolog.Engine.loadCore hand-writes member/2, append/3, forall/2
// instead of assuming they exist). between/3 generate-and-tests every
// variable's finite domain, turning Prolog's resolution into the
// enumeration backend this package's satisfiability checks rely on.
const prelude = `
between(Low, High, Low) :- Low =< High.
between(Low, High, X) :- Low < High, Low1 is Low + 1, between(Low1, High, X).
`

// Solver is the Formula Layer's handle to the backend: an
// ichiban/prolog interpreter plus a Go-side assumption stack standing in
// for the push/pop transaction an incremental SMT solver would offer
// natively (see SPEC_FULL.md §4 — ichiban/prolog has no such API, so
// push/pop is modeled as a watermark into the assumption slice and each
// Check composes the live assumptions fresh).
type Solver struct {
	mu          sync.Mutex
	interp      *prolog.Interpreter
	assumptions []Formula
	marks       []int
}

// NewSolver starts a fresh backend and loads the between/3 prelude.
func NewSolver() (*Solver, error) {
	s := &Solver{interp: prolog.New(nil, nil)}
	if err := s.interp.Exec(prelude); err != nil {
		return nil, fmt.Errorf("formula: loading prelude: %w", err)
	}
	return s, nil
}

// Assert adds f to the live assumption set.
func (s *Solver) Assert(f Formula) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assumptions = append(s.assumptions, f)
}

// Push saves the current assumption-set length so a later Pop can
// discard everything asserted since.
func (s *Solver) Push() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = append(s.marks, len(s.assumptions))
}

// Pop discards every assumption asserted since the matching Push.
func (s *Solver) Pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.marks) == 0 {
		panic("formula: Pop without matching Push")
	}
	n := len(s.marks) - 1
	mark := s.marks[n]
	s.marks = s.marks[:n]
	s.assumptions = s.assumptions[:mark]
}

// Model is a satisfying assignment: variable handle to its integer value
// (0/1 for a Boolean, 0..2^width-1 for a bit-vector).
type Model map[VarID]int64

// Bool reads v's value as a Boolean.
func (m Model) Bool(v *Var) bool { return m[v.ID] != 0 }

// BV reads v's value as a bit-vector.
func (m Model) BV(v *Var) int64 { return m[v.ID] }

// Check tests satisfiability of the conjunction of every live assumption
// and extra, against the backend. It returns a Model on SAT; on UNSAT the
// Model is nil. Context cancellation surfaces as an *errs.SolverError at
// the call site (engines wrap it), not here.
func (s *Solver) Check(ctx context.Context, extra ...Formula) (bool, Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := And(append(append([]Formula{}, s.assumptions...), extra...))
	names := newNameTable()
	free := FreeVars(goal)

	ids := make([]VarID, 0, len(free))
	for id := range free {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for _, id := range ids {
		v := free[id]
		fmt.Fprintf(&b, "between(0,%d,%s), ", v.Max(), names.nameOf(v))
	}
	b.WriteString(renderTop(goal, names))
	query := b.String() + "."

	sols, err := s.interp.QueryContext(ctx, query)
	if err != nil {
		return false, nil, fmt.Errorf("formula: query %q: %w", query, err)
	}
	defer sols.Close()

	if !sols.Next() {
		return false, nil, sols.Err()
	}

	model, err := scanModel(sols, ids, free, names)
	if err != nil {
		return false, nil, err
	}
	return true, model, nil
}

// solutions is the subset of prolog.Solutions that scanModel relies on.
type solutions interface {
	Scan(dest interface{}) error
}

// scanModel binds the query's free Prolog variables into a dynamically
// built struct (one exported field per variable, named the same as the
// Prolog variable so ichiban/prolog's name-matching Scan finds it) and
// reads the resulting values back into a Model.
func scanModel(sols solutions, ids []VarID, free map[VarID]*Var, names *nameTable) (Model, error) {
	fields := make([]reflect.StructField, len(ids))
	for i, id := range ids {
		fields[i] = reflect.StructField{
			Name: names.nameOf(free[id]),
			Type: reflect.TypeOf((*interface{})(nil)).Elem(),
		}
	}
	structType := reflect.StructOf(fields)
	dest := reflect.New(structType)

	if err := sols.Scan(dest.Interface()); err != nil {
		return nil, fmt.Errorf("formula: scanning model: %w", err)
	}

	model := Model{}
	elem := dest.Elem()
	for i, id := range ids {
		model[id] = termToInt(elem.Field(i).Interface())
	}
	return model, nil
}

// termToInt converts a value ichiban/prolog bound to an integer variable
// (always an integral numeric kind here, since every variable this
// package creates is declared over a bounded integer domain) to int64.
// Adapted from the teacher's termToInt/termToString term-conversion
// helpers in pkg/prolog/engine.go, narrowed to the numeric case this
// solver actually needs.
func termToInt(v interface{}) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	case fmt.Stringer:
		var n int64
		fmt.Sscanf(t.String(), "%d", &n)
		return n
	default:
		return 0
	}
}
