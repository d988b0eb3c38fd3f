// Package aig parses the AIGER ASCII format (.aag) into a
// system.TransitionSystem (spec.md §6, restored in full from
// original_source/code/model.py's read_in/Model.parse).
package aig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sichao-Yang/model-checking-algorithms/internal/cube"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/errs"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/formula"
	"github.com/Sichao-Yang/model-checking-algorithms/internal/system"
)

// header is the `aag M I L O A [B [C]]` line: maximum variable index,
// input/latch/output/and-gate counts, and the optional bad-state and
// invariant-constraint counts (default 0 when absent).
type header struct {
	maxVar, inputs, latches, outputs, ands, bads, invariants int
}

type latchLine struct {
	varLit, nextLit, initLit int
}

type andLine struct {
	lhsLit, rhs0Lit, rhs1Lit int
}

// ParseFile opens path and parses it as an AIGER ASCII AIG.
func ParseFile(path string) (*system.TransitionSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.ParseError{Path: path, Msg: err.Error()}
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads an AIGER ASCII AIG from r and builds the corresponding
// TransitionSystem: one formula.Var per input and per latch, an
// AND-gate fold for the combinational logic, the initial-state cube,
// the transition relation, and the (fixed, negated) safety property.
func Parse(r io.Reader, path string) (*system.TransitionSystem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	nextLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return sc.Text(), true
	}

	headLine, ok := nextLine()
	if !ok {
		return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "empty file, expected aag header"}
	}
	h, err := parseHeader(headLine)
	if err != nil {
		return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: err.Error()}
	}

	inputLits := make([]int, 0, h.inputs)
	for i := 0; i < h.inputs; i++ {
		lit, err := nextInt(nextLine, &lineNo, path)
		if err != nil {
			return nil, err
		}
		inputLits = append(inputLits, lit)
	}

	latches := make([]latchLine, 0, h.latches)
	for i := 0; i < h.latches; i++ {
		line, ok := nextLine()
		if !ok {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "unexpected EOF reading latch line"}
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("malformed latch line %q", line)}
		}
		varLit, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		next, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		initLit := 0
		if len(fields) >= 3 {
			initLit, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
		}
		latches = append(latches, latchLine{varLit: varLit, nextLit: next, initLit: initLit})
	}

	outputLits := make([]int, 0, h.outputs)
	for i := 0; i < h.outputs; i++ {
		lit, err := nextInt(nextLine, &lineNo, path)
		if err != nil {
			return nil, err
		}
		outputLits = append(outputLits, lit)
	}

	badLits := make([]int, 0, h.bads)
	for i := 0; i < h.bads; i++ {
		lit, err := nextInt(nextLine, &lineNo, path)
		if err != nil {
			return nil, err
		}
		badLits = append(badLits, lit)
	}

	// Invariant constraints are read but not used by this spec's engines
	// (out of scope per the Non-goals on fairness/constraint properties);
	// they must still be consumed so annotation lines are found correctly.
	for i := 0; i < h.invariants; i++ {
		if _, err := nextInt(nextLine, &lineNo, path); err != nil {
			return nil, err
		}
	}

	ands := make([]andLine, 0, h.ands)
	for i := 0; i < h.ands; i++ {
		line, ok := nextLine()
		if !ok {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "unexpected EOF reading AND gate line"}
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("malformed AND gate line %q", line)}
		}
		lhs, e1 := strconv.Atoi(fields[0])
		r0, e2 := strconv.Atoi(fields[1])
		r1, e3 := strconv.Atoi(fields[2])
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("malformed AND gate line %q", line)}
		}
		ands = append(ands, andLine{lhsLit: lhs, rhs0Lit: r0, rhs1Lit: r1})
	}

	var annotations []string
	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		annotations = append(annotations, fields[1])
	}

	ts, err := build(inputLits, latches, outputLits, badLits, ands, annotations)
	if err != nil {
		return nil, &errs.ParseError{Path: path, Msg: err.Error()}
	}
	return ts, nil
}

func parseHeader(line string) (header, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 || fields[0] != "aag" {
		return header{}, fmt.Errorf("expected \"aag M I L O A [B [C]]\", got %q", line)
	}
	nums := make([]int, len(fields)-1)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return header{}, fmt.Errorf("non-numeric header field %q", f)
		}
		nums[i] = n
	}
	h := header{maxVar: nums[0], inputs: nums[1], latches: nums[2], outputs: nums[3], ands: nums[4]}
	if len(nums) >= 6 {
		h.bads = nums[5]
	}
	if len(nums) >= 7 {
		h.invariants = nums[6]
	}
	return h, nil
}

func nextInt(nextLine func() (string, bool), lineNo *int, path string) (int, error) {
	line, ok := nextLine()
	if !ok {
		return 0, &errs.ParseError{Path: path, Line: *lineNo, Msg: "unexpected EOF"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &errs.ParseError{Path: path, Line: *lineNo, Msg: fmt.Sprintf("expected an integer literal, got %q", line)}
	}
	return n, nil
}

// build folds the parsed AIGER sections into a TransitionSystem:
// variable declaration, the memoized AND-gate resolution, the initial
// cube, the transition relation, and the fixed (negated) property.
func build(inputLits []int, latches []latchLine, outputLits, badLits []int, ands []andLine, annotations []string) (*system.TransitionSystem, error) {
	vt := formula.NewVarTable()

	annIdx := 0
	nextName := func(prefix string, idx int) string {
		if annIdx < len(annotations) {
			name := fmt.Sprintf("%s%d[%s]", prefix, idx, annotations[annIdx])
			annIdx++
			return name
		}
		return fmt.Sprintf("%s%d", prefix, idx)
	}

	inputs := make([]*formula.Var, len(inputLits))
	primedInputs := make([]*formula.Var, len(inputLits))
	// nodeValue maps an even (non-negated) literal to a goal meaning
	// "this node's value is 1" — the "ands[lhs] = And(...)" memoized
	// fold from model.py, generalized to also cover input and latch vars
	// so AND gates and property literals resolve through one table.
	// Every entry is goal-shaped (And/Or/Not/Eq), never a bare variable
	// reference, so resolved nodes compose under And/Or/Not without the
	// term/goal mismatch a raw VarRef would hit inside one of those.
	nodeValue := map[int]formula.Formula{}
	for i, lit := range inputLits {
		v := vt.VarAt(nextName("i", i), 1)
		inputs[i] = v
		primedInputs[i] = vt.VarAt(v.Name+"_prime", 1)
		nodeValue[lit] = formula.Eq(formula.VarRef(v), formula.BVConst(1))
	}

	stateVars := make([]*formula.Var, len(latches))
	primedStateVars := make([]*formula.Var, len(latches))
	for i, l := range latches {
		v := vt.VarAt(nextName("v", i), 1)
		stateVars[i] = v
		primedStateVars[i] = vt.VarAt(v.Name+"_prime", 1)
		nodeValue[l.varLit] = formula.Eq(formula.VarRef(v), formula.BVConst(1))
	}

	andByLHS := make(map[int]andLine, len(ands))
	for _, a := range ands {
		andByLHS[a.lhsLit] = a
	}

	var resolve func(lit int) (formula.Formula, error)
	resolve = func(lit int) (formula.Formula, error) {
		if lit == 0 {
			return formula.Const(false), nil
		}
		if lit == 1 {
			return formula.Const(true), nil
		}
		base := lit &^ 1
		f, ok := nodeValue[base]
		if !ok {
			a, ok := andByLHS[base]
			if !ok {
				return nil, fmt.Errorf("aig: literal %d references an undefined gate", base)
			}
			rhs0, err := resolve(a.rhs0Lit)
			if err != nil {
				return nil, err
			}
			rhs1, err := resolve(a.rhs1Lit)
			if err != nil {
				return nil, err
			}
			f = formula.And(rhs0, rhs1)
			nodeValue[base] = f
		}
		if lit&1 == 1 {
			return formula.Not(f), nil
		}
		return f, nil
	}

	// Pre-resolve every AND gate so later lookups (latches, outputs,
	// bads) hit an already-memoized entry regardless of declaration order.
	for _, a := range ands {
		if _, err := resolve(a.lhsLit); err != nil {
			return nil, err
		}
	}

	i := cube.New(0)
	for idx, l := range latches {
		switch l.initLit {
		case 0:
			i.AddLiteral(cube.Eq(stateVars[idx], 0))
		case 1:
			i.AddLiteral(cube.Eq(stateVars[idx], 1))
		default:
			// A latch whose init literal references another node is
			// "uninitialized" per the AIGER spec; this front-end only
			// supports the reset-to-constant case original_source
			// exercises, matching model.py's Latch(init="0") default.
		}
	}

	t := cube.New(0)
	for idx, l := range latches {
		next, err := resolve(l.nextLit)
		if err != nil {
			return nil, err
		}
		// next is a goal ("this gate's value is 1"); the primed latch
		// variable takes 1 exactly when it holds.
		primed := formula.VarRef(primedStateVars[idx])
		t.AddLiteral(cube.Sub(formula.Ite(next, formula.Eq(primed, formula.BVConst(1)), formula.Eq(primed, formula.BVConst(0)))))
	}

	outAndBad := make([]formula.Formula, 0, len(outputLits)+len(badLits))
	for _, lit := range outputLits {
		f, err := resolve(lit)
		if err != nil {
			return nil, err
		}
		outAndBad = append(outAndBad, f)
	}
	for _, lit := range badLits {
		f, err := resolve(lit)
		if err != nil {
			return nil, err
		}
		outAndBad = append(outAndBad, f)
	}

	p := cube.New(0)
	// Fix applied per spec.md's flagged reference bug: P = ¬(output ∨
	// bad), not the raw output/bad disjunction model.py asserts directly.
	p.AddLiteral(cube.Sub(formula.Not(formula.Or(outAndBad...))))

	return system.New(stateVars, inputs, primedStateVars, primedInputs, i, t, p), nil
}
