// Package result defines VerificationResult, the structured outcome both
// engines return to programmatic callers (spec.md §6).
package result

import "github.com/Sichao-Yang/model-checking-algorithms/internal/cube"

// Kind discriminates a VerificationResult.
type Kind int

const (
	// Safe: every state reachable from I satisfies P.
	Safe Kind = iota
	// Unsafe: a counterexample trace from I to a ¬P state exists.
	Unsafe
	// Unknown: the engine exhausted its bound, or the backend solver
	// could not decide a query, without reaching a verdict.
	Unknown
)

// VerificationResult is the outcome of a BMC or PDR run.
type VerificationResult struct {
	Kind Kind

	// Invariant is set iff Kind == Safe and the engine discovered one
	// (BMC's k-induction step returns the property itself; PDR returns
	// the inductive frame).
	Invariant *cube.Cube

	// Trace is set iff Kind == Unsafe: a sequence of cubes s_0..s_n with
	// I∧s_0 satisfiable, each s_k∧T∧s_{k+1}' satisfiable, and s_n∧¬P
	// satisfiable (spec.md §8, Counterexample soundness).
	Trace []*cube.Cube
}

// MakeSafe builds a Safe result, optionally carrying an inductive
// invariant.
func MakeSafe(invariant *cube.Cube) *VerificationResult {
	return &VerificationResult{Kind: Safe, Invariant: invariant}
}

// MakeUnsafe builds an Unsafe result carrying trace.
func MakeUnsafe(trace []*cube.Cube) *VerificationResult {
	return &VerificationResult{Kind: Unsafe, Trace: trace}
}

// MakeUnknown builds an Unknown result.
func MakeUnknown() *VerificationResult {
	return &VerificationResult{Kind: Unknown}
}

// Verdict renders the exact stdout strings spec.md §6 fixes as the
// external interface (including the upstream "Safty" typo — kept
// verbatim since external tooling may match on it literally).
func (r *VerificationResult) Verdict() string {
	switch r.Kind {
	case Safe:
		return "Safty property Proven"
	case Unsafe:
		return "Safty property Falsified"
	default:
		return "Unknown"
	}
}
