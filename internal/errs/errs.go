// Package errs defines the error taxonomy of the checker: parse failures,
// solver failures, and internal invariant violations (spec.md §7).
package errs

import "fmt"

// ParseError reports a malformed AIGER/AAG input: bad header, unexpected
// line, or a literal referencing an undefined gate/input/latch. Fatal.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// SolverError wraps a backend solver returning unknown or erroring out.
// bmc.Run and pdr.Run return it as an error; cmd/aigcheck reports it as
// an Unknown verdict.
type SolverError struct {
	Query string
	Err   error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver query failed (%s): %v", e.Query, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

// InvariantViolation marks a condition that should be impossible if the
// engine is implemented correctly: a cube cache-version gone backwards,
// frame monotonicity broken, a literal not in var==const shape where one
// is required. These are implementation bugs, not runtime conditions, so
// callers panic with this type rather than threading it through returns;
// recover it once at the process boundary (cmd/aigcheck) and abort.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}
