package equation

import "fmt"

// DomainError reports an intermediate value outside the real domain of a
// formula: a logarithm of a non-positive number, a fractional power of a
// negative base, a division by a vanishing rate or derivative.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("equation: %s: %s", e.Op, e.Reason)
}

func domainErrorf(op, format string, args ...any) *DomainError {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// ConvergenceError is returned when the rate solver runs out of iterations
// before the Newton step drops below the tolerance.
type ConvergenceError struct {
	Op         string
	Iterations int
	Rate       float64 // last effective rate visited
	Step       float64 // last Newton step
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("equation: %s: no convergence after %d iterations (effective rate %g, last step %g)",
		e.Op, e.Iterations, e.Rate, e.Step)
}
