package equation

import "math"

const (
	// DefaultMaxIterations bounds the Newton-Raphson loop of SolveNominalRate.
	DefaultMaxIterations = 100
	// DefaultTolerance is the absolute Newton step below which the effective
	// rate is considered converged.
	DefaultTolerance = 1e-10

	fallbackSeed = 0.01
)

type solverConfig struct {
	maxIterations int
	tolerance     float64
}

// SolverOption tunes SolveNominalRate.
type SolverOption func(*solverConfig)

// WithMaxIterations overrides DefaultMaxIterations. Values below 1 are ignored.
func WithMaxIterations(n int) SolverOption {
	return func(cfg *solverConfig) {
		if n > 0 {
			cfg.maxIterations = n
		}
	}
}

// WithTolerance overrides DefaultTolerance. Non-positive values are ignored.
func WithTolerance(tol float64) SolverOption {
	return func(cfg *solverConfig) {
		if tol > 0 {
			cfg.tolerance = tol
		}
	}
}

// SolveNominalRate finds the nominal annual rate that makes the loan
// parameters consistent. A zero payment has a closed form; otherwise the
// effective rate is found by Newton-Raphson on the balance equation and
// converted to a nominal rate once at the end.
//
// Some terms are satisfied by two rates, for example a payment stream paid
// against both a principal and a final amount received. A non-negative rate
// is preferred over a negative one; when both are non-negative the result is
// a *DomainError.
func SolveNominalRate(n, pv, pmt, fv float64, c Convention, opts ...SolverOption) (float64, error) {
	const op = "SolveNominalRate"
	if err := c.validate(op); err != nil {
		return 0, err
	}
	if !(n > 0) {
		return 0, domainErrorf(op, "number of periods must be positive, got %g", n)
	}

	cfg := solverConfig{maxIterations: DefaultMaxIterations, tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		ieff float64
		err  error
	)
	if pmt == 0 {
		ieff, err = growthRate(op, n, pv, fv)
	} else {
		b := balance{n: n, pv: pv, pmt: pmt, fv: fv, timing: c.Timing}
		ieff, err = solveBalance(op, b, initialGuess(n, pv, pmt, fv), cfg)
	}
	if err != nil {
		return 0, err
	}
	return NominalRate(ieff, c)
}

// growthRate solves the balance equation without payments, where the
// principal simply compounds: |FV/PV| = (1+ieff)^n. When FV and PV share a
// sign no rate satisfies (1+ieff)^n*PV = -FV, and the returned rate leaves a
// non-zero Residual.
func growthRate(op string, n, pv, fv float64) (float64, error) {
	if pv == 0 || fv == 0 {
		return 0, domainErrorf(op, "without payments both present (%g) and future (%g) value must be non-zero", pv, fv)
	}
	return finite(op, math.Pow(math.Abs(fv/pv), 1/n)-1)
}

// initialGuess seeds Newton-Raphson with an empirical estimate of the
// effective rate. The estimates are heuristics; a non-finite one is replaced
// by fallbackSeed.
func initialGuess(n, pv, pmt, fv float64) float64 {
	var guess float64
	switch {
	case pmt*fv >= 0:
		guess = math.Abs((n*pmt + pv + fv) / (n * pv))
	case pv == 0:
		guess = math.Abs((fv + n*pmt) / (3 * (pmt*(n-1)*(n-1) + pv - fv)))
	default:
		guess = math.Abs((fv - n*pmt) / (3 * (pmt*(n-1)*(n-1) + pv - fv)))
	}
	if math.IsNaN(guess) || math.IsInf(guess, 0) {
		return fallbackSeed
	}
	return guess
}

func newtonRaphson(op string, f, df func(float64) float64, guess float64, cfg solverConfig) (float64, error) {
	cur, step := guess, math.NaN()
	for iter := 0; iter < cfg.maxIterations; iter++ {
		slope := df(cur)
		if slope == 0 {
			return 0, domainErrorf(op, "derivative vanished at effective rate %g", cur)
		}
		step = f(cur) / slope
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return 0, domainErrorf(op, "non-finite Newton step at effective rate %g", cur)
		}
		next := cur - step
		if math.Abs(step) < cfg.tolerance {
			return next, nil
		}
		cur = next
	}
	return 0, &ConvergenceError{Op: op, Iterations: cfg.maxIterations, Rate: cur, Step: step}
}
