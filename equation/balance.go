package equation

import "math"

const (
	// rootSeparation is the distance below which two converged effective
	// rates are taken to be the same root.
	rootSeparation = 1e-8
	// coefficientNoise is the relative size below which a coefficient of the
	// discounted balance is rounding error from the caller's arithmetic.
	coefficientNoise = 1e-12
)

// balance is the loan balance equation for fixed terms, as a function of the
// effective rate.
//
// Discounted to time zero the residual is an exponential sum in the discount
// factor with coefficients PV+x*PMT, then PMT for every inner period, then
// FV+(1-x)*PMT. It has at most as many roots above ieff = -1 as that sequence
// has sign changes: one when the outer coefficients differ in sign, two when
// they agree and PMT has the other sign.
type balance struct {
	n, pv, pmt, fv, timing float64
}

func (b balance) at(ieff float64) float64 {
	return residualAt(b.n, ieff, b.pv, b.pmt, b.fv, b.timing)
}

func (b balance) slope(ieff float64) float64 {
	return derivativeAt(b.n, ieff, b.pv, b.pmt, b.timing)
}

// signHigh is the sign of the residual for arbitrarily large rates.
func (b balance) signHigh() float64 {
	return b.outerSign(b.pv + b.timing*b.pmt)
}

// signLow is the sign of the residual as 1+ieff approaches zero.
func (b balance) signLow() float64 {
	return b.outerSign(b.fv + (1-b.timing)*b.pmt)
}

// outerSign is the sign of an outer coefficient, falling through to the
// payments next to it when the coefficient vanishes.
func (b balance) outerSign(c float64) float64 {
	scale := math.Abs(b.pv) + math.Abs(b.pmt) + math.Abs(b.fv)
	if math.Abs(c) <= coefficientNoise*scale {
		return sign(b.pmt)
	}
	return sign(c)
}

// scanUp walks geometrically above start until the residual has sign want.
func (b balance) scanUp(start, want float64) (float64, bool) {
	h := math.Max(1e-3, math.Abs(start)*1e-3)
	for k := 0; k < 64; k++ {
		p := start + h
		v := b.at(p)
		if math.IsNaN(v) {
			return 0, false
		}
		if sign(v) == want {
			return p, true
		}
		h *= 2
	}
	return 0, false
}

// scanDown halves the distance from start to -1 until the residual has sign
// want.
func (b balance) scanDown(start, want float64) (float64, bool) {
	for k := 1; k < 64; k++ {
		p := -1 + (1+start)/math.Exp2(float64(k))
		v := b.at(p)
		if math.IsNaN(v) {
			return 0, false
		}
		if sign(v) == want {
			return p, true
		}
	}
	return 0, false
}

// solveBalance runs Newton-Raphson from seed. When the terms admit a single
// rate and the plain iteration fails, that rate is bracketed and found again
// with safeguarded steps. When they admit two rates, the other one is located
// as well and preferRate decides.
func solveBalance(op string, b balance, seed float64, cfg solverConfig) (float64, error) {
	high, low := b.signHigh(), b.signLow()
	if high == low && sign(b.pmt) == high {
		return 0, domainErrorf(op, "cash flows never change sign, no rate balances the terms")
	}

	root, err := newtonRaphson(op, b.at, b.slope, seed, cfg)
	if err != nil {
		if high == low {
			return 0, err
		}
		start := math.Max(seed, 0)
		v := b.at(start)
		if v == 0 {
			return start, nil
		}
		var (
			lo, hi float64
			ok     bool
		)
		if sign(v) == high {
			hi = start
			lo, ok = b.scanDown(start, low)
		} else {
			lo = start
			hi, ok = b.scanUp(start, high)
		}
		if !ok {
			return 0, err
		}
		return bracketedNewton(op, b, lo, hi, high, cfg)
	}

	if high != low {
		return root, nil
	}

	// At the upper of two rates the residual crosses toward its sign at high
	// rates; at the lower one it crosses away from it.
	var other float64
	if sign(b.slope(root)) == high {
		lo, ok := b.scanDown(root, low)
		if !ok {
			return root, nil
		}
		other, err = bracketedNewton(op, b, lo, root, -high, cfg)
	} else {
		hi, ok := b.scanUp(root, high)
		if !ok {
			return 0, domainErrorf(op, "cannot bracket the rate above effective rate %g", root)
		}
		other, err = bracketedNewton(op, b, root, hi, high, cfg)
	}
	if err != nil {
		return 0, err
	}
	return preferRate(op, root, other)
}

// bracketedNewton refines a root inside (lo, hi). Points where the residual
// has sign hiSign move hi, the others move lo; a Newton step that leaves the
// bracket is replaced by bisection.
func bracketedNewton(op string, b balance, lo, hi, hiSign float64, cfg solverConfig) (float64, error) {
	cur, step := lo+(hi-lo)/2, math.NaN()
	for iter := 0; iter < cfg.maxIterations; iter++ {
		f := b.at(cur)
		switch {
		case math.IsNaN(f):
			return 0, domainErrorf(op, "residual undefined at effective rate %g", cur)
		case f == 0:
			return cur, nil
		case sign(f) == hiSign:
			hi = cur
		default:
			lo = cur
		}

		next := cur - f/b.slope(cur)
		if !(next > lo && next < hi) {
			next = lo + (hi-lo)/2
		}
		step = cur - next
		if math.Abs(step) < cfg.tolerance {
			return next, nil
		}
		cur = next
	}
	return 0, &ConvergenceError{Op: op, Iterations: cfg.maxIterations, Rate: cur, Step: step}
}

// preferRate chooses between two effective rates that both satisfy the
// terms: the non-negative one, or the one nearer zero when both are
// negative. Two distinct non-negative rates are ambiguous.
func preferRate(op string, a, b float64) (float64, error) {
	if math.Abs(a-b) < rootSeparation {
		return a, nil
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	if lo >= 0 {
		return 0, domainErrorf(op, "effective rates %g and %g both satisfy the loan terms", lo, hi)
	}
	return hi, nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
