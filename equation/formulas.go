package equation

import "math"

// annuity holds the intermediate terms shared by the closed-form solutions:
//
//	A = (1+ieff)^n - 1
//	B = (1+ieff*x) / ieff
//
// B is left at zero for a zero rate; callers take the linear branch then.
type annuity struct {
	ieff float64
	a    float64
	b    float64
}

func newAnnuity(n, ieff, timing float64) annuity {
	t := annuity{ieff: ieff, a: math.Expm1(n * math.Log1p(ieff))}
	if !isZeroRate(ieff) {
		t.b = (1 + ieff*timing) / ieff
	}
	return t
}

func (t annuity) zero() bool {
	return isZeroRate(t.ieff)
}

// PayPeriods returns the number of payment periods n that retires pv to fv
// with payments of pmt.
func PayPeriods(rate, pv, pmt, fv float64, c Convention) (float64, error) {
	const op = "PayPeriods"
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	if isZeroRate(ieff) {
		if pmt == 0 {
			return 0, domainErrorf(op, "zero payment at a zero rate never changes the balance")
		}
		return finite(op, -(pv+fv)/pmt)
	}

	cc := pmt * (1 + ieff*c.Timing) / ieff
	if cc+pv == 0 {
		return 0, domainErrorf(op, "payment exactly covers interest, balance never moves")
	}
	arg := (cc - fv) / (cc + pv)
	if !(arg > 0) {
		return 0, domainErrorf(op, "logarithm argument %g is not positive", arg)
	}
	return finite(op, math.Log(arg)/math.Log1p(ieff))
}

// PresentValue returns the principal that n payments of pmt retire to fv.
func PresentValue(n, rate, pmt, fv float64, c Convention) (float64, error) {
	const op = "PresentValue"
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	t := newAnnuity(n, ieff, c.Timing)
	if t.zero() {
		return finite(op, -(fv + n*pmt))
	}
	return finite(op, -(fv+t.a*pmt*t.b)/(t.a+1))
}

// PeriodicPayment returns the payment that takes pv to fv in n periods.
func PeriodicPayment(n, rate, pv, fv float64, c Convention) (float64, error) {
	const op = "PeriodicPayment"
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	t := newAnnuity(n, ieff, c.Timing)
	if t.zero() {
		if n == 0 {
			return 0, domainErrorf(op, "no payment periods")
		}
		return finite(op, -(pv+fv)/n)
	}
	ab := t.a * t.b
	if ab == 0 {
		return 0, domainErrorf(op, "annuity factor A*B is zero (n=%g, timing=%g)", n, c.Timing)
	}
	return finite(op, -(fv+pv*(t.a+1))/ab)
}

// FutureValue returns the balance left after n payments of pmt against pv.
func FutureValue(n, rate, pv, pmt float64, c Convention) (float64, error) {
	const op = "FutureValue"
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	t := newAnnuity(n, ieff, c.Timing)
	if t.zero() {
		return finite(op, -(pv + n*pmt))
	}
	return finite(op, -(pv + t.a*(pv+pmt*t.b)))
}
