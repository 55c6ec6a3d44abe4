package equation

// Residual evaluates the loan balance equation
//
//	R = A*(PV + PMT*B) + PV + FV
//
// which is zero exactly when the parameters are mutually consistent.
func Residual(n, rate, pv, pmt, fv float64, c Convention) (float64, error) {
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	return finite("Residual", residualAt(n, ieff, pv, pmt, fv, c.Timing))
}

// Derivative returns dR/d(ieff), the slope of Residual with respect to the
// effective per-period rate, at the effective rate of the given nominal rate.
func Derivative(n, rate, pv, pmt float64, c Convention) (float64, error) {
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	return finite("Derivative", derivativeAt(n, ieff, pv, pmt, c.Timing))
}

func residualAt(n, ieff, pv, pmt, fv, timing float64) float64 {
	t := newAnnuity(n, ieff, timing)
	if t.zero() {
		return pv + fv + n*pmt
	}
	return t.a*(pv+pmt*t.b) + pv + fv
}

// derivativeAt differentiates residualAt. With D = (A+1)/(1+ieff) and
// dB/d(ieff) = -1/ieff², the slope is n*D*(PV+C) - A*PMT/ieff².
func derivativeAt(n, ieff, pv, pmt, timing float64) float64 {
	t := newAnnuity(n, ieff, timing)
	if t.zero() {
		return n*pv + pmt*(n*(n-1)/2+n*timing)
	}
	d := (t.a + 1) / (1 + ieff)
	return n*d*(pv+pmt*t.b) - t.a*pmt/(ieff*ieff)
}
