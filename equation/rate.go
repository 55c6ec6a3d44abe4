// Package equation holds the loan balance equation and the closed-form
// relationships between its parameters: number of periods, nominal rate,
// present value, periodic payment and future value.
//
// Every function is a pure mapping from its arguments to a scalar. Payments
// carry the opposite sign to the present value.
package equation

import "math"

// zeroRate is the effective-rate magnitude under which the annuity formulas
// are replaced by their linear limits.
const zeroRate = 1e-12

// Convention describes how a nominal annual rate is compounded and when in a
// period payments fall.
type Convention struct {
	Continuous      bool
	CompoundingFreq int     // compounding periods per year, ignored when Continuous
	PaymentFreq     int     // payments per year
	Timing          float64 // 0 pays at the end of the period, 1 at the start
}

func (c Convention) validate(op string) error {
	if c.PaymentFreq <= 0 {
		return domainErrorf(op, "payment frequency must be positive, got %d", c.PaymentFreq)
	}
	if !c.Continuous && c.CompoundingFreq <= 0 {
		return domainErrorf(op, "compounding frequency must be positive, got %d", c.CompoundingFreq)
	}
	return nil
}

// EffectiveRate converts a nominal annual rate into the rate realised over
// one payment period.
func EffectiveRate(nominal float64, c Convention) (float64, error) {
	const op = "EffectiveRate"
	if err := c.validate(op); err != nil {
		return 0, err
	}
	pf := float64(c.PaymentFreq)
	if c.Continuous {
		return finite(op, math.Expm1(nominal/pf))
	}
	cf := float64(c.CompoundingFreq)
	base := 1 + nominal/cf
	if base <= 0 {
		return 0, domainErrorf(op, "1+rate/CF = %g is not positive", base)
	}
	return finite(op, math.Pow(base, cf/pf)-1)
}

// NominalRate is the inverse of EffectiveRate for the same convention.
func NominalRate(effective float64, c Convention) (float64, error) {
	const op = "NominalRate"
	if err := c.validate(op); err != nil {
		return 0, err
	}
	if 1+effective <= 0 {
		return 0, domainErrorf(op, "1+effective rate = %g is not positive", 1+effective)
	}
	pf := float64(c.PaymentFreq)
	if c.Continuous {
		return finite(op, pf*math.Log1p(effective))
	}
	cf := float64(c.CompoundingFreq)
	return finite(op, cf*(math.Pow(1+effective, pf/cf)-1))
}

func isZeroRate(ieff float64) bool {
	return math.Abs(ieff) < zeroRate
}

func finite(op string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domainErrorf(op, "result %g is not a finite real number", v)
	}
	return v, nil
}
