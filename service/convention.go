package service

import (
	"fmt"
	"math"

	"loan-engine/domain"
	"loan-engine/equation"
)

// monthly is the convention behind the amount/rate/term endpoints: monthly
// payments at the end of each month, compounded monthly.
var monthly = equation.Convention{CompoundingFreq: 12, PaymentFreq: 12}

func toConvention(c domain.Convention) (equation.Convention, error) {
	if c.PaymentFreq <= 0 || c.PaymentFreq > MaxFrequency {
		return equation.Convention{}, fmt.Errorf("%w: payment frequency must be between 1 and %d", ErrInvalidInput, MaxFrequency)
	}
	if !c.Continuous && (c.CompoundingFreq <= 0 || c.CompoundingFreq > MaxFrequency) {
		return equation.Convention{}, fmt.Errorf("%w: compounding frequency must be between 1 and %d", ErrInvalidInput, MaxFrequency)
	}
	if !(c.Timing >= 0 && c.Timing <= 1) {
		return equation.Convention{}, fmt.Errorf("%w: timing must be between 0 and 1", ErrInvalidInput)
	}
	return equation.Convention{
		Continuous:      c.Continuous,
		CompoundingFreq: c.CompoundingFreq,
		PaymentFreq:     c.PaymentFreq,
		Timing:          c.Timing,
	}, nil
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.Abs(v) > MaxLoanAmount {
		return fmt.Errorf("%w: %s must not exceed %.2f in magnitude", ErrInvalidInput, name, MaxLoanAmount)
	}
	return nil
}

func checkRate(v float64) error {
	if math.IsNaN(v) || math.Abs(v) > MaxNominalRate {
		return fmt.Errorf("%w: rate must not exceed %g in magnitude", ErrInvalidInput, MaxNominalRate)
	}
	return nil
}

func checkPeriods(v float64) error {
	if !(v > 0 && v <= MaxPeriods) {
		return fmt.Errorf("%w: periods must be between 0 and %d", ErrInvalidInput, MaxPeriods)
	}
	return nil
}
