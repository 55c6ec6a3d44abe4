package equation

// Installment is one period of an amortization schedule. Amounts follow the
// engine's sign convention: with a positive balance, Payment and Principal
// are negative and Interest is positive.
type Installment struct {
	Period    int
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64 // outstanding after the period
}

// InterestDue returns the interest accrued over one payment period on
// balance pv, given a payment pmt made at the convention's timing.
func InterestDue(rate, pv, pmt float64, c Convention) (float64, error) {
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	return interestAt(ieff, pv, pmt, c.Timing), nil
}

// PrincipalPaid returns the change in principal caused by one payment:
// the payment plus the interest it has to cover.
func PrincipalPaid(rate, pv, pmt float64, c Convention) (float64, error) {
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return 0, err
	}
	return pmt + interestAt(ieff, pv, pmt, c.Timing), nil
}

// Schedule splits each of the given number of payments of pmt against pv
// into interest and principal.
func Schedule(periods int, rate, pv, pmt float64, c Convention) ([]Installment, error) {
	if periods <= 0 {
		return nil, domainErrorf("Schedule", "number of periods must be positive, got %d", periods)
	}
	ieff, err := EffectiveRate(rate, c)
	if err != nil {
		return nil, err
	}

	out := make([]Installment, 0, periods)
	balance := pv
	for k := 1; k <= periods; k++ {
		interest := interestAt(ieff, balance, pmt, c.Timing)
		principal := pmt + interest
		balance += principal
		out = append(out, Installment{
			Period:    k,
			Payment:   pmt,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}
	return out, nil
}

func interestAt(ieff, pv, pmt, timing float64) float64 {
	return (pv + timing*pmt) * ieff
}
