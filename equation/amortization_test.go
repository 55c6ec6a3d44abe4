package equation

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestInterestDue_PrincipalPaid(t *testing.T) {
	for _, c := range []Convention{
		monthly,
		{CompoundingFreq: 12, PaymentFreq: 12, Timing: 1},
		{CompoundingFreq: 12, PaymentFreq: 12, Timing: 0.5},
	} {
		is := is.New(t)
		const pv, pmt = 200000.0, -1199.10

		interest, err := InterestDue(0.06, pv, pmt, c)
		is.NoErr(err)
		principal, err := PrincipalPaid(0.06, pv, pmt, c)
		is.NoErr(err)

		ieff, err := EffectiveRate(0.06, c)
		is.NoErr(err)

		is.True(math.Abs(interest-(pv+c.Timing*pmt)*ieff) < 1e-9)
		is.True(math.Abs((principal-pmt)-interest) < 1e-9)
		is.True(math.Abs((interest+principal)-(2*interest+pmt)) < 1e-9)
	}
}

func TestInterestDue_OrdinaryAnnuity(t *testing.T) {
	is := is.New(t)
	interest, err := InterestDue(0.12, 100000, -1500, monthly)
	is.NoErr(err)
	is.True(math.Abs(interest-1000) < 1e-6)

	principal, err := PrincipalPaid(0.12, 100000, -1500, monthly)
	is.NoErr(err)
	is.True(math.Abs(principal+500) < 1e-6)
}

func TestSchedule_FullyAmortizes(t *testing.T) {
	for _, c := range []Convention{
		monthly,
		{CompoundingFreq: 12, PaymentFreq: 12, Timing: 1},
	} {
		is := is.New(t)
		pmt, err := PeriodicPayment(360, 0.06, 200000, 0, c)
		is.NoErr(err)

		rows, err := Schedule(360, 0.06, 200000, pmt, c)
		is.NoErr(err)
		is.Equal(len(rows), 360)
		is.Equal(rows[0].Period, 1)

		var interest, principal float64
		for _, r := range rows {
			interest += r.Interest
			principal += r.Principal
		}
		is.True(math.Abs(rows[359].Balance) < 1e-4)          // paid off
		is.True(math.Abs(principal+200000) < 1e-4)           // principal retired
		is.True(math.Abs(interest-(-360*pmt-200000)) < 1e-4) // interest is the rest of the payments
	}
}

func TestSchedule_InvalidPeriods(t *testing.T) {
	_, err := Schedule(0, 0.05, 1000, -100, monthly)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *DomainError, got %v", err)
	}
}
