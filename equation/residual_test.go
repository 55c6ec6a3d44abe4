package equation

import (
	"math"
	"testing"
)

func TestDerivative_MatchesFiniteDifference(t *testing.T) {
	const h = 1e-7
	for _, tc := range []struct {
		name   string
		n      float64
		ieff   float64
		pv     float64
		pmt    float64
		fv     float64
		timing float64
	}{
		{name: "ordinary annuity", n: 360, ieff: 0.004, pv: 200000, pmt: -1200},
		{name: "mid period", n: 360, ieff: 0.004, pv: 200000, pmt: -1200, timing: 0.5},
		{name: "annuity due", n: 360, ieff: 0.004, pv: 200000, pmt: -1200, timing: 1},
		{name: "balloon", n: 84, ieff: 0.006, pv: 150000, pmt: -1800, fv: -50000},
		{name: "savings", n: 60, ieff: 0.003, pmt: -100, fv: 6800},
	} {
		t.Run(tc.name, func(t *testing.T) {
			analytic := derivativeAt(tc.n, tc.ieff, tc.pv, tc.pmt, tc.timing)
			numeric := (residualAt(tc.n, tc.ieff+h, tc.pv, tc.pmt, tc.fv, tc.timing) -
				residualAt(tc.n, tc.ieff-h, tc.pv, tc.pmt, tc.fv, tc.timing)) / (2 * h)
			if math.Abs(analytic-numeric) > 1e-6*math.Abs(numeric) {
				t.Errorf("analytic %v, finite difference %v", analytic, numeric)
			}
		})
	}
}

func TestDerivative_ZeroRateLimit(t *testing.T) {
	const h = 1e-6
	analytic := derivativeAt(24, 0, 1000, -50, 0.5)
	if analytic != 9600 {
		t.Fatalf("expected 9600, got %v", analytic)
	}
	numeric := (residualAt(24, h, 1000, -50, 0, 0.5) - residualAt(24, -h, 1000, -50, 0, 0.5)) / (2 * h)
	if math.Abs(analytic-numeric) > 1e-4 {
		t.Errorf("limit %v disagrees with finite difference %v", analytic, numeric)
	}
}

func TestResidual_NominalRateArgument(t *testing.T) {
	pmt, err := PeriodicPayment(120, 0.05, 80000, 0, monthly)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Residual(120, 0.05, 80000, pmt, 0, monthly)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r) > 1e-6 {
		t.Errorf("expected zero residual, got %v", r)
	}
	off, err := Residual(120, 0.06, 80000, pmt, 0, monthly)
	if err != nil {
		t.Fatal(err)
	}
	if off <= 0 {
		t.Errorf("a higher rate should leave a positive balance, got %v", off)
	}

	ieff, _ := EffectiveRate(0.05, monthly)
	d, err := Derivative(120, 0.05, 80000, pmt, monthly)
	if err != nil {
		t.Fatal(err)
	}
	if d != derivativeAt(120, ieff, 80000, pmt, 0) {
		t.Errorf("Derivative should evaluate at the effective rate")
	}
}
