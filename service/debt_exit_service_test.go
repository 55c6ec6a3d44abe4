package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"loan-engine/domain"
	"loan-engine/equation"
)

func TestDebtExitPlan_SingleDebtFollowsSchedule(t *testing.T) {
	service := NewDebtExitService()

	result, err := service.CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts: []domain.Debt{
			{Name: "loan", Amount: 1000, InterestRate: 12, MinimumPayment: 100},
		},
		AvailableMonthlyPayment: 100,
		Strategy:                "snowball",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MonthsToPayoff != 11 {
		t.Fatalf("expected 11 months, got %d", result.MonthsToPayoff)
	}
	if result.MonthsAtMinimums != 11 || result.Debts[0].MonthsAtMinimum != 11 {
		t.Errorf("expected 11 months at the minimum, got %d", result.MonthsAtMinimums)
	}

	installments, err := equation.Schedule(10, 0.12, 1000, -100, monthly)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	for i, inst := range installments {
		got := result.MonthlyPlan[i].Payments[0]
		if math.Abs(got.RemainingBalance-inst.Balance) > 0.006 {
			t.Errorf("month %d: expected balance %.2f, got %.2f", i+1, inst.Balance, got.RemainingBalance)
		}
		if math.Abs(got.Interest-inst.Interest) > 0.006 {
			t.Errorf("month %d: expected interest %.2f, got %.2f", i+1, inst.Interest, got.Interest)
		}
	}

	last := result.MonthlyPlan[10].Payments[0]
	if math.Abs(last.Payment-58.98) > 0.011 || last.RemainingBalance != 0 {
		t.Errorf("unexpected final payment %+v", last)
	}
	if math.Abs(result.TotalInterestPaid-58.98) > 0.011 {
		t.Errorf("expected 58.98 interest, got %.2f", result.TotalInterestPaid)
	}
}

func TestDebtExitPlan_StrategyOrder(t *testing.T) {
	service := NewDebtExitService()
	debts := []domain.Debt{
		{Name: "card", Amount: 2000, InterestRate: 24, MinimumPayment: 60},
		{Name: "car", Amount: 500, InterestRate: 6, MinimumPayment: 50},
	}

	tests := []struct {
		strategy string
		payments map[string]float64
		interest float64
	}{
		{"snowball", map[string]float64{"car": 240, "card": 60}, 248.58},
		{"avalanche", map[string]float64{"card": 250, "car": 50}, 215.45},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			result, err := service.CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
				Debts:                   debts,
				AvailableMonthlyPayment: 300,
				Strategy:                tt.strategy,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, p := range result.MonthlyPlan[0].Payments {
				if math.Abs(p.Payment-tt.payments[p.DebtName]) > 0.001 {
					t.Errorf("month 1: expected %s to get %.2f, got %.2f", p.DebtName, tt.payments[p.DebtName], p.Payment)
				}
			}
			if result.MonthlyPlan[0].TotalPaid != 300 {
				t.Errorf("month 1: expected 300 paid, got %.2f", result.MonthlyPlan[0].TotalPaid)
			}
			if math.Abs(result.TotalInterestPaid-tt.interest) > 0.011 {
				t.Errorf("expected %.2f interest, got %.2f", tt.interest, result.TotalInterestPaid)
			}
			if result.MonthsToPayoff != 10 {
				t.Errorf("expected 10 months, got %d", result.MonthsToPayoff)
			}
			if result.Comparison != nil {
				t.Error("expected no comparison for a single strategy")
			}
		})
	}
}

func TestDebtExitPlan_Compare(t *testing.T) {
	service := NewDebtExitService()

	result, err := service.CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts: []domain.Debt{
			{Name: "card", Amount: 2000, InterestRate: 24, MinimumPayment: 60},
			{Name: "car", Amount: 500, InterestRate: 6, MinimumPayment: 50},
		},
		AvailableMonthlyPayment: 300,
		Strategy:                "compare",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Strategy != "avalanche" {
		t.Errorf("expected avalanche to lead, got %s", result.Strategy)
	}
	if result.Comparison == nil {
		t.Fatal("expected a comparison")
	}
	if math.Abs(result.Comparison.Savings.InterestSaved-33.13) > 0.011 {
		t.Errorf("expected 33.13 saved, got %.2f", result.Comparison.Savings.InterestSaved)
	}
	if result.Comparison.Savings.MonthsSaved != 0 {
		t.Errorf("expected no months saved, got %d", result.Comparison.Savings.MonthsSaved)
	}
	if result.TotalDebt != 2500 {
		t.Errorf("expected total debt 2500, got %.2f", result.TotalDebt)
	}
	// Summaries keep the input order
	if result.Debts[0].Name != "card" || result.Debts[1].Name != "car" {
		t.Errorf("unexpected summary order %+v", result.Debts)
	}
}

func TestDebtExitPlan_SurplusCascades(t *testing.T) {
	service := NewDebtExitService()

	result, err := service.CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts: []domain.Debt{
			{Name: "big", Amount: 1000, InterestRate: 0, MinimumPayment: 10},
			{Name: "small", Amount: 100, InterestRate: 0, MinimumPayment: 10},
		},
		AvailableMonthlyPayment: 300,
		Strategy:                "snowball",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// small is retired in month 1 and what it leaves over goes to big
	first := result.MonthlyPlan[0].Payments
	if first[0].DebtName != "small" || first[0].Payment != 100 {
		t.Errorf("unexpected first payment %+v", first[0])
	}
	if first[1].DebtName != "big" || first[1].Payment != 200 {
		t.Errorf("unexpected second payment %+v", first[1])
	}
	if result.MonthsToPayoff != 4 {
		t.Errorf("expected 4 months, got %d", result.MonthsToPayoff)
	}
	if result.TotalInterestPaid != 0 {
		t.Errorf("expected no interest, got %.2f", result.TotalInterestPaid)
	}
	if result.Debts[1].PaidOffMonth != 1 || result.Debts[0].PaidOffMonth != 4 {
		t.Errorf("unexpected payoff months %+v", result.Debts)
	}
	if result.Debts[0].MonthsAtMinimum != 100 {
		t.Errorf("expected 100 months at the minimum, got %d", result.Debts[0].MonthsAtMinimum)
	}
}

func TestDebtExitPlan_TooLong(t *testing.T) {
	service := NewDebtExitService()

	_, err := service.CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts: []domain.Debt{
			{Name: "mortgage", Amount: 100000, InterestRate: 12, MinimumPayment: 1000.5},
		},
		AvailableMonthlyPayment: 1000.5,
		Strategy:                "avalanche",
	})
	if !errors.Is(err, ErrPayoffTooLong) {
		t.Fatalf("expected ErrPayoffTooLong, got %v", err)
	}
}

func TestDebtExitPlan_InvalidInput(t *testing.T) {
	service := NewDebtExitService()
	valid := domain.Debt{Name: "card", Amount: 1000, InterestRate: 12, MinimumPayment: 50}

	tests := []struct {
		name  string
		input domain.DebtExitInput
	}{
		{"no debts", domain.DebtExitInput{AvailableMonthlyPayment: 100, Strategy: "snowball"}},
		{"no budget", domain.DebtExitInput{Debts: []domain.Debt{valid}, Strategy: "snowball"}},
		{"unknown strategy", domain.DebtExitInput{Debts: []domain.Debt{valid}, AvailableMonthlyPayment: 100, Strategy: "random"}},
		{"empty name", domain.DebtExitInput{
			Debts:                   []domain.Debt{{Amount: 1000, InterestRate: 12, MinimumPayment: 50}},
			AvailableMonthlyPayment: 100, Strategy: "snowball",
		}},
		{"duplicate name", domain.DebtExitInput{
			Debts:                   []domain.Debt{valid, valid},
			AvailableMonthlyPayment: 200, Strategy: "snowball",
		}},
		{"amount too large", domain.DebtExitInput{
			Debts:                   []domain.Debt{{Name: "x", Amount: MaxDebtAmount * 2, InterestRate: 1, MinimumPayment: 1e6}},
			AvailableMonthlyPayment: 2e6, Strategy: "snowball",
		}},
		{"negative rate", domain.DebtExitInput{
			Debts:                   []domain.Debt{{Name: "x", Amount: 1000, InterestRate: -1, MinimumPayment: 50}},
			AvailableMonthlyPayment: 100, Strategy: "snowball",
		}},
		{"minimum only covers interest", domain.DebtExitInput{
			Debts:                   []domain.Debt{{Name: "x", Amount: 1000, InterestRate: 12, MinimumPayment: 5}},
			AvailableMonthlyPayment: 100, Strategy: "snowball",
		}},
		{"minimums exceed budget", domain.DebtExitInput{
			Debts:                   []domain.Debt{valid, {Name: "car", Amount: 500, InterestRate: 6, MinimumPayment: 60}},
			AvailableMonthlyPayment: 100, Strategy: "compare",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CalculateDebtExitPlan(context.Background(), tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
