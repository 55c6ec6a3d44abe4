package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"loan-engine/domain"
)

func TestSchedule_DerivesPayment(t *testing.T) {
	service := NewLoanService(newSpyCache())

	result, err := service.Schedule(context.Background(), domain.ScheduleRequest{
		Periods:      12,
		Rate:         0.12,
		PresentValue: 1200,
		Convention:   monthlyRequest,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Installments) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(result.Installments))
	}
	if math.Abs(result.Payment+106.62) > 0.011 {
		t.Errorf("expected payment -106.62, got %v", result.Payment)
	}
	first := result.Installments[0]
	if first.Period != 1 || math.Abs(first.Interest-12) > 0.011 {
		t.Errorf("unexpected first installment %+v", first)
	}
	last := result.Installments[11]
	if math.Abs(last.Balance) > 0.011 {
		t.Errorf("expected the loan to be paid off, balance %v", last.Balance)
	}
	if math.Abs(result.TotalPrincipal+1200) > 0.1 {
		t.Errorf("expected total principal -1200, got %v", result.TotalPrincipal)
	}
	if math.Abs(result.TotalInterest-79.42) > 0.1 {
		t.Errorf("expected total interest 79.42, got %v", result.TotalInterest)
	}
}

func TestSchedule_GivenPaymentLeavesBalance(t *testing.T) {
	service := NewLoanService(newSpyCache())

	result, err := service.Schedule(context.Background(), domain.ScheduleRequest{
		Periods:      6,
		Rate:         0,
		PresentValue: 1200,
		Payment:      -100,
		Convention:   monthlyRequest,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Installments[5].Balance; got != 600 {
		t.Errorf("expected 600 left, got %v", got)
	}
	if result.TotalInterest != 0 {
		t.Errorf("expected no interest, got %v", result.TotalInterest)
	}
}

func TestSchedule_InvalidInput(t *testing.T) {
	service := NewLoanService(newSpyCache())

	for name, req := range map[string]domain.ScheduleRequest{
		"no periods":    {Rate: 0.1, PresentValue: 1000, Convention: monthlyRequest},
		"too many rows": {Periods: MaxScheduleRows + 1, Rate: 0.1, PresentValue: 1000, Convention: monthlyRequest},
		"no principal":  {Periods: 12, Rate: 0.1, Convention: monthlyRequest},
		"no frequency":  {Periods: 12, Rate: 0.1, PresentValue: 1000},
	} {
		_, err := service.Schedule(context.Background(), req)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}
