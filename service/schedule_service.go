package service

import (
	"context"
	"fmt"

	"github.com/strongo/decimal"
	"github.com/strongo/log"

	"loan-engine/domain"
	"loan-engine/equation"
)

// Schedule builds the amortization table of a loan, rounded to cents.
func (s *LoanService) Schedule(
	ctx context.Context,
	req domain.ScheduleRequest,
) (domain.ScheduleResult, error) {

	if req.Periods <= 0 || req.Periods > MaxScheduleRows {
		return domain.ScheduleResult{}, fmt.Errorf("%w: periods must be between 1 and %d", ErrInvalidInput, MaxScheduleRows)
	}
	if err := checkRate(req.Rate); err != nil {
		return domain.ScheduleResult{}, err
	}
	if req.PresentValue == 0 {
		return domain.ScheduleResult{}, fmt.Errorf("%w: present_value must not be zero", ErrInvalidInput)
	}
	if err := checkAmount("present_value", req.PresentValue); err != nil {
		return domain.ScheduleResult{}, err
	}
	if err := checkAmount("payment", req.Payment); err != nil {
		return domain.ScheduleResult{}, err
	}
	c, err := toConvention(req.Convention)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	pmt := req.Payment
	if pmt == 0 {
		if pmt, err = equation.PeriodicPayment(float64(req.Periods), req.Rate, req.PresentValue, 0, c); err != nil {
			return domain.ScheduleResult{}, fmt.Errorf("schedule: %w", err)
		}
		log.Debugf(ctx, "schedule: derived payment %g for %d periods", pmt, req.Periods)
	}

	rows, err := equation.Schedule(req.Periods, req.Rate, req.PresentValue, pmt, c)
	if err != nil {
		return domain.ScheduleResult{}, fmt.Errorf("schedule: %w", err)
	}

	var totalInterest, totalPrincipal decimal.Decimal64p2
	installments := make([]domain.Installment, len(rows))
	for i, row := range rows {
		interest := decimal.NewDecimal64p2FromFloat64(row.Interest)
		principal := decimal.NewDecimal64p2FromFloat64(row.Principal)
		totalInterest += interest
		totalPrincipal += principal
		installments[i] = domain.Installment{
			Period:    row.Period,
			Payment:   roundTo2Decimals(row.Payment),
			Interest:  interest.AsFloat64(),
			Principal: principal.AsFloat64(),
			Balance:   roundTo2Decimals(row.Balance),
		}
	}

	return domain.ScheduleResult{
		Payment:        roundTo2Decimals(pmt),
		TotalInterest:  totalInterest.AsFloat64(),
		TotalPrincipal: totalPrincipal.AsFloat64(),
		Installments:   installments,
	}, nil
}
