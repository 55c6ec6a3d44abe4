package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/strongo/log"

	"loan-engine/domain"
	"loan-engine/equation"
)

type DebtExitService struct{}

func NewDebtExitService() *DebtExitService {
	return &DebtExitService{}
}

// CalculateDebtExitPlan simulates paying off a set of debts month by month,
// directing every unit above the minimums to one debt at a time: the
// smallest balance first (snowball) or the highest rate first (avalanche).
// "compare" runs both and returns the cheaper one with a comparison.
func (s *DebtExitService) CalculateDebtExitPlan(
	ctx context.Context,
	input domain.DebtExitInput,
) (domain.DebtExitResult, error) {

	if len(input.Debts) == 0 {
		return domain.DebtExitResult{}, fmt.Errorf("%w: no debts given", ErrInvalidInput)
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return domain.DebtExitResult{}, fmt.Errorf("%w: number of debts exceeds the maximum of %d", ErrInvalidInput, MaxDebtsPerRequest)
	}
	if !(input.AvailableMonthlyPayment > 0) {
		return domain.DebtExitResult{}, fmt.Errorf("%w: invalid available monthly payment", ErrInvalidInput)
	}

	strategies := map[string]bool{
		"snowball":  true,
		"avalanche": true,
		"compare":   true,
	}
	if !strategies[input.Strategy] {
		return domain.DebtExitResult{}, fmt.Errorf("%w: invalid strategy %q", ErrInvalidInput, input.Strategy)
	}

	names := make(map[string]bool, len(input.Debts))
	monthsAtMinimum := make(map[string]int, len(input.Debts))
	totalMinimumPayments := 0.0
	for _, debt := range input.Debts {
		if debt.Name == "" {
			return domain.DebtExitResult{}, fmt.Errorf("%w: debt name must not be empty", ErrInvalidInput)
		}
		if names[debt.Name] {
			return domain.DebtExitResult{}, fmt.Errorf("%w: duplicate debt name %q", ErrInvalidInput, debt.Name)
		}
		names[debt.Name] = true

		months, err := validateDebt(debt)
		if err != nil {
			return domain.DebtExitResult{}, err
		}
		monthsAtMinimum[debt.Name] = months
		totalMinimumPayments += debt.MinimumPayment
	}

	if totalMinimumPayments > input.AvailableMonthlyPayment {
		return domain.DebtExitResult{}, fmt.Errorf("%w: available monthly payment %.2f does not cover the minimum payments of %.2f",
			ErrInvalidInput, input.AvailableMonthlyPayment, totalMinimumPayments)
	}

	if input.Strategy != "compare" {
		result, err := s.calculateStrategy(ctx, input, input.Strategy, monthsAtMinimum)
		if err != nil {
			return domain.DebtExitResult{}, err
		}
		return result, nil
	}

	snowball, err := s.calculateStrategy(ctx, input, "snowball", monthsAtMinimum)
	if err != nil {
		return domain.DebtExitResult{}, err
	}
	avalanche, err := s.calculateStrategy(ctx, input, "avalanche", monthsAtMinimum)
	if err != nil {
		return domain.DebtExitResult{}, err
	}

	// The cheaper plan leads; snowball wins ties
	result := snowball
	if avalanche.TotalInterestPaid < snowball.TotalInterestPaid {
		result = avalanche
	}
	result.Comparison = &domain.Comparison{
		Snowball: domain.StrategyResult{
			TotalInterestPaid: snowball.TotalInterestPaid,
			MonthsToPayoff:    snowball.MonthsToPayoff,
		},
		Avalanche: domain.StrategyResult{
			TotalInterestPaid: avalanche.TotalInterestPaid,
			MonthsToPayoff:    avalanche.MonthsToPayoff,
		},
		Savings: domain.Savings{
			InterestSaved: roundTo2Decimals(math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid)),
			MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
		},
	}
	return result, nil
}

// validateDebt checks one debt and returns how many months its minimum
// payment alone takes to retire it.
func validateDebt(debt domain.Debt) (int, error) {
	if !(debt.Amount > 0) {
		return 0, fmt.Errorf("%w: invalid amount for %s", ErrInvalidInput, debt.Name)
	}
	if debt.Amount > MaxDebtAmount {
		return 0, fmt.Errorf("%w: amount of %s exceeds the maximum of $%.2f", ErrInvalidInput, debt.Name, MaxDebtAmount)
	}
	if !(debt.InterestRate >= 0) {
		return 0, fmt.Errorf("%w: invalid interest rate for %s", ErrInvalidInput, debt.Name)
	}
	if debt.InterestRate > MaxInterestRate {
		return 0, fmt.Errorf("%w: interest rate of %s exceeds the maximum of %.2f%%", ErrInvalidInput, debt.Name, MaxInterestRate)
	}
	if !(debt.MinimumPayment > 0) {
		return 0, fmt.Errorf("%w: invalid minimum payment for %s", ErrInvalidInput, debt.Name)
	}

	rate := debt.InterestRate / 100
	interest, err := equation.InterestDue(rate, debt.Amount, -debt.MinimumPayment, monthly)
	if err != nil {
		return 0, fmt.Errorf("debt %s: %w", debt.Name, err)
	}
	// A minimum that only covers interest never retires the debt
	if debt.MinimumPayment <= interest {
		return 0, fmt.Errorf("%w: minimum payment of %s ($%.2f) does not exceed the monthly interest ($%.2f)",
			ErrInvalidInput, debt.Name, debt.MinimumPayment, interest)
	}

	n, err := equation.PayPeriods(rate, debt.Amount, -debt.MinimumPayment, 0, monthly)
	if err != nil {
		return 0, fmt.Errorf("debt %s: %w", debt.Name, err)
	}
	return int(math.Ceil(n - 1e-9)), nil
}

// payoffOrder sorts a copy of the debts into the order extra money goes to.
func payoffOrder(debts []domain.Debt, strategy string) []domain.Debt {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)

	if strategy == "snowball" {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Amount < ordered[j].Amount
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].InterestRate > ordered[j].InterestRate
		})
	}
	return ordered
}

type debtState struct {
	debt     domain.Debt
	balance  float64
	interest float64
	paidOff  int

	// this month
	accrued float64
	due     float64
	payment float64
}

func (s *DebtExitService) calculateStrategy(
	ctx context.Context,
	input domain.DebtExitInput,
	strategy string,
	monthsAtMinimum map[string]int,
) (domain.DebtExitResult, error) {

	states := []*debtState{}
	for _, debt := range payoffOrder(input.Debts, strategy) {
		states = append(states, &debtState{debt: debt, balance: debt.Amount})
	}

	monthlyPlan := []domain.MonthlyPlan{}
	totalInterestPaid := 0.0
	month := 0

	for {
		month++
		if month > MaxDebtPayoffMonths {
			log.Warningf(ctx, "Warning: %s plan for %d debts did not finish within %d months", strategy, len(states), MaxDebtPayoffMonths)
			return domain.DebtExitResult{}, fmt.Errorf("%w: %s plan needs more than %d months", ErrPayoffTooLong, strategy, MaxDebtPayoffMonths)
		}

		active := []*debtState{}
		for _, st := range states {
			if st.paidOff == 0 {
				active = append(active, st)
			}
		}

		// First pass: interest accrues and every active debt gets its minimum
		available := input.AvailableMonthlyPayment
		for _, st := range active {
			accrued, err := equation.InterestDue(st.debt.InterestRate/100, st.balance, 0, monthly)
			if err != nil {
				return domain.DebtExitResult{}, fmt.Errorf("debt %s month %d: %w", st.debt.Name, month, err)
			}
			st.accrued = accrued
			st.due = st.balance + accrued
			st.payment = math.Min(math.Min(st.debt.MinimumPayment, st.due), available)
			available -= st.payment
		}

		// Second pass: the surplus goes down the payoff order
		for _, st := range active {
			if available <= 0 {
				break
			}
			extra := math.Min(st.due-st.payment, available)
			st.payment += extra
			available -= extra
		}

		payments := make([]domain.MonthlyPayment, 0, len(active))
		totalPaid := 0.0
		for _, st := range active {
			principal, err := equation.PrincipalPaid(st.debt.InterestRate/100, st.balance, -st.payment, monthly)
			if err != nil {
				return domain.DebtExitResult{}, fmt.Errorf("debt %s month %d: %w", st.debt.Name, month, err)
			}
			st.balance += principal
			if st.balance <= DebtBalanceTolerance {
				st.balance = 0
				st.paidOff = month
			}
			st.interest += st.accrued
			totalInterestPaid += st.accrued
			totalPaid += st.payment

			payments = append(payments, domain.MonthlyPayment{
				DebtName:         st.debt.Name,
				Payment:          roundTo2Decimals(st.payment),
				Interest:         roundTo2Decimals(st.accrued),
				RemainingBalance: roundTo2Decimals(st.balance),
			})
		}

		monthlyPlan = append(monthlyPlan, domain.MonthlyPlan{
			Month:     month,
			Payments:  payments,
			TotalPaid: roundTo2Decimals(totalPaid),
		})

		allPaid := true
		for _, st := range states {
			if st.paidOff == 0 {
				allPaid = false
				break
			}
		}
		if allPaid {
			break
		}
	}

	totalDebt := 0.0
	summaries := make([]domain.DebtSummary, 0, len(input.Debts))
	byName := make(map[string]*debtState, len(states))
	for _, st := range states {
		byName[st.debt.Name] = st
	}
	slowest := 0
	for _, debt := range input.Debts {
		st := byName[debt.Name]
		totalDebt += debt.Amount
		slowest = max(slowest, monthsAtMinimum[debt.Name])
		summaries = append(summaries, domain.DebtSummary{
			Name:            debt.Name,
			PaidOffMonth:    st.paidOff,
			InterestPaid:    roundTo2Decimals(st.interest),
			MonthsAtMinimum: monthsAtMinimum[debt.Name],
		})
	}

	log.Debugf(ctx, "%s plan retires %.2f across %d debts in %d months", strategy, totalDebt, len(states), month)

	return domain.DebtExitResult{
		Strategy:          strategy,
		TotalDebt:         roundTo2Decimals(totalDebt),
		TotalInterestPaid: roundTo2Decimals(totalInterestPaid),
		MonthsToPayoff:    month,
		MonthsAtMinimums:  slowest,
		Debts:             summaries,
		MonthlyPlan:       monthlyPlan,
	}, nil
}
