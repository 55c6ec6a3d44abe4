package domain

// Debt is one balance in a payoff plan. InterestRate is an annual
// percentage compounded monthly.
type Debt struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
}

type DebtExitInput struct {
	Debts                   []Debt  `json:"debts"`
	AvailableMonthlyPayment float64 `json:"available_monthly_payment"`
	Strategy                string  `json:"strategy"` // "snowball", "avalanche", "compare"
}

type MonthlyPayment struct {
	DebtName         string  `json:"debt_name"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type MonthlyPlan struct {
	Month     int              `json:"month"`
	Payments  []MonthlyPayment `json:"payments"`
	TotalPaid float64          `json:"total_paid"`
}

// DebtSummary compares a debt's payoff under the plan with paying only its
// minimum.
type DebtSummary struct {
	Name            string  `json:"name"`
	PaidOffMonth    int     `json:"paid_off_month"`
	InterestPaid    float64 `json:"interest_paid"`
	MonthsAtMinimum int     `json:"months_at_minimum"`
}

type StrategyResult struct {
	TotalInterestPaid float64 `json:"total_interest_paid"`
	MonthsToPayoff    int     `json:"months_to_payoff"`
}

type Savings struct {
	InterestSaved float64 `json:"interest_saved"`
	MonthsSaved   int     `json:"months_saved"`
}

type Comparison struct {
	Snowball  StrategyResult `json:"snowball"`
	Avalanche StrategyResult `json:"avalanche"`
	Savings   Savings        `json:"savings"`
}

type DebtExitResult struct {
	Strategy          string        `json:"strategy"`
	TotalDebt         float64       `json:"total_debt"`
	TotalInterestPaid float64       `json:"total_interest_paid"`
	MonthsToPayoff    int           `json:"months_to_payoff"`
	MonthsAtMinimums  int           `json:"months_at_minimums"`
	Debts             []DebtSummary `json:"debts"`
	MonthlyPlan       []MonthlyPlan `json:"monthly_plan"`
	Comparison        *Comparison   `json:"comparison,omitempty"`
}
