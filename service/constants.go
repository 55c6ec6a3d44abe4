package service

const (
	MaxLoanAmount   = 1_000_000_000.0 // one billion
	MaxInterestRate = 1000.0          // 1000% per year
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1

	// Debt exit plan limits
	MaxDebtAmount        = 100_000_000.0 // one hundred million
	MaxDebtsPerRequest   = 50
	MaxDebtPayoffMonths  = 600  // 50 years
	DebtBalanceTolerance = 0.01 // a balance at or under this is paid off

	// Term recommendation limits
	MaxTermRangeMonths = 120 // widest term range evaluated (10 years)

	// Limits for the general equation endpoints.
	MaxPeriods      = 100_000
	MaxFrequency    = 8760 // hourly
	MaxScheduleRows = 1200
	MaxNominalRate  = 10.0 // as a fraction, 1000% p.a.
)
