package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sanity-io/litter"
	"github.com/strongo/decimal"
	"github.com/strongo/log"

	"loan-engine/domain"
	"loan-engine/equation"
	"loan-engine/repository"
)

// roundTo2Decimals rounds a float64 to cents.
func roundTo2Decimals(value float64) float64 {
	return decimal.NewDecimal64p2FromFloat64(value).AsFloat64()
}

type LoanService struct {
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	solverOpts []equation.SolverOption
}

type Option func(*LoanService)

// WithCacheTTL sets how long solved results stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *LoanService) { s.cacheTTL = ttl }
}

// WithSolverOptions forwards options to every rate solve.
func WithSolverOptions(opts ...equation.SolverOption) Option {
	return func(s *LoanService) { s.solverOpts = append(s.solverOpts, opts...) }
}

// NewLoanService creates a new LoanService caching results in cache.
func NewLoanService(cache repository.CacheRepository, opts ...Option) *LoanService {
	s := &LoanService{cache: cache, cacheTTL: time.Hour}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateLoan calculates the monthly payment of a fully amortizing loan.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {

	if input.Amount <= 0 {
		return domain.LoanResult{}, fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	}
	if input.Amount > MaxLoanAmount {
		return domain.LoanResult{}, fmt.Errorf("%w: amount exceeds the maximum of $%.2f", ErrInvalidInput, MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.LoanResult{}, fmt.Errorf("%w: invalid interest rate", ErrInvalidInput)
	}
	if input.InterestRate > MaxInterestRate {
		return domain.LoanResult{}, fmt.Errorf("%w: interest rate exceeds the maximum of %.2f%%", ErrInvalidInput, MaxInterestRate)
	}
	if input.TermMonths < MinTermMonths {
		return domain.LoanResult{}, fmt.Errorf("%w: invalid term", ErrInvalidInput)
	}
	if input.TermMonths > MaxTermMonths {
		return domain.LoanResult{}, fmt.Errorf("%w: term exceeds the maximum of %d months", ErrInvalidInput, MaxTermMonths)
	}

	n := float64(input.TermMonths)
	pmt, err := equation.PeriodicPayment(n, input.InterestRate/100, input.Amount, 0, monthly)
	if err != nil {
		return domain.LoanResult{}, fmt.Errorf("calculate loan: %w", err)
	}

	payment := -pmt
	total := payment * n
	interest := total - input.Amount

	return domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(interest),
	}, nil
}

// Solve computes the parameter named by req.Unknown from the other four.
func (s *LoanService) Solve(
	ctx context.Context,
	req domain.SolveRequest,
) (domain.SolveResult, error) {

	req, err := normalizeSolve(req)
	if err != nil {
		return domain.SolveResult{}, err
	}
	c, err := toConvention(req.Convention)
	if err != nil {
		return domain.SolveResult{}, err
	}

	key := solveCacheKey(req)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.SolveResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			log.Debugf(ctx, "cache hit %s", key)
			return result, nil
		}
		log.Warningf(ctx, "Warning: discarding unreadable cache entry %s", key)
	}

	result, err := s.solve(req, c)
	if err != nil {
		log.Infof(ctx, "solve %s failed: %v, request: %v", req.Unknown, err, litter.Sdump(req))
		return domain.SolveResult{}, fmt.Errorf("solve %s: %w", req.Unknown, err)
	}
	log.Debugf(ctx, "solved %s = %g (effective rate %g)", req.Unknown, result.Value, result.EffectiveRate)

	// Cache the result; a failed write is not fatal
	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			log.Warningf(ctx, "Warning: failed to cache %s: %v", key, err)
		}
	}
	return result, nil
}

func (s *LoanService) solve(req domain.SolveRequest, c equation.Convention) (domain.SolveResult, error) {
	result := domain.SolveResult{Unknown: req.Unknown}

	var err error
	switch req.Unknown {
	case domain.UnknownPeriods:
		result.Value, err = equation.PayPeriods(req.Rate, req.PresentValue, req.Payment, req.FutureValue, c)
	case domain.UnknownPresentValue:
		result.Value, err = equation.PresentValue(req.Periods, req.Rate, req.Payment, req.FutureValue, c)
	case domain.UnknownPayment:
		result.Value, err = equation.PeriodicPayment(req.Periods, req.Rate, req.PresentValue, req.FutureValue, c)
	case domain.UnknownFutureValue:
		result.Value, err = equation.FutureValue(req.Periods, req.Rate, req.PresentValue, req.Payment, c)
	case domain.UnknownRate:
		result.Value, err = equation.SolveNominalRate(req.Periods, req.PresentValue, req.Payment, req.FutureValue, c, s.solverOpts...)
		result.Iterative = req.Payment != 0
	}
	if err != nil {
		return domain.SolveResult{}, err
	}

	rate := req.Rate
	if req.Unknown == domain.UnknownRate {
		rate = result.Value
	}
	if result.EffectiveRate, err = equation.EffectiveRate(rate, c); err != nil {
		return domain.SolveResult{}, err
	}
	return result, nil
}

// normalizeSolve validates the known parameters and zeroes the unknown one,
// so requests differing only in the ignored field share a cache entry.
func normalizeSolve(req domain.SolveRequest) (domain.SolveRequest, error) {
	switch req.Unknown {
	case domain.UnknownPeriods:
		req.Periods = 0
	case domain.UnknownRate:
		req.Rate = 0
	case domain.UnknownPresentValue:
		req.PresentValue = 0
	case domain.UnknownPayment:
		req.Payment = 0
	case domain.UnknownFutureValue:
		req.FutureValue = 0
	default:
		return req, fmt.Errorf("%w: unknown must be one of periods, rate, present_value, payment, future_value", ErrInvalidInput)
	}

	if req.Unknown != domain.UnknownPeriods {
		if err := checkPeriods(req.Periods); err != nil {
			return req, err
		}
	}
	if err := checkRate(req.Rate); err != nil {
		return req, err
	}
	for name, v := range map[string]float64{
		"present_value": req.PresentValue,
		"payment":       req.Payment,
		"future_value":  req.FutureValue,
	} {
		if err := checkAmount(name, v); err != nil {
			return req, err
		}
	}
	return req, nil
}

func solveCacheKey(req domain.SolveRequest) string {
	c := req.Convention
	return fmt.Sprintf("solve:%s:%g:%g:%g:%g:%g:%t:%d:%d:%g",
		req.Unknown, req.Periods, req.Rate, req.PresentValue, req.Payment, req.FutureValue,
		c.Continuous, c.CompoundingFreq, c.PaymentFreq, c.Timing)
}
