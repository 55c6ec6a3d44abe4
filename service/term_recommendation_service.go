package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/strongo/log"

	"loan-engine/domain"
)

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{
		loanService: loanService,
	}
}

// RecommendTerm scores every term in the requested range and recommends the
// best one for the preference.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {

	if input.Amount <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	}
	if input.InterestRate < 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: invalid interest rate", ErrInvalidInput)
	}
	if input.MinTermMonths <= 0 || input.MaxTermMonths <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: invalid terms", ErrInvalidInput)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: minimum term exceeds maximum term", ErrInvalidInput)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum term exceeds the limit of %d months", ErrInvalidInput, MaxTermMonths)
	}
	// Bound the work done per request
	if input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: term range exceeds %d months", ErrInvalidInput, MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: invalid maximum monthly payment", ErrInvalidInput)
	}

	preferences := map[string]bool{
		"minimize_interest": true,
		"minimize_payment":  true,
		"balanced":          true,
	}
	if !preferences[input.Preference] {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: invalid preference %q", ErrInvalidInput, input.Preference)
	}

	candidates := []termCandidate{}

	// Evaluate every term, keeping those under the payment cap
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		loanInput := domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   term,
		}

		result, err := s.loanService.CalculateLoan(ctx, loanInput)
		if err != nil {
			log.Warningf(ctx, "Warning: failed to calculate loan for term %d: %v", term, err)
			continue
		}

		if result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}
		candidates = append(candidates, termCandidate{term: term, result: result})
	}

	if len(candidates) == 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: no term keeps the monthly payment under %.2f", ErrNoViableTerm, input.MaxMonthlyPayment)
	}

	bounds := boundsOf(candidates)
	recommendations := make([]domain.TermRecommendation, 0, len(candidates))
	for _, c := range candidates {
		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     c.term,
			MonthlyPayment: c.result.MonthlyPayment,
			TotalInterest:  c.result.TotalInterest,
			Score:          calculateScore(c.result, input.Preference, bounds, c.term),
			Reason:         generateReason(input.Preference),
		})
	}

	// Highest score first; ties go to the shorter term
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	log.Debugf(ctx, "recommending %d months out of %d candidates", recommendations[0].TermMonths, len(recommendations))

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

type termCandidate struct {
	term   int
	result domain.LoanResult
}

// scoreBounds are the extremes among the viable terms. Candidates are in
// term order: the first has the highest payment and the least interest.
type scoreBounds struct {
	minTerm, maxTerm         int
	minInterest, maxInterest float64
	minPayment, maxPayment   float64
}

func boundsOf(candidates []termCandidate) scoreBounds {
	shortest, longest := candidates[0], candidates[len(candidates)-1]
	return scoreBounds{
		minTerm:     shortest.term,
		maxTerm:     longest.term,
		minInterest: shortest.result.TotalInterest,
		maxInterest: longest.result.TotalInterest,
		minPayment:  longest.result.MonthlyPayment,
		maxPayment:  shortest.result.MonthlyPayment,
	}
}

// calculateScore normalizes each criterion to 0-10 over the viable terms and
// weights them by preference. A longer term is how the payment goes down, so
// minimize_payment does not reward short terms.
func calculateScore(
	result domain.LoanResult,
	preference string,
	bounds scoreBounds,
	term int,
) float64 {
	interestScore := normalized(result.TotalInterest, bounds.minInterest, bounds.maxInterest)
	paymentScore := normalized(result.MonthlyPayment, bounds.minPayment, bounds.maxPayment)
	termScore := normalized(float64(term), float64(bounds.minTerm), float64(bounds.maxTerm))

	var score float64
	switch preference {
	case "minimize_interest":
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case "minimize_payment":
		score = 0.2*interestScore + 0.8*paymentScore
	case "balanced":
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

// normalized maps v in [lo, hi] to 10 at lo and 0 at hi.
func normalized(v, lo, hi float64) float64 {
	if hi <= lo {
		return 10
	}
	return 10 * (1 - (v-lo)/(hi-lo))
}

func generateReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Term chosen to minimize total interest cost"
	case "minimize_payment":
		return "Term chosen to minimize the monthly payment"
	case "balanced":
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the given parameters"
}
