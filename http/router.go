package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/strongo/log"
)

// NewRouter wires the loan endpoints behind the rate limiter. Wrong methods
// on a known path get 405.
func NewRouter(
	loanHandler *LoanHandler,
	termHandler *TermRecommendationHandler,
	debtHandler *DebtExitHandler,
	limiter *RateLimiter,
) http.Handler {

	router := httprouter.New()
	router.HandleMethodNotAllowed = true

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	router.Handler(http.MethodPost, "/loan/calculate", limited(loanHandler.CalculateLoan))
	router.Handler(http.MethodPost, "/loan/solve", limited(loanHandler.Solve))
	router.Handler(http.MethodPost, "/loan/schedule", limited(loanHandler.Schedule))
	router.Handler(http.MethodPost, "/loan/recommend-term", limited(termHandler.RecommendTerm))
	router.Handler(http.MethodPost, "/loan/debt-exit-plan", limited(debtHandler.CalculateDebtExitPlan))
	router.HandlerFunc(http.MethodGet, "/healthz", healthz)

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log.Criticalf(r.Context(), "panic serving %s %s: %v", r.Method, r.URL.Path, v)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}

	return RequestIDMiddleware(router)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
