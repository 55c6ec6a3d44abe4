package domain

// Unknown names the loan parameter a SolveRequest asks for.
type Unknown string

const (
	UnknownPeriods      Unknown = "periods"
	UnknownRate         Unknown = "rate"
	UnknownPresentValue Unknown = "present_value"
	UnknownPayment      Unknown = "payment"
	UnknownFutureValue  Unknown = "future_value"
)

// Convention is the compounding and payment-timing part of a request.
type Convention struct {
	Continuous      bool    `json:"continuous"`
	CompoundingFreq int     `json:"compounding_freq"`
	PaymentFreq     int     `json:"payment_freq"`
	Timing          float64 `json:"timing"`
}

// SolveRequest carries the four known parameters; the field named by
// Unknown is ignored. Rate is a nominal annual rate as a fraction (0.05).
type SolveRequest struct {
	Unknown      Unknown    `json:"unknown"`
	Periods      float64    `json:"periods"`
	Rate         float64    `json:"rate"`
	PresentValue float64    `json:"present_value"`
	Payment      float64    `json:"payment"`
	FutureValue  float64    `json:"future_value"`
	Convention   Convention `json:"convention"`
}

type SolveResult struct {
	Unknown       Unknown `json:"unknown"`
	Value         float64 `json:"value"`
	EffectiveRate float64 `json:"effective_rate"`
	Iterative     bool    `json:"iterative"`
}

// ScheduleRequest asks for an amortization table. A zero Payment is replaced
// by the payment that fully amortizes PresentValue over Periods.
type ScheduleRequest struct {
	Periods      int        `json:"periods"`
	Rate         float64    `json:"rate"`
	PresentValue float64    `json:"present_value"`
	Payment      float64    `json:"payment"`
	Convention   Convention `json:"convention"`
}

type Installment struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

type ScheduleResult struct {
	Payment        float64       `json:"payment"`
	TotalInterest  float64       `json:"total_interest"`
	TotalPrincipal float64       `json:"total_principal"`
	Installments   []Installment `json:"installments"`
}
