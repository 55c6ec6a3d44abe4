package service

import "errors"

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoViableTerm is returned when no term satisfies the payment cap.
	ErrNoViableTerm = errors.New("no viable term")

	// ErrPayoffTooLong is returned when a debt plan runs past MaxDebtPayoffMonths.
	ErrPayoffTooLong = errors.New("payoff takes too long")
)
