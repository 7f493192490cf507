package rebalance

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedAmount is returned when a position is used before market data filled its amount.
	ErrUnresolvedAmount = errors.New("amount is not resolved")
	// ErrMissingRate is returned when a rate table has no entry for a currency.
	ErrMissingRate = errors.New("missing rate")
	// ErrUnknownCurrency is returned when an unrecognized currency reaches arithmetic or conversion.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrCurrencyMismatch is returned by same-currency operations called across currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNonFinite        = errors.New("amount is not finite")

	ErrNoHoldings        = errors.New("no holdings to invest in")
	ErrInvalidInvestment = errors.New("invalid investment")

	// ErrSolver matches every *SolverError.
	ErrSolver = errors.New("solver failure")
)

// SolverError reports that the linear solver could not produce a usable
// allocation. It is distinct from input errors: the inputs were consistent but
// the bounds were contradictory or the solver failed numerically.
type SolverError struct {
	Err error
}

func (e *SolverError) Error() string { return fmt.Sprintf("balance: %v: %v", ErrSolver, e.Err) }

func (e *SolverError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSolver) true for any SolverError.
func (e *SolverError) Is(target error) bool { return target == ErrSolver }
