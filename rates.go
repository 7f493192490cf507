package rebalance

import (
	"fmt"
	"math"
)

// Rates converts values between currencies.
//
// Implementations must be pure: the same call always returns the same value,
// and they must fail rather than guess when a currency is missing.
type Rates interface {
	Convert(from, to Currency, value float64) (float64, error)
}

// RateTable maps each currency to its value in a common pivot, the Native currency.
//
//	convert(from, to, v) = v * rate[from] / rate[to]
type RateTable map[Currency]float64

// NewRateTable returns a table holding only the Native pivot.
func NewRateTable() RateTable { return RateTable{Native: 1.0} }

// Set sets the rate of a currency.
func (t RateTable) Set(c Currency, rate float64) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("cannot set rate %v for %v: %w", rate, c, err)
	}
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return fmt.Errorf("cannot set rate %v for %v: rate must be positive and finite", rate, c)
	}
	if c == Native && rate != 1.0 {
		return fmt.Errorf("cannot set rate %v for %v: the pivot rate is always 1", rate, c)
	}
	t[c] = rate
	return nil
}

// Rate returns the rate of a currency relative to the pivot.
func (t RateTable) Rate(c Currency) (float64, error) {
	if err := c.Validate(); err != nil {
		return math.NaN(), err
	}
	r, ok := t[c]
	if !ok {
		return math.NaN(), fmt.Errorf("%w for %v", ErrMissingRate, c)
	}
	return r, nil
}

func (t RateTable) Convert(from, to Currency, value float64) (float64, error) {
	rf, err := t.Rate(from)
	if err != nil {
		return math.NaN(), fmt.Errorf("cannot convert from %v to %v: %w", from, to, err)
	}
	rt, err := t.Rate(to)
	if err != nil {
		return math.NaN(), fmt.Errorf("cannot convert from %v to %v: %w", from, to, err)
	}
	return value * rf / rt, nil
}

// Validate checks the table's invariants: the pivot is present and is exactly 1,
// every rate is positive and finite.
func (t RateTable) Validate() error {
	if r, ok := t[Native]; !ok || r != 1.0 {
		return fmt.Errorf("invalid rate table: %v must be 1, got %v", Native, t[Native])
	}
	for c, r := range t {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid rate table: %w", err)
		}
		if r <= 0 || math.IsInf(r, 0) || math.IsNaN(r) {
			return fmt.Errorf("invalid rate table: rate %v for %v", r, c)
		}
	}
	return nil
}

// Covers returns an error naming the first currency without a rate.
func (t RateTable) Covers(currencies ...Currency) error {
	for _, c := range currencies {
		if _, err := t.Rate(c); err != nil {
			return err
		}
	}
	return nil
}
