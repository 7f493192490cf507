package rebalance

import "testing"

// usd is a helper for test to create dollars from const
func usd(v float64) Amount { return A(v, USD) }

// eur is a helper for test to create euros from const
func eur(v float64) Amount { return A(v, EUR) }

// testRates returns a table with USD as the pivot's equal.
func testRates(t *testing.T) RateTable {
	t.Helper()
	rates := NewRateTable()
	for c, r := range map[Currency]float64{USD: 1.0, EUR: 1.2, GBP: 1.3, CHF: 1.4, PLN: 1.0} {
		if err := rates.Set(c, r); err != nil {
			t.Fatalf("Set(%v, %v) error = %v", c, r, err)
		}
	}
	return rates
}

// holding is a helper to create a resolved position without a group.
func holding(name string, amount Amount, target float64) Holding {
	return Holding{Name: name, Ticker: name, Target: target, Amount: amount}
}
