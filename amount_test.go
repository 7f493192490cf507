package rebalance

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNewAmount(t *testing.T) {
	if _, err := NewAmount(USD, 12.5); err != nil {
		t.Errorf("NewAmount(USD, 12.5) unexpected error = %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewAmount(USD, v); !errors.Is(err, ErrNonFinite) {
			t.Errorf("NewAmount(USD, %v) error = %v, want %v", v, err, ErrNonFinite)
		}
	}
}

func TestAmount_Equal(t *testing.T) {
	testCases := []struct {
		name string
		a, b Amount
		want bool
	}{
		{"identical", usd(100), usd(100), true},
		{"within a cent", usd(100), usd(100.009), true},
		{"a cent apart", usd(100), usd(100.011), false},
		{"other currency", usd(100), eur(100), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestAmount_AddSub(t *testing.T) {
	got, err := usd(100).Add(usd(20.5))
	if err != nil || !got.Equal(usd(120.5)) {
		t.Errorf("Add() = %v, %v, want %v", got, err, usd(120.5))
	}
	got, err = usd(100).Sub(usd(20.5))
	if err != nil || !got.Equal(usd(79.5)) {
		t.Errorf("Sub() = %v, %v, want %v", got, err, usd(79.5))
	}

	if _, err := usd(100).Add(eur(1)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add() across currencies error = %v, want %v", err, ErrCurrencyMismatch)
	}
	if _, err := usd(100).Sub(eur(1)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Sub() across currencies error = %v, want %v", err, ErrCurrencyMismatch)
	}
	if _, err := A(1, Unknown).Add(A(1, Unknown)); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Add() on unknown currency error = %v, want %v", err, ErrUnknownCurrency)
	}
}

func TestAmount_Convert(t *testing.T) {
	rates := testRates(t)

	got, err := eur(100).Convert(USD, rates)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if want := usd(120); !got.Equal(want) {
		t.Errorf("Convert() = %v, want %v", got, want)
	}

	got, err = usd(10).AddConverted(eur(100), rates)
	if err != nil || !got.Equal(usd(130)) {
		t.Errorf("AddConverted() = %v, %v, want %v", got, err, usd(130))
	}

	delete(rates, GBP)
	if _, err := A(1, GBP).Convert(USD, rates); !errors.Is(err, ErrMissingRate) {
		t.Errorf("Convert() without rate error = %v, want %v", err, ErrMissingRate)
	}
	if _, err := A(1, Unknown).Convert(Unknown, rates); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Convert() unknown currency error = %v, want %v", err, ErrUnknownCurrency)
	}
}

func TestAmount_Div(t *testing.T) {
	rates := testRates(t)

	got, err := usd(60).Div(eur(100), rates)
	if err != nil {
		t.Fatalf("Div() error = %v", err)
	}
	if want := 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Div() = %v, want %v", got, want)
	}
	if _, err := usd(60).Div(eur(0), rates); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div() by zero error = %v, want %v", err, ErrDivisionByZero)
	}
}

func TestAmount_String(t *testing.T) {
	testCases := []struct {
		amount Amount
		want   string
		signed string
	}{
		{usd(1234.5), "$1,234.50", "+$1,234.50"},
		{usd(-12.3), "-$12.30", "-$12.30"},
		{usd(0.001), "$0.00", "-"},
		{A(12.3, Native), "12.30 NATIVE", "+12.30 NATIVE"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.amount.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
			if got := tc.amount.SignedString(); got != tc.signed {
				t.Errorf("SignedString() = %q, want %q", got, tc.signed)
			}
		})
	}
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(usd(12.3))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"currency":"USD","amount":12.3}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	// amounts are persisted to the minor unit.
	data, err = json.Marshal(eur(583.3333))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"currency":"EUR","amount":583.33}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var got Amount
	if err := json.Unmarshal([]byte(`{"currency":"EUR","amount":"583.33"}`), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(eur(583.33)) {
		t.Errorf("Unmarshal() = %v, want %v", got, eur(583.33))
	}
	if err := json.Unmarshal([]byte(`{"currency":"XYZ","amount":1}`), &got); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Unmarshal() unknown currency error = %v, want %v", err, ErrUnknownCurrency)
	}
}
