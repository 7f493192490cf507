package rebalance

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	testCases := []struct {
		code string
		want Currency
	}{
		{"USD", USD},
		{"eur", EUR},
		{" gbp ", GBP},
		{"CHF", CHF},
		{"PLN", PLN},
		{"NATIVE", Native},
		{"JPY", Unknown},
		{"UNKNOWN", Unknown},
		{"", Unknown},
	}
	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			if got := ParseCurrency(tc.code); got != tc.want {
				t.Errorf("ParseCurrency(%q) = %v, want %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestCurrency_Validate(t *testing.T) {
	for _, c := range append(Currencies(), Native) {
		if err := c.Validate(); err != nil {
			t.Errorf("%v.Validate() error = %v", c, err)
		}
	}
	if err := Unknown.Validate(); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Unknown.Validate() error = %v, want %v", err, ErrUnknownCurrency)
	}
	if err := Currency(200).Validate(); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Currency(200).Validate() error = %v, want %v", err, ErrUnknownCurrency)
	}
}

func TestCurrency_JSON(t *testing.T) {
	var got map[Currency]float64
	if err := json.Unmarshal([]byte(`{"USD":4.02,"eur":4.34,"XYZ":1}`), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got[USD] != 4.02 || got[EUR] != 4.34 {
		t.Errorf("Unmarshal() = %v, want USD and EUR rates", got)
	}
	// unrecognized codes decode as Unknown, they fail on use.
	if got[Unknown] != 1 {
		t.Errorf("Unmarshal() = %v, want XYZ decoded as %v", got, Unknown)
	}

	data, err := json.Marshal(map[Currency]float64{CHF: 4.5})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"CHF":4.5}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	if _, err := json.Marshal(Unknown); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Marshal(Unknown) error = %v, want %v", err, ErrUnknownCurrency)
	}
}
