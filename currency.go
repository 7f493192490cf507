package rebalance

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is one of the currencies a portfolio can be held in.
//
// The set is closed: anything else parses as Unknown, which is a valid value to
// carry around but fails as soon as it is used for arithmetic or conversion.
type Currency uint8

const (
	Unknown Currency = iota
	// Native is the pivot of a rate table, its rate is always 1.0.
	Native
	USD
	EUR
	GBP
	CHF
	PLN
)

var currencyCodes = [...]string{
	Unknown: "UNKNOWN",
	Native:  "NATIVE",
	USD:     "USD",
	EUR:     "EUR",
	GBP:     "GBP",
	CHF:     "CHF",
	PLN:     "PLN",
}

// Currencies returns the ISO currencies supported, Native and Unknown excluded.
func Currencies() []Currency { return []Currency{USD, EUR, GBP, CHF, PLN} }

// ParseCurrency returns the currency for a code, case insensitive.
// Unrecognized codes return Unknown.
func ParseCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	for c, s := range currencyCodes {
		if s == code && Currency(c) != Unknown {
			return Currency(c)
		}
	}
	return Unknown
}

func (c Currency) String() string {
	if int(c) >= len(currencyCodes) {
		return currencyCodes[Unknown]
	}
	return currencyCodes[c]
}

// Validate returns ErrUnknownCurrency if c is not a usable currency.
func (c Currency) Validate() error {
	if c == Unknown || int(c) >= len(currencyCodes) {
		return ErrUnknownCurrency
	}
	return nil
}

// fraction is the number of digits of the minor unit.
func (c Currency) fraction() int32 {
	if cur := money.GetCurrency(c.String()); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

func (c Currency) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal currency %d: %w", c, err)
	}
	return []byte(c.String()), nil
}

// UnmarshalText never fails, unrecognized codes decode as Unknown.
func (c *Currency) UnmarshalText(text []byte) error {
	*c = ParseCurrency(string(text))
	return nil
}
