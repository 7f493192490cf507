package rebalance

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// tolerance is the absolute precision of Amount.Equal, one minor unit.
const tolerance = 0.01

// Amount is a monetary value in a given currency.
type Amount struct {
	currency Currency
	value    float64
}

// NewAmount returns an amount, value must be finite.
func NewAmount(currency Currency, value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, fmt.Errorf("%w: %v %v", ErrNonFinite, value, currency)
	}
	return Amount{currency: currency, value: value}, nil
}

// A returns an amount without checks, for values known to be finite.
func A(value float64, currency Currency) Amount { return Amount{currency: currency, value: value} }

func (a Amount) Currency() Currency { return a.currency }
func (a Amount) Value() float64     { return a.value }
func (a Amount) IsZero() bool       { return math.Abs(a.value) < tolerance }
func (a Amount) Neg() Amount        { return Amount{currency: a.currency, value: -a.value} }

// Equal reports whether both amounts have the same currency and values within one minor unit.
func (a Amount) Equal(b Amount) bool {
	return a.currency == b.currency && math.Abs(a.value-b.value) < tolerance
}

// Add returns a+b. Both amounts must share the same currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := sameCurrency(a, b); err != nil {
		return Amount{}, fmt.Errorf("cannot add %v to %v: %w", b, a, err)
	}
	return Amount{currency: a.currency, value: a.value + b.value}, nil
}

// Sub returns a-b. Both amounts must share the same currency.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := sameCurrency(a, b); err != nil {
		return Amount{}, fmt.Errorf("cannot subtract %v from %v: %w", b, a, err)
	}
	return Amount{currency: a.currency, value: a.value - b.value}, nil
}

// AddConverted converts b into a's currency and adds it.
func (a Amount) AddConverted(b Amount, rates Rates) (Amount, error) {
	b, err := b.Convert(a.currency, rates)
	if err != nil {
		return Amount{}, err
	}
	return a.Add(b)
}

// Convert returns the amount expressed in the target currency.
func (a Amount) Convert(target Currency, rates Rates) (Amount, error) {
	if a.currency == target {
		if err := target.Validate(); err != nil {
			return Amount{}, fmt.Errorf("cannot convert %v: %w", a.currency, err)
		}
		return a, nil
	}
	v, err := rates.Convert(a.currency, target, a.value)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(target, v)
}

// Div returns the ratio a/b, b is converted into a's currency first.
func (a Amount) Div(b Amount, rates Rates) (float64, error) {
	b, err := b.Convert(a.currency, rates)
	if err != nil {
		return math.NaN(), err
	}
	if b.value == 0 {
		return math.NaN(), fmt.Errorf("cannot divide %v by %v: %w", a, b, ErrDivisionByZero)
	}
	return a.value / b.value, nil
}

func sameCurrency(a, b Amount) error {
	if err := a.currency.Validate(); err != nil {
		return err
	}
	if a.currency != b.currency {
		return fmt.Errorf("%w: %v != %v", ErrCurrencyMismatch, a.currency, b.currency)
	}
	return nil
}

// rounded returns the value rounded to the currency's minor unit.
func (a Amount) rounded() decimal.Decimal {
	return decimal.NewFromFloat(a.value).Round(a.currency.fraction())
}

// String formats the amount with the currency's symbol and minor unit.
func (a Amount) String() string {
	cur := money.GetCurrency(a.currency.String())
	if cur == nil {
		// Native and Unknown have no symbol
		return a.rounded().StringFixed(2) + " " + a.currency.String()
	}
	fraction := int32(cur.Fraction)
	return cur.Formatter().Format(a.rounded().Shift(fraction).IntPart())
}

// SignedString is like String with a leading '+' for positive amounts, zero is "-".
func (a Amount) SignedString() string {
	r := a.rounded()
	switch {
	case r.IsZero():
		return "-"
	case r.IsPositive():
		return "+" + a.String()
	}
	return a.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", a.currency)
	w.Append("amount", json.Number(a.rounded().String()))
	return w.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var js struct {
		Currency Currency        `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	if err := js.Currency.Validate(); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Amount{currency: js.Currency, value: js.Amount.InexactFloat64()}
	return nil
}
