package rebalance

import (
	"encoding/json"
	"fmt"
)

// Position is a holding as declared in a portfolio: its amount is unresolved
// until market data or the portfolio file provides it.
type Position struct {
	Name   string
	Ticker string
	Group  string
	Target float64 // share of the portfolio, in [0,1]

	amount   Amount
	resolved bool
}

// NewPosition returns an unresolved position.
func NewPosition(name, ticker, group string, target float64) Position {
	return Position{Name: name, Ticker: ticker, Group: group, Target: target}
}

// Resolve returns a copy of the position holding amount a.
func (p Position) Resolve(a Amount) Position {
	p.amount = a
	p.resolved = true
	return p
}

func (p Position) IsResolved() bool { return p.resolved }

// Amount returns the position's current amount or ErrUnresolvedAmount.
func (p Position) Amount() (Amount, error) {
	if !p.resolved {
		return Amount{}, fmt.Errorf("position %q: %w", p.Name, ErrUnresolvedAmount)
	}
	return p.amount, nil
}

// Holding returns the resolved variant of the position.
func (p Position) Holding() (Holding, error) {
	a, err := p.Amount()
	if err != nil {
		return Holding{}, err
	}
	return Holding{Name: p.Name, Ticker: p.Ticker, Group: p.Group, Target: p.Target, Amount: a}, nil
}

type jsonPosition struct {
	Name   string  `json:"name"`
	Ticker string  `json:"ticker,omitempty"`
	Group  string  `json:"group,omitempty"`
	Target float64 `json:"target"`
	Amount *Amount `json:"amount,omitempty"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	js := jsonPosition{Name: p.Name, Ticker: p.Ticker, Group: p.Group, Target: p.Target}
	if p.resolved {
		js.Amount = &p.amount
	}
	return json.Marshal(js)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var js jsonPosition
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	*p = NewPosition(js.Name, js.Ticker, js.Group, js.Target)
	if js.Amount != nil {
		*p = p.Resolve(*js.Amount)
	}
	return nil
}

// Holding is a position whose amount is known. It is the only input the
// balancing engine accepts.
type Holding struct {
	Name   string
	Ticker string
	Group  string
	Target float64
	Amount Amount
}
