package renderer

import (
	"fmt"

	"github.com/etnz/rebalance"
)

// Valuation is the report of a portfolio's current state.
type Valuation struct {
	Total     rebalance.Amount    `json:"total"`
	Positions []ValuationPosition `json:"positions"`
}

// ValuationPosition is the state of a single position.
type ValuationPosition struct {
	Name    string           `json:"name"`
	Ticker  string           `json:"ticker,omitempty"`
	Group   string           `json:"group,omitempty"`
	Amount  rebalance.Amount `json:"amount"` // in the position's currency
	Value   rebalance.Amount `json:"value"`  // in the reporting currency
	Current float64          `json:"current"`
	Target  float64          `json:"target"`
}

// Gap is how far the position is from its target share.
func (v ValuationPosition) Gap() float64 { return v.Current - v.Target }

// NewValuation creates the valuation report of p in the reporting currency.
func NewValuation(p *rebalance.Portfolio, rates rebalance.Rates, reporting rebalance.Currency) (*Valuation, error) {
	total, err := p.TotalValue(reporting, rates)
	if err != nil {
		return nil, fmt.Errorf("cannot value portfolio: %w", err)
	}
	shares, err := p.Shares(reporting, rates)
	if err != nil {
		return nil, fmt.Errorf("cannot value portfolio: %w", err)
	}
	holdings, err := p.Holdings()
	if err != nil {
		return nil, err
	}
	v := &Valuation{Total: total}
	for i, h := range holdings {
		v.Positions = append(v.Positions, ValuationPosition{
			Name:    h.Name,
			Ticker:  h.Ticker,
			Group:   h.Group,
			Amount:  h.Amount,
			Value:   shares[i].Value,
			Current: shares[i].Current,
			Target:  shares[i].Target,
		})
	}
	return v, nil
}
