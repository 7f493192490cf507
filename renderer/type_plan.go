package renderer

import (
	"fmt"

	"github.com/etnz/rebalance"
)

// Plan is the report of a balancing result.
// Amounts keep their own currency, so that they render with their own format.
type Plan struct {
	// ID identifies the change request.
	ID string `json:"id"`
	// Investment is the cash spread across positions.
	Investment rebalance.Amount `json:"investment"`
	// Total is the sum of all changes in the reporting currency.
	Total rebalance.Amount `json:"total"`
	// Changes lists one change per position, in portfolio order.
	Changes []PlanChange `json:"changes"`
	// Groups lists the naive sum of changes per group, in first seen order.
	Groups []PlanGroup `json:"groups,omitempty"`
}

// PlanChange is the change of a single position.
type PlanChange struct {
	Name   string           `json:"name"`
	Ticker string           `json:"ticker,omitempty"`
	Group  string           `json:"group,omitempty"`
	Target float64          `json:"target"`
	Amount rebalance.Amount `json:"amount"`
	Delta  rebalance.Amount `json:"delta"`
	After  rebalance.Amount `json:"after"`
}

// PlanGroup is the sum of changes within a group.
type PlanGroup struct {
	ID    string           `json:"id"`
	Delta rebalance.Amount `json:"delta"`
}

// NewPlan creates the plan report of cr, totals are given in reporting.
func NewPlan(cr *rebalance.ChangeRequest, reporting rebalance.Currency) (*Plan, error) {
	total, err := cr.Total(reporting)
	if err != nil {
		return nil, fmt.Errorf("cannot total plan: %w", err)
	}
	p := &Plan{
		ID:         cr.ID.String(),
		Investment: cr.Investment,
		Total:      total,
	}
	for _, c := range cr.Changes() {
		after, err := c.Holding.Amount.Add(c.Delta)
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", c.Holding.Name, err)
		}
		p.Changes = append(p.Changes, PlanChange{
			Name:   c.Holding.Name,
			Ticker: c.Holding.Ticker,
			Group:  c.Holding.Group,
			Target: c.Holding.Target,
			Amount: c.Holding.Amount,
			Delta:  c.Delta,
			After:  after,
		})
	}
	groups := cr.PerGroup()
	for _, id := range cr.GroupIDs() {
		if id == "" {
			continue
		}
		p.Groups = append(p.Groups, PlanGroup{ID: id, Delta: groups[id]})
	}
	return p, nil
}
