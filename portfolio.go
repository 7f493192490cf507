package rebalance

import (
	"fmt"
	"slices"
)

// Portfolio is the set of positions to balance, organized in reporting groups.
type Portfolio struct {
	groups    []Group
	positions []Position
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio { return &Portfolio{} }

// AddGroup declares a reporting group.
func (p *Portfolio) AddGroup(g Group) error {
	if g.ID == "" {
		return fmt.Errorf("group id is required")
	}
	if err := g.Currency.Validate(); err != nil {
		return fmt.Errorf("group %q: %w", g.ID, err)
	}
	if _, exists := p.Group(g.ID); exists {
		return fmt.Errorf("group %q is already declared", g.ID)
	}
	p.groups = append(p.groups, g)
	return nil
}

// AddPosition appends a position. Its group, if any, must have been declared.
func (p *Portfolio) AddPosition(pos Position) error {
	if pos.Name == "" {
		return fmt.Errorf("position name is required")
	}
	if pos.Target < 0 || pos.Target > 1 {
		return fmt.Errorf("position %q: target %v is not in [0,1]", pos.Name, pos.Target)
	}
	if pos.Group != "" {
		if _, exists := p.Group(pos.Group); !exists {
			return fmt.Errorf("position %q: unknown group %q", pos.Name, pos.Group)
		}
	}
	if p.index(pos.Name) >= 0 {
		return fmt.Errorf("position %q is already declared", pos.Name)
	}
	if a, err := pos.Amount(); err == nil {
		if err := a.Currency().Validate(); err != nil {
			return fmt.Errorf("position %q: %w", pos.Name, err)
		}
	}
	p.positions = append(p.positions, pos)
	return nil
}

func (p *Portfolio) index(name string) int {
	return slices.IndexFunc(p.positions, func(pos Position) bool { return pos.Name == name })
}

func (p *Portfolio) Groups() []Group       { return slices.Clone(p.groups) }
func (p *Portfolio) Positions() []Position { return slices.Clone(p.positions) }

// Group returns the group with the given id.
func (p *Portfolio) Group(id string) (Group, bool) {
	i := slices.IndexFunc(p.groups, func(g Group) bool { return g.ID == id })
	if i < 0 {
		return Group{}, false
	}
	return p.groups[i], true
}

// Holdings returns every position resolved, or an error naming the first
// position whose amount is unknown.
func (p *Portfolio) Holdings() ([]Holding, error) {
	holdings := make([]Holding, 0, len(p.positions))
	for _, pos := range p.positions {
		h, err := pos.Holding()
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// TargetSum is the sum of all target shares. Nothing enforces it to be 1.
func (p *Portfolio) TargetSum() float64 {
	var sum float64
	for _, pos := range p.positions {
		sum += pos.Target
	}
	return sum
}

// TotalValue returns the value of all positions in currency cur.
func (p *Portfolio) TotalValue(cur Currency, rates Rates) (Amount, error) {
	holdings, err := p.Holdings()
	if err != nil {
		return Amount{}, err
	}
	return totalValue(holdings, cur, rates)
}

func totalValue(holdings []Holding, cur Currency, rates Rates) (Amount, error) {
	if err := cur.Validate(); err != nil {
		return Amount{}, err
	}
	total := A(0, cur)
	for _, h := range holdings {
		var err error
		total, err = total.AddConverted(h.Amount, rates)
		if err != nil {
			return Amount{}, fmt.Errorf("position %q: %w", h.Name, err)
		}
	}
	return total, nil
}

// Share is a position's current share of the portfolio next to its target.
type Share struct {
	Name    string
	Value   Amount // in the reporting currency
	Current float64
	Target  float64
}

// Shares returns the current share of each position, in portfolio order.
// Current shares are all zero for an empty portfolio.
func (p *Portfolio) Shares(cur Currency, rates Rates) ([]Share, error) {
	holdings, err := p.Holdings()
	if err != nil {
		return nil, err
	}
	total, err := totalValue(holdings, cur, rates)
	if err != nil {
		return nil, err
	}
	shares := make([]Share, 0, len(holdings))
	for _, h := range holdings {
		v, err := h.Amount.Convert(cur, rates)
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", h.Name, err)
		}
		s := Share{Name: h.Name, Value: v, Target: h.Target}
		if total.Value() != 0 {
			s.Current = v.Value() / total.Value()
		}
		shares = append(shares, s)
	}
	return shares, nil
}

// Balance computes how to spread investment across the portfolio's positions.
func (p *Portfolio) Balance(rates Rates, investment Amount) (*ChangeRequest, error) {
	holdings, err := p.Holdings()
	if err != nil {
		return nil, fmt.Errorf("cannot balance portfolio: %w", err)
	}
	return Balance(holdings, rates, investment)
}
