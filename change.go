package rebalance

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
)

// Change is the cash to move into a holding.
type Change struct {
	Holding   Holding
	Delta     Amount // in the holding's currency
	Allocated Amount // in the investment currency
}

// ChangeRequest is the outcome of one balancing: a change per holding, in
// the holdings order.
type ChangeRequest struct {
	ID         uuid.UUID
	Investment Amount

	changes []Change
	rates   Rates
}

// Changes returns the changes in holdings order.
func (cr *ChangeRequest) Changes() []Change { return slices.Clone(cr.changes) }

// GroupIDs returns the group of each change, in order of first appearance.
func (cr *ChangeRequest) GroupIDs() []string {
	var ids []string
	for _, c := range cr.changes {
		if !slices.Contains(ids, c.Holding.Group) {
			ids = append(ids, c.Holding.Group)
		}
	}
	return ids
}

// PerGroup sums the deltas of each group.
//
// The sum is naive: magnitudes are added as they are and labeled with the
// currency of the first change seen in the group. Groups mixing currencies get
// a meaningless total, use Total for a converted sum.
func (cr *ChangeRequest) PerGroup() map[string]Amount {
	groups := make(map[string]Amount)
	for _, c := range cr.changes {
		sum, seen := groups[c.Holding.Group]
		if !seen {
			groups[c.Holding.Group] = c.Delta
			continue
		}
		groups[c.Holding.Group] = A(sum.Value()+c.Delta.Value(), sum.Currency())
	}
	return groups
}

// Total converts every delta into cur and sums them.
func (cr *ChangeRequest) Total(cur Currency) (Amount, error) {
	if err := cur.Validate(); err != nil {
		return Amount{}, err
	}
	total := A(0, cur)
	for _, c := range cr.changes {
		var err error
		total, err = total.AddConverted(c.Delta, cr.rates)
		if err != nil {
			return Amount{}, fmt.Errorf("position %q: %w", c.Holding.Name, err)
		}
	}
	return total, nil
}

func (c Change) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", c.Holding.Name)
	w.Optional("ticker", c.Holding.Ticker)
	w.Optional("group", c.Holding.Group)
	w.Append("target", c.Holding.Target)
	w.Append("amount", c.Holding.Amount)
	w.Append("delta", c.Delta)
	return w.MarshalJSON()
}

func (cr *ChangeRequest) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", cr.ID)
	w.Append("investment", cr.Investment)
	w.Append("changes", cr.changes)
	w.Append("groups", cr.PerGroup())
	return w.MarshalJSON()
}

// EncodeChangeRequest writes cr as indented JSON.
func EncodeChangeRequest(w io.Writer, cr *ChangeRequest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cr)
}
