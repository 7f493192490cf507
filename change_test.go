package rebalance

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestChangeRequest(t *testing.T) *ChangeRequest {
	t.Helper()
	holdings := []Holding{
		{Name: "World", Ticker: "IWDA", Group: "stocks", Target: 0.3, Amount: usd(0)},
		{Name: "Europe", Ticker: "MEUD", Group: "stocks", Target: 0.3, Amount: eur(0)},
		{Name: "Bonds", Ticker: "AGGH", Group: "bonds", Target: 0.4, Amount: usd(0)},
	}
	cr, err := Balance(holdings, testRates(t), usd(1200))
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	return cr
}

func TestChangeRequest_PerGroup(t *testing.T) {
	cr := newTestChangeRequest(t)

	if diff := cmp.Diff([]string{"stocks", "bonds"}, cr.GroupIDs()); diff != "" {
		t.Errorf("GroupIDs() mismatch (-want +got):\n%s", diff)
	}

	groups := cr.PerGroup()
	if got, want := groups["bonds"], usd(480); !got.Equal(want) {
		t.Errorf("PerGroup()[bonds] = %v, want %v", got, want)
	}
	// "stocks" mixes 360 USD and 300 EUR: magnitudes are summed as they are,
	// under the currency of the first change. The value is not converted.
	if got, want := groups["stocks"], usd(360+300); !got.Equal(want) {
		t.Errorf("PerGroup()[stocks] = %v, want the naive sum %v", got, want)
	}
}

func TestChangeRequest_Total(t *testing.T) {
	cr := newTestChangeRequest(t)

	got, err := cr.Total(USD)
	if err != nil {
		t.Fatalf("Total(USD) error = %v", err)
	}
	if want := usd(1200); !got.Equal(want) {
		t.Errorf("Total(USD) = %v, want %v", got, want)
	}
	got, err = cr.Total(EUR)
	if err != nil {
		t.Fatalf("Total(EUR) error = %v", err)
	}
	if want := eur(1000); !got.Equal(want) {
		t.Errorf("Total(EUR) = %v, want %v", got, want)
	}

	if _, err := cr.Total(Unknown); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Total(Unknown) error = %v, want %v", err, ErrUnknownCurrency)
	}
	cr.rates = RateTable{Native: 1, USD: 1}
	if _, err := cr.Total(USD); !errors.Is(err, ErrMissingRate) {
		t.Errorf("Total() without EUR rate error = %v, want %v", err, ErrMissingRate)
	}
}

func TestEncodeChangeRequest(t *testing.T) {
	cr := newTestChangeRequest(t)
	var buf bytes.Buffer
	if err := EncodeChangeRequest(&buf, cr); err != nil {
		t.Fatalf("EncodeChangeRequest() error = %v", err)
	}

	var got struct {
		ID         string
		Investment struct {
			Currency string
			Amount   float64
		}
		Changes []struct {
			Name   string
			Group  string
			Target float64
			Delta  struct {
				Currency string
				Amount   float64
			}
		}
		Groups map[string]json.RawMessage
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %s: %v", buf.String(), err)
	}
	if got.ID != cr.ID.String() {
		t.Errorf("id = %q, want %q", got.ID, cr.ID)
	}
	if got.Investment.Currency != "USD" || got.Investment.Amount != 1200 {
		t.Errorf("investment = %+v, want 1200 USD", got.Investment)
	}
	if len(got.Changes) != 3 || got.Changes[1].Name != "Europe" || got.Changes[1].Delta.Currency != "EUR" || got.Changes[1].Delta.Amount != 300 {
		t.Errorf("changes = %+v, want Europe receiving 300 EUR", got.Changes)
	}
	if len(got.Groups) != 2 {
		t.Errorf("groups = %v, want stocks and bonds", got.Groups)
	}
}
