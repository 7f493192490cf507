package rebalance

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPosition_Amount(t *testing.T) {
	p := NewPosition("S&P 500", "SPY.US", "stocks", 0.6)
	if p.IsResolved() {
		t.Fatal("NewPosition() is resolved")
	}
	if _, err := p.Amount(); !errors.Is(err, ErrUnresolvedAmount) {
		t.Errorf("Amount() error = %v, want %v", err, ErrUnresolvedAmount)
	}
	if _, err := p.Holding(); !errors.Is(err, ErrUnresolvedAmount) {
		t.Errorf("Holding() error = %v, want %v", err, ErrUnresolvedAmount)
	}

	r := p.Resolve(usd(1200))
	if p.IsResolved() {
		t.Error("Resolve() modified the original position")
	}
	got, err := r.Amount()
	if err != nil || !got.Equal(usd(1200)) {
		t.Errorf("Amount() = %v, %v, want %v", got, err, usd(1200))
	}
	h, err := r.Holding()
	if err != nil {
		t.Fatalf("Holding() error = %v", err)
	}
	want := Holding{Name: "S&P 500", Ticker: "SPY.US", Group: "stocks", Target: 0.6, Amount: usd(1200)}
	if h != want {
		t.Errorf("Holding() = %+v, want %+v", h, want)
	}
}

func TestPosition_JSON(t *testing.T) {
	var unresolved, resolved Position
	if err := json.Unmarshal([]byte(`{"name":"Gold","target":0.1}`), &unresolved); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if unresolved.IsResolved() {
		t.Error("Unmarshal() without amount is resolved")
	}

	data := `{"name":"Bonds","ticker":"AGG.US","group":"bonds","target":0.4,"amount":{"currency":"USD","amount":250}}`
	if err := json.Unmarshal([]byte(data), &resolved); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got, err := resolved.Amount(); err != nil || !got.Equal(usd(250)) {
		t.Errorf("Unmarshal() amount = %v, %v, want %v", got, err, usd(250))
	}
	out, err := json.Marshal(resolved)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != data {
		t.Errorf("Marshal() = %s, want %s", out, data)
	}
}
