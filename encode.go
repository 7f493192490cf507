package rebalance

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// This file persists portfolio definitions as a single human-readable JSON
// document:
//
//	{
//	  "groups": [{"id": "stocks", "currency": "USD"}],
//	  "positions": [
//	    {"name": "S&P 500", "ticker": "SPY.US", "group": "stocks", "target": 0.6,
//	     "amount": {"currency": "USD", "amount": 1200}}
//	  ]
//	}
//
// "amount" is optional: positions without one must be filled from market data
// before balancing.

type jsonPortfolio struct {
	Groups    []Group    `json:"groups"`
	Positions []Position `json:"positions"`
}

// DecodePortfolio reads and validates a portfolio definition.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	var js jsonPortfolio
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("format error: %w", err)
	}
	p := NewPortfolio()
	for _, g := range js.Groups {
		if err := p.AddGroup(g); err != nil {
			return nil, fmt.Errorf("format error: %w", err)
		}
	}
	for _, pos := range js.Positions {
		if err := p.AddPosition(pos); err != nil {
			return nil, fmt.Errorf("format error: %w", err)
		}
	}
	return p, nil
}

// EncodePortfolio writes p as indented JSON.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	js := jsonPortfolio{Groups: p.groups, Positions: p.positions}
	if js.Groups == nil {
		js.Groups = []Group{}
	}
	if js.Positions == nil {
		js.Positions = []Position{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(js)
}

// LoadPortfolio decodes the portfolio file at path.
func LoadPortfolio(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", path, err)
	}
	defer f.Close()
	p, err := DecodePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode portfolio file %q: %w", path, err)
	}
	return p, nil
}

// SavePortfolio encodes p into the file at path.
func SavePortfolio(path string, p *Portfolio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create portfolio file %q: %w", path, err)
	}
	if err := EncodePortfolio(f, p); err != nil {
		f.Close()
		return fmt.Errorf("could not encode portfolio file %q: %w", path, err)
	}
	return f.Close()
}
