package fx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance"
)

// DecodeRateTable reads a static rate table such as {"PLN": 1, "USD": 4.02}.
// The Native pivot is implied.
func DecodeRateTable(r io.Reader) (rebalance.RateTable, error) {
	var js map[string]float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("format error: %w", err)
	}
	table := rebalance.NewRateTable()
	for code, rate := range js {
		if err := table.Set(rebalance.ParseCurrency(code), rate); err != nil {
			return nil, fmt.Errorf("format error: %q: %w", code, err)
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadRateTable decodes the rate file at path.
func LoadRateTable(path string) (rebalance.RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open rates file %q: %w", path, err)
	}
	defer f.Close()
	table, err := DecodeRateTable(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode rates file %q: %w", path, err)
	}
	return table, nil
}
