package rebalance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Quote is the market value of a ticker as reported by a broker.
type Quote struct {
	Ticker string
	Amount Amount
}

// QuoteSource provides the current market value of held tickers.
type QuoteSource interface {
	Quotes(ctx context.Context) ([]Quote, error)
}

// Fill resolves positions from quotes. Quotes for the same ticker are summed,
// a broker reports one quote per open trade. Positions without a quote are left
// as they are.
func (p *Portfolio) Fill(quotes []Quote) error {
	values := make(map[string]Amount)
	for _, q := range quotes {
		if err := q.Amount.Currency().Validate(); err != nil {
			return fmt.Errorf("quote for %q: %w", q.Ticker, err)
		}
		prev, seen := values[q.Ticker]
		if !seen {
			values[q.Ticker] = q.Amount
			continue
		}
		sum, err := prev.Add(q.Amount)
		if err != nil {
			return fmt.Errorf("quotes for %q: %w", q.Ticker, err)
		}
		values[q.Ticker] = sum
	}

	for i, pos := range p.positions {
		v, ok := values[pos.Ticker]
		if !ok || pos.Ticker == "" {
			continue
		}
		if old, err := pos.Amount(); err == nil && old.Currency() != v.Currency() {
			return fmt.Errorf("position %q is held in %v, quoted in %v: %w", pos.Name, old.Currency(), v.Currency(), ErrCurrencyMismatch)
		}
		p.positions[i] = pos.Resolve(v)
		delete(values, pos.Ticker)
	}
	return nil
}

type jsonQuote struct {
	Ticker   string   `json:"ticker"`
	Currency Currency `json:"currency"`
	Value    float64  `json:"value"`
}

// DecodeQuotes reads a JSON array of {"ticker","currency","value"} objects.
func DecodeQuotes(r io.Reader) ([]Quote, error) {
	var js []jsonQuote
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return nil, fmt.Errorf("cannot decode quotes: %w", err)
	}
	quotes := make([]Quote, 0, len(js))
	for _, q := range js {
		if err := q.Currency.Validate(); err != nil {
			return nil, fmt.Errorf("quote for %q: %w", q.Ticker, err)
		}
		a, err := NewAmount(q.Currency, q.Value)
		if err != nil {
			return nil, fmt.Errorf("quote for %q: %w", q.Ticker, err)
		}
		quotes = append(quotes, Quote{Ticker: q.Ticker, Amount: a})
	}
	return quotes, nil
}

// QuotesFile is a QuoteSource reading a quotes JSON file.
type QuotesFile string

func (f QuotesFile) Quotes(ctx context.Context) ([]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("could not open quotes file %q: %w", string(f), err)
	}
	defer r.Close()
	return DecodeQuotes(r)
}
