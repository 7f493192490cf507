// Package fx provides currency rate tables for the balancing engine.
//
// Rates are expressed as the value of one unit of a currency in the table's
// pivot. The NBP provider quotes every currency in PLN.
package fx

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rebalance"
)

// DefaultBaseURL is the National Bank of Poland table A endpoint.
const DefaultBaseURL = "https://api.nbp.pl/api/exchangerates/rates/a/"

// midPath locates the average rate in an NBP response:
//
//	{"table":"A","currency":"dolar amerykański","code":"USD",
//	 "rates":[{"no":"001/A/NBP/2024","effectiveDate":"2024-01-02","mid":4.02}]}
const midPath = "$.rates[0].mid"

// NBP fetches mid rates from the National Bank of Poland.
type NBP struct {
	BaseURL string
	Client  *http.Client
}

// NewNBP returns a provider using the default endpoint and a daily cache.
func NewNBP() *NBP {
	return &NBP{BaseURL: DefaultBaseURL, Client: Daily("")}
}

// Rate returns the value of one unit of cur in PLN.
func (n *NBP) Rate(ctx context.Context, cur rebalance.Currency) (float64, error) {
	if err := cur.Validate(); err != nil {
		return math.NaN(), err
	}
	if cur == rebalance.PLN || cur == rebalance.Native {
		return 1.0, nil
	}
	base := n.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	addr := base + strings.ToLower(cur.String()) + "?format=json"

	var jobj any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("cannot fetch %v rate: %w", cur, err)
	}
	jval, err := jsonpath.Get(midPath, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %v rate: %q %w", cur, midPath, err)
	}
	// jsonpath may return a list of one answer or the answer itself.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %v rate: %q not a float %v", cur, midPath, jval)
	}
	return val, nil
}

// Load returns a table with the rates of currencies, all known currencies if
// none is given. PLN and Native are always present with a rate of 1.
func (n *NBP) Load(ctx context.Context, currencies ...rebalance.Currency) (rebalance.RateTable, error) {
	if len(currencies) == 0 {
		currencies = rebalance.Currencies()
	}
	table := rebalance.NewRateTable()
	if err := table.Set(rebalance.PLN, 1.0); err != nil {
		return nil, err
	}
	for _, cur := range currencies {
		if cur == rebalance.PLN || cur == rebalance.Native {
			continue
		}
		r, err := n.Rate(ctx, cur)
		if err != nil {
			return nil, err
		}
		if err := table.Set(cur, r); err != nil {
			return nil, err
		}
		log.Printf("rate %v=%v PLN", cur, r)
	}
	return table, nil
}
