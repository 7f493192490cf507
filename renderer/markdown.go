package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/rebalance"
)

// ChangeMarkdown renders a balancing result, totals are given in reporting.
func ChangeMarkdown(cr *rebalance.ChangeRequest, reporting rebalance.Currency) (string, error) {
	plan, err := NewPlan(cr, reporting)
	if err != nil {
		return "", err
	}
	return RenderPlan(plan), nil
}

// RenderPlan renders the Plan struct to a markdown string.
func RenderPlan(p *Plan) string {
	partials := map[string]string{
		"plan_title":   "plan_title.md",
		"plan_changes": "plan_changes.md",
		"plan_groups":  "plan_groups.md",
	}
	return renderTemplate("plan", "plan.md", partials, p)
}

// PortfolioMarkdown renders the valuation of a portfolio in reporting.
func PortfolioMarkdown(p *rebalance.Portfolio, rates rebalance.Rates, reporting rebalance.Currency) (string, error) {
	v, err := NewValuation(p, rates, reporting)
	if err != nil {
		return "", err
	}
	return RenderValuation(v), nil
}

// RenderValuation renders the Valuation struct to a markdown string.
func RenderValuation(v *Valuation) string {
	return renderTemplate("valuation", "valuation.md", nil, v)
}

// RatesMarkdown renders a rate table, one row per currency.
func RatesMarkdown(t rebalance.RateTable) string {
	currencies := make([]rebalance.Currency, 0, len(t))
	for c := range t {
		currencies = append(currencies, c)
	}
	slices.Sort(currencies)

	var b strings.Builder
	fmt.Fprintf(&b, "# Exchange Rates\n\n")
	fmt.Fprintln(&b, "| Currency | Rate |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, c := range currencies {
		fmt.Fprintf(&b, "| %s | %.4f |\n", c, t[c])
	}
	return b.String()
}
