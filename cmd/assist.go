package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd starts a chat with the AI assistant about the portfolio and a plan.
type assistCmd struct {
	invest   string
	currency string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `pbal assist [-i "<amount> <currency>"] [-c <currency>] [<prompt>...]

  Starts an interactive session with the AI assistant. With -i, the assistant
  reviews the plan computed for this investment.
  Requires GEMINI_API_KEY or GOOGLE_API_KEY to be set.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.invest, "i", "", "investment to plan, like \"1000 USD\"")
	f.StringVar(&c.currency, "c", "", "reporting currency, the default currency if empty")
}

// parseInvestment parses "<amount> <currency>".
func parseInvestment(s string) (rebalance.Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return rebalance.Amount{}, fmt.Errorf("invalid investment %q, want \"<amount> <currency>\"", s)
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return rebalance.Amount{}, fmt.Errorf("invalid investment amount %q: %w", fields[0], err)
	}
	cur, err := parseCurrency(fields[1])
	if err != nil {
		return rebalance.Amount{}, err
	}
	return rebalance.NewAmount(cur, value)
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reporting, err := reportingCurrency(c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var investment rebalance.Amount
	if c.invest != "" {
		if investment, err = parseInvestment(c.invest); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	p, err := DecodePortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	warnTargets(p)
	rates, err := DecodeRates(ctx, currencies(p, reporting, investment.Currency())...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}

	ws := &agent.Workspace{Portfolio: p, Rates: rates, Reporting: reporting}
	if c.invest != "" {
		if ws.Plan, err = p.Balance(rates, investment); err != nil {
			fmt.Fprintf(os.Stderr, "Error balancing portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, agent.NewPlanner(ws), agent.NewAnalyst())
	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
