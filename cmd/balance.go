package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	output   string
	timeout  time.Duration
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "compute how to spread an investment across positions" }
func (*balanceCmd) Usage() string {
	return `pbal balance [-o <file>] [-timeout <duration>] [-c <currency>] <amount> <currency>

  Computes the cash to add to each position so that the portfolio moves toward
  its targets. A negative amount is a withdrawal.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "save the plan as JSON into this file")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "maximum duration of the computation")
	f.StringVar(&c.currency, "c", "", "reporting currency for totals, the investment currency by default")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "balance requires an amount and a currency")
		return subcommands.ExitUsageError
	}
	value, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}
	cur, err := parseCurrency(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	investment, err := rebalance.NewAmount(cur, value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	reporting := cur
	if c.currency != "" {
		if reporting, err = parseCurrency(c.currency); err != nil {
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

	holdings, err := p.Holdings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rates, err := DecodeRates(ctx, currencies(p, cur, reporting)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	cr, err := rebalance.BalanceContext(ctx, holdings, rates, investment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error balancing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	md, err := renderer.ChangeMarkdown(cr, reporting)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering plan: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)

	if c.output != "" {
		if err := savePlan(c.output, cr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Plan saved to %s\n", c.output)
	}
	return subcommands.ExitSuccess
}

func savePlan(path string, cr *rebalance.ChangeRequest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create plan file %q: %w", path, err)
	}
	if err := rebalance.EncodeChangeRequest(f, cr); err != nil {
		f.Close()
		return fmt.Errorf("could not write plan file %q: %w", path, err)
	}
	return f.Close()
}
