package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct{}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display exchange rates" }
func (*ratesCmd) Usage() string {
	return `pbal rates [<currency>...]

  Displays the exchange rates in use, from the rates file or fetched from NBP.
  All supported currencies are fetched when none is given.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var wanted []rebalance.Currency
	for _, code := range f.Args() {
		cur, err := parseCurrency(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		wanted = append(wanted, cur)
	}

	table, err := DecodeRates(ctx, wanted...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RatesMarkdown(table))
	return subcommands.ExitSuccess
}
