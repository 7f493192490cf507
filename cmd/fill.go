package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type fillCmd struct{}

func (*fillCmd) Name() string     { return "fill" }
func (*fillCmd) Synopsis() string { return "write position amounts from market data into the portfolio file" }
func (*fillCmd) Usage() string {
	return `pbal -quotes <file> fill
pbal -quotes-ext <name> fill

  Resolves position amounts from market data and saves them into the
  portfolio file.
`
}

func (c *fillCmd) SetFlags(f *flag.FlagSet) {}

func (c *fillCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if quoteSource() == nil {
		fmt.Fprintln(os.Stderr, "fill requires market data, use -quotes or -quotes-ext")
		return subcommands.ExitUsageError
	}
	p, err := DecodePortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	path := portfolioPath()
	if err := rebalance.SavePortfolio(path, p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	resolved := 0
	for _, pos := range p.Positions() {
		if pos.IsResolved() {
			resolved++
		}
	}
	fmt.Printf("%d of %d positions resolved in %s\n", resolved, len(p.Positions()), path)
	return subcommands.ExitSuccess
}
