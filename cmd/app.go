// Package cmd implements the pbal command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/fx"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&balanceCmd{}, "planning")
	c.Register(&valueCmd{}, "planning")
	c.Register(&assistCmd{}, "planning")

	c.Register(&ratesCmd{}, "market data")
	c.Register(&fillCmd{}, "market data")

	c.Register(&topicCmd{}, "help")
}

// Environment variables supplying global settings, flags take precedence.
const (
	EnvPortfolioFile   = "PBAL_PORTFOLIO"
	EnvRatesFile       = "PBAL_RATES"
	EnvQuotesFile      = "PBAL_QUOTES"
	EnvQuotesExtension = "PBAL_QUOTES_EXT"
	EnvNBPURL          = "PBAL_NBP_URL"
	EnvDefaultCurrency = "PBAL_CURRENCY"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	portfolioFile   = flag.String("portfolio", "", "Path to the portfolio file (default \"portfolio.json\", env "+EnvPortfolioFile+")")
	ratesFile       = flag.String("rates", "", "Path to a static rates file, rates are fetched from NBP otherwise (env "+EnvRatesFile+")")
	quotesFile      = flag.String("quotes", "", "Path to a quotes file filling position amounts (env "+EnvQuotesFile+")")
	quotesExtension = flag.String("quotes-ext", "", "Name of a pbal-quotes-<name> extension printing quotes (env "+EnvQuotesExtension+")")
	nbpURL          = flag.String("nbp-url", "", "Base URL of the NBP rates API (env "+EnvNBPURL+")")
	defaultCurrency = flag.String("currency", "", "Default reporting currency (default \"EUR\", env "+EnvDefaultCurrency+")")
)

// setting returns the flag value, or the environment variable, or def.
func setting(value *string, env, def string) string {
	if *value != "" {
		return *value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func portfolioPath() string { return setting(portfolioFile, EnvPortfolioFile, "portfolio.json") }

// parseCurrency parses a currency code, unknown codes are errors.
func parseCurrency(code string) (rebalance.Currency, error) {
	c := rebalance.ParseCurrency(code)
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return c, nil
}

// reportingCurrency returns code, or the default reporting currency if code is empty.
func reportingCurrency(code string) (rebalance.Currency, error) {
	if code == "" {
		code = setting(defaultCurrency, EnvDefaultCurrency, "EUR")
	}
	return parseCurrency(code)
}

// quoteSource returns the configured market data, nil if none.
func quoteSource() rebalance.QuoteSource {
	if name := setting(quotesExtension, EnvQuotesExtension, ""); name != "" {
		return ExtensionQuotes{Name: name}
	}
	if path := setting(quotesFile, EnvQuotesFile, ""); path != "" {
		return rebalance.QuotesFile(path)
	}
	return nil
}

// DecodePortfolio loads the portfolio file and fills it from market data, if any.
func DecodePortfolio(ctx context.Context) (*rebalance.Portfolio, error) {
	p, err := rebalance.LoadPortfolio(portfolioPath())
	if err != nil {
		return nil, err
	}
	src := quoteSource()
	if src == nil {
		return p, nil
	}
	quotes, err := src.Quotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot get quotes: %w", err)
	}
	if err := p.Fill(quotes); err != nil {
		return nil, fmt.Errorf("cannot fill portfolio: %w", err)
	}
	return p, nil
}

// warnTargets logs a warning when targets do not sum to 1.
func warnTargets(p *rebalance.Portfolio) {
	if sum := p.TargetSum(); math.Abs(sum-1) > 1e-6 {
		log.Printf("warning: position targets sum to %.4f instead of 1", sum)
	}
}

// currencies lists the valid extra currencies, plus the ones used by a portfolio.
func currencies(p *rebalance.Portfolio, extra ...rebalance.Currency) []rebalance.Currency {
	var result []rebalance.Currency
	add := func(c rebalance.Currency) {
		if c.Validate() == nil && !slices.Contains(result, c) {
			result = append(result, c)
		}
	}
	for _, c := range extra {
		add(c)
	}
	for _, g := range p.Groups() {
		add(g.Currency)
	}
	for _, pos := range p.Positions() {
		if a, err := pos.Amount(); err == nil {
			add(a.Currency())
		}
	}
	return result
}

// DecodeRates returns the rates of currencies, from the static rates file if
// any, or fetched from NBP.
func DecodeRates(ctx context.Context, currencies ...rebalance.Currency) (rebalance.RateTable, error) {
	if path := setting(ratesFile, EnvRatesFile, ""); path != "" {
		table, err := fx.LoadRateTable(path)
		if err != nil {
			return nil, err
		}
		if err := table.Covers(currencies...); err != nil {
			return nil, fmt.Errorf("rates file %q: %w", path, err)
		}
		return table, nil
	}
	nbp := fx.NewNBP()
	nbp.BaseURL = setting(nbpURL, EnvNBPURL, fx.DefaultBaseURL)
	return nbp.Load(ctx, currencies...)
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
