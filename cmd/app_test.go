package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

const testPortfolio = `{
  "groups": [{"id": "stocks", "currency": "USD"}],
  "positions": [
    {"name": "A", "ticker": "A.US", "group": "stocks", "target": 0.3, "amount": {"currency": "USD", "amount": 0}},
    {"name": "B", "ticker": "B.US", "group": "stocks", "target": 0.7}
  ]
}`

// useFiles writes the given files into a temporary directory and points the
// global settings to them. Empty contents leave the setting unset.
func useFiles(t *testing.T, portfolio, rates, quotes string) string {
	t.Helper()
	dir := t.TempDir()
	write := func(setting *string, name, content string) {
		t.Helper()
		old := *setting
		t.Cleanup(func() { *setting = old })
		*setting = ""
		if content == "" {
			return
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		*setting = path
	}
	write(portfolioFile, "portfolio.json", portfolio)
	write(ratesFile, "rates.json", rates)
	write(quotesFile, "quotes.json", quotes)
	old := *quotesExtension
	t.Cleanup(func() { *quotesExtension = old })
	*quotesExtension = ""
	for _, env := range []string{EnvPortfolioFile, EnvRatesFile, EnvQuotesFile, EnvQuotesExtension, EnvDefaultCurrency} {
		t.Setenv(env, "")
	}
	return dir
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestSetting(t *testing.T) {
	value := ""
	t.Setenv("PBAL_TEST_SETTING", "")
	if got := setting(&value, "PBAL_TEST_SETTING", "def"); got != "def" {
		t.Errorf("setting() = %q, want the default", got)
	}
	t.Setenv("PBAL_TEST_SETTING", "env")
	if got := setting(&value, "PBAL_TEST_SETTING", "def"); got != "env" {
		t.Errorf("setting() = %q, want the environment", got)
	}
	value = "flag"
	if got := setting(&value, "PBAL_TEST_SETTING", "def"); got != "flag" {
		t.Errorf("setting() = %q, want the flag", got)
	}
}

func TestDecodePortfolio_Quotes(t *testing.T) {
	useFiles(t, testPortfolio, "", `[
		{"ticker": "B.US", "currency": "USD", "value": 100},
		{"ticker": "B.US", "currency": "USD", "value": 50}
	]`)

	p, err := DecodePortfolio(context.Background())
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}
	holdings, err := p.Holdings()
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if want := rebalance.A(150, rebalance.USD); !holdings[1].Amount.Equal(want) {
		t.Errorf("B amount = %v, want %v", holdings[1].Amount, want)
	}
}

func TestDecodeRates_File(t *testing.T) {
	useFiles(t, "", `{"USD": 4.02, "EUR": 4.34}`, "")

	if _, err := DecodeRates(context.Background(), rebalance.USD, rebalance.EUR); err != nil {
		t.Errorf("DecodeRates() error = %v", err)
	}
	if _, err := DecodeRates(context.Background(), rebalance.GBP); err == nil {
		t.Error("DecodeRates(GBP) expected an error for a missing rate")
	}
}

func TestCurrencies(t *testing.T) {
	p := rebalance.NewPortfolio()
	if err := p.AddGroup(rebalance.Group{ID: "g", Currency: rebalance.CHF}); err != nil {
		t.Fatal(err)
	}
	if err := p.AddPosition(rebalance.NewPosition("X", "", "g", 1).Resolve(rebalance.A(1, rebalance.GBP))); err != nil {
		t.Fatal(err)
	}
	got := currencies(p, rebalance.USD, rebalance.Unknown, rebalance.USD)
	want := []rebalance.Currency{rebalance.USD, rebalance.CHF, rebalance.GBP}
	if !slices.Equal(got, want) {
		t.Errorf("currencies() = %v, want %v", got, want)
	}
}

func TestParseInvestment(t *testing.T) {
	testCases := []struct {
		input   string
		want    rebalance.Amount
		wantErr bool
	}{
		{input: "1000 USD", want: rebalance.A(1000, rebalance.USD)},
		{input: " -250.5  eur ", want: rebalance.A(-250.5, rebalance.EUR)},
		{input: "1000", wantErr: true},
		{input: "ten USD", wantErr: true},
		{input: "10 XYZ", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseInvestment(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseInvestment(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && !got.Equal(tc.want) {
				t.Errorf("parseInvestment(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestBalanceCmd(t *testing.T) {
	dir := useFiles(t, testPortfolio, `{"USD": 1, "EUR": 1.2}`, `[{"ticker": "B.US", "currency": "USD", "value": 0}]`)
	output := filepath.Join(dir, "plan.json")

	if got := run(t, &balanceCmd{}, "-o", output, "-c", "EUR", "1000", "USD"); got != subcommands.ExitSuccess {
		t.Fatalf("balance exit status = %v, want success", got)
	}
	plan, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("cannot read plan: %v", err)
	}
	for _, want := range []string{`"investment"`, `"name": "A"`, `"amount": 300`, `"amount": 700`} {
		if !strings.Contains(string(plan), want) {
			t.Errorf("plan is missing %q:\n%s", want, plan)
		}
	}
}

func TestBalanceCmd_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		quotes string
		args   []string
		want   subcommands.ExitStatus
	}{
		{name: "missing currency", args: []string{"1000"}, want: subcommands.ExitUsageError},
		{name: "invalid amount", args: []string{"ten", "USD"}, want: subcommands.ExitUsageError},
		{name: "unknown currency", args: []string{"10", "XYZ"}, want: subcommands.ExitUsageError},
		{name: "unresolved position", args: []string{"10", "USD"}, want: subcommands.ExitFailure},
		{name: "missing rate", quotes: `[{"ticker": "B.US", "currency": "USD", "value": 0}]`, args: []string{"10", "GBP"}, want: subcommands.ExitFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			useFiles(t, testPortfolio, `{"USD": 1}`, tc.quotes)
			if got := run(t, &balanceCmd{}, tc.args...); got != tc.want {
				t.Errorf("balance %v exit status = %v, want %v", tc.args, got, tc.want)
			}
		})
	}
}

func TestFillCmd(t *testing.T) {
	useFiles(t, testPortfolio, "", `[{"ticker": "B.US", "currency": "USD", "value": 42}]`)

	if got := run(t, &fillCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("fill exit status = %v, want success", got)
	}
	p, err := rebalance.LoadPortfolio(*portfolioFile)
	if err != nil {
		t.Fatalf("LoadPortfolio() error = %v", err)
	}
	a, err := p.Positions()[1].Amount()
	if err != nil || !a.Equal(rebalance.A(42, rebalance.USD)) {
		t.Errorf("B amount = %v, %v, want 42 USD", a, err)
	}
}

func TestFillCmd_NoQuotes(t *testing.T) {
	useFiles(t, testPortfolio, "", "")
	if got := run(t, &fillCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("fill exit status = %v, want usage error", got)
	}
}

func TestValueAndRatesCmd(t *testing.T) {
	useFiles(t, testPortfolio, `{"USD": 1, "EUR": 1.2}`, `[{"ticker": "B.US", "currency": "USD", "value": 10}]`)

	if got := run(t, &valueCmd{}, "-c", "EUR"); got != subcommands.ExitSuccess {
		t.Errorf("value exit status = %v, want success", got)
	}
	if got := run(t, &ratesCmd{}, "USD", "EUR"); got != subcommands.ExitSuccess {
		t.Errorf("rates exit status = %v, want success", got)
	}
	if got := run(t, &ratesCmd{}, "GBP"); got != subcommands.ExitFailure {
		t.Errorf("rates GBP exit status = %v, want failure", got)
	}
	if got := run(t, &topicCmd{}, "balancing"); got != subcommands.ExitSuccess {
		t.Errorf("topic exit status = %v, want success", got)
	}
}

func newTestCommander(f *flag.FlagSet) *subcommands.Commander {
	c := subcommands.NewCommander(f, "pbal")
	c.Output = &strings.Builder{}
	c.Error = &strings.Builder{}
	Register(c)
	return c
}
