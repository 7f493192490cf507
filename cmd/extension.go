package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// extensionEnv returns the environment of an extension: the current one plus
// the global settings.
func extensionEnv() []string {
	path := portfolioPath()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	env := os.Environ()
	env = append(env, EnvPortfolioFile+"="+path)
	env = append(env, EnvRatesFile+"="+setting(ratesFile, EnvRatesFile, ""))
	env = append(env, EnvQuotesFile+"="+setting(quotesFile, EnvQuotesFile, ""))
	env = append(env, EnvDefaultCurrency+"="+setting(defaultCurrency, EnvDefaultCurrency, "EUR"))
	return env
}

// RunExtension attempts to find and execute an external pbal-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(ctx context.Context, subcommand string, args []string) (bool, int) {
	name := "pbal-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		log.Printf("external command %q not found in PATH: %v", name, err)
		return false, 0
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// Execute runs the subcommand selected on the command line. Unknown
// subcommands are looked up as pbal-<subcommand> extensions.
func Execute(ctx context.Context, c *subcommands.Commander, f *flag.FlagSet) int {
	if f.NArg() > 0 && !isRegistered(c, f.Arg(0)) {
		if found, code := RunExtension(ctx, f.Arg(0), f.Args()[1:]); found {
			return code
		}
	}
	return int(c.Execute(ctx))
}

func isRegistered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// ExtensionQuotes is a QuoteSource running a pbal-quotes-<Name> binary.
// The binary receives the global settings in its environment and prints a
// quotes JSON array on its standard output, typically fetched from a broker.
type ExtensionQuotes struct {
	Name string
}

func (e ExtensionQuotes) Quotes(ctx context.Context) ([]rebalance.Quote, error) {
	name := "pbal-quotes-" + e.Name
	lp, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("quotes extension %q not found: %w", name, err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, lp)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = extensionEnv()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("quotes extension %q failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	quotes, err := rebalance.DecodeQuotes(&stdout)
	if err != nil {
		return nil, fmt.Errorf("quotes extension %q: %w", name, err)
	}
	log.Printf("quotes extension %q returned %d quotes", name, len(quotes))
	return quotes, nil
}
