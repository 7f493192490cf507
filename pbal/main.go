// Command pbal computes how to spread a new investment across a portfolio.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/cmd"
	"github.com/etnz/rebalance/docs"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Settings and API keys can be supplied in a .env file.
	_ = godotenv.Load()

	completion().Complete("pbal")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Execute(ctx, commander, flag.CommandLine)
	stop()
	os.Exit(code)
}

// completion describes pbal for shell completion.
func completion() *complete.Command {
	var codes predict.Set
	for _, c := range rebalance.Currencies() {
		codes = append(codes, c.String())
	}
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio":  predict.Files("*.json"),
			"rates":      predict.Files("*.json"),
			"quotes":     predict.Files("*.json"),
			"quotes-ext": predict.Something,
			"nbp-url":    predict.Something,
			"currency":   codes,
		},
		Sub: map[string]*complete.Command{
			"balance": {
				Flags: map[string]complete.Predictor{
					"o":       predict.Files("*.json"),
					"timeout": predict.Something,
					"c":       codes,
				},
				Args: codes,
			},
			"value": {Flags: map[string]complete.Predictor{"c": codes}},
			"assist": {
				Flags: map[string]complete.Predictor{
					"i": predict.Something,
					"c": codes,
				},
			},
			"rates": {Args: codes},
			"fill":  {},
			"topic": {Args: predict.Set(topics)},
			"help":  {},
		},
	}
}
