// Command folio values a portfolio of stock holdings against daily closing prices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion, see
// https://github.com/posener/complete: `COMP_INSTALL=1 folio` installs it.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"add": {Flags: map[string]complete.Predictor{
			"price": predict.Something,
			"date":  predict.Something,
			"name":  predict.Something,
		}},
		"remove":  {},
		"list":    {},
		"summary": {Flags: map[string]complete.Predictor{"brief": predict.Nothing, "no-allocation": predict.Nothing}},
		"history": {},
		"fetch":   {Flags: map[string]complete.Predictor{"n": predict.Something}},
		"serve": {Flags: map[string]complete.Predictor{
			"addr":     predict.Something,
			"schedule": predict.Something,
			"timeout":  predict.Something,
		}},
		"assist": {Flags: map[string]complete.Predictor{"model": predict.Something}},
		"topic":  {Args: predict.Set{"valuation", "portfolio-file", "market-data", "configuration", "server"}},
		"help":   {},
	},
	Flags: map[string]complete.Predictor{
		"portfolio": predict.Files("*.json"),
		"currency":  predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"},
		"cache-ttl": predict.Something,
		"window":    predict.Set{"1mo", "3mo", "6mo", "1y", "2y", "5y"},
		"log-level": predict.Set{"debug", "info", "warn", "error"},
		"v":         predict.Nothing,
	},
}

func main() {
	completion.Complete("folio")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	commander := subcommands.NewCommander(flag.CommandLine, "folio")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander, cfg)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
