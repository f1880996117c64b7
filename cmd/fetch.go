package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	days int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "display the downloaded closing prices" }
func (*fetchCmd) Usage() string {
	return `folio fetch [-n <days>] [<ticker>...]

  Downloads the closing prices of the given tickers, or of every holding, and displays
  the last valid closes as used for valuation.

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "n", 5, "number of closes to display per ticker")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()
	tickers := f.Args()
	if len(tickers) == 0 {
		keeper, _ := newKeeper(log)
		p, err := keeper.Portfolio()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
		tickers = p.Tickers()
	}
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no ticker to fetch.")
		f.Usage()
		return subcommands.ExitUsageError
	}

	md, err := newYahoo(log).Fetch(ctx, tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Closing Prices\n\nData shape: %s\n", md.Shape())
	for _, ticker := range tickers {
		ticker = folio.NormalizeTicker(ticker)
		fmt.Fprintf(&b, "\n## %s\n\n", ticker)
		series, ok := folio.Normalize(md, ticker)
		if !ok {
			b.WriteString("No valid close.\n")
			continue
		}
		b.WriteString("| Date | Close |\n|:---|---:|\n")
		days := series.Days()
		if len(days) > c.days {
			days = days[len(days)-c.days:]
		}
		for _, day := range days {
			price, _ := series.Get(day)
			fmt.Fprintf(&b, "| %s | %.4f |\n", day, price)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
