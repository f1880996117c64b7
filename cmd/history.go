package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	months int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over time" }
func (*historyCmd) Usage() string {
	return `folio [-window <range>] history [-months <n>]

  Displays the value of the portfolio, week by week, over the downloaded window or
  its last months.

`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 0, "number of trailing months to display, 0 for the whole window")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	keeper, _ := newKeeper(newLogger())
	report, err := refresh(ctx, keeper)
	if errors.Is(err, folio.ErrEmptyPortfolio) {
		printMarkdown(renderer.RenderEmpty())
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderHistory(renderer.NewHistory(folio.Trailing(report.History, c.months), report.Snapshot.Currency())))
	return subcommands.ExitSuccess
}
