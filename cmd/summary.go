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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	brief        bool
	noAllocation bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "value the portfolio against the latest prices" }
func (*summaryCmd) Usage() string {
	return `folio summary [-brief] [-no-allocation]

  Downloads the latest prices and displays the net worth, the gains and losses,
  and the allocation of the portfolio.

  Holdings without a live price are valued at their last known price, and listed.

`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.brief, "brief", false, "do not display the holdings table")
	f.BoolVar(&c.noAllocation, "no-allocation", false, "do not display the allocation")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	opts := renderer.SummaryRenderOptions{SkipDetails: c.brief, SkipAllocation: c.noAllocation}
	printMarkdown(renderer.RenderSummary(renderer.NewSummary(report), opts))
	return subcommands.ExitSuccess
}
