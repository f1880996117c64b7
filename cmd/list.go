package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the stored holdings" }
func (*listCmd) Usage() string {
	return `folio list

  Lists the holdings as stored in the portfolio file, without downloading prices.

`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	keeper, _ := newKeeper(newLogger())
	p, err := keeper.Portfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.IsEmpty() {
		printMarkdown(renderer.RenderEmpty())
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderHoldings(renderer.NewHoldings(p)))
	return subcommands.ExitSuccess
}
