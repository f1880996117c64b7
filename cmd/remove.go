package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove holdings" }
func (*removeCmd) Usage() string {
	return `folio remove <ticker>...

  Removes the holdings of the given tickers from the portfolio.

`
}

func (*removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}

	keeper, _ := newKeeper(newLogger())
	err := keeper.Update(func(p *folio.Portfolio) error {
		for _, ticker := range f.Args() {
			if !p.Remove(folio.NormalizeTicker(ticker)) {
				return fmt.Errorf("no holding of %s", folio.NormalizeTicker(ticker))
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %d holding(s)\n", f.NArg())
	return subcommands.ExitSuccess
}
