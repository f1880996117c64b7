package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	price string
	date  string
	name  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding or replace an existing one" }
func (*addCmd) Usage() string {
	return `folio add [-price <price>] [-date <YYYY-MM-DD>] [-name <name>] <ticker> <quantity>

  Adds a holding to the portfolio, replacing the holding of the same ticker if any.

  The name defaults to the name of the security, and the acquisition price to its
  first close on or after the acquisition date.

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "acquisition price per share, looked up when missing")
	f.StringVar(&c.date, "date", "", "acquisition date, today when missing")
	f.StringVar(&c.name, "name", "", "display name, looked up when missing")
}

// acquisition parses the command line into an Acquisition.
func (c *addCmd) acquisition(args []string) (folio.Acquisition, error) {
	if len(args) != 2 {
		return folio.Acquisition{}, fmt.Errorf("expecting a ticker and a quantity, got %d arguments", len(args))
	}
	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return folio.Acquisition{}, fmt.Errorf("invalid quantity %q: %w", args[1], err)
	}
	a := folio.Acquisition{Ticker: args[0], Quantity: folio.Q(qty), Name: c.name}
	if c.price != "" {
		price, err := decimal.NewFromString(c.price)
		if err != nil {
			return folio.Acquisition{}, fmt.Errorf("invalid price %q: %w", c.price, err)
		}
		if !price.IsPositive() {
			return folio.Acquisition{}, fmt.Errorf("invalid price %q: must be positive", c.price)
		}
		a.Price = folio.M(price, *currency)
	}
	if c.date != "" {
		if a.Date, err = date.Parse(c.date); err != nil {
			return folio.Acquisition{}, fmt.Errorf("invalid date %q: %w", c.date, err)
		}
	}
	return a, nil
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.acquisition(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	log := newLogger()
	keeper, client := newKeeper(log)
	var added folio.Holding
	err = keeper.Update(func(p *folio.Portfolio) error {
		h, err := a.Resolve(ctx, client, p.Currency())
		if err != nil {
			return err
		}
		added = h
		return p.Put(h)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding %s: %v\n", a.Ticker, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s (%s): %s shares at %s on %s\n", added.Ticker, added.Name, added.Quantity, added.AcquisitionPrice, added.AcquisitionDate)
	return subcommands.ExitSuccess
}
