// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/logger"
	"github.com/etnz/folio/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	settings      *config.Config
	portfolioFile *string
	currency      *string
	cacheTTL      *time.Duration
	window        *string
	logLevel      *string
	verbose       *bool
)

// Register declares the global flags, with defaults from cfg, and the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, cfg *config.Config) {
	settings = cfg
	portfolioFile = flag.String("portfolio", cfg.PortfolioFile, "Path to the portfolio file")
	currency = flag.String("currency", cfg.Currency, "Reporting currency of the portfolio")
	cacheTTL = flag.Duration("cache-ttl", cfg.CacheTTL, "How long downloaded prices are reused, 0 disables caching")
	window = flag.String("window", cfg.Window, "Price history downloaded on refresh (Yahoo range: 1mo, 6mo, 1y...)")
	logLevel = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	verbose = flag.Bool("v", false, "Verbose output, same as -log-level=debug")

	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")
	c.Register(&listCmd{}, "portfolio")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&fetchCmd{}, "reports")

	c.Register(&serveCmd{}, "service")
	c.Register(&assistCmd{}, "service")

	c.Register(&topicCmd{}, "help")
}

// newLogger returns the logger of the application, on stderr.
func newLogger() zerolog.Logger {
	level := *logLevel
	if *verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Pretty: true})
}

// newYahoo returns the market data client, caching its responses on disk.
func newYahoo(log zerolog.Logger) *yahoo.Client {
	return yahoo.New(yahoo.Config{
		Window:   *window,
		CacheDir: settings.CacheDir(),
		CacheTTL: *cacheTTL,
	}, log)
}

// newKeeper returns the keeper of the portfolio file, refreshing prices from Yahoo.
func newKeeper(log zerolog.Logger) (*folio.Keeper, *yahoo.Client) {
	client := newYahoo(log)
	var source folio.Source = client
	if *cacheTTL > 0 {
		source = folio.NewCachedSource(client, 16, *cacheTTL)
	}
	store := folio.NewFileStore(*portfolioFile, *currency, log)
	return folio.NewKeeper(folio.NewEngine(source, log), store, log), client
}

// renderMarkdown formats md for the terminal, md is returned as is if it cannot be.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// refresh runs a refresh cycle. A failure to save the last known prices is reported but
// the valuation is still returned.
func refresh(ctx context.Context, keeper *folio.Keeper) (*folio.Report, error) {
	report, err := keeper.Refresh(ctx)
	if err != nil && report != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return report, nil
	}
	return report, err
}
