package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/scheduler"
	"github.com/etnz/folio/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr     string
	schedule string
	timeout  time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio valuation over HTTP" }
func (*serveCmd) Usage() string {
	return `folio serve [-addr <host:port>] [-schedule <cron>]

  Runs the HTTP API and the Prometheus metrics, and refreshes the portfolio in the
  background. See 'folio topic server'.

`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", settings.Addr, "listen address")
	f.StringVar(&c.schedule, "schedule", settings.RefreshSchedule, "cron schedule of the background refresh")
	f.DurationVar(&c.timeout, "timeout", time.Minute, "maximum duration of a background refresh")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()
	keeper, client := newKeeper(log)
	keeper.Observe(metrics.ObserveRefresh)

	sched := scheduler.New(log)
	job := scheduler.NewRefreshJob(keeper, c.timeout)
	if err := sched.AddJob(c.schedule, job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", c.schedule, err)
		return subcommands.ExitUsageError
	}

	srv := server.New(server.Config{Addr: c.addr, Log: log, Keeper: keeper, Lookup: client})
	failed := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	sched.Start()
	go func() {
		if err := sched.RunNow(job); err != nil {
			log.Error().Err(err).Msg("initial refresh failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	status := subcommands.ExitSuccess
	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-failed:
		fmt.Fprintf(os.Stderr, "Error serving on %s: %v\n", c.addr, err)
		status = subcommands.ExitFailure
	}

	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	return status
}
