package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/etnz/folio"
)

// Refresher is the part of folio.Keeper a RefreshJob needs.
type Refresher interface {
	Refresh(ctx context.Context) (*folio.Report, error)
}

// RefreshJob revalues the portfolio, keeping the last known prices and metrics current.
type RefreshJob struct {
	keeper  Refresher
	timeout time.Duration
}

// NewRefreshJob returns a job refreshing keeper, each run bounded by timeout.
func NewRefreshJob(keeper Refresher, timeout time.Duration) *RefreshJob {
	return &RefreshJob{keeper: keeper, timeout: timeout}
}

// Name implements Job.
func (j *RefreshJob) Name() string { return "refresh" }

// Run implements Job. An empty portfolio is not a failure.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, err := j.keeper.Refresh(ctx)
	if errors.Is(err, folio.ErrEmptyPortfolio) {
		return nil
	}
	return err
}
