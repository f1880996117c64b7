package folio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
)

// Source downloads raw market data for a set of tickers.
type Source interface {
	Fetch(ctx context.Context, tickers []string) (*MarketData, error)
}

// Report is the outcome of one refresh cycle.
type Report struct {
	Snapshot   *Snapshot
	History    *date.History[float64] // nil when no holding has a usable series
	Series     map[string]*date.History[float64]
	Directives []UpdateDirective
	Portfolio  *Portfolio // with Directives applied
	Changed    int        // number of holdings changed by Directives
	Degraded   bool       // at least one holding was not valued from live data
	FetchErr   error      // the market data download error, if any
	FetchedAt  time.Time
	Elapsed    time.Duration
}

// Engine runs refresh cycles: fetch, normalize, value, aggregate and reconcile.
type Engine struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewEngine returns an Engine downloading from source.
func NewEngine(source Source, log zerolog.Logger) *Engine {
	return &Engine{
		source: source,
		log:    log.With().Str("component", "engine").Logger(),
		now:    time.Now,
	}
}

// Refresh values p against freshly downloaded market data.
//
// A failed download is not an error: the cycle runs in degraded mode, every holding being
// valued at its last known price. p is not modified, the updated portfolio is in the
// Report. Refresh returns ErrEmptyPortfolio if p has no holding.
func (e *Engine) Refresh(ctx context.Context, p *Portfolio) (*Report, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPortfolio
	}
	start := e.now()
	report := &Report{FetchedAt: start, Series: make(map[string]*date.History[float64])}

	md, err := e.source.Fetch(ctx, p.Tickers())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.log.Warn().Err(err).Int("holdings", p.Len()).Msg("market data unavailable, using last known prices")
		report.FetchErr = err
		md = nil
	}

	rows := make([]ValuationRow, 0, p.Len())
	for h := range p.Holdings() {
		series, ok := Normalize(md, h.Ticker)
		if ok {
			report.Series[h.Ticker] = series
		} else if md != nil {
			e.log.Debug().Str("ticker", h.Ticker).Str("shape", md.Shape().String()).Msg("no price series")
		}
		row, d, updated := Value(h, series)
		rows = append(rows, row)
		if updated {
			report.Directives = append(report.Directives, d)
		}
	}

	if report.Snapshot, err = Aggregate(rows); err != nil {
		return nil, err
	}
	report.History, err = ValueHistory(p, report.Series)
	if err != nil && !errors.Is(err, ErrHistoryUnavailable) {
		return nil, err
	}
	report.Degraded = len(report.Snapshot.Stale()) > 0
	report.Portfolio, report.Changed = p.Apply(report.Directives)
	report.Elapsed = e.now().Sub(start)

	e.log.Info().
		Int("holdings", p.Len()).
		Int("live", p.Len()-len(report.Snapshot.Stale())).
		Int("updates", report.Changed).
		Bool("degraded", report.Degraded).
		Dur("elapsed", report.Elapsed).
		Msg("portfolio refreshed")
	return report, nil
}

// Store persists a portfolio.
type Store interface {
	Load() (*Portfolio, error)
	Save(p *Portfolio) error
}

// Keeper owns the persisted portfolio: it serializes refresh cycles and edits so that
// only one of them reads and writes the store at a time.
type Keeper struct {
	mu        sync.Mutex
	engine    *Engine
	store     Store
	log       zerolog.Logger
	last      *Report
	observers []func(*Report, error)
}

// NewKeeper returns a Keeper refreshing the portfolio in store with engine.
func NewKeeper(engine *Engine, store Store, log zerolog.Logger) *Keeper {
	return &Keeper{
		engine: engine,
		store:  store,
		log:    log.With().Str("component", "keeper").Logger(),
	}
}

// Observe registers fn to be called after every refresh cycle, with its outcome.
func (k *Keeper) Observe(fn func(*Report, error)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.observers = append(k.observers, fn)
}

// Refresh runs one refresh cycle on the stored portfolio.
//
// The update directives of the cycle are persisted as a single batch, with a single
// Save, and only if at least one holding changed.
func (k *Keeper) Refresh(ctx context.Context) (*Report, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	report, err := k.refresh(ctx)
	for _, fn := range k.observers {
		fn(report, err)
	}
	return report, err
}

func (k *Keeper) refresh(ctx context.Context) (*Report, error) {
	p, err := k.store.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load portfolio: %w", err)
	}
	report, err := k.engine.Refresh(ctx, p)
	if err != nil {
		if errors.Is(err, ErrEmptyPortfolio) {
			k.last = nil
		}
		return nil, err
	}
	if report.Changed > 0 {
		if err := k.store.Save(report.Portfolio); err != nil {
			// The valuation is still correct, only the fallback prices are not persisted.
			k.log.Error().Err(err).Int("updates", report.Changed).Msg("cannot save last known prices")
			k.last = report
			return report, fmt.Errorf("cannot save portfolio: %w", err)
		}
		k.log.Debug().Int("updates", report.Changed).Msg("last known prices saved")
	}
	k.last = report
	return report, nil
}

// Last returns the report of the last successful cycle, or nil.
func (k *Keeper) Last() *Report {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}

// Portfolio returns the stored portfolio.
func (k *Keeper) Portfolio() (*Portfolio, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.store.Load()
}

// Update loads the stored portfolio, applies edit and saves the result.
//
// Nothing is saved if edit returns an error.
func (k *Keeper) Update(edit func(*Portfolio) error) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	p, err := k.store.Load()
	if err != nil {
		return fmt.Errorf("cannot load portfolio: %w", err)
	}
	p = p.Clone()
	if err := edit(p); err != nil {
		return err
	}
	if err := k.store.Save(p); err != nil {
		return fmt.Errorf("cannot save portfolio: %w", err)
	}
	k.last = nil
	return nil
}
