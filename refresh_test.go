package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// staticSource serves the same raw JSON for every request.
type staticSource struct {
	raw   string
	err   error
	calls int
}

func (s *staticSource) Fetch(ctx context.Context, tickers []string) (*MarketData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return DecodeMarketData(tickers, strings.NewReader(s.raw))
}

// memStore is an in memory Store counting saves.
type memStore struct {
	mu    sync.Mutex
	p     *Portfolio
	saves int
	err   error
}

func (m *memStore) Load() (*Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.p.Clone(), nil
}

func (m *memStore) Save(p *Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.p = p.Clone()
	return nil
}

const keyedAAA = `{
	"AAA": {"Close": {"2024-06-03": 118, "2024-06-04": 120}},
	"BBB": {"Open": {"2024-06-04": 1}}
}`

func TestEngine_Refresh(t *testing.T) {
	p := portfolioOf(t, hold(t, "AAA", 10, 100, 110), hold(t, "BBB", 1, 50, 55))
	e := NewEngine(&staticSource{raw: keyedAAA}, zerolog.Nop())

	r, err := e.Refresh(context.Background(), p)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(r.Directives) != 1 || r.Directives[0].Ticker != "AAA" || !r.Directives[0].Price.Equal(EUR(120)) {
		t.Errorf("Directives = %v, want [AAA at 120]", r.Directives)
	}
	if !r.Snapshot.TotalValue.Equal(EUR(1255)) {
		t.Errorf("TotalValue = %v, want 1255", r.Snapshot.TotalValue.Decimal())
	}
	if !r.Degraded || r.FetchErr != nil {
		t.Errorf("Degraded, FetchErr = %v, %v, want true, nil", r.Degraded, r.FetchErr)
	}
	if r.History == nil || r.History.Len() != 2 {
		t.Errorf("History = %v, want 2 days", r.History.Days())
	}
	if r.Changed != 1 {
		t.Errorf("Changed = %d, want 1", r.Changed)
	}
	if h, _ := r.Portfolio.Get("AAA"); !h.LastKnownPrice.Equal(EUR(120)) {
		t.Errorf("updated AAA LastKnownPrice = %v, want 120", h.LastKnownPrice.Decimal())
	}
	if h, _ := p.Get("AAA"); !h.LastKnownPrice.Equal(EUR(110)) {
		t.Errorf("Refresh() modified its input: AAA LastKnownPrice = %v", h.LastKnownPrice.Decimal())
	}
}

func TestEngine_Refresh_SourceFailure(t *testing.T) {
	p := portfolioOf(t, hold(t, "AAA", 10, 100, 110), hold(t, "BBB", 1, 50, 55))
	e := NewEngine(&staticSource{err: errors.New("network down")}, zerolog.Nop())

	r, err := e.Refresh(context.Background(), p)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if r.FetchErr == nil || !r.Degraded {
		t.Errorf("FetchErr, Degraded = %v, %v, want an error and true", r.FetchErr, r.Degraded)
	}
	if len(r.Directives) != 0 {
		t.Errorf("Directives = %v, want none", r.Directives)
	}
	if !r.Snapshot.TotalValue.Equal(EUR(1155)) {
		t.Errorf("TotalValue = %v, want 1155", r.Snapshot.TotalValue.Decimal())
	}
	if r.History != nil {
		t.Errorf("History = %v, want unavailable", r.History.Days())
	}
}

func TestEngine_Refresh_Empty(t *testing.T) {
	src := &staticSource{raw: keyedAAA}
	e := NewEngine(src, zerolog.Nop())
	if _, err := e.Refresh(context.Background(), NewPortfolio("EUR")); !errors.Is(err, ErrEmptyPortfolio) {
		t.Errorf("Refresh(empty) error = %v, want %v", err, ErrEmptyPortfolio)
	}
	if src.calls != 0 {
		t.Errorf("Refresh(empty) fetched %d times, want 0", src.calls)
	}
}

func TestKeeper_Refresh(t *testing.T) {
	store := &memStore{p: portfolioOf(t, hold(t, "AAA", 10, 100, 110), hold(t, "BBB", 1, 50, 55))}
	k := NewKeeper(NewEngine(&staticSource{raw: keyedAAA}, zerolog.Nop()), store, zerolog.Nop())

	var observed int
	k.Observe(func(*Report, error) { observed++ })

	if _, err := k.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves after first cycle = %d, want 1", store.saves)
	}
	// the same prices again: nothing to persist
	if _, err := k.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves after second cycle = %d, want 1", store.saves)
	}
	if observed != 2 {
		t.Errorf("observed %d cycles, want 2", observed)
	}
	if k.Last() == nil {
		t.Errorf("Last() = nil, want the last report")
	}
}

func TestKeeper_Refresh_SaveFailure(t *testing.T) {
	store := &memStore{p: portfolioOf(t, hold(t, "AAA", 10, 100, 110)), err: errors.New("disk full")}
	k := NewKeeper(NewEngine(&staticSource{raw: keyedAAA}, zerolog.Nop()), store, zerolog.Nop())

	r, err := k.Refresh(context.Background())
	if err == nil {
		t.Fatalf("Refresh() error = nil, want the save error")
	}
	if r == nil || r.Snapshot == nil {
		t.Fatalf("Refresh() report = nil, want the valuation despite the save error")
	}
	if h, _ := store.p.Get("AAA"); !h.LastKnownPrice.Equal(EUR(110)) {
		t.Errorf("stored AAA LastKnownPrice = %v, want unchanged 110", h.LastKnownPrice.Decimal())
	}
}

func TestKeeper_Update(t *testing.T) {
	store := &memStore{p: NewPortfolio("EUR")}
	k := NewKeeper(NewEngine(&staticSource{raw: keyedAAA}, zerolog.Nop()), store, zerolog.Nop())

	if err := k.Update(func(p *Portfolio) error { return p.Put(hold(t, "AAA", 1, 1, 1)) }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !store.p.Has("AAA") {
		t.Errorf("Update() did not save the new holding")
	}

	failed := errors.New("rejected")
	if err := k.Update(func(p *Portfolio) error { p.Remove("AAA"); return failed }); !errors.Is(err, failed) {
		t.Errorf("Update() error = %v, want %v", err, failed)
	}
	if !store.p.Has("AAA") || store.saves != 1 {
		t.Errorf("a failed Update() was saved")
	}
}

func TestKeeper_ConcurrentRefresh(t *testing.T) {
	const n = 20
	store := &memStore{p: portfolioOf(t, hold(t, "AAA", 10, 100, 110))}
	k := NewKeeper(NewEngine(&staticSource{raw: keyedAAA}, zerolog.Nop()), store, zerolog.Nop())

	var cycles int // observers run under the keeper lock
	k.Observe(func(*Report, error) { cycles++ })

	added := make([]Holding, n)
	for i := range added {
		added[i] = hold(t, fmt.Sprintf("T%02d", i), 1, 10, 10)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := range n {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := k.Refresh(context.Background()); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if err := k.Update(func(p *Portfolio) error { return p.Put(added[i]) }); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent call error = %v", err)
	}

	p, err := k.Portfolio()
	if err != nil {
		t.Fatalf("Portfolio() error = %v", err)
	}
	if p.Len() != n+1 {
		t.Errorf("stored portfolio has %d holdings, want %d", p.Len(), n+1)
	}
	for _, h := range added {
		if !p.Has(h.Ticker) {
			t.Errorf("stored portfolio lost %s", h.Ticker)
		}
	}
	if h, _ := p.Get("AAA"); !h.LastKnownPrice.Equal(EUR(120)) {
		t.Errorf("stored AAA LastKnownPrice = %v, want 120", h.LastKnownPrice.Decimal())
	}
	// one save per edit, and a single one for the only price change
	if store.saves != n+1 {
		t.Errorf("saves = %d, want %d", store.saves, n+1)
	}
	if cycles != n {
		t.Errorf("observed %d cycles, want %d", cycles, n)
	}
}
