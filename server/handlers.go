package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Handlers provides HTTP handlers for the portfolio endpoints
type Handlers struct {
	keeper *folio.Keeper
	lookup folio.Lookup
	log    zerolog.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(keeper *folio.Keeper, lookup folio.Lookup, log zerolog.Logger) *Handlers {
	return &Handlers{
		keeper: keeper,
		lookup: lookup,
		log:    log.With().Str("component", "handlers").Logger(),
	}
}

// RegisterRoutes registers all portfolio routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/snapshot", h.GetSnapshot)
	r.Post("/refresh", h.Refresh)
	r.Get("/history", h.GetHistory)
	r.Route("/holdings", func(r chi.Router) {
		r.Get("/", h.ListHoldings)
		r.Put("/{ticker}", h.PutHolding)
		r.Delete("/{ticker}", h.DeleteHolding)
	})
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, folio.ErrEmptyPortfolio):
		status = http.StatusNotFound
	case errors.Is(err, folio.ErrInvalidHolding), errors.Is(err, folio.ErrCurrencyMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, folio.ErrPriceNotFound):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// report returns the last report, refreshing when there is none or when forced.
func (h *Handlers) report(r *http.Request, force bool) (*folio.Report, error) {
	if !force {
		if last := h.keeper.Last(); last != nil {
			return last, nil
		}
	}
	report, err := h.keeper.Refresh(r.Context())
	if report != nil {
		// a save failure is logged by the keeper, the valuation is still good
		return report, nil
	}
	return nil, err
}

// SnapshotResponse is the valuation of the portfolio.
type SnapshotResponse struct {
	*folio.Snapshot
	Allocation map[string]folio.Percent `json:"allocation"` // share of the net worth per ticker
	Degraded   bool                     `json:"degraded"`
	FetchedAt  string                   `json:"fetchedAt"`
}

func newSnapshotResponse(r *folio.Report) SnapshotResponse {
	resp := SnapshotResponse{
		Snapshot:   r.Snapshot,
		Allocation: make(map[string]folio.Percent, len(r.Snapshot.Rows)),
		Degraded:   r.Degraded,
		FetchedAt:  r.FetchedAt.UTC().Format(time.RFC3339),
	}
	for _, row := range r.Snapshot.Rows {
		resp.Allocation[row.Ticker] = r.Snapshot.Allocation(row.Ticker)
	}
	return resp
}

// GetSnapshot returns the valuation of the portfolio, computed by the last refresh.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	report, err := h.report(r, r.URL.Query().Get("refresh") == "true")
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(report))
}

// Refresh revalues the portfolio against fresh market data.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.report(r, true)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(report))
}

// HistoryPoint is the total value of the portfolio on a day.
type HistoryPoint struct {
	Date  date.Date `json:"date"`
	Value float64   `json:"value"`
}

// HistoryResponse is the value of the portfolio over time.
type HistoryResponse struct {
	Available bool           `json:"available"`
	Currency  string         `json:"currency"`
	Points    []HistoryPoint `json:"points"`
}

// GetHistory returns the value of the portfolio over time, limited to the trailing
// months given in the query.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	var months int
	if m := r.URL.Query().Get("months"); m != "" {
		var err error
		if months, err = strconv.Atoi(m); err != nil || months < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid months " + strconv.Quote(m)})
			return
		}
	}
	report, err := h.report(r, false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	history := folio.Trailing(report.History, months)
	resp := HistoryResponse{
		Available: history != nil,
		Currency:  report.Snapshot.Currency(),
		Points:    make([]HistoryPoint, 0, history.Len()),
	}
	for on, v := range history.Values() {
		resp.Points = append(resp.Points, HistoryPoint{Date: on, Value: v})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HoldingResponse is a stored holding.
type HoldingResponse struct {
	Ticker           string         `json:"ticker"`
	Name             string         `json:"name"`
	Quantity         folio.Quantity `json:"quantity"`
	AcquisitionPrice folio.Money    `json:"acquisitionPrice"`
	AcquisitionDate  date.Date      `json:"acquisitionDate"`
	LastKnownPrice   folio.Money    `json:"lastKnownPrice"`
}

func newHoldingResponse(h folio.Holding) HoldingResponse {
	return HoldingResponse{
		Ticker:           h.Ticker,
		Name:             h.Name,
		Quantity:         h.Quantity,
		AcquisitionPrice: h.AcquisitionPrice,
		AcquisitionDate:  h.AcquisitionDate,
		LastKnownPrice:   h.LastKnownPrice,
	}
}

// ListHoldings returns the stored holdings in portfolio order.
func (h *Handlers) ListHoldings(w http.ResponseWriter, r *http.Request) {
	p, err := h.keeper.Portfolio()
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := make([]HoldingResponse, 0, p.Len())
	for hold := range p.Holdings() {
		resp = append(resp, newHoldingResponse(hold))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutHoldingRequest adds or updates a holding. Price and name are looked up when missing.
type PutHoldingRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Date     *date.Date       `json:"date,omitempty"`
	Name     string           `json:"name,omitempty"`
}

// PutHolding adds or updates the holding of the ticker in the path.
func (h *Handlers) PutHolding(w http.ResponseWriter, r *http.Request) {
	var req PutHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	var resolved folio.Holding
	err := h.keeper.Update(func(p *folio.Portfolio) error {
		a := folio.Acquisition{
			Ticker:   chi.URLParam(r, "ticker"),
			Quantity: folio.Q(req.Quantity),
			Name:     req.Name,
		}
		if req.Price != nil {
			a.Price = folio.M(*req.Price, p.Currency())
		}
		if req.Date != nil {
			a.Date = *req.Date
		}
		var err error
		if resolved, err = a.Resolve(r.Context(), h.lookup, p.Currency()); err != nil {
			return err
		}
		return p.Put(resolved)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Info().Str("ticker", resolved.Ticker).Msg("holding saved")
	writeJSON(w, http.StatusOK, newHoldingResponse(resolved))
}

var errNoHolding = errors.New("no such holding")

// DeleteHolding removes the holding of the ticker in the path.
func (h *Handlers) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	ticker := folio.NormalizeTicker(chi.URLParam(r, "ticker"))
	err := h.keeper.Update(func(p *folio.Portfolio) error {
		if !p.Remove(ticker) {
			return errNoHolding
		}
		return nil
	})
	if errors.Is(err, errNoHolding) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no holding for " + ticker})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Info().Str("ticker", ticker).Msg("holding removed")
	w.WriteHeader(http.StatusNoContent)
}
