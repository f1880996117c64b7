// Package folio values a personal portfolio of listed assets against live
// market prices.
//
// A Portfolio maps tickers to Holdings (quantity and acquisition terms). Each
// refresh cycle turns raw, loosely shaped market data into clean price series
// (Normalize), values every holding with a stale-price fallback (Value),
// reconciles last-known prices (Reconcile), and aggregates the rows into a
// Snapshot and a total value history (Aggregate, ValueHistory).
//
// The valuation core is pure: it never fetches, caches, or persists anything by
// itself. Engine wires it to a market data Source, CachedSource bounds the
// number of fetches, and Keeper serializes refresh cycles of a portfolio and
// persists the resulting batch of price updates with a single write.
package folio
