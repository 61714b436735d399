package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	KindMarket    = "MARKET"
	KindLimit     = "LIMIT"
	KindStopLimit = "STOP_LIMIT"

	// DefaultQuoteSuffix is the quote asset every supported pair must be
	// margined in. USDT-M futures only.
	DefaultQuoteSuffix = "USDT"
)

// OrderRequest is the caller's intent for a single order placement.
// Quantity is always required; Price for LIMIT/STOP_LIMIT; StopPrice
// for STOP_LIMIT only. Treated as immutable once validated.
type OrderRequest struct {
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"` // "BUY", "SELL"
	Kind      string          `json:"kind"` // "MARKET", "LIMIT", "STOP_LIMIT"
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price,omitempty"`
	StopPrice decimal.Decimal `json:"stop_price,omitempty"`
}

// Normalize uppercases and trims the free-text fields so the rest of the
// pipeline sees canonical form regardless of how the user typed them.
func (r OrderRequest) Normalize() OrderRequest {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.Side = strings.ToUpper(strings.TrimSpace(r.Side))
	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
	return r
}

// NeedsPrice reports whether the order kind requires a limit price.
func (r OrderRequest) NeedsPrice() bool {
	return r.Kind == KindLimit || r.Kind == KindStopLimit
}

// NeedsStopPrice reports whether the order kind requires a trigger price.
func (r OrderRequest) NeedsStopPrice() bool {
	return r.Kind == KindStopLimit
}

// EstimatedNotional returns the monetary size of the order: qty*price,
// or qty*1 for MARKET where the fill price is unknown up front.
func (r OrderRequest) EstimatedNotional() decimal.Decimal {
	if r.Kind == KindMarket || r.Price.IsZero() {
		return r.Quantity
	}
	return r.Quantity.Mul(r.Price)
}
