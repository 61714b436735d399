package domain

import "context"

// ExchangeGateway is what the order pipeline needs from the exchange:
// one order-placement call and one instrument-metadata lookup. The
// transport (signing, timeouts) lives behind this interface.
type ExchangeGateway interface {
	// CreateOrder performs exactly one order-placement attempt.
	// A failed attempt returns a *Fault.
	CreateOrder(ctx context.Context, params OrderParams) (*OrderAck, error)

	// SymbolRules fetches per-symbol constraints. Returns (nil, nil) when
	// the symbol is unknown or not trading; a lookup failure is an error
	// the caller is free to ignore.
	SymbolRules(ctx context.Context, symbol string) (*SymbolRules, error)
}

// OrderParams is the exchange-shaped order request produced by the
// builder. String-typed numerics: the wire wants exact decimal text.
type OrderParams struct {
	Symbol        string
	Side          string
	Type          string // exchange vocabulary: MARKET, LIMIT, STOP_MARKET
	Quantity      string
	Price         string // empty when not applicable
	StopPrice     string // empty when not applicable
	TimeInForce   string // "GTC" or empty
	ClientOrderID string
}

// OrderAck is the exchange's acknowledgement of a placed order.
type OrderAck struct {
	OrderID string
	Status  string
	Fields  map[string]string // echoed wire fields, verbatim
}

// OrderRecorder persists order attempts for later inspection. Recording
// is best-effort; a storage error never fails the order itself.
type OrderRecorder interface {
	RecordAttempt(outcome *Outcome) error
}
