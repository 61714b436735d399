package domain

import "github.com/shopspring/decimal"

// SymbolRules holds the per-symbol trading constraints published by the
// exchange. Fetched lazily, cached by symbol, immutable once cached.
// Absence of rules degrades validation to static checks only.
type SymbolRules struct {
	Symbol      string          `json:"symbol"`
	MinQty      decimal.Decimal `json:"min_qty"`
	StepSize    decimal.Decimal `json:"step_size"`
	MinNotional decimal.Decimal `json:"min_notional"`
}

// AlignsToStep reports whether qty is an exact multiple of the step size.
// Decimal arithmetic keeps this exact; no float tolerance games.
func (r *SymbolRules) AlignsToStep(qty decimal.Decimal) bool {
	if r.StepSize.IsZero() {
		return true
	}
	return qty.Mod(r.StepSize).IsZero()
}
