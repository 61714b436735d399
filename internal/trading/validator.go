package trading

import (
	"fmt"
	"strings"

	"apex_bot/internal/domain"
)

// Validate checks a candidate order against the static business rules and,
// when rules are available, the exchange's per-symbol constraints.
//
// It is a pure function. The returned error is the first violated rule
// (a *domain.ValidationError); warnings are advisory findings the caller
// may surface or ignore. rules == nil skips the dynamic checks entirely.
func Validate(req domain.OrderRequest, rules *domain.SymbolRules, quoteSuffix string) ([]string, error) {
	if quoteSuffix == "" {
		quoteSuffix = domain.DefaultQuoteSuffix
	}

	// Static checks, exchange-independent. Order matters only for which
	// single reason is reported: first failing check wins.
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return nil, domain.NewValidationError("side", "side must be BUY or SELL")
	}

	switch req.Kind {
	case domain.KindMarket, domain.KindLimit, domain.KindStopLimit:
	default:
		return nil, domain.NewValidationError("kind", "order type must be MARKET, LIMIT, or STOP_LIMIT")
	}

	if !req.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "quantity must be positive")
	}
	if req.NeedsPrice() && !req.Price.IsPositive() {
		return nil, domain.NewValidationError("price", fmt.Sprintf("price must be positive for %s orders", req.Kind))
	}
	if req.NeedsStopPrice() && !req.StopPrice.IsPositive() {
		return nil, domain.NewValidationError("stop_price", "stop_price must be positive for STOP_LIMIT orders")
	}

	if !strings.HasSuffix(req.Symbol, quoteSuffix) || len(req.Symbol) <= len(quoteSuffix) {
		return nil, domain.NewValidationError("symbol",
			fmt.Sprintf("only %s-margined futures are supported (symbol must end with %q)", quoteSuffix, quoteSuffix))
	}

	if req.Kind == domain.KindStopLimit {
		// Stop must sit on the trigger side of the limit. Equal is invalid.
		if req.Side == domain.SideSell && !req.StopPrice.GreaterThan(req.Price) {
			return nil, domain.NewValidationError("stop_price", "for SELL, stop_price must be greater than price")
		}
		if req.Side == domain.SideBuy && !req.StopPrice.LessThan(req.Price) {
			return nil, domain.NewValidationError("stop_price", "for BUY, stop_price must be less than price")
		}
	}

	if rules == nil {
		return nil, nil
	}

	// Dynamic checks against the exchange's published constraints.
	if req.Quantity.LessThan(rules.MinQty) {
		return nil, domain.NewValidationError("quantity",
			fmt.Sprintf("quantity %s is below the minimum %s for %s", req.Quantity, rules.MinQty, req.Symbol))
	}
	if !rules.AlignsToStep(req.Quantity) {
		return nil, domain.NewValidationError("quantity",
			fmt.Sprintf("quantity %s must be a multiple of step size %s for %s", req.Quantity, rules.StepSize, req.Symbol))
	}

	// Below-minimum notional is leniently accepted by the exchange in some
	// cases, so it only warns. The caller decides whether to proceed.
	var warnings []string
	if notional := req.EstimatedNotional(); notional.LessThan(rules.MinNotional) {
		warnings = append(warnings, fmt.Sprintf(
			"order value (%s %s) is below the exchange minimum of %s",
			notional, quoteSuffix, rules.MinNotional))
	}

	return warnings, nil
}
