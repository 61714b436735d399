package trading

import (
	"context"
	"log/slog"

	"apex_bot/internal/domain"

	"github.com/google/uuid"
)

// Engine runs the order pipeline: resolve rules, validate, build the wire
// request, submit once, classify the result. One synchronous attempt per
// call; validation failures never reach the gateway.
type Engine struct {
	gateway     domain.ExchangeGateway
	resolver    *RulesResolver
	recorder    domain.OrderRecorder // optional
	quoteSuffix string
	logger      *slog.Logger
}

// NewEngine wires the pipeline. recorder may be nil; quoteSuffix defaults
// to USDT when empty.
func NewEngine(gateway domain.ExchangeGateway, recorder domain.OrderRecorder, quoteSuffix string) *Engine {
	if quoteSuffix == "" {
		quoteSuffix = domain.DefaultQuoteSuffix
	}
	return &Engine{
		gateway:     gateway,
		resolver:    NewRulesResolver(gateway),
		recorder:    recorder,
		quoteSuffix: quoteSuffix,
		logger:      slog.Default().With("module", "engine"),
	}
}

// Rules exposes the resolver for front ends that want to show symbol
// constraints before collecting input.
func (e *Engine) Rules(ctx context.Context, symbol string) *domain.SymbolRules {
	return e.resolver.Resolve(ctx, symbol)
}

// PlaceOrder runs one atomic order attempt and always returns a terminal
// Outcome. It never panics and never retries.
func (e *Engine) PlaceOrder(ctx context.Context, req domain.OrderRequest) domain.Outcome {
	req = req.Normalize()

	rules := e.resolver.Resolve(ctx, req.Symbol)

	warnings, err := Validate(req, rules, e.quoteSuffix)
	if err != nil {
		e.logger.Warn("order rejected locally",
			slog.String("symbol", req.Symbol),
			slog.String("kind", req.Kind),
			slog.String("reason", err.Error()))
		return e.record(rejectValidation(req, err))
	}

	params := buildParams(req)
	e.logger.Info("[ORDER] submitting",
		slog.String("symbol", params.Symbol),
		slog.String("side", params.Side),
		slog.String("type", params.Type),
		slog.String("qty", params.Quantity),
		slog.String("price", params.Price),
		slog.String("stop", params.StopPrice))

	ack, err := e.gateway.CreateOrder(ctx, params)

	outcome := classifySubmission(req, ack, err)
	outcome.Warnings = warnings

	if outcome.OK() {
		e.logger.Info("order accepted",
			slog.String("order_id", outcome.Accepted.OrderID),
			slog.String("status", outcome.Accepted.Status))
	} else {
		e.logger.Error("order rejected by exchange",
			slog.String("symbol", req.Symbol),
			slog.String("reason", outcome.Reason()))
	}

	return e.record(outcome)
}

// record persists the attempt. Storage problems are logged, never fatal.
func (e *Engine) record(outcome domain.Outcome) domain.Outcome {
	if e.recorder == nil {
		return outcome
	}
	if err := e.recorder.RecordAttempt(&outcome); err != nil {
		e.logger.Warn("failed to record order attempt", slog.Any("error", err))
	}
	return outcome
}

// buildParams maps a validated request onto the exchange's order-type
// vocabulary. STOP_LIMIT rides the exchange's STOP_MARKET trigger type,
// carrying both the trigger and the limit price.
func buildParams(req domain.OrderRequest) domain.OrderParams {
	params := domain.OrderParams{
		Symbol:        req.Symbol,
		Side:          req.Side,
		Quantity:      req.Quantity.String(),
		ClientOrderID: "apex-" + uuid.NewString(),
	}

	switch req.Kind {
	case domain.KindLimit:
		params.Type = "LIMIT"
		params.Price = req.Price.String()
		params.TimeInForce = "GTC"
	case domain.KindStopLimit:
		params.Type = "STOP_MARKET"
		params.Price = req.Price.String()
		params.StopPrice = req.StopPrice.String()
		params.TimeInForce = "GTC"
	default:
		params.Type = "MARKET"
	}

	return params
}
