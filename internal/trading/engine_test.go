package trading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"apex_bot/internal/domain"
)

// fakeGateway scripts the exchange's behavior for pipeline tests.
type fakeGateway struct {
	rules     *domain.SymbolRules
	rulesErr  error
	ack       *domain.OrderAck
	orderErr  error
	created   []domain.OrderParams
	rulesHits int
}

func (g *fakeGateway) CreateOrder(_ context.Context, params domain.OrderParams) (*domain.OrderAck, error) {
	g.created = append(g.created, params)
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return g.ack, nil
}

func (g *fakeGateway) SymbolRules(_ context.Context, _ string) (*domain.SymbolRules, error) {
	g.rulesHits++
	return g.rules, g.rulesErr
}

func marketReq() domain.OrderRequest {
	return domain.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     domain.SideBuy,
		Kind:     domain.KindMarket,
		Quantity: dec("0.01"),
	}
}

func TestEngine_InvalidSideNeverSubmits(t *testing.T) {
	gw := &fakeGateway{}
	engine := NewEngine(gw, nil, "")

	req := marketReq()
	req.Side = "HOLD"
	outcome := engine.PlaceOrder(context.Background(), req)

	if outcome.OK() {
		t.Fatal("expected rejection")
	}
	if outcome.Rejected.Stage != domain.StageValidation {
		t.Errorf("stage = %s, want validation", outcome.Rejected.Stage)
	}
	if len(gw.created) != 0 {
		t.Error("invalid order must never reach the exchange")
	}
}

func TestEngine_AcceptedOutcome(t *testing.T) {
	gw := &fakeGateway{
		rules: btcRules(),
		ack: &domain.OrderAck{
			OrderID: "123456",
			Status:  "NEW",
			Fields:  map[string]string{"origQty": "0.01"},
		},
	}
	engine := NewEngine(gw, nil, "")

	outcome := engine.PlaceOrder(context.Background(), marketReq())

	if !outcome.OK() {
		t.Fatalf("expected accepted, got: %s", outcome.Reason())
	}
	if outcome.Accepted.OrderID != "123456" || outcome.Accepted.Status != "NEW" {
		t.Errorf("ack not carried verbatim: %+v", outcome.Accepted)
	}
	if len(gw.created) != 1 {
		t.Fatalf("expected exactly one submission, got %d", len(gw.created))
	}
}

func TestEngine_AuthFaultClassified(t *testing.T) {
	gw := &fakeGateway{
		orderErr: domain.NewFault(domain.FaultAuth, "API-key format invalid", nil),
	}
	engine := NewEngine(gw, nil, "")

	outcome := engine.PlaceOrder(context.Background(), marketReq())

	if outcome.OK() {
		t.Fatal("expected rejection")
	}
	if outcome.Rejected.Stage != domain.StageSubmission {
		t.Errorf("stage = %s, want submission", outcome.Rejected.Stage)
	}
	if !strings.Contains(outcome.Reason(), "auth") {
		t.Errorf("reason %q should name the auth category", outcome.Reason())
	}
}

func TestEngine_FaultCategories(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{domain.FaultAuth, "auth"},
		{domain.FaultPermission, "permission"},
		{domain.FaultRateLimit, "rate_limit"},
		{domain.FaultMalformed, "malformed_request"},
		{domain.FaultNetwork, "network"},
		{domain.FaultUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			gw := &fakeGateway{orderErr: domain.NewFault(tt.category, "boom", nil)}
			outcome := NewEngine(gw, nil, "").PlaceOrder(context.Background(), marketReq())

			if outcome.OK() {
				t.Fatal("expected rejection")
			}
			if !strings.Contains(outcome.Reason(), tt.want) {
				t.Errorf("reason %q should contain %q", outcome.Reason(), tt.want)
			}
		})
	}
}

func TestEngine_UnclassifiedErrorStillTerminal(t *testing.T) {
	gw := &fakeGateway{orderErr: errors.New("something odd")}
	outcome := NewEngine(gw, nil, "").PlaceOrder(context.Background(), marketReq())

	if outcome.OK() {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(outcome.Reason(), "unknown") {
		t.Errorf("unclassified errors fall into unknown, got %q", outcome.Reason())
	}
}

func TestEngine_RulesMissDegradesToStatic(t *testing.T) {
	// Metadata failure must not block the order.
	gw := &fakeGateway{
		rulesErr: errors.New("exchangeInfo timeout"),
		ack:      &domain.OrderAck{OrderID: "1", Status: "NEW"},
	}
	outcome := NewEngine(gw, nil, "").PlaceOrder(context.Background(), marketReq())

	if !outcome.OK() {
		t.Fatalf("expected accepted despite rules miss, got: %s", outcome.Reason())
	}
}

func TestEngine_WarningsCarriedOnAccept(t *testing.T) {
	gw := &fakeGateway{
		rules: btcRules(),
		ack:   &domain.OrderAck{OrderID: "9", Status: "NEW"},
	}
	req := marketReq()
	req.Quantity = dec("0.001") // notional 0.001 < min 5 -> warning

	outcome := NewEngine(gw, nil, "").PlaceOrder(context.Background(), req)

	if !outcome.OK() {
		t.Fatalf("expected accepted, got: %s", outcome.Reason())
	}
	if len(outcome.Warnings) != 1 {
		t.Errorf("expected the min-notional warning, got %v", outcome.Warnings)
	}
}

func TestEngine_NormalizesInput(t *testing.T) {
	gw := &fakeGateway{ack: &domain.OrderAck{OrderID: "1", Status: "NEW"}}
	engine := NewEngine(gw, nil, "")

	outcome := engine.PlaceOrder(context.Background(), domain.OrderRequest{
		Symbol:   " btcusdt ",
		Side:     "buy",
		Kind:     "market",
		Quantity: dec("0.01"),
	})

	if !outcome.OK() {
		t.Fatalf("expected accepted, got: %s", outcome.Reason())
	}
	if gw.created[0].Symbol != "BTCUSDT" || gw.created[0].Side != "BUY" {
		t.Errorf("input not normalized: %+v", gw.created[0])
	}
}

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name string
		req  domain.OrderRequest
		want domain.OrderParams
	}{
		{
			name: "market",
			req:  domain.OrderRequest{Symbol: "BTCUSDT", Side: "BUY", Kind: "MARKET", Quantity: dec("0.01")},
			want: domain.OrderParams{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET", Quantity: "0.01"},
		},
		{
			name: "limit",
			req: domain.OrderRequest{
				Symbol: "ETHUSDT", Side: "SELL", Kind: "LIMIT",
				Quantity: dec("0.5"), Price: dec("2000"),
			},
			want: domain.OrderParams{
				Symbol: "ETHUSDT", Side: "SELL", Type: "LIMIT",
				Quantity: "0.5", Price: "2000", TimeInForce: "GTC",
			},
		},
		{
			name: "stop limit maps to STOP_MARKET",
			req: domain.OrderRequest{
				Symbol: "BTCUSDT", Side: "SELL", Kind: "STOP_LIMIT",
				Quantity: dec("0.01"), Price: dec("50000"), StopPrice: dec("51000"),
			},
			want: domain.OrderParams{
				Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_MARKET",
				Quantity: "0.01", Price: "50000", StopPrice: "51000", TimeInForce: "GTC",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildParams(tt.req)
			if got.ClientOrderID == "" {
				t.Error("client order id must be set")
			}
			got.ClientOrderID = ""
			if got != tt.want {
				t.Errorf("buildParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
